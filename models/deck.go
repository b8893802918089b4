package models

// Deck is a closed reference entity; submissions may only point at
// decks that already exist.
type Deck struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
