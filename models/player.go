package models

// Player is the stable identity assigned to a participant name.
// Names are unique case-insensitively; the stored casing is whichever
// variant was seen first.
type Player struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
