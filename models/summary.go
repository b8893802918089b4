package models

// DeckCount is one row of an event summary breakdown.
type DeckCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// EventSummary aggregates deck usage for one event. Total counts every
// submission; Decks only counts submissions whose deck still resolves
// to a name.
type EventSummary struct {
	Total int         `json:"total"`
	Decks []DeckCount `json:"decks"`
}
