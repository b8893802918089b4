package models

import "time"

// Submission records which deck a player used at an event. At most one
// row exists per (event_id, player_id); a resubmission overwrites
// deck_id and created_at instead of adding history.
type Submission struct {
	ID        int       `json:"id" db:"id"`
	EventID   int       `json:"event_id" db:"event_id"`
	PlayerID  int       `json:"player_id" db:"player_id"`
	DeckID    int       `json:"deck_id" db:"deck_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Optional linked data, populated by joins for admin listings.
	PlayerName string `json:"player,omitempty" db:"-"`
	DeckName   string `json:"deck,omitempty" db:"-"`
}

// SubmissionEntry is the joined row shape served to the admin entries
// listing.
type SubmissionEntry struct {
	ID        int       `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Player    string    `json:"player"`
	Deck      string    `json:"deck"`
}
