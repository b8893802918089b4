package models

import "time"

// ValidationRoster marks an event as Restricted. Its absence means the
// event is Open and accepts any resolvable player.
type ValidationRoster struct {
	EventID     int       `json:"event_id" db:"event_id"`
	SourceLabel string    `json:"source_label" db:"source_label"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ValidationStatus is the admin-facing view of an event's gate.
type ValidationStatus struct {
	Enabled        bool       `json:"enabled"`
	Count          int        `json:"count"`
	SourceFilename *string    `json:"source_filename,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}
