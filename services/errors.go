package services

import "errors"

// Shared errors used across services and the HTTP mapping layer.
var (
	// Validation and business-rule errors
	ErrEventNameRequired  = errors.New("event name is required")
	ErrPlayerNameRequired = errors.New("player name is required")
	ErrDeckNameRequired   = errors.New("deck name is required")
	ErrRosterEmpty        = errors.New("roster contains no usable names")

	// Not-found errors
	ErrEventNotFound      = errors.New("event not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrDeckNotFound       = errors.New("deck not found")
	ErrSubmissionNotFound = errors.New("no information on player deck yet")
	ErrRosterNotFound     = errors.New("no validation roster for this event")

	// Conflict errors
	ErrPlayerNameConflict = errors.New("player name is already in use")
	ErrPlayerInUse        = errors.New("player still has recorded submissions")

	// Authorization errors
	ErrPlayerNotAllowed     = errors.New("player is not on the validation list for this event")
	ErrInvalidAdminPassword = errors.New("invalid admin password")
	ErrInvalidAdminToken    = errors.New("invalid or expired admin token")
	ErrAuthNotConfigured    = errors.New("admin authentication is not configured")
)
