package usecase

import "errors"

// Error taxonomy shared by the services and translated to HTTP status
// codes at the handler layer.
var (
	// ErrNotFound covers absent notes, notes owned by someone else and
	// notes in the wrong lifecycle state for the requested transition.
	// Ownership misses deliberately report not-found, never forbidden.
	ErrNotFound = errors.New("note not found")

	// ErrConflict is returned when an update carries a stale base version.
	ErrConflict = errors.New("note was modified concurrently")

	// ErrValidation covers malformed input rejected before the store.
	ErrValidation = errors.New("invalid input")
)
