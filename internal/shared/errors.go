package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("already exists")
	// ErrInvalidRange indicates an unusable date range.
	ErrInvalidRange = errors.New("invalid date range")
	// ErrInvalidPeriods indicates contradictory half-day period flags.
	ErrInvalidPeriods = errors.New("contradictory period flags")
	// ErrUnauthenticated indicates a request without a logged-in user.
	ErrUnauthenticated = errors.New("authentication required")
)
