package profile

import "errors"

var (
	// ErrNotFound is returned when a profile or connection record is absent.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a connection already exists for a pair.
	ErrConflict = errors.New("conflict")
	// ErrInvalidTransition is returned when a connection cannot move to the requested state.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrSelfConnection is returned when a profile tries to connect with itself.
	ErrSelfConnection = errors.New("cannot connect with yourself")
)
