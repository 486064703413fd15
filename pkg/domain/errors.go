package domain

import "errors"

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")
	// ErrValidation is returned when input validation fails.
	ErrValidation = errors.New("validation error")
	// ErrInvalidState is returned when an operation is not legal in the
	// entity's current lifecycle state.
	ErrInvalidState = errors.New("invalid state")
)
