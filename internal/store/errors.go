package store

import "errors"

// Domain errors surfaced to the API layer. Everything else is a wrapped
// internal error.
var (
	// ErrNotFound means a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock means a reservation asked for more than is
	// available.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidState means a lifecycle transition was attempted from the
	// wrong state (e.g. redeeming an already collected record).
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation means the caller supplied malformed or out-of-range
	// input.
	ErrValidation = errors.New("validation failed")
)
