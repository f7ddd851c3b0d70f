package domain

import "errors"

var (
	// ErrNotFound is returned when no record matches the lookup key
	ErrNotFound = errors.New("record not found")
	// ErrInvalidStatus is returned for a status outside pending/completed/failed
	ErrInvalidStatus = errors.New("invalid transaction status")
	// ErrMissingRequiredField marks an event lacking tenant, user or amount
	ErrMissingRequiredField = errors.New("missing required field")
)
