package service

import "errors"

var (
	// ErrValidation marks a request that is well-formed but not acceptable
	ErrValidation = errors.New("validation failed")
	// ErrInvalidWebhook marks a webhook that failed verification or parsing
	ErrInvalidWebhook = errors.New("invalid webhook")
)
