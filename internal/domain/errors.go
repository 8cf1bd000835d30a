package domain

import "errors"

// Domain errors (no external dependencies). Handlers map these to HTTP
// status codes.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)
