package anaf

import "errors"

// Error kinds at the ANAF API boundary. They are deliberately separate from
// efactura.ErrValidation: a rejected upload is an API outcome, not an invalid
// invoice input.
var (
	// ErrAuthentication covers missing/expired tokens and 401/403 responses.
	ErrAuthentication = errors.New("anaf: authentication failed")
	// ErrNotFound covers 404 responses and lookups of unknown identifiers.
	ErrNotFound = errors.New("anaf: not found")
	// ErrAPI covers every other unexpected response from the service.
	ErrAPI = errors.New("anaf: api request failed")
)
