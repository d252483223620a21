package domain

import "errors"

// Error kinds surfaced to the transport layer.
var (
	// ErrNotFound: a referenced record does not resolve, or the caller may not see it.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest: a semantic rule was violated.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrConflict: a uniqueness constraint was violated.
	ErrConflict = errors.New("conflict")
)
