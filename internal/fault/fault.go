// Package fault declares the error taxonomy shared by the resource services.
// Services wrap these sentinels with context; the transport layer maps each
// sentinel to an HTTP status.
package fault

import "errors"

var (
	// ErrInvalidInput marks a missing or malformed request field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a reference to an absent record.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a duplicate value for a unique field.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized marks a credential mismatch.
	ErrUnauthorized = errors.New("unauthorized")
)
