// Package common defines shared constants and sentinel errors used across
// EchoVerse components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("invalid credentials")

	// Input errors raised at entry creation and registration.
	ErrorValidation     = errors.New("validation error")
	ErrorDuplicateEmail = errors.New("email already exists")

	// Mutation attempted on an entry that is still locked.
	ErrorLocked = errors.New("entry is locked")

	// Audio collaborator errors.
	ErrorPermission = errors.New("microphone permission denied")
	ErrorTooLarge   = errors.New("audio too large")
	ErrorWrongType  = errors.New("not an audio file")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
