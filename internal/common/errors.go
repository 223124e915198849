// Package common defines shared constants and sentinel errors used across
// the transport, service and repository layers. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Configuration errors. Fatal at startup.
	ErrMissingSigningSecret = errors.New("signing secret is not configured")

	// Access gate errors.
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrForbidden          = errors.New("forbidden")

	// Handler ran without a verified subject attached.
	ErrUnauthenticated = errors.New("unauthenticated")

	// Account errors.
	ErrAccountDisabled = errors.New("account disabled")

	// Reaction errors.
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidPolarity = errors.New("invalid polarity")

	// The reaction changed while the toggle was in flight. Safe to retry.
	ErrReactionConflict = errors.New("reaction changed concurrently, try again")
)
