package service

import "errors"

// User-facing error taxonomy. Everything here is an expected, recoverable
// condition; store faults other than the anticipated uniqueness violation
// propagate as-is and must surface as a generic failure, never mapped onto
// one of these.
var (
	ErrMissingFields = errors.New("all fields are required")
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is deliberately the same for an unknown email
	// and a wrong password so callers cannot probe which emails exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrKeyInvalid   = errors.New("invitation key invalid or inactive")
	ErrKeyExpired   = errors.New("invitation key expired")
	ErrKeyExhausted = errors.New("invitation key exhausted")

	ErrInvalidIssueRequest = errors.New("invalid key issue request")
)
