package session

import "errors"

var (
	// ErrInvalidSession indicates a malformed or incomplete session record
	ErrInvalidSession = errors.New("session.invalid")

	// ErrSessionExpired indicates the session has expired
	ErrSessionExpired = errors.New("session.expired")

	// ErrSessionNotFound indicates no session was found
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrTokenGeneration indicates token generation failed
	ErrTokenGeneration = errors.New("session.token_generation_failed")

	// ErrStoreUnavailable indicates the session backend could not be reached.
	// Requests must fail with it rather than proceed unauthenticated.
	ErrStoreUnavailable = errors.New("session.store_unavailable")
)
