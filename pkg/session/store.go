package session

import "context"

// Store defines the interface for session persistence.
//
// Concurrent writes to the same token are last-write-wins; no compare-and-set
// is performed. Implementations must be safe for concurrent use and must
// distinguish "record absent" (ErrSessionNotFound) from infrastructure
// failures (ErrStoreUnavailable), because the two map to very different
// HTTP responses.
type Store interface {
	// Create stores a new session
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by token
	Get(ctx context.Context, token string) (*Session, error)

	// Update replaces an existing session
	Update(ctx context.Context, session *Session) error

	// Delete removes a session by token
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes all expired sessions
	DeleteExpired(ctx context.Context) error
}
