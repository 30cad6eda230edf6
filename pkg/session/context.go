package session

import "context"

type sessionContextKey struct{}

// WithSession adds a session to the context
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// FromContext retrieves a session from the context
func FromContext(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionContextKey{}).(*Session)
	return session, ok
}

// UserFromContext retrieves the authenticated user ref from the session in
// context. The second return is false for anonymous sessions.
func UserFromContext(ctx context.Context) (UserRef, bool) {
	session, ok := FromContext(ctx)
	if !ok || !session.IsAuthenticated() {
		return UserRef{}, false
	}
	return *session.User, true
}
