package session

import (
	"time"

	"github.com/google/uuid"
)

// UserRef is the authenticated user cached in a session. It is a lookup
// result, not ownership: the session only remembers who logged in.
type UserRef struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// Session represents server-side session state correlated to a client via an
// opaque token delivered in a cookie.
type Session struct {
	ID             uuid.UUID `json:"id"`
	Token          string    `json:"token"`
	User           *UserRef  `json:"user,omitempty"`
	ExpiresAt      time.Time `json:"expires_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewSession creates a new session with the given token and TTL. A nil user
// produces an anonymous session.
func NewSession(token string, user *UserRef, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:             uuid.New(),
		Token:          token,
		User:           user,
		ExpiresAt:      now.Add(ttl),
		LastActivityAt: now,
		CreatedAt:      now,
	}
}

// IsAuthenticated returns true if the session carries a user reference.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.User != nil
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}

// Touch updates the last activity time.
func (s *Session) Touch() {
	if s == nil {
		return
	}
	s.LastActivityAt = time.Now()
}
