package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrymomot/blogd/pkg/cookie"
)

// Manager handles session operations
type Manager struct {
	store         Store
	transport     Transport
	config        Config
	cookieManager *cookie.Manager
	cookieOptions []cookie.Option
}

// New creates a new session manager with the given options
func New(opts ...Option) *Manager {
	m := &Manager{
		config: DefaultConfig(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.store == nil {
		m.store = NewMemoryStore(m.config.CleanupInterval)
	}

	if m.transport == nil {
		if m.cookieManager == nil {
			// Fail fast on misconfiguration to prevent insecure runtime behavior
			panic("session: cookie manager is required when using default cookie transport")
		}
		m.transport = NewCookieTransport(m.cookieManager, m.config.CookieName, m.config.SecureCookies, m.cookieOptions...)
	}

	return m
}

// Get retrieves an existing, unexpired session for the request. A missing or
// tampered cookie yields ErrSessionNotFound; an expired record yields
// ErrSessionExpired; anything else is a store failure.
func (m *Manager) Get(ctx context.Context, r *http.Request) (*Session, error) {
	token, err := m.transport.GetToken(r)
	if err != nil {
		return nil, err
	}

	session, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	return session, nil
}

// Ensure resolves the request to a session, creating a fresh anonymous one
// when the cookie is absent, unknown or expired. It returns an error only for
// store failures: an unreachable backend must surface as an error response,
// never as a silent anonymous session.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	session, err := m.Get(ctx, r)
	switch {
	case err == nil:
		if time.Since(session.LastActivityAt) >= m.config.TouchThreshold {
			if err := m.refresh(ctx, w, session); err != nil {
				return nil, err
			}
		}
		return session, nil
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionExpired):
		_ = m.transport.ClearToken(w)
	default:
		return nil, err
	}

	session, err = m.createSession(ctx, nil)
	if err != nil {
		return nil, err
	}

	idle, _ := m.config.GetTimeouts(false)
	if err := m.transport.SetToken(w, session.Token, idle); err != nil {
		_ = m.store.Delete(ctx, session.Token)
		return nil, err
	}

	return session, nil
}

// Authenticate upgrades the current session to an authenticated one bound to
// user. The token is rotated so a pre-login cookie can never be replayed into
// an authenticated session. Repeated logins simply overwrite the user ref.
func (m *Manager) Authenticate(ctx context.Context, w http.ResponseWriter, r *http.Request, user UserRef) error {
	session, err := m.Get(ctx, r)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrSessionExpired) {
			return err
		}
		session, err = m.createSession(ctx, &user)
		if err != nil {
			return err
		}
	} else {
		newToken, err := generateToken()
		if err != nil {
			return err
		}

		_ = m.store.Delete(ctx, session.Token)

		session.Token = newToken
		session.User = &user
		idle, max := m.config.GetTimeouts(true)
		session.ExpiresAt = m.calculateExpiry(session.CreatedAt, time.Now(), idle, max)
		session.Touch()

		if err := m.store.Create(ctx, session); err != nil {
			return err
		}
	}

	idle, _ := m.config.GetTimeouts(true)
	return m.transport.SetToken(w, session.Token, idle)
}

// Destroy deletes the session record and clears the client cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	token, err := m.transport.GetToken(r)
	if err == nil && token != "" {
		if err := m.store.Delete(ctx, token); err != nil {
			return err
		}
	}

	return m.transport.ClearToken(w)
}

// refresh slides the session expiry forward and re-delivers the cookie so the
// idle timeout stays in sync on both sides.
func (m *Manager) refresh(ctx context.Context, w http.ResponseWriter, session *Session) error {
	idle, max := m.config.GetTimeouts(session.IsAuthenticated())
	session.ExpiresAt = m.calculateExpiry(session.CreatedAt, time.Now(), idle, max)
	session.Touch()

	if err := m.store.Update(ctx, session); err != nil {
		return err
	}

	return m.transport.SetToken(w, session.Token, idle)
}

// createSession creates and persists a new session
func (m *Manager) createSession(ctx context.Context, user *UserRef) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	idle, max := m.config.GetTimeouts(user != nil)
	now := time.Now()

	session := NewSession(token, user, m.calculateExpiry(now, now, idle, max).Sub(now))

	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// calculateExpiry returns the next expiry time (min of idle and max lifetime)
func (m *Manager) calculateExpiry(createdAt, now time.Time, idle, max time.Duration) time.Time {
	idleExpiry := now.Add(idle)
	maxExpiry := createdAt.Add(max)

	if maxExpiry.Before(idleExpiry) {
		return maxExpiry
	}
	return idleExpiry
}

// generateToken creates a cryptographically secure token
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
