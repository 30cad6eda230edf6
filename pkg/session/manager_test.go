package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogd/pkg/cookie"
	"github.com/dmitrymomot/blogd/pkg/session"
)

const testSecret = "test-secret-key-must-be-32-chars!"

// failingStore simulates an unreachable backend.
type failingStore struct{}

func (failingStore) Create(context.Context, *session.Session) error {
	return errors.Join(session.ErrStoreUnavailable, errors.New("connection refused"))
}

func (failingStore) Get(context.Context, string) (*session.Session, error) {
	return nil, errors.Join(session.ErrStoreUnavailable, errors.New("connection refused"))
}

func (failingStore) Update(context.Context, *session.Session) error {
	return errors.Join(session.ErrStoreUnavailable, errors.New("connection refused"))
}

func (failingStore) Delete(context.Context, string) error {
	return errors.Join(session.ErrStoreUnavailable, errors.New("connection refused"))
}

func (failingStore) DeleteExpired(context.Context) error { return nil }

func newManager(t *testing.T, opts ...session.Option) *session.Manager {
	t.Helper()

	cm, err := cookie.New([]string{testSecret})
	require.NoError(t, err)

	return session.New(append([]session.Option{session.WithCookieManager(cm)}, opts...)...)
}

func cookieFrom(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == "sid" {
			return c
		}
	}
	return nil
}

func TestEnsure(t *testing.T) {
	t.Parallel()

	t.Run("creates anonymous session for new client", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		sess, err := m.Ensure(context.Background(), rr, req)
		require.NoError(t, err)
		require.NotNil(t, sess)

		assert.False(t, sess.IsAuthenticated())
		assert.False(t, sess.IsExpired())
		assert.NotEmpty(t, sess.Token)

		c := cookieFrom(rr)
		require.NotNil(t, c)
		assert.True(t, c.HttpOnly)
		assert.Positive(t, c.MaxAge)
	})

	t.Run("returns existing session for known cookie", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)

		rr := httptest.NewRecorder()
		first, err := m.Ensure(context.Background(), rr, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookieFrom(rr))

		second, err := m.Ensure(context.Background(), httptest.NewRecorder(), req)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, first.Token, second.Token)
	})

	t.Run("replaces expired session with fresh anonymous one", func(t *testing.T) {
		t.Parallel()

		m := newManager(t, session.WithIdleTimeout(time.Nanosecond, time.Nanosecond))

		rr := httptest.NewRecorder()
		first, err := m.Ensure(context.Background(), rr, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookieFrom(rr))

		second, err := m.Ensure(context.Background(), httptest.NewRecorder(), req)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
		assert.False(t, second.IsAuthenticated())
	})

	t.Run("slides expiry after touch threshold", func(t *testing.T) {
		t.Parallel()

		m := newManager(t, session.WithTouchThreshold(time.Millisecond))

		rr := httptest.NewRecorder()
		first, err := m.Ensure(context.Background(), rr, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookieFrom(rr))

		second, err := m.Ensure(context.Background(), httptest.NewRecorder(), req)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.True(t, second.ExpiresAt.After(first.ExpiresAt))
	})

	t.Run("store failure surfaces as error", func(t *testing.T) {
		t.Parallel()

		m := newManager(t, session.WithStore(failingStore{}))

		_, err := m.Ensure(context.Background(), httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.ErrorIs(t, err, session.ErrStoreUnavailable)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	t.Run("upgrades anonymous session and rotates token", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)

		rr := httptest.NewRecorder()
		anon, err := m.Ensure(context.Background(), rr, httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)

		loginRR := httptest.NewRecorder()
		loginReq := httptest.NewRequest(http.MethodPost, "/user/login", nil)
		loginReq.AddCookie(cookieFrom(rr))

		ref := session.UserRef{ID: uuid.New(), Username: "alice"}
		require.NoError(t, m.Authenticate(context.Background(), loginRR, loginReq, ref))

		authedReq := httptest.NewRequest(http.MethodGet, "/", nil)
		authedReq.AddCookie(cookieFrom(loginRR))

		sess, err := m.Get(context.Background(), authedReq)
		require.NoError(t, err)
		require.True(t, sess.IsAuthenticated())
		assert.Equal(t, ref, *sess.User)
		assert.NotEqual(t, anon.Token, sess.Token)

		// The pre-login token no longer resolves to a session.
		oldReq := httptest.NewRequest(http.MethodGet, "/", nil)
		oldReq.AddCookie(cookieFrom(rr))
		_, err = m.Get(context.Background(), oldReq)
		require.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("works without a prior session", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/user/login", nil)

		ref := session.UserRef{ID: uuid.New(), Username: "alice"}
		require.NoError(t, m.Authenticate(context.Background(), rr, req, ref))
		require.NotNil(t, cookieFrom(rr))
	})

	t.Run("repeated login overwrites user ref", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/user/login", nil)
		require.NoError(t, m.Authenticate(context.Background(), rr, req, session.UserRef{ID: uuid.New(), Username: "alice"}))

		second := session.UserRef{ID: uuid.New(), Username: "bob"}
		rr2 := httptest.NewRecorder()
		req2 := httptest.NewRequest(http.MethodPost, "/user/login", nil)
		req2.AddCookie(cookieFrom(rr))
		require.NoError(t, m.Authenticate(context.Background(), rr2, req2, second))

		verifyReq := httptest.NewRequest(http.MethodGet, "/", nil)
		verifyReq.AddCookie(cookieFrom(rr2))

		sess, err := m.Get(context.Background(), verifyReq)
		require.NoError(t, err)
		assert.Equal(t, second, *sess.User)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		t.Parallel()

		m := newManager(t, session.WithStore(failingStore{}))

		err := m.Authenticate(context.Background(), httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil), session.UserRef{ID: uuid.New()})
		require.ErrorIs(t, err, session.ErrStoreUnavailable)
	})
}

func TestDestroy(t *testing.T) {
	t.Parallel()

	t.Run("deletes record and clears cookie", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)

		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/user/login", nil)
		require.NoError(t, m.Authenticate(context.Background(), rr, req, session.UserRef{ID: uuid.New(), Username: "alice"}))

		logoutRR := httptest.NewRecorder()
		logoutReq := httptest.NewRequest(http.MethodPost, "/user/logout", nil)
		logoutReq.AddCookie(cookieFrom(rr))
		require.NoError(t, m.Destroy(context.Background(), logoutRR, logoutReq))

		cleared := cookieFrom(logoutRR)
		require.NotNil(t, cleared)
		assert.Negative(t, cleared.MaxAge)

		verifyReq := httptest.NewRequest(http.MethodGet, "/", nil)
		verifyReq.AddCookie(cookieFrom(rr))
		_, err := m.Get(context.Background(), verifyReq)
		require.ErrorIs(t, err, session.ErrSessionNotFound)
	})

	t.Run("no session is a no-op", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)

		err := m.Destroy(context.Background(), httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
		require.NoError(t, err)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("ensure session returns 503 when store is down", func(t *testing.T) {
		t.Parallel()

		m := newManager(t, session.WithStore(failingStore{}))

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not run when session store is unavailable")
		})

		rr := httptest.NewRecorder()
		m.EnsureSession(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.JSONEq(t, `{"error":"Session store unavailable"}`, rr.Body.String())
	})

	t.Run("require auth rejects anonymous sessions", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler must not run for anonymous sessions")
		})

		chain := m.EnsureSession(m.RequireAuth(next))

		rr := httptest.NewRecorder()
		chain.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"error":"Authentication required"}`, rr.Body.String())
	})

	t.Run("require auth passes authenticated sessions through", func(t *testing.T) {
		t.Parallel()

		m := newManager(t)

		rr := httptest.NewRecorder()
		ref := session.UserRef{ID: uuid.New(), Username: "alice"}
		require.NoError(t, m.Authenticate(context.Background(), rr, httptest.NewRequest(http.MethodPost, "/", nil), ref))

		var got session.UserRef
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := session.UserFromContext(r.Context())
			require.True(t, ok)
			got = u
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookieFrom(rr))

		out := httptest.NewRecorder()
		m.EnsureSession(m.RequireAuth(next)).ServeHTTP(out, req)

		require.Equal(t, http.StatusOK, out.Code)
		assert.Equal(t, ref, got)
	})
}
