package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogd/pkg/cookie"
)

const (
	secretA = "secret-a-0123456789-0123456789-ab"
	secretB = "secret-b-0123456789-0123456789-ab"
)

func requestWithCookie(rr *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects missing secrets", func(t *testing.T) {
		t.Parallel()

		_, err := cookie.New(nil)
		require.ErrorIs(t, err, cookie.ErrNoSecret)

		_, err = cookie.New([]string{""})
		require.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("rejects short secrets", func(t *testing.T) {
		t.Parallel()

		_, err := cookie.New([]string{"too-short"})
		require.ErrorIs(t, err, cookie.ErrSecretTooShort)
	})
}

func TestSignedRoundTrip(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secretA})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	require.NoError(t, m.SetSigned(rr, "sid", "token-value"))

	got, err := m.GetSigned(requestWithCookie(rr), "sid")
	require.NoError(t, err)
	assert.Equal(t, "token-value", got)
}

func TestTamperedValue(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secretA})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	require.NoError(t, m.SetSigned(rr, "sid", "token-value"))

	c := rr.Result().Cookies()[0]

	t.Run("flipped signature", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value[:len(c.Value)-2] + "xx"})

		_, err := m.GetSigned(req, "sid")
		require.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})

	t.Run("unsigned value", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "sid", Value: "raw-value"})

		_, err := m.GetSigned(req, "sid")
		require.ErrorIs(t, err, cookie.ErrInvalidFormat)
	})

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()

		_, err := m.GetSigned(httptest.NewRequest(http.MethodGet, "/", nil), "sid")
		require.ErrorIs(t, err, cookie.ErrCookieNotFound)
	})
}

func TestKeyRotation(t *testing.T) {
	t.Parallel()

	old, err := cookie.New([]string{secretA})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	require.NoError(t, old.SetSigned(rr, "sid", "token-value"))

	t.Run("old cookie verifies after rotation", func(t *testing.T) {
		t.Parallel()

		rotated, err := cookie.New([]string{secretB, secretA})
		require.NoError(t, err)

		got, err := rotated.GetSigned(requestWithCookie(rr), "sid")
		require.NoError(t, err)
		assert.Equal(t, "token-value", got)
	})

	t.Run("dropped secret invalidates old cookies", func(t *testing.T) {
		t.Parallel()

		rotated, err := cookie.New([]string{secretB})
		require.NoError(t, err)

		_, err = rotated.GetSigned(requestWithCookie(rr), "sid")
		require.ErrorIs(t, err, cookie.ErrInvalidSignature)
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secretA})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	m.Delete(rr, "sid")

	c := rr.Result().Cookies()[0]
	assert.Equal(t, "sid", c.Name)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	m, err := cookie.New([]string{secretA})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	require.NoError(t, m.Set(rr, "sid", "v",
		cookie.WithMaxAge(600),
		cookie.WithSecure(true),
		cookie.WithPath("/api"),
	))

	header := rr.Header().Get("Set-Cookie")
	assert.True(t, strings.Contains(header, "Max-Age=600"))
	assert.True(t, strings.Contains(header, "Secure"))
	assert.True(t, strings.Contains(header, "Path=/api"))
	assert.True(t, strings.Contains(header, "HttpOnly"))
}
