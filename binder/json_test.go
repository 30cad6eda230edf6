package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogd/binder"
)

type payload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func newRequest(body, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestBindJSON(t *testing.T) {
	t.Parallel()

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()

		var p payload
		err := binder.BindJSON(newRequest(`{"username":"alice","password":"secret"}`, "application/json"), &p)
		require.NoError(t, err)
		assert.Equal(t, "alice", p.Username)
		assert.Equal(t, "secret", p.Password)
	})

	t.Run("content type with charset", func(t *testing.T) {
		t.Parallel()

		var p payload
		err := binder.BindJSON(newRequest(`{"username":"alice"}`, "application/json; charset=utf-8"), &p)
		require.NoError(t, err)
	})

	t.Run("missing content type", func(t *testing.T) {
		t.Parallel()

		var p payload
		err := binder.BindJSON(newRequest(`{}`, ""), &p)
		require.ErrorIs(t, err, binder.ErrMissingContentType)
	})

	t.Run("wrong content type", func(t *testing.T) {
		t.Parallel()

		var p payload
		err := binder.BindJSON(newRequest(`{}`, "text/plain"), &p)
		require.ErrorIs(t, err, binder.ErrUnsupportedMediaType)
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()

		var p payload
		err := binder.BindJSON(newRequest(`{"username":`, "application/json"), &p)
		require.ErrorIs(t, err, binder.ErrInvalidJSON)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		var p payload
		err := binder.BindJSON(newRequest("", "application/json"), &p)
		require.ErrorIs(t, err, binder.ErrInvalidJSON)
	})

	t.Run("unknown fields", func(t *testing.T) {
		t.Parallel()

		var p payload
		err := binder.BindJSON(newRequest(`{"username":"a","admin":true}`, "application/json"), &p)
		require.ErrorIs(t, err, binder.ErrInvalidJSON)
	})

	t.Run("trailing data", func(t *testing.T) {
		t.Parallel()

		var p payload
		err := binder.BindJSON(newRequest(`{"username":"a"}{"username":"b"}`, "application/json"), &p)
		require.ErrorIs(t, err, binder.ErrInvalidJSON)
	})
}
