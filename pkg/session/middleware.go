package session

import (
	"encoding/json"
	"net/http"
)

// EnsureSession attaches a session to every request, creating an anonymous
// one when the client has none (or an expired one). When the session store is
// unreachable the request fails with 503 instead of continuing without a
// session.
func (m *Manager) EnsureSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := m.Ensure(r.Context(), w, r)
		if err != nil {
			writeJSONError(w, http.StatusServiceUnavailable, "Session store unavailable")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// RequireAuth rejects requests whose session is anonymous or expired before
// the protected handler runs, so no partial side effects can occur
// downstream. It expects EnsureSession to have run earlier in the chain.
func (m *Manager) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := FromContext(r.Context())
		if !ok || !session.IsAuthenticated() || session.IsExpired() {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
