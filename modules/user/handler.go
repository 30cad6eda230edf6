package user

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/blogd/binder"
	"github.com/dmitrymomot/blogd/core"
	"github.com/dmitrymomot/blogd/pkg/logger"
	"github.com/dmitrymomot/blogd/pkg/session"
)

// Handler exposes the account endpoints: signup, login and logout.
type Handler struct {
	svc      *Service
	sessions *session.Manager
	log      *slog.Logger
}

type HandlerOption func(*Handler)

// WithHandlerLogger sets a custom logger for the handler
func WithHandlerLogger(log *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.log = log
	}
}

// NewHandler creates the account handler. The session manager is required:
// login binds the authenticated user to the session and logout destroys it.
func NewHandler(svc *Service, sessions *session.Manager, opts ...HandlerOption) *Handler {
	h := &Handler{
		svc:      svc,
		sessions: sessions,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Router returns the routes to mount under /user.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/signup", h.signUp)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.With(h.sessions.RequireAuth).Get("/me", h.me)
	return r
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := binder.BindJSON(r, &req); err != nil {
		core.JSONError(w, core.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if req.Username == "" || req.Password == "" {
		core.JSONError(w, core.ErrBadRequest.WithMessage("Username and password are required"))
		return
	}

	u, err := h.svc.SignUp(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	core.JSON(w, http.StatusCreated, "User created successfully", map[string]any{
		"user": u.Public(),
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := binder.BindJSON(r, &req); err != nil {
		core.JSONError(w, core.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if req.Username == "" || req.Password == "" {
		core.JSONError(w, core.ErrBadRequest.WithMessage("Username and password are required"))
		return
	}

	u, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	// Rotating the session token on login closes session fixation; the old
	// anonymous session record is discarded by the store's TTL.
	ref := session.UserRef{ID: u.ID, Username: u.Username}
	if err := h.sessions.Authenticate(r.Context(), w, r, ref); err != nil {
		h.log.ErrorContext(r.Context(), "failed to bind session",
			logger.UserID(u.ID.String()),
			logger.Error(err),
			logger.Component("user"),
		)
		core.JSONError(w, core.ErrServiceUnavailable.WithMessage("Session store unavailable"))
		return
	}

	core.JSON(w, http.StatusOK, "Logged in successfully", map[string]any{
		"user": u.Public(),
	})
}

// me resolves the session's user ref back to the stored account. The guard
// guarantees an authenticated session, but the account itself may have gone
// away since login.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	ref, ok := session.UserFromContext(r.Context())
	if !ok {
		core.JSONError(w, core.ErrUnauthorized.WithMessage("Authentication required"))
		return
	}

	u, err := h.svc.GetByID(r.Context(), ref.ID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	core.JSON(w, http.StatusOK, "User retrieved successfully", map[string]any{
		"user": u.Public(),
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		h.log.ErrorContext(r.Context(), "failed to destroy session",
			logger.Error(err),
			logger.Component("user"),
		)
		core.JSONError(w, core.ErrServiceUnavailable.WithMessage("Session store unavailable"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// respondError maps domain errors to HTTP responses without leaking which
// login check failed.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrUsernameRequired):
		core.JSONError(w, core.ErrBadRequest.WithMessage("Username and password are required"))
	case errors.Is(err, ErrUserNotFound):
		core.JSONError(w, core.ErrNotFound.WithMessage("User not found"))
	case errors.Is(err, ErrUsernameAlreadyExists):
		core.JSONError(w, core.ErrConflict.WithMessage("Username already taken"))
	case errors.Is(err, ErrInvalidCredentials):
		core.JSONError(w, core.ErrUnauthorized.WithMessage("Invalid credentials"))
	case errors.Is(err, ErrStorageUnavailable):
		core.JSONError(w, core.ErrServiceUnavailable.WithMessage("Storage unavailable"))
	default:
		h.log.ErrorContext(r.Context(), "unexpected error",
			logger.Error(err),
			logger.Component("user"),
		)
		core.JSONError(w, core.ErrInternalServerError.WithMessage("Something went wrong"))
	}
}
