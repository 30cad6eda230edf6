package post

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/blogd/binder"
	"github.com/dmitrymomot/blogd/core"
	"github.com/dmitrymomot/blogd/pkg/logger"
)

// Handler exposes CRUD over posts. Reads are public; writes are expected to
// be mounted behind an auth guard.
type Handler struct {
	storage Storage
	log     *slog.Logger
}

type HandlerOption func(*Handler)

// WithHandlerLogger sets a custom logger for the handler
func WithHandlerLogger(log *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.log = log
	}
}

// NewHandler creates the post handler over the given storage.
func NewHandler(storage Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage: storage,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Router returns the routes to mount under /posts. The guard middleware wraps
// only the mutating routes so that list and get stay public.
func (h *Handler) Router(guard func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.list)
	r.Get("/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(guard)
		r.Post("/", h.create)
		r.Patch("/{id}", h.update)
		r.Delete("/{id}", h.remove)
	})

	return r
}

type createRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type updateRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	posts, err := h.storage.ListPosts(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	core.JSON(w, http.StatusOK, "Posts retrieved successfully", map[string]any{
		"posts": posts,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.storage.GetPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	core.JSON(w, http.StatusOK, "Post retrieved successfully", map[string]any{
		"post": p,
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := binder.BindJSON(r, &req); err != nil {
		core.JSONError(w, core.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}
	if req.Title == "" || req.Body == "" {
		core.JSONError(w, core.ErrBadRequest.WithMessage("Title and body are required"))
		return
	}

	p := &Post{Title: req.Title, Body: req.Body}
	if err := h.storage.CreatePost(r.Context(), p); err != nil {
		h.respondError(w, r, err)
		return
	}

	core.JSON(w, http.StatusCreated, "Post created successfully", map[string]any{
		"post": p,
	})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := binder.BindJSON(r, &req); err != nil {
		core.JSONError(w, core.ErrBadRequest.WithMessage("Invalid request body"))
		return
	}

	upd := Update{Title: req.Title, Body: req.Body}
	p, err := h.storage.UpdatePost(r.Context(), chi.URLParam(r, "id"), upd)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	core.JSON(w, http.StatusOK, "Post updated successfully", map[string]any{
		"post": p,
	})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.storage.DeletePost(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, r, err)
		return
	}

	core.JSON(w, http.StatusOK, "Post deleted successfully", nil)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrPostNotFound):
		core.JSONError(w, core.ErrNotFound.WithMessage("Post not found"))
	case errors.Is(err, ErrEmptyUpdate):
		core.JSONError(w, core.ErrBadRequest.WithMessage("Title or body is required"))
	case errors.Is(err, ErrStorageUnavailable):
		core.JSONError(w, core.ErrServiceUnavailable.WithMessage("Storage unavailable"))
	default:
		h.log.ErrorContext(r.Context(), "unexpected error",
			logger.Error(err),
			logger.Component("post"),
		)
		core.JSONError(w, core.ErrInternalServerError.WithMessage("Something went wrong"))
	}
}
