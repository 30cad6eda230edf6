package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/blogd/pkg/logger"
	"github.com/dmitrymomot/blogd/pkg/password"
)

// Service provides username/password account operations.
type Service struct {
	storage Storage
	hasher  *password.Hasher
	logger  *slog.Logger
}

type ServiceOption func(*Service)

// WithLogger sets a custom logger for the service
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = log
	}
}

// WithHasher sets a custom credential hasher
func WithHasher(h *password.Hasher) ServiceOption {
	return func(s *Service) {
		s.hasher = h
	}
}

// NewService creates a new user service backed by the given storage.
func NewService(storage Storage, opts ...ServiceOption) *Service {
	s := &Service{
		storage: storage,
		hasher:  password.New(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SignUp creates a new account. Username uniqueness is enforced by the
// storage layer so concurrent signups race safely; the loser gets
// ErrUsernameAlreadyExists.
func (s *Service) SignUp(ctx context.Context, username, plaintext string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.storage.CreateUser(ctx, u); err != nil {
		if errors.Is(err, ErrUsernameAlreadyExists) {
			return nil, ErrUsernameAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user created",
		logger.UserID(u.ID.String()),
		slog.String("username", u.Username),
		logger.Component("user"),
	)

	return u, nil
}

// GetByID loads the account behind a session user ref. The record is read
// fresh from storage, so an account that disappears stops resolving even
// while its session is still alive.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.storage.GetUserByID(ctx, id)
}

// Login verifies username and password, returning the user if valid.
// Returns generic ErrInvalidCredentials for unknown usernames and wrong
// passwords alike to prevent user enumeration attacks. Storage outages
// are reported as ErrStorageUnavailable, never as a failed login.
func (s *Service) Login(ctx context.Context, username, plaintext string) (*User, error) {
	username = strings.TrimSpace(username)

	u, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrStorageUnavailable) {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(plaintext, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}
