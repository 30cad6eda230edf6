package user

import (
	"context"

	"github.com/google/uuid"
)

// Storage defines the persistence operations required by the auth service.
type Storage interface {
	// CreateUser persists a new user. Returns ErrUsernameAlreadyExists when
	// the username is taken.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByUsername looks up a user by exact username match.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// GetUserByID looks up a user by id.
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
}
