// Package user implements signup and login with session-based
// authentication over a MongoDB-backed user collection.
package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the account record. PasswordHash is excluded from JSON
// serialization; responses additionally go through Public so the hash can
// never leave the service boundary even by accident.
type User struct {
	ID           uuid.UUID `bson:"_id" json:"id"`
	Username     string    `bson:"username" json:"username"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// PublicUser is the client-facing view of a User.
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the client-facing view of the user, without the hash.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}
