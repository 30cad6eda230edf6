// Package password implements credential hashing for login flows.
//
// Hashes are produced with bcrypt: each call draws a fresh random salt, so
// two hashes of the same plaintext never match byte-for-byte, and the
// resulting record is self-describing (algorithm, cost, salt and digest in
// one string) and safe to persist as-is.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword is returned when an empty plaintext is hashed.
var ErrEmptyPassword = errors.New("password is required")

// Hasher hashes and verifies passwords with a configurable work factor.
type Hasher struct {
	cost int
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithCost sets the bcrypt cost. Values outside the bcrypt range fall back
// to the default cost at hash time.
func WithCost(cost int) Option {
	return func(h *Hasher) {
		h.cost = cost
	}
}

// New creates a Hasher with the default bcrypt cost unless overridden.
func New(opts ...Option) *Hasher {
	h := &Hasher{cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash derives a salted one-way hash from the plaintext. The returned record
// embeds the salt and cost parameters, so verification needs nothing else.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored record. The digest
// comparison is constant time; malformed records simply verify as false.
func (h *Hasher) Verify(plaintext, record string) bool {
	return bcrypt.CompareHashAndPassword([]byte(record), []byte(plaintext)) == nil
}
