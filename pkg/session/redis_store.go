package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// RedisStore implements Store on top of Redis. Records are stored as JSON
// values under "session:<token>" with a TTL equal to the session expiry, so
// the idle timeout is enforced by the store itself: an idle session simply
// disappears.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Create stores a new session with a TTL derived from its expiry.
func (s *RedisStore) Create(ctx context.Context, session *Session) error {
	return s.write(ctx, session)
}

// Get retrieves a session by token. A missing key means the session never
// existed or already expired; Redis does not tell those apart, and neither
// does the caller.
func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		// Corrupt record: drop it and treat the client as anonymous
		_ = s.client.Del(ctx, redisKeyPrefix+token).Err()
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.client.Del(ctx, redisKeyPrefix+token).Err()
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// Update replaces an existing session, resetting the TTL. Last write wins on
// concurrent updates to the same token.
func (s *RedisStore) Update(ctx context.Context, session *Session) error {
	return s.write(ctx, session)
}

// Delete removes a session by token. Deleting an absent session is not an
// error.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+token).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis evicts expired keys itself via TTL.
func (s *RedisStore) DeleteExpired(ctx context.Context) error {
	return nil
}

func (s *RedisStore) write(ctx context.Context, session *Session) error {
	if session == nil || session.Token == "" {
		return ErrInvalidSession
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return ErrSessionExpired
	}

	data, err := json.Marshal(session)
	if err != nil {
		return errors.Join(ErrInvalidSession, err)
	}

	if err := s.client.Set(ctx, redisKeyPrefix+session.Token, data, ttl).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
