package user_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogd/modules/user"
	"github.com/dmitrymomot/blogd/pkg/password"
)

// fakeStorage is an in-memory Storage used to test the service without Mongo.
type fakeStorage struct {
	mu    sync.Mutex
	users map[string]*user.User
	err   error // when set, every call fails with this error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{users: make(map[string]*user.User)}
}

func (f *fakeStorage) CreateUser(_ context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[u.Username]; ok {
		return user.ErrUsernameAlreadyExists
	}
	cp := *u
	f.users[u.Username] = &cp
	return nil
}

func (f *fakeStorage) GetUserByUsername(_ context.Context, username string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[username]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStorage) GetUserByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeStorage) removeUser(username string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, username)
}

func TestServiceSignUp(t *testing.T) {
	t.Parallel()

	t.Run("creates user with hashed password", func(t *testing.T) {
		t.Parallel()

		storage := newFakeStorage()
		svc := user.NewService(storage)

		u, err := svc.SignUp(context.Background(), "alice", "s3cret-pass")
		require.NoError(t, err)
		require.NotNil(t, u)

		assert.Equal(t, "alice", u.Username)
		assert.NotEqual(t, uuid.Nil, u.ID)
		assert.False(t, u.CreatedAt.IsZero())

		assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
		assert.True(t, password.New().Verify("s3cret-pass", u.PasswordHash))
	})

	t.Run("trims whitespace from username", func(t *testing.T) {
		t.Parallel()

		svc := user.NewService(newFakeStorage())

		u, err := svc.SignUp(context.Background(), "  bob  ", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, "bob", u.Username)
	})

	t.Run("rejects empty username", func(t *testing.T) {
		t.Parallel()

		svc := user.NewService(newFakeStorage())

		_, err := svc.SignUp(context.Background(), "   ", "s3cret-pass")
		require.ErrorIs(t, err, user.ErrUsernameRequired)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		t.Parallel()

		svc := user.NewService(newFakeStorage())

		_, err := svc.SignUp(context.Background(), "alice", "")
		require.Error(t, err)
	})

	t.Run("duplicate username", func(t *testing.T) {
		t.Parallel()

		storage := newFakeStorage()
		svc := user.NewService(storage)

		_, err := svc.SignUp(context.Background(), "alice", "s3cret-pass")
		require.NoError(t, err)

		_, err = svc.SignUp(context.Background(), "alice", "other-pass")
		require.ErrorIs(t, err, user.ErrUsernameAlreadyExists)
	})

	t.Run("storage failure", func(t *testing.T) {
		t.Parallel()

		storage := newFakeStorage()
		storage.err = errors.Join(user.ErrStorageUnavailable, errors.New("connection refused"))
		svc := user.NewService(storage)

		_, err := svc.SignUp(context.Background(), "alice", "s3cret-pass")
		require.ErrorIs(t, err, user.ErrStorageUnavailable)
	})
}

func TestServiceLogin(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*user.Service, *fakeStorage, *user.User) {
		t.Helper()
		storage := newFakeStorage()
		svc := user.NewService(storage)
		u, err := svc.SignUp(context.Background(), "alice", "s3cret-pass")
		require.NoError(t, err)
		return svc, storage, u
	}

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()

		svc, _, created := setup(t)

		u, err := svc.Login(context.Background(), "alice", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, created.ID, u.ID)
		assert.Equal(t, "alice", u.Username)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := setup(t)

		_, err := svc.Login(context.Background(), "alice", "wrong-pass")
		require.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("unknown username maps to same error as wrong password", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := setup(t)

		_, err := svc.Login(context.Background(), "nobody", "s3cret-pass")
		require.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("storage outage is not a failed login", func(t *testing.T) {
		t.Parallel()

		svc, storage, _ := setup(t)
		storage.err = errors.Join(user.ErrStorageUnavailable, errors.New("connection refused"))

		_, err := svc.Login(context.Background(), "alice", "s3cret-pass")
		require.ErrorIs(t, err, user.ErrStorageUnavailable)
		require.NotErrorIs(t, err, user.ErrInvalidCredentials)
	})
}

func TestUserPublicOmitsHash(t *testing.T) {
	t.Parallel()

	svc := user.NewService(newFakeStorage())
	u, err := svc.SignUp(context.Background(), "alice", "s3cret-pass")
	require.NoError(t, err)

	pub := u.Public()
	assert.Equal(t, u.ID, pub.ID)
	assert.Equal(t, u.Username, pub.Username)
}
