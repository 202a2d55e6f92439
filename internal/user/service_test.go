package user

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRepo struct {
	byID       map[string]*User
	nextID     int
	lastLogins map[string]time.Time
	createErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*User{}, lastLogins: map[string]time.Time{}}
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) Create(_ context.Context, u *User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	u.ID = fmt.Sprintf("user-%d", r.nextID)
	u.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdateLastLogin(_ context.Context, id string, t time.Time) error {
	r.lastLogins[id] = t
	return nil
}

// plainHasher prefixes passwords so tests stay fast.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "h:" + p, nil }

func (plainHasher) Compare(hash, p string) error {
	if hash != "h:"+p {
		return errors.New("mismatch")
	}
	return nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, plainHasher{}, zap.NewNop())
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes email and stores hash", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo)

		u, err := svc.Register(ctx, "  Alice@Example.COM ", "secret123", " Alice ")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email)
		assert.Equal(t, "h:secret123", u.PasswordHash)
		require.NotNil(t, u.DisplayName)
		assert.Equal(t, "Alice", *u.DisplayName)
		assert.True(t, u.IsActive)
		assert.False(t, u.IsSystemAdmin)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := newFakeRepo()
		svc := newTestService(repo)

		_, err := svc.Register(ctx, "bob@example.com", "secret123", "")
		require.NoError(t, err)
		_, err = svc.Register(ctx, "BOB@example.com", "secret123", "")
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})

	t.Run("validation", func(t *testing.T) {
		svc := newTestService(newFakeRepo())

		_, err := svc.Register(ctx, "   ", "secret123", "")
		assert.ErrorIs(t, err, ErrEmailRequired)

		_, err = svc.Register(ctx, "carol@example.com", "short", "")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("empty display name stays nil", func(t *testing.T) {
		svc := newTestService(newFakeRepo())
		u, err := svc.Register(ctx, "dan@example.com", "secret123", "  ")
		require.NoError(t, err)
		assert.Nil(t, u.DisplayName)
		assert.Equal(t, "dan@example.com", u.Name())
	})

	t.Run("concurrent insert surfaces unique violation", func(t *testing.T) {
		repo := newFakeRepo()
		repo.createErr = ErrEmailAlreadyUsed
		svc := newTestService(repo)
		_, err := svc.Register(ctx, "eve@example.com", "secret123", "")
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := newTestService(repo)

	registered, err := svc.Register(ctx, "frank@example.com", "secret123", "")
	require.NoError(t, err)

	t.Run("success records last login", func(t *testing.T) {
		u, err := svc.Login(ctx, "Frank@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
		require.NotNil(t, u.LastLoginAt)
		assert.Contains(t, repo.lastLogins, u.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "frank@example.com", "nope-nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "ghost@example.com", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		repo.byID[registered.ID].IsActive = false
		defer func() { repo.byID[registered.ID].IsActive = true }()

		_, err := svc.Login(ctx, "frank@example.com", "secret123")
		assert.ErrorIs(t, err, ErrInactiveUser)
	})
}
