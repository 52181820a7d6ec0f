package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/linkdeck/linkdeck/internal/auth"
	"github.com/linkdeck/linkdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(username, email string) *auth.User {
	return &auth.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Now(),
	}
}

func TestMemoryUserStore_Create(t *testing.T) {
	t.Run("creates user", func(t *testing.T) {
		s := store.NewMemoryUserStore()

		err := s.Create(context.Background(), newUser("alice", "alice@example.com"))

		require.NoError(t, err)
	})

	t.Run("returns ErrUsernameTaken for duplicate username", func(t *testing.T) {
		s := store.NewMemoryUserStore()
		_ = s.Create(context.Background(), newUser("alice", "alice@example.com"))

		err := s.Create(context.Background(), newUser("alice", "other@example.com"))

		assert.ErrorIs(t, err, auth.ErrUsernameTaken)
	})

	t.Run("returns ErrEmailTaken for duplicate email ignoring case", func(t *testing.T) {
		s := store.NewMemoryUserStore()
		_ = s.Create(context.Background(), newUser("alice", "alice@example.com"))

		err := s.Create(context.Background(), newUser("bob", "ALICE@example.com"))

		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})
}

func TestMemoryUserStore_GetByUsername(t *testing.T) {
	t.Run("returns user when found", func(t *testing.T) {
		s := store.NewMemoryUserStore()
		_ = s.Create(context.Background(), newUser("alice", "alice@example.com"))

		u, err := s.GetByUsername(context.Background(), "alice")

		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email)
	})

	t.Run("returns ErrUserNotFound when absent", func(t *testing.T) {
		s := store.NewMemoryUserStore()

		u, err := s.GetByUsername(context.Background(), "nobody")

		assert.Nil(t, u)
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})
}
