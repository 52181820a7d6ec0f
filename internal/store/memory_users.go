package store

import (
	"context"
	"strings"
	"sync"

	"github.com/linkdeck/linkdeck/internal/auth"
)

// MemoryUserStore is an in-memory implementation of auth.UserRepository.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byName  map[string]*auth.User
	byEmail map[string]string // lowercased email -> username
}

// NewMemoryUserStore creates a new in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byName:  make(map[string]*auth.User),
		byEmail: make(map[string]string),
	}
}

func (m *MemoryUserStore) Create(_ context.Context, u *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byName[u.Username]; ok {
		return auth.ErrUsernameTaken
	}

	email := strings.ToLower(u.Email)
	if _, ok := m.byEmail[email]; ok {
		return auth.ErrEmailTaken
	}

	cp := *u
	m.byName[u.Username] = &cp
	m.byEmail[email] = u.Username

	return nil
}

func (m *MemoryUserStore) GetByUsername(_ context.Context, username string) (*auth.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.byName[username]
	if !ok {
		return nil, auth.ErrUserNotFound
	}

	cp := *u

	return &cp, nil
}

var _ auth.UserRepository = (*MemoryUserStore)(nil)
