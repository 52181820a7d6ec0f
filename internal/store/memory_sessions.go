package store

import (
	"context"
	"sync"
	"time"

	"github.com/linkdeck/linkdeck/internal/auth"
)

type sessionEntry struct {
	username  string
	expiresAt time.Time
}

// MemorySessionStore is an in-memory implementation of auth.SessionStore.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]sessionEntry),
	}
}

func (m *MemorySessionStore) Create(_ context.Context, token, username string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[token] = sessionEntry{
		username:  username,
		expiresAt: time.Now().Add(ttl),
	}

	return nil
}

func (m *MemorySessionStore) Get(_ context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[token]
	if !ok {
		return "", auth.ErrNoSession
	}

	if time.Now().After(entry.expiresAt) {
		delete(m.sessions, token)

		return "", auth.ErrNoSession
	}

	return entry.username, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, token)

	return nil
}

var _ auth.SessionStore = (*MemorySessionStore)(nil)
