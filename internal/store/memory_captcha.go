package store

import (
	"context"
	"sync"
	"time"

	"github.com/linkdeck/linkdeck/internal/captcha"
)

type captchaEntry struct {
	answer    string
	expiresAt time.Time
}

// MemoryCaptchaStore is an in-memory implementation of captcha.Store.
// Consume removes the challenge under the lock, so concurrent
// redemptions of the same id resolve to exactly one winner.
type MemoryCaptchaStore struct {
	mu         sync.Mutex
	challenges map[string]captchaEntry
}

// NewMemoryCaptchaStore creates a new in-memory captcha store.
func NewMemoryCaptchaStore() *MemoryCaptchaStore {
	return &MemoryCaptchaStore{
		challenges: make(map[string]captchaEntry),
	}
}

func (m *MemoryCaptchaStore) Put(_ context.Context, id, answer string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.challenges[id] = captchaEntry{
		answer:    answer,
		expiresAt: time.Now().Add(ttl),
	}

	return nil
}

func (m *MemoryCaptchaStore) Consume(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.challenges[id]
	if !ok {
		return "", captcha.ErrChallengeNotFound
	}

	delete(m.challenges, id)

	if time.Now().After(entry.expiresAt) {
		return "", captcha.ErrChallengeNotFound
	}

	return entry.answer, nil
}

var _ captcha.Store = (*MemoryCaptchaStore)(nil)
