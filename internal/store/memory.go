package store

import (
	"context"
	"strings"
	"sync"

	"github.com/linkdeck/linkdeck/internal/link"
)

// MemoryLinkStore is an in-memory implementation of link.Repository.
// Used by tests and the dev profile.
type MemoryLinkStore struct {
	mu    sync.RWMutex
	byKey map[link.Code]*link.Link
	order []link.Code // insertion order, oldest first
}

// NewMemoryLinkStore creates a new in-memory link store.
func NewMemoryLinkStore() *MemoryLinkStore {
	return &MemoryLinkStore{
		byKey: make(map[link.Code]*link.Link),
	}
}

func (m *MemoryLinkStore) Save(_ context.Context, l *link.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byKey[l.Code]; ok {
		return link.ErrCodeTaken
	}

	cp := *l
	m.byKey[l.Code] = &cp
	m.order = append(m.order, l.Code)

	return nil
}

func (m *MemoryLinkStore) GetByCode(_ context.Context, code link.Code) (*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.byKey[code]
	if !ok {
		return nil, link.ErrNotFound
	}

	cp := *l

	return &cp, nil
}

func (m *MemoryLinkStore) Delete(_ context.Context, code link.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byKey[code]; !ok {
		return link.ErrNotFound
	}

	delete(m.byKey, code)

	for i, c := range m.order {
		if c == code {
			m.order = append(m.order[:i], m.order[i+1:]...)

			break
		}
	}

	return nil
}

func (m *MemoryLinkStore) List(_ context.Context, offset, limit int) ([]*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	links := make([]*link.Link, 0, limit)

	// Walk newest first.
	for i := len(m.order) - 1 - offset; i >= 0 && len(links) < limit; i-- {
		cp := *m.byKey[m.order[i]]
		links = append(links, &cp)
	}

	return links, nil
}

func (m *MemoryLinkStore) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.order)), nil
}

func (m *MemoryLinkStore) Search(_ context.Context, q string, limit int) ([]*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q = strings.ToLower(q)
	links := make([]*link.Link, 0, limit)

	for i := len(m.order) - 1; i >= 0 && len(links) < limit; i-- {
		l := m.byKey[m.order[i]]

		if q == "" ||
			strings.Contains(strings.ToLower(string(l.Code)), q) ||
			strings.Contains(strings.ToLower(l.Title), q) {
			cp := *l
			links = append(links, &cp)
		}
	}

	return links, nil
}

func (m *MemoryLinkStore) ListByURL(_ context.Context, originalURL string) ([]*link.Link, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	links := make([]*link.Link, 0)

	for i := len(m.order) - 1; i >= 0; i-- {
		l := m.byKey[m.order[i]]

		if l.OriginalURL == originalURL {
			cp := *l
			links = append(links, &cp)
		}
	}

	return links, nil
}

var _ link.Repository = (*MemoryLinkStore)(nil)
