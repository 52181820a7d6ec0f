package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/linkdeck/linkdeck/internal/analytics"
)

// MemoryClickStore is an in-memory implementation of analytics.Store.
type MemoryClickStore struct {
	mu     sync.RWMutex
	clicks []analytics.ClickEvent
}

// NewMemoryClickStore creates a new in-memory click store.
func NewMemoryClickStore() *MemoryClickStore {
	return &MemoryClickStore{}
}

func (m *MemoryClickStore) SaveClick(_ context.Context, event *analytics.ClickEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clicks = append(m.clicks, *event)

	return nil
}

func (m *MemoryClickStore) ClicksByHour(_ context.Context, code string, start, end time.Time) ([]analytics.HourBucket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byHour := make(map[time.Time]int64)

	for _, c := range m.clicks {
		if c.Code != code || !within(c.ClickedAt, start, end) {
			continue
		}

		byHour[c.ClickedAt.UTC().Truncate(time.Hour)]++
	}

	buckets := make([]analytics.HourBucket, 0, len(byHour))
	for hour, clicks := range byHour {
		buckets = append(buckets, analytics.HourBucket{Hour: hour, Clicks: clicks})
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Hour.Before(buckets[j].Hour)
	})

	return buckets, nil
}

func (m *MemoryClickStore) ClicksByCodeHour(_ context.Context, codes []string, start, end time.Time) ([]analytics.CodeHourBucket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[string]bool, len(codes))
	for _, c := range codes {
		wanted[c] = true
	}

	type key struct {
		hour time.Time
		code string
	}

	byKey := make(map[key]int64)

	for _, c := range m.clicks {
		if !wanted[c.Code] || !within(c.ClickedAt, start, end) {
			continue
		}

		byKey[key{c.ClickedAt.UTC().Truncate(time.Hour), c.Code}]++
	}

	buckets := make([]analytics.CodeHourBucket, 0, len(byKey))
	for k, clicks := range byKey {
		buckets = append(buckets, analytics.CodeHourBucket{Code: k.code, Hour: k.hour, Clicks: clicks})
	}

	sort.Slice(buckets, func(i, j int) bool {
		if !buckets[i].Hour.Equal(buckets[j].Hour) {
			return buckets[i].Hour.Before(buckets[j].Hour)
		}

		return buckets[i].Code < buckets[j].Code
	})

	return buckets, nil
}

func (m *MemoryClickStore) TopReferrers(_ context.Context, code string, start, end time.Time, limit int) ([]analytics.NameCount, error) {
	return m.top(code, start, end, limit, func(c *analytics.ClickEvent) string {
		if c.Referrer == "" {
			return "(direct)"
		}

		return c.Referrer
	}), nil
}

func (m *MemoryClickStore) TopUserAgents(_ context.Context, code string, start, end time.Time, limit int) ([]analytics.NameCount, error) {
	return m.top(code, start, end, limit, func(c *analytics.ClickEvent) string {
		if c.UserAgent == "" {
			return "(unknown)"
		}

		return c.UserAgent
	}), nil
}

func (m *MemoryClickStore) ClickCounts(_ context.Context, codes []string) (map[string]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[string]bool, len(codes))
	for _, c := range codes {
		wanted[c] = true
	}

	counts := make(map[string]int64)

	for _, c := range m.clicks {
		if wanted[c.Code] {
			counts[c.Code]++
		}
	}

	return counts, nil
}

func (m *MemoryClickStore) top(code string, start, end time.Time, limit int, dim func(*analytics.ClickEvent) string) []analytics.NameCount {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byName := make(map[string]int64)

	for i := range m.clicks {
		c := &m.clicks[i]
		if c.Code != code || !within(c.ClickedAt, start, end) {
			continue
		}

		byName[dim(c)]++
	}

	result := make([]analytics.NameCount, 0, len(byName))
	for name, clicks := range byName {
		result = append(result, analytics.NameCount{Name: name, Clicks: clicks})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Clicks != result[j].Clicks {
			return result[i].Clicks > result[j].Clicks
		}

		return result[i].Name < result[j].Name
	})

	if len(result) > limit {
		result = result[:limit]
	}

	return result
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

var _ analytics.Store = (*MemoryClickStore)(nil)
