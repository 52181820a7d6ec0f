package analytics

import (
	"context"
	"time"
)

// HourBucket is the click count for one UTC-truncated hour.
type HourBucket struct {
	Hour   time.Time `json:"hour"`
	Clicks int64     `json:"clicks"`
}

// DayBucket is the click count for one calendar day.
type DayBucket struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Clicks int64  `json:"clicks"`
}

// CodeHourBucket is the click count for one code in one UTC-truncated
// hour.
type CodeHourBucket struct {
	Code   string    `json:"shortCode"`
	Hour   time.Time `json:"hour"`
	Clicks int64     `json:"clicks"`
}

// NameCount pairs a dimension value (referrer, user agent) with its
// click count.
type NameCount struct {
	Name   string `json:"name"`
	Clicks int64  `json:"clicks"`
}

// Store defines the interface for persisting and aggregating clicks.
type Store interface {
	// SaveClick persists a single click event.
	SaveClick(ctx context.Context, event *ClickEvent) error

	// ClicksByHour returns hourly buckets for a code within [start, end],
	// ordered by hour ascending. Hours with no clicks are omitted.
	ClicksByHour(ctx context.Context, code string, start, end time.Time) ([]HourBucket, error)

	// ClicksByCodeHour returns hourly buckets for each of the given codes
	// within [start, end], ordered by hour ascending then code. Hours
	// with no clicks are omitted.
	ClicksByCodeHour(ctx context.Context, codes []string, start, end time.Time) ([]CodeHourBucket, error)

	// TopReferrers returns the most frequent referrers for a code within
	// [start, end], ordered by clicks descending.
	TopReferrers(ctx context.Context, code string, start, end time.Time, limit int) ([]NameCount, error)

	// TopUserAgents returns the most frequent user agents for a code
	// within [start, end], ordered by clicks descending.
	TopUserAgents(ctx context.Context, code string, start, end time.Time, limit int) ([]NameCount, error)

	// ClickCounts returns total click counts keyed by code for the given
	// codes. Codes with no clicks are absent from the result.
	ClickCounts(ctx context.Context, codes []string) (map[string]int64, error)
}
