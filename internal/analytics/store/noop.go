package store

import (
	"context"
	"time"

	"github.com/linkdeck/linkdeck/internal/analytics"
	"go.uber.org/zap"
)

// Noop is an analytics.Store that logs clicks and aggregates nothing.
// Used when the consumer runs without a database.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveClick(_ context.Context, event *analytics.ClickEvent) error {
	n.logger.Info("click event received",
		zap.String("code", event.Code),
		zap.Time("clickedAt", event.ClickedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}

func (n *Noop) ClicksByHour(_ context.Context, _ string, _, _ time.Time) ([]analytics.HourBucket, error) {
	return nil, nil
}

func (n *Noop) ClicksByCodeHour(_ context.Context, _ []string, _, _ time.Time) ([]analytics.CodeHourBucket, error) {
	return nil, nil
}

func (n *Noop) TopReferrers(_ context.Context, _ string, _, _ time.Time, _ int) ([]analytics.NameCount, error) {
	return nil, nil
}

func (n *Noop) TopUserAgents(_ context.Context, _ string, _, _ time.Time, _ int) ([]analytics.NameCount, error) {
	return nil, nil
}

func (n *Noop) ClickCounts(_ context.Context, _ []string) (map[string]int64, error) {
	return map[string]int64{}, nil
}

var _ analytics.Store = (*Noop)(nil)
