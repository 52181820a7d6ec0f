package handlers

import (
	"context"

	"github.com/linkdeck/linkdeck/internal/analytics"
	"go.uber.org/zap"
)

// AnalyticsHandler serves aggregated click reports.
type AnalyticsHandler struct {
	query  *analytics.Query
	logger *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(query *analytics.Query, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		query:  query,
		logger: logger,
	}
}

// GetAnalytics returns the click report for a short code. Unknown codes
// answer 404; missing params fall back to the default 24h window.
func (h *AnalyticsHandler) GetAnalytics(ctx context.Context, req *AnalyticsRequest) (*AnalyticsResponse, error) {
	report, err := h.query.Report(ctx, req.ShortCode, analytics.Params{
		Range: req.Range,
		Start: req.Start,
		End:   req.End,
	})
	if err != nil {
		return nil, mapDomainError(err)
	}

	return &AnalyticsResponse{Body: *report}, nil
}
