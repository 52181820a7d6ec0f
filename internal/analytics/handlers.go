package analytics

import (
	"context"

	"github.com/linkdeck/linkdeck/internal/messaging"
	"go.uber.org/zap"
)

// NewClickHandler returns a consumer handler that persists click events.
func NewClickHandler(store Store, logger *zap.Logger) messaging.Handler[ClickEvent] {
	return func(ctx context.Context, event *ClickEvent) error {
		if err := store.SaveClick(ctx, event); err != nil {
			return err
		}

		logger.Debug("click recorded",
			zap.String("code", event.Code),
			zap.Time("clickedAt", event.ClickedAt),
		)

		return nil
	}
}

// NewCreatedHandler returns a consumer handler that logs link creation
// events. Creation events carry no aggregate state; the link itself is
// already persisted by the registry.
func NewCreatedHandler(logger *zap.Logger) messaging.Handler[LinkCreatedEvent] {
	return func(_ context.Context, event *LinkCreatedEvent) error {
		logger.Info("link created",
			zap.String("code", event.Code),
			zap.String("originalUrl", event.OriginalURL),
			zap.String("owner", event.Owner),
		)

		return nil
	}
}
