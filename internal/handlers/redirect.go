package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/linkdeck/linkdeck/internal/analytics"
	"github.com/linkdeck/linkdeck/internal/link"
	"github.com/linkdeck/linkdeck/internal/messaging"
	"go.uber.org/zap"
)

// RedirectHandler resolves short links and verifies redirect passwords.
type RedirectHandler struct {
	svc          *link.Service
	publishClick messaging.Publish[analytics.ClickEvent]
	logger       *zap.Logger
}

// NewRedirectHandler creates a new redirect handler.
func NewRedirectHandler(
	svc *link.Service,
	publishClick messaging.Publish[analytics.ClickEvent],
	logger *zap.Logger,
) *RedirectHandler {
	return &RedirectHandler{
		svc:          svc,
		publishClick: publishClick,
		logger:       logger,
	}
}

// Redirect resolves a code to its original URL. Expired links answer
// 410; protected links answer 401 until verified via VerifyPassword.
func (h *RedirectHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	l, err := h.svc.Resolve(ctx, link.Code(req.ShortCode))
	if err != nil {
		return nil, mapDomainError(err)
	}

	h.recordClick(ctx, req.ShortCode)

	resp := &RedirectResponse{Status: http.StatusMovedPermanently}
	resp.Headers.Location = l.OriginalURL

	return resp, nil
}

// VerifyPassword unlocks a protected link for a single resolution. It is
// independent of session state; no unlock persists, so the next redirect
// prompts again.
func (h *RedirectHandler) VerifyPassword(ctx context.Context, req *VerifyPasswordRequest) (*VerifyPasswordResponse, error) {
	l, err := h.svc.VerifyPassword(ctx, link.Code(req.ShortCode), req.Body.Password)
	if err != nil {
		return nil, mapDomainError(err)
	}

	h.recordClick(ctx, req.ShortCode)

	resp := &VerifyPasswordResponse{}
	resp.Body.OriginalURL = l.OriginalURL

	return resp, nil
}

func (h *RedirectHandler) recordClick(ctx context.Context, code string) {
	meta := RequestMetaFromContext(ctx)

	event := &analytics.ClickEvent{
		Code:      code,
		ClickedAt: time.Now(),
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	}

	if err := h.publishClick(event); err != nil {
		h.logger.Error("failed to publish click event",
			zap.String("code", code),
			zap.Error(err),
		)
	}
}
