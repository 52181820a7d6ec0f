package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/linkdeck/linkdeck/internal/analytics"
	"github.com/linkdeck/linkdeck/internal/auth"
	"github.com/linkdeck/linkdeck/internal/link"
	"github.com/linkdeck/linkdeck/internal/messaging"
	"go.uber.org/zap"
)

// ClickCounter supplies total click counts for link summaries.
// Implemented by analytics.Store.
type ClickCounter interface {
	ClickCounts(ctx context.Context, codes []string) (map[string]int64, error)
}

// LinkHandler handles link registry operations.
type LinkHandler struct {
	svc                  *link.Service
	clicks               ClickCounter
	baseURL              string
	allowAnonymousCreate bool
	publishCreated       messaging.Publish[analytics.LinkCreatedEvent]
	logger               *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	svc *link.Service,
	clicks ClickCounter,
	baseURL string,
	allowAnonymousCreate bool,
	publishCreated messaging.Publish[analytics.LinkCreatedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		svc:                  svc,
		clicks:               clicks,
		baseURL:              baseURL,
		allowAnonymousCreate: allowAnonymousCreate,
		publishCreated:       publishCreated,
		logger:               logger,
	}
}

// ListLinks returns one page of links, newest first. Pages past the end
// are empty, not an error.
func (h *LinkHandler) ListLinks(ctx context.Context, req *ListLinksRequest) (*ListLinksResponse, error) {
	links, total, err := h.svc.List(ctx, req.Page)
	if err != nil {
		h.logger.Error("failed to list links", zap.Error(err))

		return nil, mapDomainError(err)
	}

	resp := &ListLinksResponse{}
	resp.Body.Page = req.Page
	resp.Body.Total = total
	resp.Body.Items = h.summarize(ctx, links)

	return resp, nil
}

// CreateLink creates a single short link.
func (h *LinkHandler) CreateLink(ctx context.Context, req *CreateLinkRequest) (*CreateLinkResponse, error) {
	caller := auth.IdentityFromContext(ctx)
	if !caller.Authenticated && !h.allowAnonymousCreate {
		return nil, huma.Error401Unauthorized("login required to create links")
	}

	l, err := h.svc.Create(ctx, caller.Username, toCreateParams(req.Body))
	if err != nil {
		return nil, mapDomainError(err)
	}

	h.publishCreatedEvent(ctx, l)

	resp := &CreateLinkResponse{}
	resp.Body = h.summary(l, 0)
	resp.Headers.Location = resp.Body.ShortURL

	return resp, nil
}

// DeleteLink deletes a link. Only the owner (or any authenticated user,
// for anonymous links) may delete; a second delete yields 404.
func (h *LinkHandler) DeleteLink(ctx context.Context, req *DeleteLinkRequest) (*struct{}, error) {
	caller := auth.IdentityFromContext(ctx)
	if !caller.Authenticated {
		return nil, huma.Error401Unauthorized("login required to delete links")
	}

	l, err := h.svc.Get(ctx, link.Code(req.ShortCode))
	if err != nil {
		return nil, mapDomainError(err)
	}

	if l.Owner != "" && l.Owner != caller.Username {
		return nil, huma.Error403Forbidden("not the owner of this link")
	}

	if err := h.svc.Delete(ctx, link.Code(req.ShortCode)); err != nil {
		return nil, mapDomainError(err)
	}

	return nil, nil
}

// CreateBatch creates links for each item independently, reporting
// per-item outcomes in input order.
func (h *LinkHandler) CreateBatch(ctx context.Context, req *BatchCreateRequest) (*BatchCreateResponse, error) {
	caller := auth.IdentityFromContext(ctx)
	if !caller.Authenticated && !h.allowAnonymousCreate {
		return nil, huma.Error401Unauthorized("login required to create links")
	}

	params := make([]link.CreateParams, len(req.Body.Items))
	for i, item := range req.Body.Items {
		params[i] = toCreateParams(item)
	}

	results := h.svc.CreateBatch(ctx, caller.Username, params)

	resp := &BatchCreateResponse{}
	resp.Body.Results = make([]BatchItemResult, len(results))

	for i, r := range results {
		if r.Err != nil {
			resp.Body.Results[i] = BatchItemResult{Error: batchItemError(r.Err)}

			continue
		}

		h.publishCreatedEvent(ctx, r.Link)

		summary := h.summary(r.Link, 0)
		resp.Body.Results[i] = BatchItemResult{Created: &summary}
		resp.Body.Count++
	}

	return resp, nil
}

// CodeOptions returns autocomplete entries for short codes.
func (h *LinkHandler) CodeOptions(ctx context.Context, req *CodeOptionsRequest) (*CodeOptionsResponse, error) {
	links, err := h.svc.CodeOptions(ctx, req.Q)
	if err != nil {
		h.logger.Error("failed to search codes", zap.Error(err))

		return nil, mapDomainError(err)
	}

	resp := &CodeOptionsResponse{}
	resp.Body.Options = make([]CodeOption, 0, len(links))

	for _, l := range links {
		title := l.Title
		if title == "" {
			title = string(l.Code)
		}

		host := link.Host(l.OriginalURL)

		label := fmt.Sprintf("%s · %s", title, l.Code)
		if host != "" {
			label = fmt.Sprintf("%s · %s · %s", title, host, l.Code)
		}

		resp.Body.Options = append(resp.Body.Options, CodeOption{
			Label:       label,
			Value:       string(l.Code),
			Host:        host,
			Title:       l.Title,
			OriginalURL: l.OriginalURL,
		})
	}

	return resp, nil
}

func (h *LinkHandler) summarize(ctx context.Context, links []*link.Link) []LinkSummary {
	codes := make([]string, len(links))
	for i, l := range links {
		codes[i] = string(l.Code)
	}

	counts, err := h.clicks.ClickCounts(ctx, codes)
	if err != nil {
		// Click counts are decoration; the list must not fail over them.
		h.logger.Error("failed to load click counts", zap.Error(err))

		counts = map[string]int64{}
	}

	items := make([]LinkSummary, len(links))
	for i, l := range links {
		items[i] = h.summary(l, counts[string(l.Code)])
	}

	return items
}

func (h *LinkHandler) summary(l *link.Link, clicks int64) LinkSummary {
	return LinkSummary{
		ShortCode:   string(l.Code),
		ShortURL:    fmt.Sprintf("%s/%s", h.baseURL, l.Code),
		OriginalURL: l.OriginalURL,
		Title:       l.Title,
		ClickCount:  clicks,
		CreatedAt:   l.CreatedAt,
		ExpiresAt:   l.ExpiresAt,
		HasPassword: l.Protected(),
	}
}

func (h *LinkHandler) publishCreatedEvent(ctx context.Context, l *link.Link) {
	meta := RequestMetaFromContext(ctx)

	event := &analytics.LinkCreatedEvent{
		Code:        string(l.Code),
		OriginalURL: l.OriginalURL,
		Title:       l.Title,
		Owner:       l.Owner,
		CreatedAt:   l.CreatedAt,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err := h.publishCreated(event); err != nil {
		h.logger.Error("failed to publish link created event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}
}

func toCreateParams(p LinkPayload) link.CreateParams {
	return link.CreateParams{
		URL:       p.URL,
		Code:      p.ShortCode,
		Title:     p.Title,
		Password:  p.Password,
		ExpiresAt: p.ExpiresAt,
	}
}

func batchItemError(err error) *BatchItemError {
	var validation *link.ValidationError
	if errors.As(err, &validation) {
		return &BatchItemError{Field: validation.Field, Message: validation.Message}
	}

	if errors.Is(err, link.ErrCodeTaken) {
		return &BatchItemError{Field: "shortCode", Message: "already taken"}
	}

	return &BatchItemError{Message: "internal error"}
}
