package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/linkdeck/linkdeck/internal/analytics"
	"github.com/linkdeck/linkdeck/internal/auth"
	"github.com/linkdeck/linkdeck/internal/captcha"
	"github.com/linkdeck/linkdeck/internal/handlers"
	"github.com/linkdeck/linkdeck/internal/link"
	"github.com/linkdeck/linkdeck/internal/messaging"
	"github.com/linkdeck/linkdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testBaseURL = "http://localhost:8888"

// noopPublish returns a publish function that always succeeds.
func noopPublish[T any]() messaging.Publish[T] {
	return func(_ *T) error { return nil }
}

// errorPublish returns a publish function that always fails.
func errorPublish[T any](err error) messaging.Publish[T] {
	return func(_ *T) error { return err }
}

// seqCodes returns gen1, gen2, ... on successive calls.
func seqCodes() link.CodeGenerator {
	n := 0

	return func() string {
		n++

		return fmt.Sprintf("gen%d", n)
	}
}

type linkHandlerOptions struct {
	allowAnonymous bool
	publishCreated messaging.Publish[analytics.LinkCreatedEvent]
}

func newLinkHandler(repo link.Repository, clicks handlers.ClickCounter, opts linkHandlerOptions) *handlers.LinkHandler {
	publish := opts.publishCreated
	if publish == nil {
		publish = noopPublish[analytics.LinkCreatedEvent]()
	}

	return handlers.NewLinkHandler(
		link.NewService(repo, seqCodes()),
		clicks,
		testBaseURL,
		opts.allowAnonymous,
		publish,
		zap.NewNop(),
	)
}

func newRedirectHandler(repo link.Repository, publish messaging.Publish[analytics.ClickEvent]) *handlers.RedirectHandler {
	if publish == nil {
		publish = noopPublish[analytics.ClickEvent]()
	}

	return handlers.NewRedirectHandler(link.NewService(repo, seqCodes()), publish, zap.NewNop())
}

func newAuthHandler() *handlers.AuthHandler {
	captchaSvc := captcha.NewService(
		store.NewMemoryCaptchaStore(),
		func() string { return "x7k2m" },
		time.Minute,
	)

	svc := auth.NewService(
		store.NewMemoryUserStore(),
		store.NewMemorySessionStore(),
		captchaSvc,
		func() string { return "tok-1" },
		auth.Config{SessionTTL: time.Hour},
	)

	return handlers.NewAuthHandler(svc, captchaSvc, time.Hour, zap.NewNop())
}

func authedCtx(username string) context.Context {
	return auth.ContextWithIdentity(context.Background(), auth.Identity{
		Authenticated: true,
		Username:      username,
	})
}

// assertStatus asserts the huma status code carried by a handler error.
func assertStatus(t *testing.T, err error, status int) {
	t.Helper()

	var statusErr huma.StatusError
	if assert.True(t, errors.As(err, &statusErr), "expected a status error, got %v", err) {
		assert.Equal(t, status, statusErr.GetStatus())
	}
}
