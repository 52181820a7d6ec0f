package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/linkdeck/linkdeck/internal/auth"
	"github.com/linkdeck/linkdeck/internal/captcha"
	"github.com/linkdeck/linkdeck/internal/handlers"
	"github.com/linkdeck/linkdeck/internal/middleware"
	"github.com/linkdeck/linkdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupSessionAPI(t *testing.T, sessions auth.SessionStore) (*chi.Mux, chan auth.Identity) {
	t.Helper()

	captchaSvc := captcha.NewService(store.NewMemoryCaptchaStore(), func() string { return "x7k2m" }, time.Minute)
	svc := auth.NewService(
		store.NewMemoryUserStore(),
		sessions,
		captchaSvc,
		func() string { return "tok-1" },
		auth.Config{SessionTTL: time.Hour},
	)

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	api.UseMiddleware(middleware.Session(svc, zap.NewNop()))

	idChan := make(chan auth.Identity, 1)

	huma.Get(api, "/whoami", func(ctx context.Context, _ *struct{}) (*testOutput, error) {
		idChan <- auth.IdentityFromContext(ctx)

		return &testOutput{Body: "ok"}, nil
	})

	return router, idChan
}

func TestSession(t *testing.T) {
	t.Run("resolves a valid session cookie", func(t *testing.T) {
		sessions := store.NewMemorySessionStore()
		require.NoError(t, sessions.Create(context.Background(), "tok-1", "alice", time.Hour))

		router, idChan := setupSessionAPI(t, sessions)

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: "tok-1"})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		id := <-idChan
		assert.True(t, id.Authenticated)
		assert.Equal(t, "alice", id.Username)
	})

	t.Run("request without cookie stays anonymous", func(t *testing.T) {
		router, idChan := setupSessionAPI(t, store.NewMemorySessionStore())

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, (<-idChan).Authenticated)
	})

	t.Run("stale cookie degrades to anonymous instead of failing", func(t *testing.T) {
		router, idChan := setupSessionAPI(t, store.NewMemorySessionStore())

		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: handlers.SessionCookie, Value: "never-issued"})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.False(t, (<-idChan).Authenticated)
	})
}
