package handlers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/linkdeck/linkdeck/internal/auth"
	"github.com/linkdeck/linkdeck/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// issueCaptcha grabs a fresh challenge for registration tests. The test
// answer generator always produces x7k2m.
func issueCaptcha(t *testing.T, handler *handlers.AuthHandler) string {
	t.Helper()

	resp, err := handler.GetCaptcha(context.Background(), nil)
	require.NoError(t, err)

	return resp.Body.CaptchaID
}

func register(t *testing.T, handler *handlers.AuthHandler, username string) {
	t.Helper()

	req := &handlers.RegisterRequest{}
	req.Body.Username = username
	req.Body.Email = username + "@example.com"
	req.Body.Password = "password123"
	req.Body.CaptchaID = issueCaptcha(t, handler)
	req.Body.Captcha = "x7k2m"

	_, err := handler.Register(context.Background(), req)
	require.NoError(t, err)
}

func TestRegister(t *testing.T) {
	t.Run("registers with a valid captcha", func(t *testing.T) {
		handler := newAuthHandler()

		req := &handlers.RegisterRequest{}
		req.Body.Username = "alice"
		req.Body.Email = "alice@example.com"
		req.Body.Password = "password123"
		req.Body.CaptchaID = issueCaptcha(t, handler)
		req.Body.Captcha = "x7k2m"

		resp, err := handler.Register(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, resp.Body.Success)
		assert.Equal(t, "alice", resp.Body.Username)
	})

	t.Run("wrong captcha answers 400", func(t *testing.T) {
		handler := newAuthHandler()

		req := &handlers.RegisterRequest{}
		req.Body.Username = "alice"
		req.Body.Email = "alice@example.com"
		req.Body.Password = "password123"
		req.Body.CaptchaID = issueCaptcha(t, handler)
		req.Body.Captcha = "wrong"

		_, err := handler.Register(context.Background(), req)

		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("reused captcha answers 400", func(t *testing.T) {
		handler := newAuthHandler()
		captchaID := issueCaptcha(t, handler)

		req := &handlers.RegisterRequest{}
		req.Body.Username = "alice"
		req.Body.Email = "alice@example.com"
		req.Body.Password = "password123"
		req.Body.CaptchaID = captchaID
		req.Body.Captcha = "x7k2m"

		_, err := handler.Register(context.Background(), req)
		require.NoError(t, err)

		req.Body.Username = "bob"
		req.Body.Email = "bob@example.com"

		_, err = handler.Register(context.Background(), req)

		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("duplicate username answers 422", func(t *testing.T) {
		handler := newAuthHandler()
		register(t, handler, "alice")

		req := &handlers.RegisterRequest{}
		req.Body.Username = "alice"
		req.Body.Email = "second@example.com"
		req.Body.Password = "password123"
		req.Body.CaptchaID = issueCaptcha(t, handler)
		req.Body.Captcha = "x7k2m"

		_, err := handler.Register(context.Background(), req)

		assertStatus(t, err, http.StatusUnprocessableEntity)
	})

	t.Run("short password answers 422", func(t *testing.T) {
		handler := newAuthHandler()

		req := &handlers.RegisterRequest{}
		req.Body.Username = "alice"
		req.Body.Email = "alice@example.com"
		req.Body.Password = "short"
		req.Body.CaptchaID = issueCaptcha(t, handler)
		req.Body.Captcha = "x7k2m"

		_, err := handler.Register(context.Background(), req)

		assertStatus(t, err, http.StatusUnprocessableEntity)
	})
}

func TestLogin(t *testing.T) {
	t.Run("sets session cookie on success", func(t *testing.T) {
		handler := newAuthHandler()
		register(t, handler, "alice")

		req := &handlers.LoginRequest{}
		req.Body.Username = "alice"
		req.Body.Password = "password123"

		resp, err := handler.Login(context.Background(), req)

		require.NoError(t, err)
		assert.True(t, resp.Body.Success)
		assert.Equal(t, "alice", resp.Body.Username)

		cookie := resp.Headers.SetCookie
		assert.Equal(t, handlers.SessionCookie, cookie.Name)
		assert.Equal(t, "tok-1", cookie.Value)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, "/", cookie.Path)
		assert.Positive(t, cookie.MaxAge)
	})

	t.Run("unknown user and wrong password are indistinguishable", func(t *testing.T) {
		handler := newAuthHandler()
		register(t, handler, "alice")

		unknown := &handlers.LoginRequest{}
		unknown.Body.Username = "nobody"
		unknown.Body.Password = "password123"

		wrong := &handlers.LoginRequest{}
		wrong.Body.Username = "alice"
		wrong.Body.Password = "not-the-password"

		_, errUnknown := handler.Login(context.Background(), unknown)
		_, errWrong := handler.Login(context.Background(), wrong)

		assertStatus(t, errUnknown, http.StatusUnauthorized)
		assertStatus(t, errWrong, http.StatusUnauthorized)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})
}

func TestLogout(t *testing.T) {
	t.Run("clears the session cookie", func(t *testing.T) {
		handler := newAuthHandler()
		register(t, handler, "alice")

		loginReq := &handlers.LoginRequest{}
		loginReq.Body.Username = "alice"
		loginReq.Body.Password = "password123"

		login, err := handler.Login(context.Background(), loginReq)
		require.NoError(t, err)

		ctx := auth.ContextWithSessionToken(context.Background(), login.Headers.SetCookie.Value)

		resp, err := handler.Logout(ctx, nil)

		require.NoError(t, err)
		assert.True(t, resp.Body.Success)
		assert.Equal(t, -1, resp.Headers.SetCookie.MaxAge)
		assert.Empty(t, resp.Headers.SetCookie.Value)
	})

	t.Run("anonymous logout succeeds", func(t *testing.T) {
		handler := newAuthHandler()

		resp, err := handler.Logout(context.Background(), nil)

		require.NoError(t, err)
		assert.True(t, resp.Body.Success)
	})
}

func TestMe(t *testing.T) {
	t.Run("reports authenticated identity", func(t *testing.T) {
		handler := newAuthHandler()

		resp, err := handler.Me(authedCtx("alice"), nil)

		require.NoError(t, err)
		assert.True(t, resp.Body.Authenticated)
		assert.Equal(t, "alice", resp.Body.Username)
	})

	t.Run("anonymous caller gets authenticated=false, not an error", func(t *testing.T) {
		handler := newAuthHandler()

		resp, err := handler.Me(context.Background(), nil)

		require.NoError(t, err)
		assert.False(t, resp.Body.Authenticated)
		assert.Empty(t, resp.Body.Username)
	})
}

func TestGetCaptcha(t *testing.T) {
	t.Run("issues a challenge with an inline image", func(t *testing.T) {
		handler := newAuthHandler()

		resp, err := handler.GetCaptcha(context.Background(), nil)

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Body.CaptchaID)
		assert.True(t, strings.HasPrefix(resp.Body.Image, "data:image/svg+xml;base64,"))
	})

	t.Run("challenges are independent", func(t *testing.T) {
		handler := newAuthHandler()

		first, err := handler.GetCaptcha(context.Background(), nil)
		require.NoError(t, err)

		second, err := handler.GetCaptcha(context.Background(), nil)
		require.NoError(t, err)

		assert.NotEqual(t, first.Body.CaptchaID, second.Body.CaptchaID)
	})
}
