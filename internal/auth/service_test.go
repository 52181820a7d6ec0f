package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/linkdeck/linkdeck/internal/auth"
	"github.com/linkdeck/linkdeck/internal/captcha"
	"github.com/linkdeck/linkdeck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// okCaptcha accepts any challenge.
type okCaptcha struct{}

func (okCaptcha) Redeem(_ context.Context, _, _ string) error { return nil }

// failCaptcha rejects every challenge.
type failCaptcha struct{}

func (failCaptcha) Redeem(_ context.Context, _, _ string) error {
	return captcha.ErrChallengeFailed
}

func fixedTokens(token string) auth.TokenGenerator {
	return func() string { return token }
}

func newTestService(verifier auth.CaptchaVerifier, cfg auth.Config) *auth.Service {
	return auth.NewService(
		store.NewMemoryUserStore(),
		store.NewMemorySessionStore(),
		verifier,
		fixedTokens("tok-1"),
		cfg,
	)
}

func registerParams() auth.RegisterParams {
	return auth.RegisterParams{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "password123",
		CaptchaID: "cap-1",
		Captcha:   "answer",
	}
}

func TestService_Register(t *testing.T) {
	t.Run("registers user", func(t *testing.T) {
		svc := newTestService(okCaptcha{}, auth.Config{})

		u, err := svc.Register(context.Background(), registerParams())

		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
		assert.Equal(t, "alice@example.com", u.Email)
		assert.NotEqual(t, "password123", u.PasswordHash)
	})

	t.Run("rejects short username", func(t *testing.T) {
		svc := newTestService(okCaptcha{}, auth.Config{})

		p := registerParams()
		p.Username = "al"

		_, err := svc.Register(context.Background(), p)

		var verr *auth.ValidationError

		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "username", verr.Field)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		svc := newTestService(okCaptcha{}, auth.Config{})

		p := registerParams()
		p.Email = "not-an-email"

		_, err := svc.Register(context.Background(), p)

		var verr *auth.ValidationError

		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "email", verr.Field)
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc := newTestService(okCaptcha{}, auth.Config{})

		p := registerParams()
		p.Password = "short"

		_, err := svc.Register(context.Background(), p)

		var verr *auth.ValidationError

		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "password", verr.Field)
	})

	t.Run("rejects failed captcha", func(t *testing.T) {
		svc := newTestService(failCaptcha{}, auth.Config{})

		_, err := svc.Register(context.Background(), registerParams())

		assert.ErrorIs(t, err, captcha.ErrChallengeFailed)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		svc := newTestService(okCaptcha{}, auth.Config{})

		_, err := svc.Register(context.Background(), registerParams())
		require.NoError(t, err)

		p := registerParams()
		p.Email = "other@example.com"

		_, err = svc.Register(context.Background(), p)

		assert.ErrorIs(t, err, auth.ErrUsernameTaken)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc := newTestService(okCaptcha{}, auth.Config{})

		_, err := svc.Register(context.Background(), registerParams())
		require.NoError(t, err)

		p := registerParams()
		p.Username = "bob"

		_, err = svc.Register(context.Background(), p)

		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})
}

func TestService_Login(t *testing.T) {
	register := func(t *testing.T, svc *auth.Service) {
		t.Helper()

		_, err := svc.Register(context.Background(), registerParams())
		require.NoError(t, err)
	}

	t.Run("logs in with valid credentials", func(t *testing.T) {
		svc := newTestService(okCaptcha{}, auth.Config{})
		register(t, svc)

		token, u, err := svc.Login(context.Background(), auth.LoginParams{
			Username: "alice",
			Password: "password123",
		})

		require.NoError(t, err)
		assert.Equal(t, "tok-1", token)
		assert.Equal(t, "alice", u.Username)

		id, err := svc.Me(context.Background(), token)
		require.NoError(t, err)
		assert.True(t, id.Authenticated)
		assert.Equal(t, "alice", id.Username)
	})

	t.Run("unknown user and wrong password return the same error", func(t *testing.T) {
		svc := newTestService(okCaptcha{}, auth.Config{})
		register(t, svc)

		_, _, errUnknown := svc.Login(context.Background(), auth.LoginParams{
			Username: "nobody",
			Password: "password123",
		})
		_, _, errWrong := svc.Login(context.Background(), auth.LoginParams{
			Username: "alice",
			Password: "not-the-password",
		})

		assert.ErrorIs(t, errUnknown, auth.ErrInvalidCredentials)
		assert.ErrorIs(t, errWrong, auth.ErrInvalidCredentials)
		assert.Equal(t, errUnknown, errWrong)
	})

	t.Run("requires captcha when enabled", func(t *testing.T) {
		svc := newTestService(failCaptcha{}, auth.Config{LoginCaptcha: true})

		_, _, err := svc.Login(context.Background(), auth.LoginParams{
			Username: "alice",
			Password: "password123",
		})

		assert.ErrorIs(t, err, captcha.ErrChallengeFailed)
	})

	t.Run("skips captcha when disabled", func(t *testing.T) {
		svc := newTestService(failCaptcha{}, auth.Config{})

		// The failing verifier is never consulted, so login proceeds to
		// the credential check.
		_, _, err := svc.Login(context.Background(), auth.LoginParams{
			Username: "ghost",
			Password: "password123",
		})

		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestService_Logout(t *testing.T) {
	t.Run("destroys session", func(t *testing.T) {
		svc := newTestService(okCaptcha{}, auth.Config{})

		_, err := svc.Register(context.Background(), registerParams())
		require.NoError(t, err)

		token, _, err := svc.Login(context.Background(), auth.LoginParams{
			Username: "alice",
			Password: "password123",
		})
		require.NoError(t, err)

		require.NoError(t, svc.Logout(context.Background(), token))

		id, err := svc.Me(context.Background(), token)
		require.NoError(t, err)
		assert.False(t, id.Authenticated)
	})

	t.Run("logout without session is a no-op", func(t *testing.T) {
		svc := newTestService(okCaptcha{}, auth.Config{})

		assert.NoError(t, svc.Logout(context.Background(), ""))
		assert.NoError(t, svc.Logout(context.Background(), "never-issued"))
	})
}

func TestService_Me(t *testing.T) {
	t.Run("anonymous token returns zero identity", func(t *testing.T) {
		svc := newTestService(okCaptcha{}, auth.Config{})

		id, err := svc.Me(context.Background(), "")

		require.NoError(t, err)
		assert.False(t, id.Authenticated)
		assert.Empty(t, id.Username)
	})

	t.Run("expired session returns zero identity", func(t *testing.T) {
		sessions := store.NewMemorySessionStore()
		svc := auth.NewService(
			store.NewMemoryUserStore(),
			sessions,
			okCaptcha{},
			fixedTokens("tok-1"),
			auth.Config{},
		)

		require.NoError(t, sessions.Create(context.Background(), "tok-1", "alice", time.Nanosecond))
		time.Sleep(2 * time.Millisecond)

		id, err := svc.Me(context.Background(), "tok-1")

		require.NoError(t, err)
		assert.False(t, id.Authenticated)
	})
}
