package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/linkdeck/linkdeck/internal/auth"
	"github.com/linkdeck/linkdeck/internal/captcha"
	"go.uber.org/zap"
)

// SessionCookie is the name of the session cookie.
const SessionCookie = "session"

// AuthHandler handles registration, login, logout, identity lookup, and
// captcha issuance.
type AuthHandler struct {
	svc       *auth.Service
	captcha   *captcha.Service
	cookieTTL time.Duration
	logger    *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(svc *auth.Service, captchaSvc *captcha.Service, cookieTTL time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		svc:       svc,
		captcha:   captchaSvc,
		cookieTTL: cookieTTL,
		logger:    logger,
	}
}

// Register creates a new account. The captcha challenge is consumed
// whether or not registration succeeds.
func (h *AuthHandler) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	u, err := h.svc.Register(ctx, auth.RegisterParams{
		Username:  req.Body.Username,
		Email:     req.Body.Email,
		Password:  req.Body.Password,
		CaptchaID: req.Body.CaptchaID,
		Captcha:   req.Body.Captcha,
	})
	if err != nil {
		return nil, mapDomainError(err)
	}

	h.logger.Info("user registered", zap.String("username", u.Username))

	resp := &RegisterResponse{}
	resp.Body.Success = true
	resp.Body.Username = u.Username

	return resp, nil
}

// Login verifies credentials and establishes a session cookie.
func (h *AuthHandler) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	token, u, err := h.svc.Login(ctx, auth.LoginParams{
		Username:  req.Body.Username,
		Password:  req.Body.Password,
		CaptchaID: req.Body.CaptchaID,
		Captcha:   req.Body.Captcha,
	})
	if err != nil {
		return nil, mapDomainError(err)
	}

	resp := &LoginResponse{}
	resp.Body.Success = true
	resp.Body.Username = u.Username
	resp.Headers.SetCookie = http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return resp, nil
}

// Logout destroys the current session. Calling it anonymously is a
// no-op success.
func (h *AuthHandler) Logout(ctx context.Context, _ *struct{}) (*LogoutResponse, error) {
	token := auth.SessionTokenFromContext(ctx)

	if err := h.svc.Logout(ctx, token); err != nil {
		h.logger.Error("failed to destroy session", zap.Error(err))

		return nil, mapDomainError(err)
	}

	resp := &LogoutResponse{}
	resp.Body.Success = true
	resp.Headers.SetCookie = http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return resp, nil
}

// Me reports the caller's identity. This is the canonical session probe
// and never errors for anonymous callers.
func (h *AuthHandler) Me(ctx context.Context, _ *struct{}) (*MeResponse, error) {
	id := auth.IdentityFromContext(ctx)

	resp := &MeResponse{}
	resp.Body.Authenticated = id.Authenticated
	resp.Body.Username = id.Username

	return resp, nil
}

// GetCaptcha issues a new single-use captcha challenge.
func (h *AuthHandler) GetCaptcha(ctx context.Context, _ *struct{}) (*CaptchaResponse, error) {
	challenge, err := h.captcha.Issue(ctx)
	if err != nil {
		h.logger.Error("failed to issue captcha", zap.Error(err))

		return nil, mapDomainError(err)
	}

	resp := &CaptchaResponse{}
	resp.Body.CaptchaID = challenge.ID
	resp.Body.Image = challenge.Image

	return resp, nil
}
