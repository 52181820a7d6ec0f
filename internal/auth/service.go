package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// TokenGenerator generates opaque session tokens.
type TokenGenerator func() string

// CaptchaVerifier redeems a captcha challenge. Implemented by
// captcha.Service.
type CaptchaVerifier interface {
	Redeem(ctx context.Context, id, answer string) error
}

// ValidationError is a field-scoped input error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Config holds auth service configuration.
type Config struct {
	// SessionTTL is how long a session stays valid without logout.
	SessionTTL time.Duration

	// LoginCaptcha requires a captcha on login when true. Registration
	// always requires one.
	LoginCaptcha bool
}

// Service implements registration, login, logout, and identity lookup.
type Service struct {
	users         UserRepository
	sessions      SessionStore
	captcha       CaptchaVerifier
	generateToken TokenGenerator
	cfg           Config
}

// NewService creates a new auth service.
func NewService(
	users UserRepository,
	sessions SessionStore,
	captcha CaptchaVerifier,
	generator TokenGenerator,
	cfg Config,
) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	return &Service{
		users:         users,
		sessions:      sessions,
		captcha:       captcha,
		generateToken: generator,
		cfg:           cfg,
	}
}

// RegisterParams describes a registration request.
type RegisterParams struct {
	Username  string
	Email     string
	Password  string
	CaptchaID string
	Captcha   string
}

// Register validates the params, redeems the captcha, and creates a new
// user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, p RegisterParams) (*User, error) {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(p.Email)

	if len(p.Username) < 3 {
		return nil, &ValidationError{Field: "username", Message: "must be at least 3 characters"}
	}

	if !strings.Contains(p.Email, "@") {
		return nil, &ValidationError{Field: "email", Message: "must be a valid email address"}
	}

	if len(p.Password) < minPasswordLength {
		return nil, &ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}

	if err := s.captcha.Redeem(ctx, p.CaptchaID, p.Captcha); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// LoginParams describes a login request. The captcha fields are only
// checked when login captcha is enabled.
type LoginParams struct {
	Username  string
	Password  string
	CaptchaID string
	Captcha   string
}

// Login verifies the credentials and establishes a session. The error
// for an unknown username and a wrong password is identical.
func (s *Service) Login(ctx context.Context, p LoginParams) (string, *User, error) {
	if s.cfg.LoginCaptcha {
		if err := s.captcha.Redeem(ctx, p.CaptchaID, p.Captcha); err != nil {
			return "", nil, err
		}
	}

	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(p.Username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}

		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(p.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := s.generateToken()

	if err := s.sessions.Create(ctx, token, u.Username, s.cfg.SessionTTL); err != nil {
		return "", nil, err
	}

	return token, u, nil
}

// Logout destroys the session for the token. Logging out without a
// session is a no-op success.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	err := s.sessions.Delete(ctx, token)
	if errors.Is(err, ErrNoSession) {
		return nil
	}

	return err
}

// Me resolves the identity behind a session token. Anonymous callers
// get the zero identity, never an error.
func (s *Service) Me(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, nil
	}

	username, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return Identity{}, nil
		}

		return Identity{}, err
	}

	return Identity{Authenticated: true, Username: username}, nil
}
