package auth

import (
	"context"
	"errors"
	"time"
)

// User represents a registered account.
type User struct {
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

var (
	// ErrUsernameTaken is returned when registering an existing username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrEmailTaken is returned when registering an existing email.
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidCredentials is returned for any failed login. It is
	// deliberately identical for unknown users and wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNoSession is returned by a SessionStore for unknown tokens.
	ErrNoSession = errors.New("no such session")
)

// UserRepository defines the interface for user storage.
type UserRepository interface {
	// Create stores a new user. Returns ErrUsernameTaken or
	// ErrEmailTaken on uniqueness violations.
	Create(ctx context.Context, u *User) error

	// GetByUsername retrieves a user. Returns ErrUserNotFound when absent.
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// ErrUserNotFound is returned by UserRepository for unknown usernames.
var ErrUserNotFound = errors.New("user not found")
