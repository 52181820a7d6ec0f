package link

import (
	"errors"
	"time"
)

// Code represents a short link code.
type Code string

// Link represents a short link entity.
type Link struct {
	Code         Code
	OriginalURL  string
	Title        string
	PasswordHash string // bcrypt hash, empty when the link is not protected
	Owner        string // username of the creator, empty for anonymous links
	CreatedAt    time.Time
	ExpiresAt    *time.Time
}

// Protected reports whether the link requires a password to resolve.
func (l *Link) Protected() bool {
	return l.PasswordHash != ""
}

// Expired reports whether the link has expired at the given instant.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

var (
	// ErrNotFound is returned when no link exists for a code.
	ErrNotFound = errors.New("link not found")

	// ErrCodeTaken is returned when a requested code is already in use.
	ErrCodeTaken = errors.New("short code already taken")

	// ErrExpired is returned when a link exists but its expiry has passed.
	ErrExpired = errors.New("link expired")

	// ErrPasswordRequired is returned when resolving a protected link
	// without going through password verification.
	ErrPasswordRequired = errors.New("password required")

	// ErrWrongPassword is returned when password verification fails.
	ErrWrongPassword = errors.New("wrong password")
)

// ValidationError is a field-scoped input error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
