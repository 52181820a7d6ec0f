package auth

import (
	"context"
	"time"
)

// SessionStore defines the interface for session storage. Tokens are
// opaque; each token maps to exactly one username.
type SessionStore interface {
	// Create stores a session token for a username with a TTL.
	Create(ctx context.Context, token, username string, ttl time.Duration) error

	// Get returns the username for a token. Returns ErrNoSession for
	// unknown or expired tokens.
	Get(ctx context.Context, token string) (string, error)

	// Delete removes a session. Deleting an unknown token is a no-op.
	Delete(ctx context.Context, token string) error
}

// Identity describes the caller of a request.
type Identity struct {
	Authenticated bool
	Username      string
}

type (
	identityKey     struct{}
	sessionTokenKey struct{}
)

// ContextWithSessionToken adds the raw session token to the context so
// logout can destroy the session it arrived with.
func ContextWithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionTokenKey{}, token)
}

// SessionTokenFromContext extracts the raw session token, if any.
func SessionTokenFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionTokenKey{}).(string); ok {
		return v
	}

	return ""
}

// ContextWithIdentity adds the caller identity to the context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext extracts the caller identity from the context.
// Returns the anonymous identity when none was set.
func IdentityFromContext(ctx context.Context) Identity {
	if v, ok := ctx.Value(identityKey{}).(Identity); ok {
		return v
	}

	return Identity{}
}
