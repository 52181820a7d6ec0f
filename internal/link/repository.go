package link

import "context"

// Repository defines the interface for link storage.
type Repository interface {
	// Save stores a new link. Returns ErrCodeTaken if the code is in use.
	Save(ctx context.Context, l *Link) error

	// GetByCode retrieves a link by its code. Returns ErrNotFound if absent.
	GetByCode(ctx context.Context, code Code) (*Link, error)

	// Delete removes a link. Returns ErrNotFound if absent.
	Delete(ctx context.Context, code Code) error

	// List returns links ordered newest first.
	List(ctx context.Context, offset, limit int) ([]*Link, error)

	// Count returns the total number of links.
	Count(ctx context.Context) (int64, error)

	// Search returns links whose code or title contains q
	// (case-insensitive), ordered newest first. An empty q matches all.
	Search(ctx context.Context, q string, limit int) ([]*Link, error)

	// ListByURL returns all links pointing at originalURL, newest first.
	ListByURL(ctx context.Context, originalURL string) ([]*Link, error)
}
