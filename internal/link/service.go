package link

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	// PageSize is the number of links per list page.
	PageSize = 20

	// OptionsLimit caps the number of autocomplete results.
	OptionsLimit = 20

	// BatchLimit caps the number of items in a single batch request.
	BatchLimit = 100

	// generated codes that collide are retried this many times
	maxCodeAttempts = 3
)

// CodeGenerator generates unique short codes.
type CodeGenerator func() string

// CreateParams describes a single link creation request.
type CreateParams struct {
	URL       string
	Code      string // optional, generated when empty
	Title     string
	Password  string // optional, stored as a bcrypt hash
	ExpiresAt *time.Time
}

// BatchResult is the outcome of a single item in a batch creation.
// Exactly one of Link and Err is set.
type BatchResult struct {
	Link *Link
	Err  error
}

// Service implements link registry operations on top of a Repository.
type Service struct {
	repo         Repository
	generateCode CodeGenerator
}

// NewService creates a new link service.
func NewService(repo Repository, generator CodeGenerator) *Service {
	return &Service{
		repo:         repo,
		generateCode: generator,
	}
}

// Create validates the params and stores a new link owned by owner
// (empty for anonymous). Returns a *ValidationError for malformed
// input, ErrCodeTaken when the requested code collides.
func (s *Service) Create(ctx context.Context, owner string, p CreateParams) (*Link, error) {
	if err := ValidateURL(p.URL); err != nil {
		return nil, err
	}

	if p.ExpiresAt != nil && p.ExpiresAt.Before(time.Now()) {
		return nil, &ValidationError{Field: "expiresAt", Message: "must be in the future"}
	}

	var passwordHash string

	if p.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}

		passwordHash = string(hash)
	}

	l := &Link{
		OriginalURL:  p.URL,
		Title:        p.Title,
		PasswordHash: passwordHash,
		Owner:        owner,
		CreatedAt:    time.Now(),
		ExpiresAt:    p.ExpiresAt,
	}

	if p.Code != "" {
		l.Code = Code(p.Code)

		if err := s.repo.Save(ctx, l); err != nil {
			return nil, err
		}

		return l, nil
	}

	// Generated codes can collide; retry with a fresh code.
	var err error

	for range maxCodeAttempts {
		l.Code = Code(s.generateCode())

		err = s.repo.Save(ctx, l)
		if !errors.Is(err, ErrCodeTaken) {
			break
		}
	}

	if err != nil {
		return nil, err
	}

	return l, nil
}

// CreateBatch creates links for each item independently. The result
// preserves input order; a failed item never aborts its siblings.
func (s *Service) CreateBatch(ctx context.Context, owner string, items []CreateParams) []BatchResult {
	results := make([]BatchResult, len(items))

	for i, item := range items {
		l, err := s.Create(ctx, owner, item)
		results[i] = BatchResult{Link: l, Err: err}
	}

	return results
}

// Get returns a link by code regardless of expiry or protection.
func (s *Service) Get(ctx context.Context, code Code) (*Link, error) {
	return s.repo.GetByCode(ctx, code)
}

// Delete removes a link by code. Returns ErrNotFound when absent, so a
// repeated delete reports cleanly instead of succeeding silently.
func (s *Service) Delete(ctx context.Context, code Code) error {
	return s.repo.Delete(ctx, code)
}

// List returns the given 1-based page of links, newest first.
// Out-of-range pages return an empty slice.
func (s *Service) List(ctx context.Context, page int) ([]*Link, int64, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	links, err := s.repo.List(ctx, (page-1)*PageSize, PageSize)
	if err != nil {
		return nil, 0, err
	}

	return links, total, nil
}

// CodeOptions returns links matching q for autocomplete. An empty q
// returns the most recent links.
func (s *Service) CodeOptions(ctx context.Context, q string) ([]*Link, error) {
	return s.repo.Search(ctx, q, OptionsLimit)
}

// Resolve looks up a link for redirecting. Returns ErrExpired for
// expired links and ErrPasswordRequired for protected ones.
func (s *Service) Resolve(ctx context.Context, code Code) (*Link, error) {
	l, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if l.Expired(time.Now()) {
		return nil, ErrExpired
	}

	if l.Protected() {
		return nil, ErrPasswordRequired
	}

	return l, nil
}

// VerifyPassword checks password against a protected link. Returns
// ErrNotFound when the code is unknown or the link carries no password,
// ErrExpired for expired links, and ErrWrongPassword on mismatch.
func (s *Service) VerifyPassword(ctx context.Context, code Code, password string) (*Link, error) {
	l, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if !l.Protected() {
		return nil, ErrNotFound
	}

	if l.Expired(time.Now()) {
		return nil, ErrExpired
	}

	if err := bcrypt.CompareHashAndPassword([]byte(l.PasswordHash), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}

	return l, nil
}
