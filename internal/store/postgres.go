package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linkdeck/linkdeck/internal/link"
)

const pgUniqueViolation = "23505"

// PostgresLinkStore is a PostgreSQL implementation of link.Repository.
type PostgresLinkStore struct {
	pool *pgxpool.Pool
}

// NewPostgresLinkStore creates a new PostgreSQL-backed link store.
func NewPostgresLinkStore(pool *pgxpool.Pool) *PostgresLinkStore {
	return &PostgresLinkStore{pool: pool}
}

func (p *PostgresLinkStore) Save(ctx context.Context, l *link.Link) error {
	query := `
		INSERT INTO short_links (code, original_url, title, password_hash, owner_username, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.pool.Exec(ctx, query,
		string(l.Code),
		l.OriginalURL,
		nullableString(l.Title),
		nullableString(l.PasswordHash),
		nullableString(l.Owner),
		l.CreatedAt,
		l.ExpiresAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return link.ErrCodeTaken
		}

		return err
	}

	return nil
}

func (p *PostgresLinkStore) GetByCode(ctx context.Context, code link.Code) (*link.Link, error) {
	query := `
		SELECT code, original_url, title, password_hash, owner_username, created_at, expires_at
		FROM short_links
		WHERE code = $1
	`

	l, err := scanLink(p.pool.QueryRow(ctx, query, string(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, link.ErrNotFound
		}

		return nil, err
	}

	return l, nil
}

func (p *PostgresLinkStore) Delete(ctx context.Context, code link.Code) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM short_links WHERE code = $1`, string(code))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return link.ErrNotFound
	}

	return nil
}

func (p *PostgresLinkStore) List(ctx context.Context, offset, limit int) ([]*link.Link, error) {
	query := `
		SELECT code, original_url, title, password_hash, owner_username, created_at, expires_at
		FROM short_links
		ORDER BY created_at DESC, code
		OFFSET $1 LIMIT $2
	`

	rows, err := p.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLinks(rows)
}

func (p *PostgresLinkStore) Count(ctx context.Context) (int64, error) {
	var count int64

	err := p.pool.QueryRow(ctx, `SELECT count(*) FROM short_links`).Scan(&count)

	return count, err
}

func (p *PostgresLinkStore) Search(ctx context.Context, q string, limit int) ([]*link.Link, error) {
	query := `
		SELECT code, original_url, title, password_hash, owner_username, created_at, expires_at
		FROM short_links
		WHERE code ILIKE '%' || $1 || '%' ESCAPE '\' OR title ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY created_at DESC, code
		LIMIT $2
	`

	rows, err := p.pool.Query(ctx, query, escapeLike(q), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLinks(rows)
}

func (p *PostgresLinkStore) ListByURL(ctx context.Context, originalURL string) ([]*link.Link, error) {
	query := `
		SELECT code, original_url, title, password_hash, owner_username, created_at, expires_at
		FROM short_links
		WHERE original_url = $1
		ORDER BY created_at DESC, code
	`

	rows, err := p.pool.Query(ctx, query, originalURL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLinks(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (*link.Link, error) {
	var (
		l            link.Link
		title        *string
		passwordHash *string
		owner        *string
	)

	err := row.Scan(
		&l.Code,
		&l.OriginalURL,
		&title,
		&passwordHash,
		&owner,
		&l.CreatedAt,
		&l.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	if title != nil {
		l.Title = *title
	}

	if passwordHash != nil {
		l.PasswordHash = *passwordHash
	}

	if owner != nil {
		l.Owner = *owner
	}

	return &l, nil
}

func collectLinks(rows pgx.Rows) ([]*link.Link, error) {
	links := make([]*link.Link, 0)

	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}

		links = append(links, l)
	}

	return links, rows.Err()
}

// likeEscaper neutralizes LIKE metacharacters so user input matches
// literally instead of acting as a pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(q string) string {
	return likeEscaper.Replace(q)
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// Migrate creates the schema used by the Postgres stores.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS short_links (
			code           TEXT PRIMARY KEY,
			original_url   TEXT NOT NULL,
			title          TEXT,
			password_hash  TEXT,
			owner_username TEXT,
			created_at     TIMESTAMPTZ NOT NULL,
			expires_at     TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			username      TEXT PRIMARY KEY,
			email         TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (lower(email))`,
		`CREATE TABLE IF NOT EXISTS clicks (
			id         BIGSERIAL PRIMARY KEY,
			code       TEXT NOT NULL,
			clicked_at TIMESTAMPTZ NOT NULL,
			client_ip  TEXT,
			user_agent TEXT,
			referrer   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS clicks_code_clicked_at_idx ON clicks (code, clicked_at)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

var _ link.Repository = (*PostgresLinkStore)(nil)
