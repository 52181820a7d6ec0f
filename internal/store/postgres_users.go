package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linkdeck/linkdeck/internal/auth"
)

// PostgresUserStore is a PostgreSQL implementation of auth.UserRepository.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

// NewPostgresUserStore creates a new PostgreSQL-backed user store.
func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

func (p *PostgresUserStore) Create(ctx context.Context, u *auth.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := p.pool.Exec(ctx, query, u.Username, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return auth.ErrEmailTaken
			}

			return auth.ErrUsernameTaken
		}

		return err
	}

	return nil
}

func (p *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	query := `
		SELECT username, email, password_hash, created_at
		FROM users
		WHERE username = $1
	`

	var u auth.User

	err := p.pool.QueryRow(ctx, query, username).Scan(
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}

		return nil, err
	}

	return &u, nil
}

var _ auth.UserRepository = (*PostgresUserStore)(nil)
