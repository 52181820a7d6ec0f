package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linkdeck/linkdeck/internal/analytics"
)

// PostgresClickStore is a PostgreSQL implementation of analytics.Store.
type PostgresClickStore struct {
	pool *pgxpool.Pool
}

// NewPostgresClickStore creates a new PostgreSQL-backed click store.
func NewPostgresClickStore(pool *pgxpool.Pool) *PostgresClickStore {
	return &PostgresClickStore{pool: pool}
}

func (p *PostgresClickStore) SaveClick(ctx context.Context, event *analytics.ClickEvent) error {
	query := `
		INSERT INTO clicks (code, clicked_at, client_ip, user_agent, referrer)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Code,
		event.ClickedAt,
		nullableString(event.ClientIP),
		nullableString(event.UserAgent),
		nullableString(event.Referrer),
	)

	return err
}

func (p *PostgresClickStore) ClicksByHour(ctx context.Context, code string, start, end time.Time) ([]analytics.HourBucket, error) {
	query := `
		SELECT date_trunc('hour', clicked_at AT TIME ZONE 'UTC') AS hour, count(*)
		FROM clicks
		WHERE code = $1 AND clicked_at BETWEEN $2 AND $3
		GROUP BY hour
		ORDER BY hour
	`

	rows, err := p.pool.Query(ctx, query, code, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := make([]analytics.HourBucket, 0)

	for rows.Next() {
		var b analytics.HourBucket
		if err := rows.Scan(&b.Hour, &b.Clicks); err != nil {
			return nil, err
		}

		buckets = append(buckets, b)
	}

	return buckets, rows.Err()
}

func (p *PostgresClickStore) ClicksByCodeHour(ctx context.Context, codes []string, start, end time.Time) ([]analytics.CodeHourBucket, error) {
	query := `
		SELECT code, date_trunc('hour', clicked_at AT TIME ZONE 'UTC') AS hour, count(*)
		FROM clicks
		WHERE code = ANY($1) AND clicked_at BETWEEN $2 AND $3
		GROUP BY code, hour
		ORDER BY hour, code
	`

	rows, err := p.pool.Query(ctx, query, codes, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buckets := make([]analytics.CodeHourBucket, 0)

	for rows.Next() {
		var b analytics.CodeHourBucket
		if err := rows.Scan(&b.Code, &b.Hour, &b.Clicks); err != nil {
			return nil, err
		}

		buckets = append(buckets, b)
	}

	return buckets, rows.Err()
}

func (p *PostgresClickStore) TopReferrers(ctx context.Context, code string, start, end time.Time, limit int) ([]analytics.NameCount, error) {
	query := `
		SELECT coalesce(nullif(referrer, ''), '(direct)') AS name, count(*)
		FROM clicks
		WHERE code = $1 AND clicked_at BETWEEN $2 AND $3
		GROUP BY name
		ORDER BY count(*) DESC, name
		LIMIT $4
	`

	return p.queryNameCounts(ctx, query, code, start, end, limit)
}

func (p *PostgresClickStore) TopUserAgents(ctx context.Context, code string, start, end time.Time, limit int) ([]analytics.NameCount, error) {
	query := `
		SELECT coalesce(nullif(user_agent, ''), '(unknown)') AS name, count(*)
		FROM clicks
		WHERE code = $1 AND clicked_at BETWEEN $2 AND $3
		GROUP BY name
		ORDER BY count(*) DESC, name
		LIMIT $4
	`

	return p.queryNameCounts(ctx, query, code, start, end, limit)
}

func (p *PostgresClickStore) ClickCounts(ctx context.Context, codes []string) (map[string]int64, error) {
	query := `
		SELECT code, count(*)
		FROM clicks
		WHERE code = ANY($1)
		GROUP BY code
	`

	rows, err := p.pool.Query(ctx, query, codes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64, len(codes))

	for rows.Next() {
		var (
			code  string
			count int64
		)

		if err := rows.Scan(&code, &count); err != nil {
			return nil, err
		}

		counts[code] = count
	}

	return counts, rows.Err()
}

func (p *PostgresClickStore) queryNameCounts(ctx context.Context, query, code string, start, end time.Time, limit int) ([]analytics.NameCount, error) {
	rows, err := p.pool.Query(ctx, query, code, start, end, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]analytics.NameCount, 0, limit)

	for rows.Next() {
		var nc analytics.NameCount
		if err := rows.Scan(&nc.Name, &nc.Clicks); err != nil {
			return nil, err
		}

		result = append(result, nc)
	}

	return result, rows.Err()
}

var _ analytics.Store = (*PostgresClickStore)(nil)
