package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Registers the pgx stdlib driver for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"chargeback-gateway/internal/merchant/models"
	"chargeback-gateway/pkg/platform/sentinel"
)

// Postgres persists merchants in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres opens a pool against the given DSN and verifies connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{db: db}, nil
}

// NewPostgres wraps an existing pool (used by integration tests).
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates the merchants table when absent.
func (s *Postgres) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS merchants (
			id           TEXT PRIMARY KEY,
			name         TEXT NOT NULL,
			api_key_hash TEXT NOT NULL,
			active       BOOLEAN NOT NULL DEFAULT TRUE,
			created_at   TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("migrate merchants: %w", err)
	}
	return nil
}

func (s *Postgres) Create(ctx context.Context, m *models.Merchant) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO merchants (id, name, api_key_hash, active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`,
		m.ID, m.Name, m.APIKeyHash, m.Active, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert merchant: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert merchant: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id string) (*models.Merchant, error) {
	var m models.Merchant
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, api_key_hash, active, created_at
		FROM merchants WHERE id = $1`, id).
		Scan(&m.ID, &m.Name, &m.APIKeyHash, &m.Active, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find merchant: %w", err)
	}
	return &m, nil
}

func (s *Postgres) ListActive(ctx context.Context) ([]*models.Merchant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, api_key_hash, active, created_at
		FROM merchants WHERE active ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list merchants: %w", err)
	}
	defer rows.Close()

	var out []*models.Merchant
	for rows.Next() {
		var m models.Merchant
		if err := rows.Scan(&m.ID, &m.Name, &m.APIKeyHash, &m.Active, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan merchant: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list merchants: %w", err)
	}
	return out, nil
}

// Close releases the pool.
func (s *Postgres) Close() error {
	return s.db.Close()
}
