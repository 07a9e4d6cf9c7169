// Package postgres persists publish records in Postgres.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"whalerelay/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS publish_records (
	id           BIGSERIAL PRIMARY KEY,
	ts           TIMESTAMPTZ NOT NULL,
	rule_name    TEXT NOT NULL,
	path         TEXT NOT NULL,
	content_type TEXT NOT NULL,
	status_code  INT NOT NULL,
	success      BOOLEAN NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_publish_records_rule ON publish_records(rule_name);
CREATE INDEX IF NOT EXISTS idx_publish_records_ts ON publish_records(ts);
`

// Store is a pgx-backed audit sink. Records are insert-only.
type Store struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewStore connects to Postgres and ensures the audit table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure audit schema: %w", err)
	}
	return &Store{pool: pool, timeout: 5 * time.Second}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Write inserts one publish record.
func (s *Store) Write(record model.PublishRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO publish_records (ts, rule_name, path, content_type, status_code, success)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		record.Timestamp,
		record.RuleName,
		string(record.Path),
		string(record.ContentType),
		record.StatusCode,
		record.Success,
	)
	return err
}
