// Package db provides PostgreSQL storage for snapshots and the candidate
// profile. Persistence is deliberately dumb: upsert-on-conflict plus
// filtered reads; all classification and scoring happens at read time.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS snapshots (
    id              UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    dedup_key       TEXT NOT NULL UNIQUE,
    date            TEXT NOT NULL,
    role            TEXT NOT NULL,
    region          TEXT NOT NULL,
    platform        TEXT NOT NULL,
    job_title       TEXT NOT NULL DEFAULT '',
    company_name    TEXT NOT NULL DEFAULT '',
    location_detail TEXT NOT NULL DEFAULT '',
    salary_range    TEXT NOT NULL DEFAULT '',
    description     TEXT NOT NULL DEFAULT '',
    skills          JSONB,
    preview_snippet TEXT NOT NULL DEFAULT '',
    search_url      TEXT NOT NULL DEFAULT '',
    source_url      TEXT NOT NULL DEFAULT '',
    keyword_hits    JSONB,
    keyword_score   INTEGER NOT NULL DEFAULT 0,
    seniority_hint  BOOLEAN NOT NULL DEFAULT FALSE,
    latitude        DOUBLE PRECISION,
    longitude       DOUBLE PRECISION,
    distance_km     DOUBLE PRECISION,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_snapshots_date ON snapshots (date);
CREATE INDEX IF NOT EXISTS idx_snapshots_region ON snapshots (region);

CREATE TABLE IF NOT EXISTS profiles (
    key        TEXT PRIMARY KEY,
    data       JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

	if _, err := db.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
