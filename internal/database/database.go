package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the postgres connection pool
type DB struct {
	Pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS fact_close (
	provider TEXT NOT NULL,
	symbol   TEXT NOT NULL,
	date     DATE NOT NULL,
	close    DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (provider, symbol, date)
);

CREATE TABLE IF NOT EXISTS fact_close_range (
	provider    TEXT NOT NULL,
	symbol      TEXT NOT NULL,
	start_date  DATE NOT NULL,
	end_date    DATE NOT NULL,
	next_update TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (provider, symbol)
);
`

// New connects to postgres and verifies the connection
func New(ctx context.Context, pgURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, pgURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// EnsureSchema creates the close cache tables if they do not exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close releases the pool
func (db *DB) Close() {
	db.Pool.Close()
}
