package cache

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS analysis_kv (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// PostgresStore is the Store backend for serve mode, where several API
// consumers share one result cache.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool and ensures the kv table.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to init kv schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Get returns values for the requested keys; absent keys are omitted.
func (s *PostgresStore) Get(ctx context.Context, keys []string) (map[string][]byte, error) {
	if len(keys) == 0 {
		return map[string][]byte{}, nil
	}
	rows, err := s.pool.Query(ctx, "SELECT key, value FROM analysis_kv WHERE key = ANY($1)", keys)
	if err != nil {
		return nil, fmt.Errorf("kv select: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]byte, len(keys))
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("kv scan: %w", err)
		}
		out[key] = value
	}
	return out, rows.Err()
}

// Set upserts all entries in one batch.
func (s *PostgresStore) Set(ctx context.Context, entries map[string][]byte) error {
	batch := &pgx.Batch{}
	for key, value := range entries {
		batch.Queue(
			`INSERT INTO analysis_kv (key, value, updated_at) VALUES ($1, $2, NOW())
			 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
			key, value)
	}
	results := s.pool.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()
	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("kv upsert: %w", err)
		}
	}
	return nil
}

// Remove deletes the given keys; missing keys are not an error.
func (s *PostgresStore) Remove(ctx context.Context, keys []string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM analysis_kv WHERE key = ANY($1)", keys); err != nil {
		return fmt.Errorf("kv delete: %w", err)
	}
	return nil
}
