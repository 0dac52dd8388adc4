// Package db provides PostgreSQL-backed client storage for interview results.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/interview-practice/internal/storage"
)

// schema creates the key/value table used by DB as a storage.Store.
const schema = `
CREATE TABLE IF NOT EXISTS client_storage (
	id         UUID PRIMARY KEY,
	key        TEXT NOT NULL UNIQUE,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
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

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the client_storage table if it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create client_storage table: %w", err)
	}
	return nil
}

// Put upserts value under key.
func (db *DB) Put(ctx context.Context, key, value string) error {
	if err := storage.ValidateKey(key); err != nil {
		return err
	}
	_, err := db.pool.Exec(ctx,
		`INSERT INTO client_storage (id, key, value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET value = $3, updated_at = NOW()`,
		uuid.New(), key, value,
	)
	if err != nil {
		return &storage.Error{Key: key, Message: "failed to save value", Cause: err}
	}
	return nil
}

// Get returns the value stored under key or storage.ErrNotFound.
func (db *DB) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := db.pool.QueryRow(ctx,
		`SELECT value FROM client_storage WHERE key = $1`, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", &storage.Error{Key: key, Message: "not found", Cause: storage.ErrNotFound}
		}
		return "", &storage.Error{Key: key, Message: "failed to load value", Cause: err}
	}
	return value, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (db *DB) Delete(ctx context.Context, key string) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM client_storage WHERE key = $1`, key); err != nil {
		return &storage.Error{Key: key, Message: "failed to delete value", Cause: err}
	}
	return nil
}

var _ storage.Store = (*DB)(nil)
