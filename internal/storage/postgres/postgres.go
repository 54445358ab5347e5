package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/KumariSiddhi/Ecommerce-Sidlume-App/internal/storage"
)

// Migrations holds the schema for the key-value table.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// DBTX is the subset of *pgxpool.Pool the adapter needs. pgxmock pools
// satisfy it as well.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Adapter implements storage.Adapter on a single PostgreSQL table.
type Adapter struct {
	db DBTX
}

// New creates a PostgreSQL-backed adapter.
func New(db DBTX) *Adapter {
	return &Adapter{db: db}
}

// Get retrieves the value stored under key.
func (a *Adapter) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM kv_store WHERE key = $1`

	var value []byte
	if err := a.db.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("select kv %s: %w", key, err)
	}

	return value, nil
}

// Set upserts value under key in a single statement.
func (a *Adapter) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if _, err := a.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert kv %s: %w", key, err)
	}

	return nil
}

// Ping checks connectivity to the database.
func (a *Adapter) Ping(ctx context.Context) error {
	return a.db.Ping(ctx)
}
