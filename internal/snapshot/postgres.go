package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tanvi-28/huddle/internal/models"
)

// PostgresStore persists the snapshot as a single jsonb row. The store
// contract is whole-state read and whole-state replace, so there is exactly
// one row; SELECT ... FOR UPDATE serializes writers and gives Update its
// read-modify-write atomicity.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	// Every operation holds at most one connection for the duration of a
	// single snapshot transaction, so the pool can stay small.
	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 20 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS snapshot (
			id   int PRIMARY KEY CHECK (id = 1),
			data jsonb NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create snapshot table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, fn func(*models.State) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var raw []byte
	err = tx.QueryRow(ctx, `SELECT data FROM snapshot WHERE id = 1 FOR UPDATE`).Scan(&raw)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("read snapshot: %w", err)
	}

	state := models.NewState()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, state); err != nil {
			return fmt.Errorf("unmarshal snapshot: %w", err)
		}
	}

	if err := fn(state); err != nil {
		return err
	}

	next, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO snapshot (id, data) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`, next)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) View(ctx context.Context, fn func(*models.State) error) error {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM snapshot WHERE id = 1`).Scan(&raw)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("read snapshot: %w", err)
	}

	state := models.NewState()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, state); err != nil {
			return fmt.Errorf("unmarshal snapshot: %w", err)
		}
	}
	return fn(state)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Health reports whether the database is reachable.
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
