package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tanvi-28/huddle/internal/models"
)

const snapshotKey = "huddle:snapshot"

// maxTxRetries bounds the optimistic-concurrency retry loop in Update.
const maxTxRetries = 10

// RedisStore persists the snapshot as one JSON value in Redis. Updates run
// inside a WATCH transaction so two concurrent writers cannot silently drop
// each other's changes; the loser retries against the fresh state.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreWithClient wraps an existing client; tests pass a miniredis
// backed one here.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func decodeState(raw string) (*models.State, error) {
	state := models.NewState()
	if raw == "" {
		return state, nil
	}
	if err := json.Unmarshal([]byte(raw), state); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return state, nil
}

func (s *RedisStore) Update(ctx context.Context, fn func(*models.State) error) error {
	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, snapshotKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("read snapshot: %w", err)
		}

		state, err := decodeState(raw)
		if err != nil {
			return err
		}
		if err := fn(state); err != nil {
			return err
		}

		next, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("marshal snapshot: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, snapshotKey, next, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txn, snapshotKey)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update snapshot: transaction contention, gave up after %d attempts", maxTxRetries)
}

func (s *RedisStore) View(ctx context.Context, fn func(*models.State) error) error {
	raw, err := s.client.Get(ctx, snapshotKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("read snapshot: %w", err)
	}

	state, err := decodeState(raw)
	if err != nil {
		return err
	}
	return fn(state)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
