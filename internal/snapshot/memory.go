package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tanvi-28/huddle/internal/models"
)

// MemoryStore keeps the snapshot in process memory behind a mutex. It is the
// default backend for tests and single-node development.
type MemoryStore struct {
	mu    sync.Mutex
	state *models.State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: models.NewState()}
}

// clone deep-copies a state through JSON. The snapshot is JSON end to end in
// every backend, so this cannot diverge from what redis/postgres would store.
func clone(s *models.State) (*models.State, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	out := models.NewState()
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	return out, nil
}

func (m *MemoryStore) Update(ctx context.Context, fn func(*models.State) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// fn runs against a copy; the copy only becomes the stored state when
	// fn succeeds. A failed operation must not leave partial mutations.
	next, err := clone(m.state)
	if err != nil {
		return err
	}
	if err := fn(next); err != nil {
		return err
	}
	m.state = next
	return nil
}

func (m *MemoryStore) View(ctx context.Context, fn func(*models.State) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copy, err := clone(m.state)
	if err != nil {
		return err
	}
	return fn(copy)
}

func (m *MemoryStore) Close() error { return nil }
