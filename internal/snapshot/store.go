// Package snapshot persists the workspace state as a single unit. The store
// exposes atomic read-modify-write, so an operation either lands its whole
// update or leaves the stored state untouched.
package snapshot

import (
	"context"

	"github.com/tanvi-28/huddle/internal/models"
)

// Store is the persistence contract for the workspace snapshot.
//
// Update reads the current state, applies fn, and writes the result back in
// one transaction. If fn returns an error nothing is written and the error
// is returned unchanged, so domain failures pass through without wrapping.
// View applies fn to a read-only copy of the state.
type Store interface {
	Update(ctx context.Context, fn func(*models.State) error) error
	View(ctx context.Context, fn func(*models.State) error) error
	Close() error
}
