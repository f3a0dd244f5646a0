// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"time"

	"github.com/svsamipillai/machine/internal/core/domain"
)

// CacheStore is the contract a memoization store must satisfy. The store
// is owned by the caller and may be shared across many machine types and
// processes, partitioned solely by hash; the runner never assumes it is
// the sole writer.
//
// All operations may fail independently. The runner downgrades every
// store failure to a warning and falls back to executing the machine.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type CacheStore interface {
	// Find returns entries for hash created strictly after cutoff,
	// newest first, at most limit entries.
	Find(ctx context.Context, hash string, cutoff time.Time, limit int) ([]domain.CacheEntry, error)

	// Create persists a new entry and returns it with its ID assigned.
	Create(ctx context.Context, entry domain.CacheEntry) (domain.CacheEntry, error)

	// CountStale returns the number of entries for hash with
	// CreatedAt <= cutoff.
	CountStale(ctx context.Context, hash string, cutoff time.Time) (int, error)

	// DestroyStale deletes entries for hash with CreatedAt <= cutoff,
	// ordered newest first, skipping the first keep entries so the keep
	// most recent stale entries survive as a buffer.
	DestroyStale(ctx context.Context, hash string, cutoff time.Time, keep int) error
}
