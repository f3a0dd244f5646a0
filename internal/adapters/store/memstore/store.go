// Package memstore implements an in-memory cache store, used in tests
// and for cacheless trial runs.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/svsamipillai/machine/internal/core/domain"
	"github.com/svsamipillai/machine/internal/core/ports"
)

var _ ports.CacheStore = (*Store)(nil)

// Store keeps cache entries in memory. Data values are stored as-is,
// so a hit returns the identical value that was written.
type Store struct {
	mu      sync.RWMutex
	entries []domain.CacheEntry
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// Find returns entries for hash created strictly after cutoff, newest
// first, at most limit.
func (s *Store) Find(_ context.Context, hash string, cutoff time.Time, limit int) ([]domain.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []domain.CacheEntry
	for _, e := range s.entries {
		if e.Hash == hash && e.CreatedAt.After(cutoff) {
			matches = append(matches, e)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// Create appends a new entry, assigning an ID when empty.
func (s *Store) Create(_ context.Context, entry domain.CacheEntry) (domain.CacheEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	s.mu.Unlock()

	return entry, nil
}

// CountStale returns the number of entries for hash with
// CreatedAt <= cutoff.
func (s *Store) CountStale(_ context.Context, hash string, cutoff time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, e := range s.entries {
		if e.Hash == hash && !e.CreatedAt.After(cutoff) {
			count++
		}
	}
	return count, nil
}

// DestroyStale deletes stale entries for hash, newest first, skipping
// the first keep so the keep most recent stale entries survive.
func (s *Store) DestroyStale(_ context.Context, hash string, cutoff time.Time, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stale []domain.CacheEntry
	for _, e := range s.entries {
		if e.Hash == hash && !e.CreatedAt.After(cutoff) {
			stale = append(stale, e)
		}
	}
	sort.Slice(stale, func(i, j int) bool {
		return stale[i].CreatedAt.After(stale[j].CreatedAt)
	})
	if keep >= len(stale) {
		return nil
	}

	doomed := make(map[string]bool, len(stale)-keep)
	for _, e := range stale[keep:] {
		doomed[e.ID] = true
	}

	kept := s.entries[:0]
	for _, e := range s.entries {
		if !doomed[e.ID] {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return nil
}

// Len returns the total number of entries. Used in tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
