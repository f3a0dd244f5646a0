package domain

import "time"

const (
	// DefaultTTL is the freshness window applied when a machine's cache
	// settings do not specify one.
	DefaultTTL = 3 * time.Hour

	// DefaultMaxOldEntriesBuffer is the number of stale entries per hash
	// retained by the garbage collector when not configured.
	DefaultMaxOldEntriesBuffer = 0
)

// CacheSettings is the per-machine cache configuration supplied by the
// definition. Zero values are filled with defaults when the runner
// normalizes them at the start of a run.
type CacheSettings struct {
	// TTL is the freshness window. Entries older than now-TTL are stale.
	TTL time.Duration

	// MaxOldEntriesBuffer is the number of stale entries per hash the
	// garbage collector deliberately leaves behind, so that a sweep does
	// not run on every single miss.
	MaxOldEntriesBuffer int

	// CacheableExit names the single exit whose result is memoized.
	// Defaults to ExitSuccess.
	CacheableExit string
}

// CacheEntry is a persisted memoization record. Entries are created only
// by a successful traversal of the cacheable exit, never mutated, and
// deleted only by the garbage collector.
type CacheEntry struct {
	// ID identifies the record in the store. Assigned by the store on
	// create when empty.
	ID string

	// Hash is the content hash of the inputs that produced Data.
	Hash string

	// Data is the memoized result value.
	Data any

	// CreatedAt is the creation timestamp. Freshness is strict:
	// an entry created exactly at the cutoff is stale.
	CreatedAt time.Time
}

// FreshAt reports whether the entry is usable relative to the given
// expiration cutoff. The comparison is strict on purpose: an entry
// created exactly at the cutoff is not fresh.
func (e CacheEntry) FreshAt(cutoff time.Time) bool {
	return e.CreatedAt.After(cutoff)
}
