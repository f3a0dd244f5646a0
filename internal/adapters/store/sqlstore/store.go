// Package sqlstore implements a durable cache store on SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/svsamipillai/machine/internal/core/domain"
	"github.com/svsamipillai/machine/internal/core/ports"
	"go.trai.ch/zerr"

	_ "modernc.org/sqlite"
)

const createEntriesTable = `
CREATE TABLE IF NOT EXISTS machine_cache (
    id         TEXT PRIMARY KEY,
    hash       TEXT NOT NULL,
    data       TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_machine_cache_hash_created
    ON machine_cache (hash, created_at)`

var _ ports.CacheStore = (*Store)(nil)

// Store persists cache entries in a SQLite database. Timestamps are
// stored as UnixNano integers so the strict freshness comparisons of
// the runner survive the round trip; data values are stored as JSON.
//
// The store may be shared by many machine types and processes; rows
// are partitioned solely by hash.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreOpenFailed, err.Error()), "path", path)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, zerr.Wrap(err, "failed to set WAL mode")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, zerr.Wrap(err, "failed to set busy timeout")
	}
	if _, err := db.Exec(createEntriesTable); err != nil {
		_ = db.Close()
		return nil, zerr.Wrap(err, "failed to create cache table")
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Find returns entries for hash created strictly after cutoff, newest
// first, at most limit.
func (s *Store) Find(ctx context.Context, hash string, cutoff time.Time, limit int) ([]domain.CacheEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data, created_at FROM machine_cache
		 WHERE hash = ? AND created_at > ?
		 ORDER BY created_at DESC LIMIT ?`,
		hash, cutoff.UnixNano(), limit,
	)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to query cache entries")
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var entries []domain.CacheEntry
	for rows.Next() {
		var (
			id        string
			raw       []byte
			createdAt int64
		)
		if err := rows.Scan(&id, &raw, &createdAt); err != nil {
			return nil, zerr.Wrap(err, "failed to scan cache entry")
		}

		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, zerr.Wrap(err, "failed to decode cache entry data")
		}

		entries = append(entries, domain.CacheEntry{
			ID:        id,
			Hash:      hash,
			Data:      data,
			CreatedAt: time.Unix(0, createdAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to iterate cache entries")
	}
	return entries, nil
}

// Create inserts a new entry, assigning an ID when empty.
func (s *Store) Create(ctx context.Context, entry domain.CacheEntry) (domain.CacheEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	raw, err := json.Marshal(entry.Data)
	if err != nil {
		return domain.CacheEntry{}, zerr.Wrap(err, "failed to encode cache entry data")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO machine_cache (id, hash, data, created_at) VALUES (?, ?, ?, ?)`,
		entry.ID, entry.Hash, raw, entry.CreatedAt.UnixNano(),
	)
	if err != nil {
		return domain.CacheEntry{}, zerr.Wrap(err, "failed to insert cache entry")
	}
	return entry, nil
}

// CountStale returns the number of entries for hash with
// created_at <= cutoff.
func (s *Store) CountStale(ctx context.Context, hash string, cutoff time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM machine_cache WHERE hash = ? AND created_at <= ?`,
		hash, cutoff.UnixNano(),
	).Scan(&count)
	if err != nil {
		return 0, zerr.Wrap(err, "failed to count stale cache entries")
	}
	return count, nil
}

// DestroyStale deletes stale entries for hash, newest first, skipping
// the first keep rows.
func (s *Store) DestroyStale(ctx context.Context, hash string, cutoff time.Time, keep int) error {
	// LIMIT -1 OFFSET n deletes everything past the keep newest rows.
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM machine_cache WHERE id IN (
			SELECT id FROM machine_cache
			WHERE hash = ? AND created_at <= ?
			ORDER BY created_at DESC LIMIT -1 OFFSET ?
		)`,
		hash, cutoff.UnixNano(), keep,
	)
	if err != nil {
		return zerr.Wrap(err, "failed to destroy stale cache entries")
	}
	return nil
}
