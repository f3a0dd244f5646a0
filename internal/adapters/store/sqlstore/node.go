package sqlstore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/grindlemire/graft"
	"github.com/svsamipillai/machine/internal/adapters/logger"
	"github.com/svsamipillai/machine/internal/core/ports"
)

// NodeID is the unique identifier for the cache store Graft node.
const NodeID graft.ID = "adapter.cache_store"

// DefaultPath is where the cache database lives unless MACHINE_STORE
// points elsewhere.
const DefaultPath = ".machine/cache.db"

// Open opens the store at path. Caching is optional: when the store
// cannot be opened it warns and returns nil, and runs proceed uncached.
func Open(path string, log ports.Logger) ports.CacheStore {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		log.Warn("cache store unavailable, caching disabled: " + err.Error())
		return nil
	}
	store, err := NewStore(path)
	if err != nil {
		log.Warn("cache store unavailable, caching disabled: " + err.Error())
		return nil
	}
	return store
}

func init() {
	graft.Register(graft.Node[ports.CacheStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.CacheStore, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			path := os.Getenv("MACHINE_STORE")
			if path == "" {
				path = DefaultPath
			}
			return Open(path, log), nil
		},
	})
}
