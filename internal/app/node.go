package app

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/svsamipillai/machine/internal/adapters/config"
	"github.com/svsamipillai/machine/internal/adapters/hash"
	"github.com/svsamipillai/machine/internal/adapters/logger"
	"github.com/svsamipillai/machine/internal/adapters/shell"
	"github.com/svsamipillai/machine/internal/adapters/store/sqlstore"
	"github.com/svsamipillai/machine/internal/core/ports"
)

// NodeID is the unique identifier for the application components Graft node.
const NodeID graft.ID = "app.components"

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			shell.NodeID,
			sqlstore.NodeID,
			hash.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.CacheStore](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.InputHasher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{
				App:    New(loader, executor, store, hasher, log),
				Logger: log,
			}, nil
		},
	})
}
