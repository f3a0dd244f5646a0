package hash

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/svsamipillai/machine/internal/core/ports"
)

// NodeID is the unique identifier for the input hasher Graft node.
const NodeID graft.ID = "adapter.input_hasher"

func init() {
	graft.Register(graft.Node[ports.InputHasher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.InputHasher, error) {
			return NewHasher(), nil
		},
	})
}
