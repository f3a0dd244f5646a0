package ports

import "github.com/svsamipillai/machine/internal/core/domain"

// InputHasher computes the content hash that keys a machine's cache
// entries.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type InputHasher interface {
	// HashInputs produces a deterministic identifier from the inputs.
	// Two input maps with the same key/value pairs hash identically
	// regardless of insertion order. It returns
	// domain.ErrUnhashableInput if any value cannot be canonically
	// serialized; it never silently produces a garbage hash.
	HashInputs(inputs domain.Inputs) (string, error)
}
