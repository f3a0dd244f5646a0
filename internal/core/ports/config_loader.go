package ports

import "github.com/svsamipillai/machine/internal/core/domain"

// ConfigLoader loads machine definitions into a registry.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the machines file at path, validates the definitions
	// and returns the populated registry.
	Load(path string) (*domain.Registry, error)
}
