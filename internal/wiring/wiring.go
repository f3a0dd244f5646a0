// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/svsamipillai/machine/internal/adapters/config"
	_ "github.com/svsamipillai/machine/internal/adapters/hash"
	_ "github.com/svsamipillai/machine/internal/adapters/logger"
	_ "github.com/svsamipillai/machine/internal/adapters/shell"
	_ "github.com/svsamipillai/machine/internal/adapters/store/sqlstore"
	// Register app nodes.
	_ "github.com/svsamipillai/machine/internal/app"
)
