// Package app implements the application layer for machine.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/svsamipillai/machine/internal/core/domain"
	"github.com/svsamipillai/machine/internal/core/ports"
	"github.com/svsamipillai/machine/internal/engine/runner"
	"go.trai.ch/zerr"
)

// Components bundles the resolved application graph.
type Components struct {
	App    *App
	Logger ports.Logger
}

// App wires the configuration loader, the executor and the cache
// collaborators around the runner.
type App struct {
	loader   ports.ConfigLoader
	executor ports.Executor
	store    ports.CacheStore
	hasher   ports.InputHasher
	logger   ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	executor ports.Executor,
	store ports.CacheStore,
	hasher ports.InputHasher,
	logger ports.Logger,
) *App {
	return &App{
		loader:   loader,
		executor: executor,
		store:    store,
		hasher:   hasher,
		logger:   logger,
	}
}

// RunOptions configures a single machine run.
type RunOptions struct {
	// File is the path of the machines file.
	File string
	// NoCache bypasses the cache for this run.
	NoCache bool
	// TTL overrides the machine's freshness window when positive.
	TTL time.Duration
}

// Run loads the registry, resolves the named machine and executes it.
func (a *App) Run(ctx context.Context, name string, inputs domain.Inputs, opts RunOptions) (runner.Result, error) {
	m, registry, err := a.resolve(name, opts.File)
	if err != nil {
		return runner.Result{}, err
	}

	if len(m.DependsOn) > 0 {
		deps := make(domain.Dependencies, len(m.DependsOn))
		for _, depName := range m.DependsOn {
			dep, depErr := registry.Get(depName)
			if depErr != nil {
				return runner.Result{}, depErr
			}
			deps[depName] = dep
		}
		m.Dependencies = deps
	}

	runnerOpts := []runner.Option{
		runner.WithStore(a.store),
		runner.WithHasher(a.hasher),
	}

	var runOpts []runner.RunOption
	if opts.NoCache {
		runOpts = append(runOpts, runner.NoCache())
	}
	if opts.TTL > 0 {
		runOpts = append(runOpts, runner.WithTTL(opts.TTL))
	}

	res, err := runner.New(m, a.logger, runnerOpts...).Run(ctx, inputs, runOpts...)
	if err != nil {
		return res, err
	}

	if res.FromCache {
		a.logger.Info(fmt.Sprintf("machine %q served from cache in %s", name, res.Elapsed))
	} else {
		a.logger.Info(fmt.Sprintf("machine %q traversed %q in %s", name, res.Outcome.Exit, res.Elapsed))
	}
	return res, nil
}

// PruneOptions configures a manual cache sweep.
type PruneOptions struct {
	// File is the path of the machines file.
	File string
	// TTL overrides the machine's freshness window when positive.
	TTL time.Duration
}

// Prune removes every stale entry for the hash of the given inputs,
// with no retention buffer. Unlike the in-run garbage collector, an
// explicit prune surfaces store errors to the caller.
func (a *App) Prune(ctx context.Context, name string, inputs domain.Inputs, opts PruneOptions) error {
	m, _, err := a.resolve(name, opts.File)
	if err != nil {
		return err
	}
	if m.Cache == nil {
		a.logger.Info(fmt.Sprintf("machine %q is not cached, nothing to prune", name))
		return nil
	}
	// A run degrades gracefully without a store; a prune is a store
	// operation and has nothing to degrade to.
	if a.store == nil {
		return zerr.Wrap(domain.ErrStoreOpenFailed, "prune requires a cache store")
	}

	hash, err := a.hasher.HashInputs(inputs)
	if err != nil {
		return zerr.Wrap(err, "failed to hash inputs for prune")
	}

	ttl := m.Cache.TTL
	if opts.TTL > 0 {
		ttl = opts.TTL
	}
	if ttl <= 0 {
		ttl = domain.DefaultTTL
	}
	cutoff := time.Now().Add(-ttl)

	count, err := a.store.CountStale(ctx, hash, cutoff)
	if err != nil {
		return zerr.Wrap(err, "failed to count stale cache entries")
	}
	if count == 0 {
		a.logger.Info(fmt.Sprintf("no stale entries for machine %q", name))
		return nil
	}

	if err := a.store.DestroyStale(ctx, hash, cutoff, 0); err != nil {
		return zerr.Wrap(err, "failed to destroy stale cache entries")
	}
	a.logger.Info(fmt.Sprintf("pruned %d stale entries for machine %q", count, name))
	return nil
}

// List returns the registry loaded from the given machines file.
func (a *App) List(file string) (*domain.Registry, error) {
	return a.loader.Load(file)
}

// resolve loads the registry and binds the named machine's function.
func (a *App) resolve(name, file string) (domain.Machine, *domain.Registry, error) {
	registry, err := a.loader.Load(file)
	if err != nil {
		return domain.Machine{}, nil, zerr.Wrap(err, "failed to load machines file")
	}

	m, err := registry.Get(name)
	if err != nil {
		return domain.Machine{}, nil, err
	}

	if m.Fn == nil && len(m.Command) > 0 {
		m.Fn = a.executor.Bind(m.Command, m.ExitCodes)
	}
	return m, registry, nil
}
