// Package runner implements the execution-and-caching pipeline for a
// single machine: hash the inputs, consult the store for a fresh prior
// result, execute on a miss, write the result back through the
// cacheable exit, and sweep stale entries off the critical path.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/svsamipillai/machine/internal/core/domain"
	"github.com/svsamipillai/machine/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Result is the caller-visible outcome of one run.
type Result struct {
	// Outcome is the traversed exit and its payload.
	Outcome domain.Outcome
	// FromCache reports whether the payload was served from a fresh
	// cache entry without executing the machine.
	FromCache bool
	// Hash is the derived input hash, or empty when the run proceeded
	// without caching.
	Hash string
	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// Runner executes a machine with optional memoization. A Runner is safe
// for concurrent use; each Run derives its own immutable cache
// configuration before any asynchronous operation begins.
type Runner struct {
	machine  domain.Machine
	store    ports.CacheStore
	hasher   ports.InputHasher
	logger   ports.Logger
	now      func() time.Time
	coalesce bool
	group    singleflight.Group
}

// Option configures a Runner.
type Option func(*Runner)

// WithStore attaches a cache store. Without a store (or without a
// hasher) caching is disabled and runs always execute the machine.
func WithStore(store ports.CacheStore) Option {
	return func(r *Runner) { r.store = store }
}

// WithHasher attaches the input hasher used to key cache entries.
func WithHasher(hasher ports.InputHasher) Option {
	return func(r *Runner) { r.hasher = hasher }
}

// WithNow overrides the time source. Used in tests.
func WithNow(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithCoalescing collapses concurrent identical misses into a single
// execution. Off by default: two simultaneous misses for the same hash
// both execute and both write an entry, and freshness lookup always
// takes the newest. Runs coalesce only when their normalized cache
// configurations match; a run carrying a different per-run override
// executes on its own.
func WithCoalescing() Option {
	return func(r *Runner) { r.coalesce = true }
}

// New creates a Runner for the given machine.
func New(machine domain.Machine, logger ports.Logger, opts ...Option) *Runner {
	r := &Runner{
		machine: machine,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the machine with the given inputs.
//
// Within one run, lookup strictly precedes execution and the cache
// write strictly precedes result delivery. The stale-entry sweep is
// launched after a miss and never awaited. Every cache-subsystem
// failure is downgraded to a warning; the only fatal condition is a
// machine with no implementation.
func (r *Runner) Run(ctx context.Context, inputs domain.Inputs, opts ...RunOption) (Result, error) {
	start := r.now()

	if r.machine.Fn == nil {
		return Result{}, zerr.With(domain.ErrNoImplementation, "machine", r.machine.Name)
	}

	cfg := r.newCacheConfig(start, opts...)
	hash := r.deriveHash(cfg, inputs)

	if hash == "" {
		outcome, err := r.execute(ctx, inputs, cfg, "")
		if err != nil {
			return Result{Outcome: outcome, Elapsed: r.now().Sub(start)}, err
		}
		return Result{Outcome: outcome, Elapsed: r.now().Sub(start)}, nil
	}

	if r.coalesce {
		return r.runCoalesced(ctx, inputs, cfg, hash, start)
	}
	return r.runHashed(ctx, inputs, cfg, hash, start)
}

// runCoalesced funnels concurrent runs for the same hash and cache
// configuration through a single execution. Late arrivals share the
// first caller's result and context; a run with a different normalized
// configuration gets its own flight.
func (r *Runner) runCoalesced(ctx context.Context, inputs domain.Inputs, cfg cacheConfig, hash string, start time.Time) (Result, error) {
	key := fmt.Sprintf("%s|%d|%d|%s", hash, cfg.ttl, cfg.buffer, cfg.cacheableExit)
	v, err, _ := r.group.Do(key, func() (any, error) {
		res, runErr := r.runHashed(ctx, inputs, cfg, hash, start)
		return res, runErr
	})
	res, _ := v.(Result)
	return res, err
}

func (r *Runner) runHashed(ctx context.Context, inputs domain.Inputs, cfg cacheConfig, hash string, start time.Time) (Result, error) {
	if entry, ok := r.lookup(ctx, cfg, hash); ok {
		return Result{
			Outcome:   domain.Outcome{Exit: cfg.cacheableExit, Value: entry.Data},
			FromCache: true,
			Hash:      hash,
			Elapsed:   r.now().Sub(start),
		}, nil
	}

	// Miss: sweep stale entries without blocking the run. Detached from
	// the caller's context so cancellation of the run cannot abort an
	// in-flight eviction mid-sweep.
	go r.collectGarbage(context.WithoutCancel(ctx), hash, cfg)

	outcome, err := r.execute(ctx, inputs, cfg, hash)
	if err != nil {
		return Result{Outcome: outcome, Hash: hash, Elapsed: r.now().Sub(start)}, err
	}
	return Result{Outcome: outcome, Hash: hash, Elapsed: r.now().Sub(start)}, nil
}

// deriveHash computes the cache key for the run. It returns "" when
// caching is disabled or derivation fails; hashing failures never block
// execution.
func (r *Runner) deriveHash(cfg cacheConfig, inputs domain.Inputs) string {
	if !cfg.enabled {
		return ""
	}
	hash, err := r.hasher.HashInputs(inputs)
	if err != nil {
		r.logger.Warn("input hashing failed, running uncached: " + err.Error())
		return ""
	}
	return hash
}

// lookup issues the single freshness query: entries for hash created
// strictly after the cutoff, newest first, limit 1. A query error is a
// miss.
func (r *Runner) lookup(ctx context.Context, cfg cacheConfig, hash string) (domain.CacheEntry, bool) {
	entries, err := r.store.Find(ctx, hash, cfg.cutoff, 1)
	if err != nil {
		r.logger.Warn("cache lookup failed, falling back to execution: " + err.Error())
		return domain.CacheEntry{}, false
	}
	if len(entries) == 0 || entries[0].Data == nil {
		return domain.CacheEntry{}, false
	}
	return entries[0], true
}

// execute invokes the machine's function and, when the run is cached
// and the cacheable exit was traversed, persists the result before it
// is delivered. A failed write is a warning; the result is delivered
// regardless.
func (r *Runner) execute(ctx context.Context, inputs domain.Inputs, cfg cacheConfig, hash string) (domain.Outcome, error) {
	outcome, err := r.machine.Fn(ctx, inputs, r.machine.Dependencies)
	if err != nil {
		return domain.Outcome{Exit: domain.ExitError}, err
	}

	if hash != "" && outcome.Exit == cfg.cacheableExit {
		entry := domain.CacheEntry{
			Hash:      hash,
			Data:      outcome.Value,
			CreatedAt: r.now(),
		}
		if _, cerr := r.store.Create(ctx, entry); cerr != nil {
			r.logger.Warn("cache write failed: " + cerr.Error())
		}
	}

	return outcome, nil
}
