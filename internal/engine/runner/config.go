package runner

import (
	"time"

	"github.com/svsamipillai/machine/internal/core/domain"
)

// cacheConfig is the cache configuration for one run. It is built once,
// before any asynchronous operation, and never mutated afterwards: the
// expiration cutoff in particular is fixed so that lookup, write and
// garbage collection within a run agree on freshness even though they
// run at different times.
type cacheConfig struct {
	enabled       bool
	ttl           time.Duration
	buffer        int
	cacheableExit string
	cutoff        time.Time
}

// RunOption overrides cache settings for a single run. This is the
// typed form of the per-run cache-control override: it travels beside
// the inputs, never inside them, and is invisible to the machine's
// function.
type RunOption func(*runOverride)

type runOverride struct {
	noCache bool
	ttl     time.Duration
	buffer  int
	exit    string
}

// NoCache disables caching for this run.
func NoCache() RunOption {
	return func(o *runOverride) { o.noCache = true }
}

// WithTTL overrides the freshness window for this run.
func WithTTL(ttl time.Duration) RunOption {
	return func(o *runOverride) { o.ttl = ttl }
}

// WithMaxOldEntriesBuffer overrides the stale-entry retention buffer
// for this run.
func WithMaxOldEntriesBuffer(n int) RunOption {
	return func(o *runOverride) { o.buffer = n }
}

// WithCacheableExit overrides which exit is memoized for this run.
func WithCacheableExit(exit string) RunOption {
	return func(o *runOverride) { o.exit = exit }
}

// newCacheConfig normalizes the machine's cache settings together with
// any per-run overrides. Caching is eligible only when the machine
// opted in and both a store and a hasher are wired; anything less means
// disabled, silently, never an error.
func (r *Runner) newCacheConfig(now time.Time, opts ...RunOption) cacheConfig {
	override := runOverride{buffer: -1}
	for _, opt := range opts {
		opt(&override)
	}

	if r.store == nil || r.hasher == nil || r.machine.Cache == nil || override.noCache {
		return cacheConfig{}
	}

	cfg := cacheConfig{
		enabled:       true,
		ttl:           r.machine.Cache.TTL,
		buffer:        r.machine.Cache.MaxOldEntriesBuffer,
		cacheableExit: r.machine.Cache.CacheableExit,
	}

	if override.ttl > 0 {
		cfg.ttl = override.ttl
	}
	if override.buffer >= 0 {
		cfg.buffer = override.buffer
	}
	if override.exit != "" {
		if r.machine.HasExit(override.exit) {
			cfg.cacheableExit = override.exit
		} else {
			r.logger.Warn("ignoring cacheable exit override, exit not declared: " + override.exit)
		}
	}

	if cfg.ttl <= 0 {
		cfg.ttl = domain.DefaultTTL
	}
	if cfg.buffer < 0 {
		cfg.buffer = domain.DefaultMaxOldEntriesBuffer
	}
	if cfg.cacheableExit == "" {
		cfg.cacheableExit = domain.ExitSuccess
	}

	cfg.cutoff = now.Add(-cfg.ttl)
	return cfg
}
