package runner

import "context"

// collectGarbage evicts stale entries for one hash, always retaining
// the configured buffer of the most recent stale entries so the sweep
// does not fire on every single miss.
//
// It runs fire-and-forget after a miss; its completion is never awaited
// before the run returns. Count and destroy errors are warnings, never
// fatal, and are not retried within the run; the next miss for the
// same hash retries naturally.
func (r *Runner) collectGarbage(ctx context.Context, hash string, cfg cacheConfig) {
	count, err := r.store.CountStale(ctx, hash, cfg.cutoff)
	if err != nil {
		r.logger.Warn("cache gc count failed: " + err.Error())
		return
	}
	if count <= cfg.buffer {
		return
	}
	if err := r.store.DestroyStale(ctx, hash, cfg.cutoff, cfg.buffer); err != nil {
		r.logger.Warn("cache gc destroy failed: " + err.Error())
	}
}
