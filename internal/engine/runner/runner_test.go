package runner_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/svsamipillai/machine/internal/adapters/hash"
	"github.com/svsamipillai/machine/internal/adapters/store/memstore"
	"github.com/svsamipillai/machine/internal/core/domain"
	"github.com/svsamipillai/machine/internal/core/ports/mocks"
	"github.com/svsamipillai/machine/internal/engine/runner"
	"go.uber.org/mock/gomock"
)

// newTestLogger returns a logger mock that tolerates any output.
func newTestLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	l := mocks.NewMockLogger(ctrl)
	l.EXPECT().Info(gomock.Any()).AnyTimes()
	l.EXPECT().Warn(gomock.Any()).AnyTimes()
	l.EXPECT().Error(gomock.Any()).AnyTimes()
	return l
}

// cachedMachine builds a machine with caching enabled and the given
// implementation.
func cachedMachine(fn domain.Fn) domain.Machine {
	return domain.Machine{
		Name:  "fetch",
		Exits: []string{domain.ExitSuccess, domain.ExitError},
		Cache: &domain.CacheSettings{TTL: time.Hour},
		Fn:    fn,
	}
}

func countingFn(executions *atomic.Int64, outcome domain.Outcome) domain.Fn {
	return func(_ context.Context, _ domain.Inputs, _ domain.Dependencies) (domain.Outcome, error) {
		executions.Add(1)
		return outcome, nil
	}
}

func TestRunner_NoImplementation(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := runner.New(domain.Machine{Name: "empty"}, newTestLogger(ctrl))

	_, err := r.Run(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrNoImplementation)
}

func TestRunner_MissThenHit(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := memstore.NewStore()

		payload := &struct{ Rows int }{Rows: 3}
		var executions atomic.Int64
		m := cachedMachine(countingFn(&executions, domain.Success(payload)))

		r := runner.New(m, newTestLogger(ctrl),
			runner.WithStore(store),
			runner.WithHasher(hash.NewHasher()),
		)
		inputs := domain.Inputs{"user": "alice"}

		first, err := r.Run(context.Background(), inputs)
		require.NoError(t, err)
		assert.False(t, first.FromCache)
		assert.Same(t, payload, first.Outcome.Value)
		assert.NotEmpty(t, first.Hash)
		synctest.Wait()

		second, err := r.Run(context.Background(), inputs)
		require.NoError(t, err)
		assert.True(t, second.FromCache)
		assert.Equal(t, domain.ExitSuccess, second.Outcome.Exit)
		// The hit returns the identical value that was written.
		assert.Same(t, payload, second.Outcome.Value)
		assert.Equal(t, first.Hash, second.Hash)
		synctest.Wait()

		assert.Equal(t, int64(1), executions.Load())
		assert.Equal(t, 1, store.Len())
	})
}

func TestRunner_DistinctInputsDoNotShareEntries(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := memstore.NewStore()

		var executions atomic.Int64
		m := cachedMachine(func(_ context.Context, inputs domain.Inputs, _ domain.Dependencies) (domain.Outcome, error) {
			executions.Add(1)
			return domain.Success(inputs["user"]), nil
		})

		r := runner.New(m, newTestLogger(ctrl),
			runner.WithStore(store),
			runner.WithHasher(hash.NewHasher()),
		)

		alice, err := r.Run(context.Background(), domain.Inputs{"user": "alice"})
		require.NoError(t, err)
		bob, err := r.Run(context.Background(), domain.Inputs{"user": "bob"})
		require.NoError(t, err)
		synctest.Wait()

		assert.NotEqual(t, alice.Hash, bob.Hash)
		assert.Equal(t, int64(2), executions.Load())
		assert.Equal(t, 2, store.Len())
	})
}

func TestRunner_MissWritesExactlyOnce(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockCacheStore(ctrl)
		hasher := mocks.NewMockInputHasher(ctrl)

		hasher.EXPECT().HashInputs(gomock.Any()).Return("abc123", nil)
		store.EXPECT().Find(gomock.Any(), "abc123", gomock.Any(), 1).Return(nil, nil)
		store.EXPECT().CountStale(gomock.Any(), "abc123", gomock.Any()).Return(0, nil)
		store.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e domain.CacheEntry) (domain.CacheEntry, error) {
				assert.Equal(t, "abc123", e.Hash)
				assert.Equal(t, "result", e.Data)
				return e, nil
			}).Times(1)

		var executions atomic.Int64
		m := cachedMachine(countingFn(&executions, domain.Success("result")))

		r := runner.New(m, newTestLogger(ctrl), runner.WithStore(store), runner.WithHasher(hasher))
		res, err := r.Run(context.Background(), domain.Inputs{"k": "v"})
		require.NoError(t, err)
		assert.Equal(t, "result", res.Outcome.Value)
		assert.Equal(t, int64(1), executions.Load())

		synctest.Wait()
	})
}

func TestRunner_CacheWriteFailureStillDelivers(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockCacheStore(ctrl)
		hasher := mocks.NewMockInputHasher(ctrl)

		hasher.EXPECT().HashInputs(gomock.Any()).Return("abc123", nil)
		store.EXPECT().Find(gomock.Any(), "abc123", gomock.Any(), 1).Return(nil, nil)
		store.EXPECT().CountStale(gomock.Any(), "abc123", gomock.Any()).Return(0, nil)
		store.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(domain.CacheEntry{}, errors.New("disk full"))

		logger := mocks.NewMockLogger(ctrl)
		logger.EXPECT().Warn(gomock.Any()).Times(1)

		var executions atomic.Int64
		m := cachedMachine(countingFn(&executions, domain.Success("result")))

		r := runner.New(m, logger, runner.WithStore(store), runner.WithHasher(hasher))
		res, err := r.Run(context.Background(), domain.Inputs{"k": "v"})
		require.NoError(t, err)
		assert.Equal(t, "result", res.Outcome.Value)

		synctest.Wait()
	})
}

func TestRunner_LookupFailureFallsBackToExecution(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockCacheStore(ctrl)
		hasher := mocks.NewMockInputHasher(ctrl)

		hasher.EXPECT().HashInputs(gomock.Any()).Return("abc123", nil)
		store.EXPECT().Find(gomock.Any(), "abc123", gomock.Any(), 1).
			Return(nil, errors.New("store offline"))
		store.EXPECT().CountStale(gomock.Any(), "abc123", gomock.Any()).
			Return(0, errors.New("store offline"))
		store.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(domain.CacheEntry{}, errors.New("store offline"))

		var executions atomic.Int64
		m := cachedMachine(countingFn(&executions, domain.Success("result")))

		r := runner.New(m, newTestLogger(ctrl), runner.WithStore(store), runner.WithHasher(hasher))
		res, err := r.Run(context.Background(), domain.Inputs{"k": "v"})
		require.NoError(t, err)
		assert.False(t, res.FromCache)
		assert.Equal(t, "result", res.Outcome.Value)
		assert.Equal(t, int64(1), executions.Load())

		synctest.Wait()
	})
}

func TestRunner_HashFailureRunsUncached(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No store expectations: a failed hash must not touch the store.
	store := mocks.NewMockCacheStore(ctrl)

	var executions atomic.Int64
	m := cachedMachine(countingFn(&executions, domain.Success("result")))

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).Times(1)

	r := runner.New(m, logger, runner.WithStore(store), runner.WithHasher(hash.NewHasher()))
	res, err := r.Run(context.Background(), domain.Inputs{"fn": func() {}})
	require.NoError(t, err)
	assert.Empty(t, res.Hash)
	assert.Equal(t, "result", res.Outcome.Value)
	assert.Equal(t, int64(1), executions.Load())
}

func TestRunner_CacheDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockCacheStore(ctrl)
	hasher := mocks.NewMockInputHasher(ctrl)

	var executions atomic.Int64

	t.Run("machine without cache settings", func(t *testing.T) {
		m := domain.Machine{
			Name:  "plain",
			Exits: []string{domain.ExitSuccess, domain.ExitError},
			Fn:    countingFn(&executions, domain.Success("v")),
		}
		r := runner.New(m, newTestLogger(ctrl), runner.WithStore(store), runner.WithHasher(hasher))

		for i := 0; i < 2; i++ {
			res, err := r.Run(context.Background(), domain.Inputs{"k": "v"})
			require.NoError(t, err)
			assert.False(t, res.FromCache)
			assert.Empty(t, res.Hash)
		}
		assert.Equal(t, int64(2), executions.Load())
	})

	t.Run("no-cache run option", func(t *testing.T) {
		executions.Store(0)
		m := cachedMachine(countingFn(&executions, domain.Success("v")))
		r := runner.New(m, newTestLogger(ctrl), runner.WithStore(store), runner.WithHasher(hasher))

		res, err := r.Run(context.Background(), domain.Inputs{"k": "v"}, runner.NoCache())
		require.NoError(t, err)
		assert.False(t, res.FromCache)
		assert.Empty(t, res.Hash)
		assert.Equal(t, int64(1), executions.Load())
	})

	t.Run("no store wired", func(t *testing.T) {
		executions.Store(0)
		m := cachedMachine(countingFn(&executions, domain.Success("v")))
		r := runner.New(m, newTestLogger(ctrl))

		res, err := r.Run(context.Background(), domain.Inputs{"k": "v"})
		require.NoError(t, err)
		assert.Empty(t, res.Hash)
		assert.Equal(t, int64(1), executions.Load())
	})
}

func TestRunner_MachineErrorPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	boom := errors.New("boom")
	m := domain.Machine{
		Name:  "failing",
		Exits: []string{domain.ExitSuccess, domain.ExitError},
		Fn: func(_ context.Context, _ domain.Inputs, _ domain.Dependencies) (domain.Outcome, error) {
			return domain.Outcome{}, boom
		},
	}

	r := runner.New(m, newTestLogger(ctrl))
	res, err := r.Run(context.Background(), nil)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, domain.ExitError, res.Outcome.Exit)
}

func TestRunner_TTLBoundary(t *testing.T) {
	const ttl = time.Hour
	inputs := domain.Inputs{"user": "alice"}

	newBoundaryRunner := func(t *testing.T, ctrl *gomock.Controller, age time.Duration) (*runner.Runner, *atomic.Int64) {
		t.Helper()
		hasher := hash.NewHasher()
		hashVal, err := hasher.HashInputs(inputs)
		require.NoError(t, err)

		store := memstore.NewStore()
		_, err = store.Create(context.Background(), domain.CacheEntry{
			Hash:      hashVal,
			Data:      "aged",
			CreatedAt: time.Now().Add(-age),
		})
		require.NoError(t, err)

		var executions atomic.Int64
		m := cachedMachine(countingFn(&executions, domain.Success("recomputed")))
		m.Cache.TTL = ttl

		return runner.New(m, newTestLogger(ctrl),
			runner.WithStore(store),
			runner.WithHasher(hasher),
		), &executions
	}

	t.Run("entry exactly at the cutoff is stale", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			r, executions := newBoundaryRunner(t, gomock.NewController(t), ttl)

			res, err := r.Run(context.Background(), inputs)
			require.NoError(t, err)
			assert.False(t, res.FromCache)
			assert.Equal(t, "recomputed", res.Outcome.Value)
			assert.Equal(t, int64(1), executions.Load())
			synctest.Wait()
		})
	})

	t.Run("entry just inside the window is fresh", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			r, executions := newBoundaryRunner(t, gomock.NewController(t), ttl-time.Second)

			res, err := r.Run(context.Background(), inputs)
			require.NoError(t, err)
			assert.True(t, res.FromCache)
			assert.Equal(t, "aged", res.Outcome.Value)
			assert.Equal(t, int64(0), executions.Load())
			synctest.Wait()
		})
	})
}

func TestRunner_TTLOverridePerRun(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := memstore.NewStore()
		hasher := hash.NewHasher()
		inputs := domain.Inputs{"user": "alice"}

		hashVal, err := hasher.HashInputs(inputs)
		require.NoError(t, err)

		// Entry is two hours old: fresh under the machine's 3h default,
		// stale under a 1h per-run override.
		_, err = store.Create(context.Background(), domain.CacheEntry{
			Hash:      hashVal,
			Data:      "aged",
			CreatedAt: time.Now().Add(-2 * time.Hour),
		})
		require.NoError(t, err)

		var executions atomic.Int64
		m := cachedMachine(countingFn(&executions, domain.Success("recomputed")))
		m.Cache.TTL = 0 // exercise the 3h default

		r := runner.New(m, newTestLogger(ctrl),
			runner.WithStore(store),
			runner.WithHasher(hasher),
		)

		res, err := r.Run(context.Background(), inputs)
		require.NoError(t, err)
		assert.True(t, res.FromCache)

		res, err = r.Run(context.Background(), inputs, runner.WithTTL(time.Hour))
		require.NoError(t, err)
		assert.False(t, res.FromCache)
		assert.Equal(t, int64(1), executions.Load())
		synctest.Wait()
	})
}

func TestRunner_CacheableExit(t *testing.T) {
	t.Run("non-cacheable exit is not written", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := memstore.NewStore()

			m := cachedMachine(func(_ context.Context, _ domain.Inputs, _ domain.Dependencies) (domain.Outcome, error) {
				return domain.Through("not_found", "nobody here"), nil
			})
			m.Exits = append(m.Exits, "not_found")

			r := runner.New(m, newTestLogger(ctrl),
				runner.WithStore(store),
				runner.WithHasher(hash.NewHasher()),
			)

			res, err := r.Run(context.Background(), domain.Inputs{"user": "ghost"})
			require.NoError(t, err)
			assert.Equal(t, "not_found", res.Outcome.Exit)
			synctest.Wait()
			assert.Equal(t, 0, store.Len())
		})
	})

	t.Run("configured exit is memoized instead of success", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := memstore.NewStore()

			var executions atomic.Int64
			m := cachedMachine(func(_ context.Context, _ domain.Inputs, _ domain.Dependencies) (domain.Outcome, error) {
				executions.Add(1)
				return domain.Through("partial", "half a result"), nil
			})
			m.Exits = append(m.Exits, "partial")
			m.Cache.CacheableExit = "partial"

			r := runner.New(m, newTestLogger(ctrl),
				runner.WithStore(store),
				runner.WithHasher(hash.NewHasher()),
			)

			first, err := r.Run(context.Background(), domain.Inputs{"user": "alice"})
			require.NoError(t, err)
			assert.False(t, first.FromCache)
			synctest.Wait()

			second, err := r.Run(context.Background(), domain.Inputs{"user": "alice"})
			require.NoError(t, err)
			assert.True(t, second.FromCache)
			assert.Equal(t, "partial", second.Outcome.Exit)
			assert.Equal(t, "half a result", second.Outcome.Value)
			assert.Equal(t, int64(1), executions.Load())
			synctest.Wait()
		})
	})
}

func TestRunner_CacheableExitOverridePerRun(t *testing.T) {
	t.Run("declared exit override is memoized", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := memstore.NewStore()

			m := cachedMachine(func(_ context.Context, _ domain.Inputs, _ domain.Dependencies) (domain.Outcome, error) {
				return domain.Through("partial", "half a result"), nil
			})
			m.Exits = append(m.Exits, "partial")

			r := runner.New(m, newTestLogger(ctrl),
				runner.WithStore(store),
				runner.WithHasher(hash.NewHasher()),
			)

			res, err := r.Run(context.Background(), domain.Inputs{"user": "alice"}, runner.WithCacheableExit("partial"))
			require.NoError(t, err)
			assert.Equal(t, "partial", res.Outcome.Exit)
			synctest.Wait()
			assert.Equal(t, 1, store.Len())
		})
	})

	t.Run("undeclared exit override is ignored with a warning", func(t *testing.T) {
		synctest.Test(t, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := memstore.NewStore()
			logger := mocks.NewMockLogger(ctrl)
			logger.EXPECT().Warn(gomock.Any()).Times(1)

			var executions atomic.Int64
			m := cachedMachine(countingFn(&executions, domain.Success("v")))

			r := runner.New(m, logger,
				runner.WithStore(store),
				runner.WithHasher(hash.NewHasher()),
			)

			res, err := r.Run(context.Background(), domain.Inputs{"user": "alice"}, runner.WithCacheableExit("bogus"))
			require.NoError(t, err)
			assert.Equal(t, domain.ExitSuccess, res.Outcome.Exit)
			synctest.Wait()

			// The machine's configured exit stays in force, so the
			// success result is still written.
			assert.Equal(t, 1, store.Len())
		})
	})
}

func TestRunner_GarbageCollection(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := memstore.NewStore()
		hasher := hash.NewHasher()
		inputs := domain.Inputs{"user": "alice"}

		hashVal, err := hasher.HashInputs(inputs)
		require.NoError(t, err)

		ttl := time.Hour
		cutoff := time.Now().Add(-ttl)
		for i := 1; i <= 5; i++ {
			_, err := store.Create(context.Background(), domain.CacheEntry{
				Hash:      hashVal,
				Data:      i,
				CreatedAt: cutoff.Add(-time.Duration(i) * time.Minute),
			})
			require.NoError(t, err)
		}

		var executions atomic.Int64
		m := cachedMachine(countingFn(&executions, domain.Success("v")))
		m.Cache.TTL = ttl
		m.Cache.MaxOldEntriesBuffer = 2

		r := runner.New(m, newTestLogger(ctrl),
			runner.WithStore(store),
			runner.WithHasher(hasher),
		)

		res, err := r.Run(context.Background(), inputs)
		require.NoError(t, err)
		assert.False(t, res.FromCache)

		// Let the detached sweep finish.
		synctest.Wait()

		count, err := store.CountStale(context.Background(), hashVal, cutoff)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		// Stale entries plus the freshly written result.
		assert.Equal(t, 3, store.Len())
	})
}

func TestRunner_GCSurvivesRunCancellation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockCacheStore(ctrl)
		hasher := mocks.NewMockInputHasher(ctrl)

		hasher.EXPECT().HashInputs(gomock.Any()).Return("abc123", nil)
		store.EXPECT().Find(gomock.Any(), "abc123", gomock.Any(), 1).Return(nil, nil)
		store.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e domain.CacheEntry) (domain.CacheEntry, error) {
				return e, nil
			})

		// The sweep must receive a live context even though the run's
		// context is cancelled as soon as execution starts.
		store.EXPECT().CountStale(gomock.Any(), "abc123", gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ string, _ time.Time) (int, error) {
				assert.NoError(t, ctx.Err())
				return 0, nil
			})

		ctx, cancel := context.WithCancel(context.Background())
		m := cachedMachine(func(_ context.Context, _ domain.Inputs, _ domain.Dependencies) (domain.Outcome, error) {
			cancel()
			return domain.Success("v"), nil
		})

		r := runner.New(m, newTestLogger(ctrl), runner.WithStore(store), runner.WithHasher(hasher))
		_, err := r.Run(ctx, domain.Inputs{"k": "v"})
		require.NoError(t, err)

		synctest.Wait()
	})
}

func TestRunner_Coalescing(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := memstore.NewStore()

		var executions atomic.Int64
		m := cachedMachine(func(_ context.Context, _ domain.Inputs, _ domain.Dependencies) (domain.Outcome, error) {
			executions.Add(1)
			time.Sleep(time.Second)
			return domain.Success("shared"), nil
		})

		r := runner.New(m, newTestLogger(ctrl),
			runner.WithStore(store),
			runner.WithHasher(hash.NewHasher()),
			runner.WithCoalescing(),
		)
		inputs := domain.Inputs{"user": "alice"}

		var wg sync.WaitGroup
		results := make([]runner.Result, 2)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := r.Run(context.Background(), inputs)
				assert.NoError(t, err)
				results[i] = res
			}()
		}
		wg.Wait()
		synctest.Wait()

		assert.Equal(t, int64(1), executions.Load())
		assert.Equal(t, "shared", results[0].Outcome.Value)
		assert.Equal(t, "shared", results[1].Outcome.Value)
		assert.Equal(t, 1, store.Len())
	})
}

func TestRunner_CoalescingSeparatesDistinctOverrides(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := memstore.NewStore()

		var executions atomic.Int64
		m := cachedMachine(func(_ context.Context, _ domain.Inputs, _ domain.Dependencies) (domain.Outcome, error) {
			executions.Add(1)
			time.Sleep(time.Second)
			return domain.Success("v"), nil
		})

		r := runner.New(m, newTestLogger(ctrl),
			runner.WithStore(store),
			runner.WithHasher(hash.NewHasher()),
			runner.WithCoalescing(),
		)
		inputs := domain.Inputs{"user": "alice"}

		// One run under the machine's window, one under a per-run
		// override: different configurations must not share a flight.
		var wg sync.WaitGroup
		for _, opts := range [][]runner.RunOption{nil, {runner.WithTTL(30 * time.Minute)}} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := r.Run(context.Background(), inputs, opts...)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		synctest.Wait()

		assert.Equal(t, int64(2), executions.Load())
	})
}

func TestRunner_DuplicateWorkWithoutCoalescing(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := memstore.NewStore()

		var executions atomic.Int64
		m := cachedMachine(func(_ context.Context, _ domain.Inputs, _ domain.Dependencies) (domain.Outcome, error) {
			executions.Add(1)
			time.Sleep(time.Second)
			return domain.Success("v"), nil
		})

		r := runner.New(m, newTestLogger(ctrl),
			runner.WithStore(store),
			runner.WithHasher(hash.NewHasher()),
		)
		inputs := domain.Inputs{"user": "alice"}

		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := r.Run(context.Background(), inputs)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		synctest.Wait()

		// Both misses execute and both write; the next lookup simply
		// takes the newest entry.
		assert.Equal(t, int64(2), executions.Load())
		assert.Equal(t, 2, store.Len())
	})
}
