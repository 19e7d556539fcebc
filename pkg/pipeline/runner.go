package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/lamina/pkg/cache"
	"github.com/matzehuels/lamina/pkg/observability"
)

// Runner executes pipeline operations with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// RunInfo describes one operation run.
type RunInfo struct {
	// ID identifies the run in log lines.
	ID       string
	Duration time.Duration
	// CacheHit reports whether the result came from the cache.
	CacheHit bool
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// run wraps an operation with a run ID, timing, hooks and a log line.
func (r *Runner) run(ctx context.Context, op string, fn func(logger *log.Logger) (bool, error)) (RunInfo, error) {
	info := RunInfo{ID: uuid.NewString()}
	logger := r.Logger.With("op", op, "run", info.ID[:8])

	observability.Kernel().OnOperationStart(ctx, op)
	start := time.Now()
	hit, err := fn(logger)
	info.Duration = time.Since(start)
	info.CacheHit = hit
	observability.Kernel().OnOperationComplete(ctx, op, info.Duration, err)

	if err != nil {
		logger.Debug("operation failed", "duration", info.Duration, "err", err)
		return info, err
	}
	logger.Debug("operation finished", "duration", info.Duration, "cache_hit", hit)
	return info, nil
}

// cached returns the value stored under key, or computes, stores and
// returns it. Backend failures degrade to a recomputation.
func cached[T any](ctx context.Context, r *Runner, logger *log.Logger, keyType, key string, ttl time.Duration, refresh bool, compute func() (T, error)) (T, bool, error) {
	if !refresh {
		var v T
		err := cache.GetValue(ctx, r.Cache, key, &v)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, keyType)
			return v, true, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn("cache read failed", "key_type", keyType, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, keyType)
	}

	v, err := compute()
	if err != nil {
		var zero T
		return zero, false, err
	}

	data, err := cache.Marshal(v)
	if err != nil {
		logger.Warn("cache encode failed", "key_type", keyType, "err", err)
		return v, false, nil
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "key_type", keyType, "err", err)
		return v, false, nil
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
	return v, false, nil
}
