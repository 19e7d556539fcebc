// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about kernel operations and cache traffic.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The kernel itself stays free of hooks. The pipeline runner reports each
// operation it drives, and the cache-aware paths report hits and misses.
// Sub-package prom implements both hook sets with Prometheus collectors.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    rec := prom.New()
//	    rec.Register()
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Kernel().OnOperationStart(ctx, "shorten")
//	// ... shorten ...
//	observability.Kernel().OnOperationComplete(ctx, "shorten", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Kernel Hooks
// =============================================================================

// KernelHooks receives events about kernel operations run by the pipeline.
type KernelHooks interface {
	// OnOperationStart records the start of an operation such as "shorten"
	// or "classify".
	OnOperationStart(ctx context.Context, op string)

	// OnOperationComplete records the end of an operation.
	OnOperationComplete(ctx context.Context, op string, duration time.Duration, err error)

	// OnShorten records a finished shortening: the weight before and after
	// and the number of moves in the conjugator.
	OnShorten(ctx context.Context, before, after, moves int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopKernelHooks is a no-op implementation of KernelHooks.
type NoopKernelHooks struct{}

func (NoopKernelHooks) OnOperationStart(context.Context, string)                          {}
func (NoopKernelHooks) OnOperationComplete(context.Context, string, time.Duration, error) {}
func (NoopKernelHooks) OnShorten(context.Context, int, int, int)                          {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	kernelHooks KernelHooks = NoopKernelHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetKernelHooks registers custom kernel hooks.
// This should be called once at application startup before any operations.
func SetKernelHooks(h KernelHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		kernelHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Kernel returns the registered kernel hooks.
func Kernel() KernelHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return kernelHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	kernelHooks = NoopKernelHooks{}
	cacheHooks = NoopCacheHooks{}
}
