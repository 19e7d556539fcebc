// Package cache stores the results of expensive lamina computations.
//
// Shortening a lamination, splitting it into components or classifying a
// mapping class can take many thousands of flips. The results are exact, so
// they are safe to keep around and share between runs.
//
// # Backends
//
//   - [FileCache]: one msgpack file per entry under the XDG cache directory
//   - [BadgerCache]: an embedded key-value store, on disk or in memory
//   - [RedisCache]: a shared cache for several lamina processes
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] turns operation inputs into cache keys. Keys are prefixed by
// the operation and end in a SHA-256 of the inputs, so any backend can store
// them verbatim. [ScopedKeyer] adds a namespace prefix on top.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
//
// Get reports a miss with ok == false and a nil error. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. A ttl <= 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	// Clear removes all entries and returns how many were removed, or -1
	// when the backend cannot count them.
	Clear(ctx context.Context) (int, error)
}

// Clear drops every entry of c if it implements Clearer.
func Clear(ctx context.Context, c Cache) (int, error) {
	if cl, ok := c.(Clearer); ok {
		return cl.Clear(ctx)
	}
	return 0, ErrUnsupported
}
