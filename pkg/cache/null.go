package cache

import (
	"context"
	"time"
)

// NullCache backs --no-cache and runners built without a cache. Every Get
// misses, so each shorten or classify call recomputes from scratch.
type NullCache struct{}

func NewNullCache() Cache {
	return &NullCache{}
}

func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

func (c *NullCache) Delete(context.Context, string) error {
	return nil
}

func (c *NullCache) Clear(context.Context) (int, error) {
	return 0, nil
}

func (c *NullCache) Close() error {
	return nil
}

var (
	_ Cache   = (*NullCache)(nil)
	_ Clearer = (*NullCache)(nil)
)
