package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Marshal encodes v as msgpack, the payload format of every cached value.
func Marshal(v any) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode cache payload: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a msgpack payload written by Marshal.
func Unmarshal(data []byte, v any) error {
	if err := msgpack.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode cache payload: %w", err)
	}
	return nil
}

// GetValue loads key into v. It returns ErrCacheMiss when the key is absent
// or holds a payload that no longer decodes into v.
func GetValue(ctx context.Context, c Cache, key string, v any) error {
	data, ok, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCacheMiss
	}
	if err := Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return ErrCacheMiss
	}
	return nil
}

// SetValue stores v under key.
func SetValue(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
