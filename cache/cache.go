// Package cache provides a small key-value cache with an explicit TTL,
// backed either by process memory or by Redis.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GetOrFetch returns the cached value for key, or calls fetch, stores the
// result for ttl and returns it. Cache read/write failures fall through to
// fetch; only fetch errors are returned.
func GetOrFetch[T any](ctx context.Context, c Cache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	if raw, ok, err := c.Get(ctx, key); err == nil && ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	value, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return zero, fmt.Errorf("failed to encode cache value for %q: %w", key, err)
	}
	_ = c.Set(ctx, key, raw, ttl)

	return value, nil
}
