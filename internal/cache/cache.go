package cache

import (
	"context"
	"errors"
	"time"
)

type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (hit bool, err error)
	SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Remember fills dst from the cache, or from load on a miss and stores the
// loaded value. Cache failures degrade to load.
func Remember[T any](ctx context.Context, c Cache, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if c != nil {
		var cached T
		if hit, err := c.GetJSON(ctx, key, &cached); err == nil && hit {
			return cached, nil
		}
	}

	v, err := load(ctx)
	if err != nil {
		return zero, err
	}
	if c != nil {
		_ = c.SetJSON(ctx, key, v, ttl)
	}
	return v, nil
}

var ErrNoValue = errors.New("cache: no value")
