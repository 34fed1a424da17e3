package ports

import (
	"context"
	"time"
)

// CachePort is the JSON cache the task service reads owner lists through.
type CachePort interface {
	// GetOrSet fills target from key, or from getter on a miss and stores the result.
	GetOrSet(ctx context.Context, key string, target interface{}, ttl time.Duration, getter func() (interface{}, error)) error
	Del(ctx context.Context, keys ...string) error
	// GetInt reads a counter; a missing key is 0.
	GetInt(ctx context.Context, key string) (int64, error)
	// Incr atomically bumps a counter and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
}
