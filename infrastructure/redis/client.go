package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"task-tracker/domain/ports"
	"task-tracker/pkg/config"
	"task-tracker/pkg/logger"
)

const (
	lockTTL       = 10 * time.Second
	lockRetryWait = 100 * time.Millisecond
)

// Client wraps the Redis client
type Client struct {
	rdb *redis.Client
}

var _ ports.CachePort = (*Client)(nil)

// NewClient creates a new Redis client from config
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	if cfg.Password != "" {
		opt.Password = cfg.Password
	}
	if cfg.DB > 0 {
		opt.DB = cfg.DB
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	logger.Info("Redis connected", "addr", opt.Addr, "db", opt.DB)

	return &Client{rdb: rdb}, nil
}

// Del deletes one or more keys
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// GetInt reads an integer counter; a missing key reads as 0
func (c *Client) GetInt(ctx context.Context, key string) (int64, error) {
	n, err := c.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return n, err
}

// Incr atomically increments a counter
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	return c.rdb.Incr(ctx, key).Result()
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping tests the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// ═══════════════════════════════════════════════════════════════════════════════
// Distributed Locking (Singleflight Pattern)
// ═══════════════════════════════════════════════════════════════════════════════

// AcquireLock returns true if the lock was acquired, false if someone else holds it
func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, lockKey, "1", ttl).Result()
}

// ReleaseLock releases a lock
func (c *Client) ReleaseLock(ctx context.Context, lockKey string) error {
	return c.rdb.Del(ctx, lockKey).Err()
}

// ═══════════════════════════════════════════════════════════════════════════════
// JSON Cache Helpers
// ═══════════════════════════════════════════════════════════════════════════════

// SetJSON stores a value as JSON with expiration
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, expiration).Err()
}

// GetJSON retrieves a JSON value and unmarshals it into the target
// Returns redis.Nil error if key does not exist
func (c *Client) GetJSON(ctx context.Context, key string, target interface{}) error {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

// GetOrSet gets a value from cache, or calls the getter and caches the result.
// Only one caller per key runs the getter; the others wait for the lock.
func (c *Client) GetOrSet(ctx context.Context, key string, target interface{}, ttl time.Duration, getter func() (interface{}, error)) error {
	lockKey := "lock:" + key

	for {
		// 1. Try to get from cache
		err := c.GetJSON(ctx, key, target)
		if err == nil {
			return nil
		}
		if !errors.Is(err, redis.Nil) {
			return err
		}

		// 2. Cache miss - try to acquire lock
		locked, err := c.AcquireLock(ctx, lockKey, lockTTL)
		if err != nil {
			return err
		}
		if locked {
			break
		}

		// Someone else is fetching, wait and retry
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryWait):
		}
	}
	defer func() {
		if err := c.ReleaseLock(context.WithoutCancel(ctx), lockKey); err != nil {
			logger.WarnContext(ctx, "Failed to release cache lock", "key", key, "error", err)
		}
	}()

	// 3. Double-check cache (another request might have populated it)
	if err := c.GetJSON(ctx, key, target); err == nil {
		return nil
	}

	// 4. Fetch from source
	result, err := getter()
	if err != nil {
		return err
	}

	// 5. Cache the result
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.WarnContext(ctx, "Failed to cache result", "key", key, "error", err)
	}

	// 6. Copy result to target
	return json.Unmarshal(data, target)
}
