package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/HARSHITRANA2447/fashion-lookbook/internal/logger"

	"github.com/redis/go-redis/v9"
)

// KeyTrending holds the serialized trending feed.
const KeyTrending = "discover:trending"

// Cache is a JSON cache over Redis. A nil *Cache, or one built without a
// client, is a valid no-op cache.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Get decodes the value stored at key into dst. A miss returns false and no error.
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if !c.enabled() {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if !c.enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.enabled() || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Invalidate drops keys and logs instead of failing; callers use it after
// writes that already succeeded.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if err := c.Delete(ctx, keys...); err != nil {
		logger.Warn("cache invalidate failed", "keys", keys, "error", err)
	}
}

// Remember returns the cached value at key or loads, stores and returns it.
// Cache errors never fail the call.
func Remember[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	var cached T
	hit, err := c.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("cache read failed", "key", key, "error", err)
	}
	if hit {
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if err := c.Set(ctx, key, value); err != nil {
		logger.Warn("cache write failed", "key", key, "error", err)
	}
	return value, nil
}
