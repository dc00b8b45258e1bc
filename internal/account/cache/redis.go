// Package cache holds the TTL key-value cache for serialized profile
// snapshots. The cache is best-effort and never authoritative: absence of an
// entry is always a valid state, and writers invalidate rather than update.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/l31-dev/Autha/pkg/platform/sentinel"
)

// SnapshotTTL bounds the life of a cached profile snapshot independently of
// store mutations.
const SnapshotTTL = 300 * time.Second

// Redis key prefix for profile snapshots.
const snapshotKeyPrefix = "profile:"

// RedisCache is the Redis-backed snapshot cache used in production, where
// multiple instances share cache state.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an externally-managed Redis client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the snapshot stored under key, or sentinel.ErrNotFound when
// the entry is absent or expired.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, snapshotKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}
	return data, nil
}

// Set stores a snapshot under key for ttl. SET with expiry is atomic, so a
// racing Delete either removes this entry or the previous one; both states
// are valid.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, snapshotKeyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// Delete removes the snapshot under key. Deleting an absent key is not an
// error.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, snapshotKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("cache delete %q: %w", key, err)
	}
	return nil
}
