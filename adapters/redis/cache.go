// Package redis implements core.Cache on Redis so several instances can
// share cached sessions and metrics.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/lborres/dailydiet/core"
)

const scanBatch = 100

// Cache stores JSON-encoded values under prefix with a fixed TTL.
type Cache[V any] struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration

	hits    atomic.Int64
	misses  atomic.Int64
	sets    atomic.Int64
	deletes atomic.Int64
}

var _ core.CacheWithStats[*core.User] = (*Cache[*core.User])(nil)

func New[V any](client goredis.UniversalClient, prefix string, ttl time.Duration) *Cache[V] {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache[V]{client: client, prefix: prefix, ttl: ttl}
}

// NewClient parses a redis:// URL and verifies the connection.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func (c *Cache[V]) key(k string) string {
	return c.prefix + k
}

func (c *Cache[V]) Get(ctx context.Context, key string) (V, error) {
	var value V

	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			c.misses.Add(1)
			return value, core.ErrCacheMiss
		}
		return value, err
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		// treat undecodable entries as absent
		c.misses.Add(1)
		return value, core.ErrCacheMiss
	}

	c.hits.Add(1)
	return value, nil
}

func (c *Cache[V]) Set(ctx context.Context, key string, value V) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), raw, c.ttl).Err(); err != nil {
		return err
	}
	c.sets.Add(1)
	return nil
}

func (c *Cache[V]) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return err
	}
	c.deletes.Add(1)
	return nil
}

// Clear removes every key under the prefix. It scans rather than flushing
// so other data in the same database survives.
func (c *Cache[V]) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", scanBatch).Iterator()

	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return c.client.Del(ctx, batch...).Err()
	}
	return nil
}

// Stats reports client-side counters. Size is not tracked; Redis expires
// entries on its own.
func (c *Cache[V]) Stats() core.CacheStats {
	return core.CacheStats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Sets:    c.sets.Load(),
		Deletes: c.deletes.Load(),
		TTL:     c.ttl,
	}
}
