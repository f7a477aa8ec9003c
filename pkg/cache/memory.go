package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lborres/dailydiet/core"
)

// InMemoryCache implements core.Cache for a single process
type InMemoryCache[V any] struct {
	cache   map[string]*cachedRecord[V]
	mu      sync.RWMutex
	ttl     time.Duration
	maxSize int
	now     func() time.Time

	// counters
	hits      int64
	misses    int64
	sets      int64
	deletes   int64
	evictions int64
	expired   int64
}

var (
	_ core.CacheWithStats[string] = (*InMemoryCache[string])(nil)
	_ core.Purger                 = (*InMemoryCache[string])(nil)
)

type cachedRecord[V any] struct {
	value    V
	cachedAt time.Time
}

// NewInMemoryCache creates a new in-memory cache
func NewInMemoryCache[V any](c core.CacheConfig) *InMemoryCache[V] {
	if c.TTL == 0 {
		c.TTL = 5 * time.Minute
	}
	if c.MaxSize == 0 {
		c.MaxSize = 500
	}

	return &InMemoryCache[V]{
		cache:   make(map[string]*cachedRecord[V]),
		ttl:     c.TTL,
		maxSize: c.MaxSize,
		now:     time.Now,
	}
}

// Get retrieves a value from cache. Expired entries count as misses and are
// dropped on the spot.
func (c *InMemoryCache[V]) Get(_ context.Context, key string) (V, error) {
	var zero V

	c.mu.RLock()
	record, exists := c.cache[key]
	c.mu.RUnlock()

	if !exists {
		atomic.AddInt64(&c.misses, 1)
		return zero, core.ErrCacheMiss
	}

	if c.isExpired(record) {
		atomic.AddInt64(&c.misses, 1)

		c.mu.Lock()
		// re-check, a concurrent Set may have refreshed it
		if current, ok := c.cache[key]; ok && c.isExpired(current) {
			delete(c.cache, key)
			atomic.AddInt64(&c.expired, 1)
		}
		c.mu.Unlock()

		return zero, core.ErrCacheMiss
	}

	atomic.AddInt64(&c.hits, 1)
	return record.value, nil
}

// Set stores a value in cache
func (c *InMemoryCache[V]) Set(_ context.Context, key string, value V) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, replacing := c.cache[key]; !replacing && len(c.cache) >= c.maxSize {
		c.evictOldest()
	}

	c.cache[key] = &cachedRecord[V]{
		value:    value,
		cachedAt: c.now(),
	}

	atomic.AddInt64(&c.sets, 1)
	return nil
}

// Delete removes a value from cache
func (c *InMemoryCache[V]) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, existed := c.cache[key]; existed {
		delete(c.cache, key)
		atomic.AddInt64(&c.deletes, 1)
	}
	return nil
}

// Clear removes all values from cache
func (c *InMemoryCache[V]) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*cachedRecord[V])
	return nil
}

// Purge drops every expired entry and returns how many were removed
func (c *InMemoryCache[V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, record := range c.cache {
		if c.isExpired(record) {
			delete(c.cache, k)
			removed++
		}
	}
	atomic.AddInt64(&c.expired, int64(removed))
	return removed
}

// Len returns the number of cached values, expired ones included
func (c *InMemoryCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Stats returns cache statistics
func (c *InMemoryCache[V]) Stats() core.CacheStats {
	return core.CacheStats{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Sets:      atomic.LoadInt64(&c.sets),
		Deletes:   atomic.LoadInt64(&c.deletes),
		Evictions: atomic.LoadInt64(&c.evictions),
		Expired:   atomic.LoadInt64(&c.expired),
		Size:      c.Len(),
		TTL:       c.ttl,
	}
}

func (c *InMemoryCache[V]) isExpired(r *cachedRecord[V]) bool {
	return c.now().Sub(r.cachedAt) > c.ttl
}

// evictOldest drops the entry written longest ago. Caller holds mu.
func (c *InMemoryCache[V]) evictOldest() {
	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for k, record := range c.cache {
		if !found || record.cachedAt.Before(oldestAt) {
			oldestKey, oldestAt, found = k, record.cachedAt, true
		}
	}
	if found {
		delete(c.cache, oldestKey)
		atomic.AddInt64(&c.evictions, 1)
	}
}
