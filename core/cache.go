package core

import (
	"context"
	"time"
)

// Cache is a keyed cache for values that can always be recomputed from
// storage. A miss is reported as ErrCacheMiss.
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, error)
	Set(ctx context.Context, key string, value V) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

type CacheWithStats[V any] interface {
	Cache[V]
	StatsReporter
}

type StatsReporter interface {
	Stats() CacheStats
}

// Purger is implemented by caches that hold expired entries until swept.
type Purger interface {
	Purge() int
}

type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// CacheStats are simple counters for cache behavior.
// These are intended for diagnostics and monitoring.
type CacheStats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"` // dropped to make room
	Expired   int64         `json:"expired"`   // dropped after their TTL
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}
