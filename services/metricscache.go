package services

import (
	"context"
	"sync/atomic"

	"github.com/lborres/dailydiet/core"
	"github.com/lborres/dailydiet/pkg/logging"
)

// MetricsCache is the owner-keyed metrics cache shared by the ledger and the
// metrics engine.
//
// A fill computed from a read that raced a write must not outlive the write.
// Writers bump the version and then delete; fillers set and then re-check the
// version, deleting their own entry when it moved. Either the writer's delete
// lands after the fill, or the filler sees the new version.
type MetricsCache struct {
	cache   core.Cache[*core.Metrics]
	version atomic.Uint64
}

// NewMetricsCache returns nil when cache is nil, which disables caching.
func NewMetricsCache(cache core.Cache[*core.Metrics]) *MetricsCache {
	if cache == nil {
		return nil
	}
	return &MetricsCache{cache: cache}
}

func (c *MetricsCache) get(ctx context.Context, ownerID string) (*core.Metrics, bool) {
	m, err := c.cache.Get(ctx, ownerID)
	return m, err == nil && m != nil
}

// snapshot must be taken before the store read whose result is passed to fill.
func (c *MetricsCache) snapshot() uint64 {
	return c.version.Load()
}

func (c *MetricsCache) fill(ctx context.Context, logger logging.Logger, ownerID string, seen uint64, m *core.Metrics) {
	if err := c.cache.Set(ctx, ownerID, m); err != nil {
		logger.Debug(ctx, "metrics cache set failed", "owner_id", ownerID, "error", err)
		return
	}
	if c.version.Load() == seen {
		return
	}
	if err := c.cache.Delete(ctx, ownerID); err != nil {
		logger.Warn(ctx, "metrics cache rollback failed", "owner_id", ownerID, "error", err)
	}
}

func (c *MetricsCache) invalidate(ctx context.Context, logger logging.Logger, ownerID string) {
	c.version.Add(1)
	if err := c.cache.Delete(ctx, ownerID); err != nil {
		logger.Warn(ctx, "metrics cache invalidation failed", "owner_id", ownerID, "error", err)
	}
}
