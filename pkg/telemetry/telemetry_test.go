package telemetry

import (
	"strings"
	"testing"
	"time"

	"github.com/lborres/dailydiet/core"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStats core.CacheStats

func (f fixedStats) Stats() core.CacheStats { return core.CacheStats(f) }

func TestTelemetry_ObserveRequest(t *testing.T) {
	tel := New()

	tel.ObserveRequest("get", "/meals/:id", 200, 15*time.Millisecond)
	tel.ObserveRequest("GET", "/meals/:id", 200, 5*time.Millisecond)
	tel.ObserveRequest("GET", "", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(tel.httpRequests.WithLabelValues("GET", "/meals/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(tel.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestTelemetry_RequestStarted(t *testing.T) {
	tel := New()

	done := tel.RequestStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(tel.httpInFlight))

	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(tel.httpInFlight))
}

func TestTelemetry_RegisterCache(t *testing.T) {
	tel := New()

	require.NoError(t, tel.RegisterCache("sessions", fixedStats{Hits: 3, Misses: 1, Size: 2}))
	assert.Error(t, tel.RegisterCache("sessions", fixedStats{}), "duplicate cache name must be rejected")
	require.NoError(t, tel.RegisterCache("metrics", fixedStats{}))

	n, err := testutil.GatherAndCount(tel.Registry, "dailydiet_cache_hits_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

// Requirement: size evictions and TTL expiry are exported as separate counters.
func TestTelemetry_RegisterCache_EvictionsAndExpiry(t *testing.T) {
	tel := New()
	require.NoError(t, tel.RegisterCache("sessions", fixedStats{Evictions: 2, Expired: 7}))

	expected := `
# HELP dailydiet_cache_evictions_total Entries evicted to stay under the size limit.
# TYPE dailydiet_cache_evictions_total counter
dailydiet_cache_evictions_total{cache="sessions"} 2
# HELP dailydiet_cache_expired_total Entries dropped after their TTL.
# TYPE dailydiet_cache_expired_total counter
dailydiet_cache_expired_total{cache="sessions"} 7
`
	assert.NoError(t, testutil.GatherAndCompare(tel.Registry, strings.NewReader(expected),
		"dailydiet_cache_evictions_total", "dailydiet_cache_expired_total"))
}

func TestTelemetry_InstancesAreIndependent(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = New()
		_ = New()
	})
}
