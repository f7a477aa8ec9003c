// Package telemetry holds the Prometheus collectors for the HTTP layer and
// the caches.
package telemetry

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lborres/dailydiet/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dailydiet"

// Telemetry owns a private registry so several instances (one per test app,
// for example) never collide on registration.
type Telemetry struct {
	Registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func New() *Telemetry {
	t := &Telemetry{
		Registry: prometheus.NewRegistry(),

		httpInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "inflight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
		),

		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "route", "status"},
		),

		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
			},
			[]string{"method", "route"},
		),
	}

	t.Registry.MustRegister(
		t.httpInFlight,
		t.httpRequests,
		t.httpDuration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	return t
}

// Handler returns an HTTP handler exposing the registered metrics.
func (t *Telemetry) Handler() http.Handler {
	return promhttp.HandlerFor(t.Registry, promhttp.HandlerOpts{})
}

// RequestStarted increments the in-flight gauge and returns the matching
// decrement.
func (t *Telemetry) RequestStarted() func() {
	t.httpInFlight.Inc()
	return t.httpInFlight.Dec
}

// ObserveRequest records one finished request. route is the matched route
// pattern, not the raw path, to keep label cardinality bounded.
func (t *Telemetry) ObserveRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	method = strings.ToUpper(method)
	t.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	t.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RegisterCache exposes a cache's counters under the given name.
func (t *Telemetry) RegisterCache(name string, stats core.StatsReporter) error {
	labels := prometheus.Labels{"cache": name}

	counter := func(metric, help string, read func(core.CacheStats) int64) prometheus.Collector {
		return prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "cache",
				Name:        metric,
				Help:        help,
				ConstLabels: labels,
			},
			func() float64 { return float64(read(stats.Stats())) },
		)
	}

	cs := []prometheus.Collector{
		counter("hits_total", "Cache hits.", func(s core.CacheStats) int64 { return s.Hits }),
		counter("misses_total", "Cache misses.", func(s core.CacheStats) int64 { return s.Misses }),
		counter("sets_total", "Cache writes.", func(s core.CacheStats) int64 { return s.Sets }),
		counter("evictions_total", "Entries evicted to stay under the size limit.", func(s core.CacheStats) int64 { return s.Evictions }),
		counter("expired_total", "Entries dropped after their TTL.", func(s core.CacheStats) int64 { return s.Expired }),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Subsystem:   "cache",
				Name:        "entries",
				Help:        "Entries currently held.",
				ConstLabels: labels,
			},
			func() float64 { return float64(stats.Stats().Size) },
		),
	}

	for _, c := range cs {
		if err := t.Registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}
