// Package prom implements the observability hooks with Prometheus metrics.
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/museummap/pkg/observability"
)

// Collector holds all Prometheus metrics for the map service.
// Each Collector owns its own registry so tests can create several.
type Collector struct {
	registry *prometheus.Registry

	// Inbound HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Scene metrics
	SceneBuilds   prometheus.Counter
	BoundSlots    prometheus.Gauge
	RenderBytes   *prometheus.HistogramVec
	RenderErrors  *prometheus.CounterVec
	GestureEvents *prometheus.CounterVec

	// Cache metrics
	CacheOps *prometheus.CounterVec

	// Webhook metrics
	WebhookRequests *prometheus.CounterVec
	WebhookDuration *prometheus.HistogramVec
}

// NewCollector creates a collector whose metrics carry the given namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		SceneBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scene_builds_total",
			Help:      "Total number of scene composition passes",
		}),
		BoundSlots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scene_bound_slots",
			Help:      "Bound slots in the most recently built scene",
		}),
		RenderBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "render_bytes",
				Help:      "Size of rendered scene output",
				Buckets:   prometheus.ExponentialBuckets(1024, 2, 10),
			},
			[]string{"format"},
		),
		RenderErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "render_errors_total",
				Help:      "Total number of failed renders",
			},
			[]string{"format"},
		),
		GestureEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gesture_events_total",
				Help:      "Gesture events dispatched to mounted views",
			},
			[]string{"kind"},
		),
		CacheOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_operations_total",
				Help:      "Cache hits, misses and writes",
			},
			[]string{"key_type", "result"},
		),
		WebhookRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "webhook_requests_total",
				Help:      "Outgoing enrichment webhook requests",
			},
			[]string{"host", "status"},
		),
		WebhookDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "webhook_duration_seconds",
				Help:      "Enrichment webhook latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"host"},
		),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.SceneBuilds,
		c.BoundSlots,
		c.RenderBytes,
		c.RenderErrors,
		c.GestureEvents,
		c.CacheOps,
		c.WebhookRequests,
		c.WebhookDuration,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the collector's metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Register installs the collector as the global scene, cache and HTTP hooks.
func (c *Collector) Register() {
	observability.SetSceneHooks(c)
	observability.SetCacheHooks(c)
	observability.SetHTTPHooks(c)
}

// ObserveHTTP records one inbound request.
func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) OnBuild(_ context.Context, bound, _ int, _ time.Duration) {
	c.SceneBuilds.Inc()
	c.BoundSlots.Set(float64(bound))
}

func (c *Collector) OnRender(_ context.Context, format string, size int, _ time.Duration, err error) {
	if err != nil {
		c.RenderErrors.WithLabelValues(format).Inc()
		return
	}
	c.RenderBytes.WithLabelValues(format).Observe(float64(size))
}

func (c *Collector) OnGesture(_ context.Context, kind string) {
	c.GestureEvents.WithLabelValues(kind).Inc()
}

func (c *Collector) OnCacheHit(_ context.Context, keyType string) {
	c.CacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (c *Collector) OnCacheMiss(_ context.Context, keyType string) {
	c.CacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (c *Collector) OnCacheSet(_ context.Context, keyType string, _ int) {
	c.CacheOps.WithLabelValues(keyType, "set").Inc()
}

func (c *Collector) OnRequest(context.Context, string, string, string) {}

func (c *Collector) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	c.WebhookRequests.WithLabelValues(host, strconv.Itoa(status)).Inc()
	c.WebhookDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (c *Collector) OnError(_ context.Context, _, host, _ string, _ error) {
	c.WebhookRequests.WithLabelValues(host, "error").Inc()
}

var (
	_ observability.SceneHooks = (*Collector)(nil)
	_ observability.CacheHooks = (*Collector)(nil)
	_ observability.HTTPHooks  = (*Collector)(nil)
)
