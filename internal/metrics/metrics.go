// Package metrics exposes Prometheus collectors for the state hub and the
// HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lifedash"

// Collector implements state.Observer and carries the HTTP request metrics.
type Collector struct {
	registry *prometheus.Registry

	cacheHits          *prometheus.CounterVec
	cacheMisses        *prometheus.CounterVec
	computeFailures    *prometheus.CounterVec
	mutations          *prometheus.CounterVec
	subscriberFailures prometheus.Counter
	snapshotsRecorded  prometheus.Counter
	eventClients       prometheus.Gauge

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "state",
			Name:      "cache_hits_total",
			Help:      "Derived-state reads served from the cache.",
		}, []string{"layer"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "state",
			Name:      "cache_misses_total",
			Help:      "Derived-state reads that ran the layer producer.",
		}, []string{"layer"}),
		computeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "state",
			Name:      "compute_failures_total",
			Help:      "Producer runs that failed and fell back to the layer default.",
		}, []string{"layer"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "state",
			Name:      "mutations_total",
			Help:      "Intercepted mutating operations.",
		}, []string{"op"}),
		subscriberFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "state",
			Name:      "subscriber_failures_total",
			Help:      "Subscriber callbacks that returned an error or panicked.",
		}),
		snapshotsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vision",
			Name:      "snapshots_recorded_total",
			Help:      "Alignment snapshots appended to the history.",
		}),
		eventClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "clients",
			Help:      "Connected event stream clients.",
		}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"method", "route"}),
	}

	c.registry.MustRegister(
		c.cacheHits,
		c.cacheMisses,
		c.computeFailures,
		c.mutations,
		c.subscriberFailures,
		c.snapshotsRecorded,
		c.eventClients,
		c.httpInFlight,
		c.httpRequests,
		c.httpDuration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) CacheHit(layer string) {
	c.cacheHits.WithLabelValues(layer).Inc()
}

func (c *Collector) CacheMiss(layer string) {
	c.cacheMisses.WithLabelValues(layer).Inc()
}

func (c *Collector) ComputeFailed(layer string) {
	c.computeFailures.WithLabelValues(layer).Inc()
}

func (c *Collector) Mutation(op string) {
	c.mutations.WithLabelValues(op).Inc()
}

func (c *Collector) SubscriberFailed() {
	c.subscriberFailures.Inc()
}

func (c *Collector) SnapshotRecorded() {
	c.snapshotsRecorded.Inc()
}

func (c *Collector) EventClientConnected() {
	c.eventClients.Inc()
}

func (c *Collector) EventClientDisconnected() {
	c.eventClients.Dec()
}

// Handler exposes the registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request. route should be the
// router pattern, not the raw path, so ids do not explode cardinality.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) RequestStarted() {
	c.httpInFlight.Inc()
}

func (c *Collector) RequestFinished() {
	c.httpInFlight.Dec()
}
