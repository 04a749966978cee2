package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the application.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	snapshotCache   *prometheus.CounterVec
	snapshotBuild   prometheus.Histogram
}

// NewMetrics initialises the registry and the base metric set.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "squadboard_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "squadboard_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	snapshotCache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "squadboard_timeline_snapshot_cache_total",
		Help: "Timeline snapshot cache lookups by outcome.",
	}, []string{"outcome"})
	snapshotBuild := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "squadboard_timeline_snapshot_build_seconds",
		Help:    "Time spent regenerating timeline snapshots.",
		Buckets: prometheus.DefBuckets,
	})
	registry.MustRegister(requests, duration, snapshotCache, snapshotBuild)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		snapshotCache:   snapshotCache,
		snapshotBuild:   snapshotBuild,
	}
}

// Handler returns the http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware records request metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// SnapshotCacheHit counts a timeline snapshot served from Redis.
func (m *Metrics) SnapshotCacheHit() {
	if m != nil {
		m.snapshotCache.WithLabelValues("hit").Inc()
	}
}

// SnapshotCacheMiss counts a timeline snapshot rebuilt from scratch.
func (m *Metrics) SnapshotCacheMiss() {
	if m != nil {
		m.snapshotCache.WithLabelValues("miss").Inc()
	}
}

// ObserveSnapshotBuild records how long a snapshot regeneration took.
func (m *Metrics) ObserveSnapshotBuild(d time.Duration) {
	if m != nil {
		m.snapshotBuild.Observe(d.Seconds())
	}
}

// Registerer exposes the registry for custom metric registration.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
