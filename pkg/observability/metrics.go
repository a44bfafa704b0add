package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anxdpanic/addon-check/pkg/report"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Check metrics
	ChecksTotal   *prometheus.CounterVec
	FindingsTotal *prometheus.CounterVec
	CheckDuration prometheus.Histogram

	// Repository metrics
	BranchLoadsTotal *prometheus.CounterVec
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: registry,

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "addon_check_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "addon_check_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		ChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "addon_check_checks_total",
				Help: "Total number of add-ons checked",
			},
			[]string{"branch"},
		),
		FindingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "addon_check_findings_total",
				Help: "Total number of findings reported",
			},
			[]string{"severity"},
		),
		CheckDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "addon_check_check_duration_seconds",
				Help:    "Duration of checking a single add-on in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
			},
		),

		BranchLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "addon_check_branch_loads_total",
				Help: "Total number of branch repository loads",
			},
			[]string{"status"},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "addon_check_cache_hits_total",
				Help: "Total number of repository cache hits",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "addon_check_cache_misses_total",
				Help: "Total number of repository cache misses",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ChecksTotal,
		m.FindingsTotal,
		m.CheckDuration,
		m.BranchLoadsTotal,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)

	return m
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordCheck records one checked add-on
func (m *Metrics) RecordCheck(branch string, duration time.Duration, summary report.Summary) {
	m.ChecksTotal.WithLabelValues(branch).Inc()
	m.CheckDuration.Observe(duration.Seconds())
	for sev, n := range summary {
		m.FindingsTotal.WithLabelValues(sev.String()).Add(float64(n))
	}
}

// RecordBranchLoad records a branch repository load by outcome
func (m *Metrics) RecordBranchLoad(status string) {
	m.BranchLoadsTotal.WithLabelValues(status).Inc()
}

// RecordCacheHit records a repository cache hit
func (m *Metrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}

// RecordCacheMiss records a repository cache miss
func (m *Metrics) RecordCacheMiss() {
	m.CacheMissesTotal.Inc()
}

// WriteToTextfile writes the current metrics in the text exposition format,
// for node_exporter's textfile collector
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// Handler serves the metrics over HTTP
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HTTPMetricsMiddleware instruments HTTP requests with Prometheus metrics.
// Requests are labelled by their mux route template to keep cardinality bounded.
func HTTPMetricsMiddleware(metrics *Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
