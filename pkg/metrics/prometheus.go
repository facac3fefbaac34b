// Package metrics provides Prometheus metrics for the health dashboard.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// latencyBuckets are millisecond buckets shared by the fetch and HTTP histograms.
var latencyBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000} //nolint:gochecknoglobals // read-only bucket layout

// Fetch outcomes used as the "outcome" label of fetches_total.
const (
	OutcomeUp               = "up"
	OutcomeDown             = "down"
	OutcomeNetwork          = "network_error"
	OutcomeUnexpectedStatus = "unexpected_status"
	OutcomeParse            = "parse_error"
)

// Manager manages all Prometheus metrics for the dashboard service.
type Manager struct {
	namespace        string
	subsystem        string
	enabled         bool
	refreshInterval time.Duration
	registry        prometheus.Registerer

	// Poll cycle metrics
	fetches         *prometheus.CounterVec
	fetchDuration   prometheus.Histogram
	staleResponses  prometheus.Counter
	viewsApplied    prometheus.Counter
	pollInterval    prometheus.Gauge
	pollRunning     prometheus.Gauge
	settingsErrors  *prometheus.CounterVec
	settingsWrites  prometheus.Counter
	checksRendered  prometheus.Gauge
	checksDown      prometheus.Gauge
	endpointChanges prometheus.Counter

	// Push metrics
	streamClients    prometheus.Gauge
	broadcastDropped prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "healthui",
		subsystem:        "dashboard",
		enabled:         true,
		refreshInterval: defaultRefreshInterval,
		registry:        prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// NewMetricsManager is an alias of NewManager.
func NewMetricsManager(opts ...Option) *Manager {
	return NewManager(opts...)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.fetches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetches_total",
		Help:      "Health endpoint fetches by outcome",
	}, []string{"outcome"})

	m.fetchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_duration_milliseconds",
		Help:      "Health endpoint round trip in milliseconds",
		Buckets:   latencyBuckets,
	})

	m.staleResponses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stale_responses_total",
		Help:      "Fetch results dropped because a newer fetch was issued",
	})

	m.viewsApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "views_applied_total",
		Help:      "Rendered views that replaced the current view",
	})

	m.pollInterval = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "poll_interval_seconds",
		Help:      "Configured poll cadence, 0 when polling is off",
	})

	m.pollRunning = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "poll_running",
		Help:      "1 while a poll schedule is active",
	})

	m.settingsErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "settings_store_errors_total",
		Help:      "Settings store failures by operation",
	}, []string{"op"})

	m.settingsWrites = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "settings_saves_total",
		Help:      "Explicit settings saves",
	})

	m.checksRendered = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "checks",
		Help:      "Checks in the current view",
	})

	m.checksDown = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "checks_down",
		Help:      "Checks reporting DOWN in the current view",
	})

	m.endpointChanges = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "endpoint_changes_total",
		Help:      "Settings saves that changed the endpoint URL",
	})

	m.streamClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "stream_clients",
		Help:      "Connected view stream clients",
	})

	m.broadcastDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "broadcast_dropped_total",
		Help:      "View updates dropped for slow subscribers",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   latencyBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Current memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Current number of goroutines",
	})
}

// RecordFetch counts a fetch outcome and its latency.
func RecordFetch(outcome string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.fetches.WithLabelValues(outcome).Inc()
	globalManager.fetchDuration.Observe(latencyMs)
}

// RecordStaleResponse increments the dropped-stale-response counter.
func RecordStaleResponse() {
	globalManager.staleResponses.Inc()
}

// RecordViewApplied increments the applied views counter and updates the
// check gauges.
func RecordViewApplied(checks, down int) {
	globalManager.viewsApplied.Inc()
	globalManager.checksRendered.Set(float64(checks))
	globalManager.checksDown.Set(float64(down))
}

// UpdatePollInterval sets the poll cadence gauges.
func UpdatePollInterval(interval time.Duration) {
	globalManager.pollInterval.Set(interval.Seconds())
	if interval > 0 {
		globalManager.pollRunning.Set(1)
		return
	}
	globalManager.pollRunning.Set(0)
}

// RecordSettingsError counts a settings store failure for op (get, set).
func RecordSettingsError(op string) {
	globalManager.settingsErrors.WithLabelValues(op).Inc()
}

// RecordSettingsSave counts an explicit save.
func RecordSettingsSave(endpointChanged bool) {
	globalManager.settingsWrites.Inc()
	if endpointChanged {
		globalManager.endpointChanges.Inc()
	}
}

// UpdateStreamClients sets the connected stream clients gauge.
func UpdateStreamClients(count int) {
	globalManager.streamClients.Set(float64(count))
}

// RecordBroadcastDropped counts a view update not delivered to a subscriber.
func RecordBroadcastDropped() {
	globalManager.broadcastDropped.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// Configure applies runtime options to the global manager. Options that
// shape registration (namespace, subsystem, registry) have no effect here
// because the collectors already exist.
func Configure(opts ...Option) {
	for _, opt := range opts {
		opt(globalManager)
	}
}

// Enabled reports whether recording is switched on.
func Enabled() bool {
	return globalManager.enabled
}

// RefreshInterval returns how often process gauges should be refreshed.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
