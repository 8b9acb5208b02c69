package middleware

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	herrors "github.com/hardfox-dev/hardfox/internal/errors"
	"github.com/hardfox-dev/hardfox/pkg/session"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "hardfox").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "hardfox",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

type metrics struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderErrors   *prometheus.CounterVec
	reconcileOps   *prometheus.CounterVec
	duplicateKeys  prometheus.Counter
	fullRebuilds   prometheus.Counter
	patchesSent    prometheus.Counter
	wsClients      prometheus.Gauge
	wsErrors       *prometheus.CounterVec
}

// globalMetrics is created by the first call to Prometheus. Later calls
// share it, whatever their options.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}
	}

	return &metrics{
		rendersTotal: factory.NewCounterVec(
			counter("renders_total", "Total number of render passes"),
			[]string{"trigger", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Render pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"trigger"}),

		renderErrors: factory.NewCounterVec(
			counter("render_errors_total", "Total number of failed render passes"),
			[]string{"code"}),

		reconcileOps: factory.NewCounterVec(
			counter("reconcile_ops_total", "Total number of patches emitted by the reconciler"),
			[]string{"op"}),

		duplicateKeys: factory.NewCounter(
			counter("duplicate_keys_total", "Total number of duplicate node keys seen while reconciling")),

		fullRebuilds: factory.NewCounter(
			counter("full_rebuilds_total", "Total number of render passes that rebuilt the panel")),

		patchesSent: factory.NewCounter(
			counter("patches_sent_total", "Total number of patches sent to websocket clients")),

		wsClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_clients",
			Help:        "Number of connected websocket clients",
			ConstLabels: config.ConstLabels,
		}),

		wsErrors: factory.NewCounterVec(
			counter("websocket_errors_total", "Total websocket errors by type"),
			[]string{"type"}),
	}
}

// Prometheus creates middleware that records metrics for every render
// pass. Reconcile operations are counted from the pass report, so a
// failed pass still counts the patches it emitted.
func Prometheus(opts ...MetricsOption) session.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return session.MiddlewareFunc(func(p *session.Pass, next func() error) error {
		trigger := p.Trigger
		if trigger == "" {
			trigger = "unknown"
		}

		start := time.Now()
		err := next()
		m.renderDuration.WithLabelValues(trigger).Observe(time.Since(start).Seconds())

		status := "success"
		if err != nil {
			status = "error"
			m.renderErrors.WithLabelValues(errorCode(err)).Inc()
		}
		m.rendersTotal.WithLabelValues(trigger, status).Inc()

		if r := p.Report(); r != nil {
			m.reconcileOps.WithLabelValues("create").Add(float64(r.Metrics.Created))
			m.reconcileOps.WithLabelValues("update").Add(float64(r.Metrics.Updated))
			m.reconcileOps.WithLabelValues("destroy").Add(float64(r.Metrics.Destroyed))
			m.reconcileOps.WithLabelValues("move").Add(float64(r.Metrics.Moved))
			m.reconcileOps.WithLabelValues("reuse").Add(float64(r.Metrics.Reused))
			m.duplicateKeys.Add(float64(len(r.Diagnostics)))
			if r.Full {
				m.fullRebuilds.Inc()
			}
		}
		return err
	})
}

// errorCode maps err to a low-cardinality label.
func errorCode(err error) string {
	var he *herrors.Error
	switch {
	case errors.As(err, &he) && he.Code != "":
		return he.Code
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "internal"
	}
}

// RecordPatches records patches written to websocket clients.
func RecordPatches(count int) {
	if m := current(); m != nil {
		m.patchesSent.Add(float64(count))
	}
}

// RecordClientConnect records a websocket client joining.
func RecordClientConnect() {
	if m := current(); m != nil {
		m.wsClients.Inc()
	}
}

// RecordClientDisconnect records a websocket client leaving.
func RecordClientDisconnect() {
	if m := current(); m != nil {
		m.wsClients.Dec()
	}
}

// RecordWebSocketError records a websocket error of the given type, such
// as "read", "write" or "decode".
func RecordWebSocketError(errorType string) {
	if m := current(); m != nil {
		m.wsErrors.WithLabelValues(errorType).Inc()
	}
}

func current() *metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	return globalMetrics
}

// Collector exposes the render metrics as one prometheus.Collector, for
// registering them on an additional registry.
type Collector struct {
	m *metrics
}

// GetMetrics returns the global metrics collector.
// Returns nil if Prometheus middleware has not been initialized.
func GetMetrics() *Collector {
	m := current()
	if m == nil {
		return nil
	}
	return &Collector{m: m}
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.m.rendersTotal,
		c.m.renderDuration,
		c.m.renderErrors,
		c.m.reconcileOps,
		c.m.duplicateKeys,
		c.m.fullRebuilds,
		c.m.patchesSent,
		c.m.wsClients,
		c.m.wsErrors,
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, col := range c.collectors() {
		col.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, col := range c.collectors() {
		col.Collect(ch)
	}
}
