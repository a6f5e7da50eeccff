package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ive-dev/ive/pkg/dom"
	"github.com/ive-dev/ive/pkg/ive"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "ive").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for notification duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
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
		Namespace: "ive",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is an ive.Observer exporting engine activity to Prometheus.
//
// Metrics collected:
//   - ive_cell_mutations_total: cells changed by Set
//   - ive_notify_duration_seconds: time to re-render all subscribers of a mutation
//   - ive_notify_subscribers: subscribers per mutation
//   - ive_updates_total: dispatcher invocations by result (replaced, stale)
//   - ive_nodes_replaced_total: node swaps
//   - ive_registry_entries: live registry entries
//   - ive_route_resolutions_total: router resolutions by outcome
type Metrics struct {
	mutations       prometheus.Counter
	notifyDuration  prometheus.Histogram
	notifySubs      prometheus.Histogram
	updates         *prometheus.CounterVec
	replaced        prometheus.Counter
	registryEntries prometheus.Gauge
	routes          *prometheus.CounterVec
}

// NewMetrics registers the engine metrics and returns the observer.
// Registration panics if the metrics already exist in the registry.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
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
	histogram := func(name, help string, buckets []float64) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
			Buckets:     buckets,
		}
	}

	return &Metrics{
		mutations: factory.NewCounter(counter("cell_mutations_total",
			"Total number of cell mutations that notified subscribers")),
		notifyDuration: factory.NewHistogram(histogram("notify_duration_seconds",
			"Time spent re-rendering the subscribers of one mutation", config.Buckets)),
		notifySubs: factory.NewHistogram(histogram("notify_subscribers",
			"Mounted subscribers per mutation", []float64{0, 1, 2, 5, 10, 50, 100})),
		updates: factory.NewCounterVec(counter("updates_total",
			"Update dispatcher invocations by result"), []string{"result"}),
		replaced: factory.NewCounter(counter("nodes_replaced_total",
			"Total number of nodes swapped by the dispatcher")),
		registryEntries: factory.NewGauge(prometheus.GaugeOpts(counter("registry_entries",
			"Live component registry entries"))),
		routes: factory.NewCounterVec(counter("route_resolutions_total",
			"Router resolutions by outcome"), []string{"outcome"}),
	}
}

// CellMutated implements ive.Observer.
func (m *Metrics) CellMutated(_ string, subscribers int) func() {
	m.mutations.Inc()
	m.notifySubs.Observe(float64(subscribers))
	start := time.Now()
	return func() {
		m.notifyDuration.Observe(time.Since(start).Seconds())
	}
}

// UpdateDispatched implements ive.Observer.
func (m *Metrics) UpdateDispatched(_ ive.EntryID, stale bool) {
	if stale {
		m.updates.WithLabelValues("stale").Inc()
		return
	}
	m.updates.WithLabelValues("replaced").Inc()
}

// NodeReplaced implements ive.Observer.
func (m *Metrics) NodeReplaced(_, _ *dom.Node) {
	m.replaced.Inc()
}

// RegistryChanged implements ive.Observer.
func (m *Metrics) RegistryChanged(size int) {
	m.registryEntries.Set(float64(size))
}

// RouteResolved implements ive.RouteObserver.
func (m *Metrics) RouteResolved(outcome, _ string) {
	m.routes.WithLabelValues(outcome).Inc()
}
