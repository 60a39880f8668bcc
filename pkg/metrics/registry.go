// Package metrics exposes Prometheus instrumentation for diffkit. All
// collectors are registered against a private registry so embedding hosts
// can scrape or ignore them without touching the global default.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics for the library.
type Registry struct {
	// Collector metrics
	CollectorLookupsTotal *prometheus.CounterVec
	CollectorEntriesTotal prometheus.Gauge

	// Graph metrics
	GraphNodesTotal  prometheus.Gauge
	GraphPrunedTotal prometheus.Counter

	// Planning metrics
	PlanDuration  prometheus.Histogram
	SessionsTotal prometheus.Counter

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the shared metrics registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{registry: reg}

	r.CollectorLookupsTotal = promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "diffkit_collector_lookups_total",
			Help: "Total number of derivative cache lookups",
		},
		[]string{"result"},
	)

	r.CollectorEntriesTotal = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "diffkit_collector_entries_total",
			Help: "Number of derivative entries recorded in the session",
		},
	)

	r.GraphNodesTotal = promauto.With(reg).NewGauge(
		prometheus.GaugeOpts{
			Name: "diffkit_graph_nodes_total",
			Help: "Number of active nodes in the current scheduling graph",
		},
	)

	r.GraphPrunedTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "diffkit_graph_pruned_total",
			Help: "Total number of nodes removed by reachability pruning",
		},
	)

	r.PlanDuration = promauto.With(reg).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "diffkit_plan_duration_seconds",
			Help:    "Time spent computing a generation order",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	r.SessionsTotal = promauto.With(reg).NewCounter(
		prometheus.CounterOpts{
			Name: "diffkit_sessions_total",
			Help: "Total number of generation sessions started",
		},
	)

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry.
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
