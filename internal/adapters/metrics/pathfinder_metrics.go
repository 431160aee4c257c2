package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/colony-go/internal/domain/routing"
)

// PathfinderMetricsCollector handles path search metrics
type PathfinderMetricsCollector struct {
	searchesTotal  *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	nodesExpanded  *prometheus.HistogramVec
}

// NewPathfinderMetricsCollector creates a new pathfinding metrics collector
func NewPathfinderMetricsCollector() *PathfinderMetricsCollector {
	return &PathfinderMetricsCollector{
		// Searches by outcome
		searchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "pathfinder",
				Name:      "searches_total",
				Help:      "Path searches by strategy and outcome",
			},
			[]string{"strategy", "graph", "result"},
		),

		// Search duration histogram
		searchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pathfinder",
				Name:      "search_duration_seconds",
				Help:      "Path search duration distribution",
				Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
			[]string{"strategy"},
		),

		// Open set pops per search
		nodesExpanded: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "pathfinder",
				Name:      "nodes_expanded",
				Help:      "Nodes popped from the open set per search",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
			[]string{"strategy"},
		),
	}
}

// Register registers all pathfinding metrics with the Prometheus registry
func (c *PathfinderMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.searchesTotal,
		c.searchDuration,
		c.nodesExpanded,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordSearch records one completed path search
func (c *PathfinderMetricsCollector) RecordSearch(strategy routing.Strategy, graphIndex int, found bool, expanded int, duration time.Duration) {
	c.searchesTotal.WithLabelValues(string(strategy), graphLabel(graphIndex), outcome(found, "found", "not_found")).Inc()
	c.searchDuration.WithLabelValues(string(strategy)).Observe(duration.Seconds())
	c.nodesExpanded.WithLabelValues(string(strategy)).Observe(float64(expanded))
}
