package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes
const (
	statusOK       = "ok"
	statusRejected = "rejected"
	statusError    = "error"
)

// OperatorMetricsCollector tracks operator commands and queries sent
// through the mediator, whether scheduled by a scenario or issued by the CLI
type OperatorMetricsCollector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewOperatorMetricsCollector() *OperatorMetricsCollector {
	return &OperatorMetricsCollector{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "operator",
				Name:      "requests_total",
				Help:      "Operator requests handled, by request, kind and outcome",
			},
			[]string{"request", "kind", "status"},
		),
		// handlers run in-process against in-memory state, hence the microsecond buckets
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "operator",
				Name:      "request_duration_seconds",
				Help:      "Operator request handling time",
				Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
			[]string{"request", "kind"},
		),
	}
}

// Register registers the operator metrics with the Prometheus registry
func (c *OperatorMetricsCollector) Register() error {
	if Registry == nil {
		return nil
	}

	for _, metric := range []prometheus.Collector{c.requestsTotal, c.requestDuration} {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

// RecordRequest records one handled request. status is ok, rejected or error.
func (c *OperatorMetricsCollector) RecordRequest(request, kind, status string, seconds float64) {
	c.requestsTotal.WithLabelValues(request, kind, status).Inc()
	c.requestDuration.WithLabelValues(request, kind).Observe(seconds)
}
