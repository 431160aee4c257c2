package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/job"
)

// SchedulerMetricsCollector handles dispatch, admission, rebalance and tick metrics
type SchedulerMetricsCollector struct {
	// Dispatch protocol
	dispatchesTotal *prometheus.CounterVec
	requestsTotal   *prometheus.CounterVec
	transfersTotal  *prometheus.CounterVec

	// Snapshot gauges, refreshed after every tick
	poolSize        *prometheus.GaugeVec
	queueDepth      *prometheus.GaugeVec
	platformWorkers *prometheus.GaugeVec
	fairShare       *prometheus.GaugeVec
	manualWorkers   *prometheus.GaugeVec

	// Tick loop
	ticksTotal   prometheus.Counter
	tickDuration prometheus.Histogram

	// platform label sets seen per graph, so vanished platforms can be dropped
	mu        sync.Mutex
	platforms map[int]map[string][]string
}

// NewSchedulerMetricsCollector creates a new scheduler metrics collector
func NewSchedulerMetricsCollector() *SchedulerMetricsCollector {
	return &SchedulerMetricsCollector{
		dispatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "dispatches_total",
				Help:      "Task requests from workers by job and outcome",
			},
			[]string{"graph", "job", "result"},
		),

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Work requests from platform actions by job and admission outcome",
			},
			[]string{"graph", "job", "result"},
		),

		transfersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rebalance_transfers_total",
				Help:      "Workers moved between platforms by rebalancing",
			},
			[]string{"graph", "category"},
		),

		poolSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "pool_size",
				Help:      "Workers per job pool",
			},
			[]string{"graph", "job"},
		),

		queueDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "queue_depth",
				Help:      "Pending tasks per job queue",
			},
			[]string{"graph", "job"},
		),

		platformWorkers: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "platform_workers",
				Help:      "Workers homed on each production or defense platform",
			},
			[]string{"graph", "category", "platform"},
		),

		fairShare: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fair_share",
				Help:      "Workers per platform under an even split",
			},
			[]string{"graph", "category"},
		),

		manualWorkers: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "manual_workers",
				Help:      "Workers pinned to an action by an operator",
			},
			[]string{"graph"},
		),

		ticksTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ticks_total",
				Help:      "Simulation ticks processed",
			},
		),

		tickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick_duration_seconds",
				Help:      "Wall time spent processing one tick",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),

		platforms: make(map[int]map[string][]string),
	}
}

// Register registers all scheduler metrics with the Prometheus registry
func (c *SchedulerMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.dispatchesTotal,
		c.requestsTotal,
		c.transfersTotal,
		c.poolSize,
		c.queueDepth,
		c.platformWorkers,
		c.fairShare,
		c.manualWorkers,
		c.ticksTotal,
		c.tickDuration,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordDispatch counts a worker's task request
func (c *SchedulerMetricsCollector) RecordDispatch(graphIndex int, j job.Type, dispatched bool) {
	c.dispatchesTotal.WithLabelValues(graphLabel(graphIndex), j.String(), outcome(dispatched, "dispatched", "empty")).Inc()
}

// RecordRequest counts a platform action's work request
func (c *SchedulerMetricsCollector) RecordRequest(graphIndex int, j job.Type, accepted bool) {
	c.requestsTotal.WithLabelValues(graphLabel(graphIndex), j.String(), outcome(accepted, "queued", "refused")).Inc()
}

// RecordTransfer counts one rebalance transfer
func (c *SchedulerMetricsCollector) RecordTransfer(graphIndex int, category job.Type) {
	c.transfersTotal.WithLabelValues(graphLabel(graphIndex), category.String()).Inc()
}

// RecordTick observes one processed tick
func (c *SchedulerMetricsCollector) RecordTick(duration time.Duration) {
	c.ticksTotal.Inc()
	c.tickDuration.Observe(duration.Seconds())
}

// RecordStats refreshes the snapshot gauges of one graph
func (c *SchedulerMetricsCollector) RecordStats(stats distribution.Stats) {
	graph := graphLabel(stats.GraphIndex)

	for j, size := range stats.Pools {
		c.poolSize.WithLabelValues(graph, j.String()).Set(float64(size))
	}
	for j, depth := range stats.Queues {
		c.queueDepth.WithLabelValues(graph, j.String()).Set(float64(depth))
	}
	c.manualWorkers.WithLabelValues(graph).Set(float64(stats.Manual))
	c.fairShare.WithLabelValues(graph, job.Production.String()).Set(float64(stats.ProductionFairShare))
	c.fairShare.WithLabelValues(graph, job.Defense.String()).Set(float64(stats.DefenseFairShare))

	seen := make(map[string][]string)
	for category, loads := range map[job.Type][]distribution.PlatformLoad{
		job.Production: stats.Production,
		job.Defense:    stats.Defense,
	} {
		for _, load := range loads {
			labels := []string{graph, category.String(), strconv.Itoa(load.PlatformID)}
			c.platformWorkers.WithLabelValues(labels...).Set(float64(load.Workers))
			seen[labels[1]+"/"+labels[2]] = labels
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, labels := range c.platforms[stats.GraphIndex] {
		if _, ok := seen[key]; !ok {
			c.platformWorkers.DeleteLabelValues(labels...)
		}
	}
	c.platforms[stats.GraphIndex] = seen
}

func graphLabel(graphIndex int) string {
	return strconv.Itoa(graphIndex)
}

func outcome(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
