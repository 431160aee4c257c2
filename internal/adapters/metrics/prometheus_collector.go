package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/routing"
)

const (
	// Namespace for all metrics
	namespace = "colony"
	// Subsystem for scheduler metrics
	subsystem = "scheduler"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalSchedulerCollector is the singleton scheduler metrics collector
	// Set by SetGlobalSchedulerCollector() when metrics are enabled
	globalSchedulerCollector SchedulerMetricsRecorder

	// globalPathfinderCollector is the singleton pathfinding metrics collector
	// Set by SetGlobalPathfinderCollector() when metrics are enabled
	globalPathfinderCollector routing.SearchRecorder
)

// SchedulerMetricsRecorder is everything the tick loop and the managers report
type SchedulerMetricsRecorder interface {
	distribution.Recorder
	RecordTick(duration time.Duration)
	RecordStats(stats distribution.Stats)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalSchedulerCollector sets the global scheduler metrics collector
func SetGlobalSchedulerCollector(collector SchedulerMetricsRecorder) {
	globalSchedulerCollector = collector
}

// SetGlobalPathfinderCollector sets the global pathfinding metrics collector
func SetGlobalPathfinderCollector(collector routing.SearchRecorder) {
	globalPathfinderCollector = collector
}

// GlobalRecorder forwards manager and tick measurements to whichever
// scheduler collector is installed, dropping them when metrics are off
type GlobalRecorder struct{}

func (GlobalRecorder) RecordDispatch(graphIndex int, j job.Type, dispatched bool) {
	if globalSchedulerCollector != nil {
		globalSchedulerCollector.RecordDispatch(graphIndex, j, dispatched)
	}
}

func (GlobalRecorder) RecordRequest(graphIndex int, j job.Type, accepted bool) {
	if globalSchedulerCollector != nil {
		globalSchedulerCollector.RecordRequest(graphIndex, j, accepted)
	}
}

func (GlobalRecorder) RecordTransfer(graphIndex int, category job.Type) {
	if globalSchedulerCollector != nil {
		globalSchedulerCollector.RecordTransfer(graphIndex, category)
	}
}

func (GlobalRecorder) RecordTick(duration time.Duration) {
	if globalSchedulerCollector != nil {
		globalSchedulerCollector.RecordTick(duration)
	}
}

func (GlobalRecorder) RecordStats(stats distribution.Stats) {
	if globalSchedulerCollector != nil {
		globalSchedulerCollector.RecordStats(stats)
	}
}

// RecordSearch records a path search globally
func (GlobalRecorder) RecordSearch(strategy routing.Strategy, graphIndex int, found bool, expanded int, duration time.Duration) {
	if globalPathfinderCollector != nil {
		globalPathfinderCollector.RecordSearch(strategy, graphIndex, found, expanded, duration)
	}
}
