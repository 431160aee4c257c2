package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/application/mediator"
	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/routing"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

func withRegistry(t *testing.T) {
	t.Helper()
	InitRegistry()
	t.Cleanup(func() {
		Registry = nil
		SetGlobalSchedulerCollector(nil)
		SetGlobalPathfinderCollector(nil)
	})
}

func TestSchedulerCollector_CountsDispatchProtocol(t *testing.T) {
	// Arrange
	withRegistry(t)
	collector := NewSchedulerMetricsCollector()
	require.NoError(t, collector.Register())

	// Act
	collector.RecordDispatch(0, job.Logistics, true)
	collector.RecordDispatch(0, job.Logistics, false)
	collector.RecordDispatch(0, job.Logistics, false)
	collector.RecordRequest(1, job.Production, false)
	collector.RecordTransfer(1, job.Production)
	collector.RecordTick(2 * time.Millisecond)

	// Assert
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.dispatchesTotal.WithLabelValues("0", "LOGISTICS", "dispatched")))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.dispatchesTotal.WithLabelValues("0", "LOGISTICS", "empty")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.requestsTotal.WithLabelValues("1", "PRODUCTION", "refused")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.transfersTotal.WithLabelValues("1", "PRODUCTION")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.ticksTotal))
}

func TestSchedulerCollector_DropsVanishedPlatforms(t *testing.T) {
	// Arrange
	withRegistry(t)
	collector := NewSchedulerMetricsCollector()
	require.NoError(t, collector.Register())
	stats := distribution.Stats{
		GraphIndex:          0,
		Pools:               map[job.Type]int{job.Production: 4},
		Queues:              map[job.Type]int{job.Logistics: 3},
		Production:          []distribution.PlatformLoad{{PlatformID: 2, Workers: 2}, {PlatformID: 3, Workers: 2}},
		ProductionFairShare: 2,
	}

	// Act
	collector.RecordStats(stats)
	stats.Production = stats.Production[:1]
	collector.RecordStats(stats)

	// Assert
	assert.Equal(t, 4.0, testutil.ToFloat64(collector.poolSize.WithLabelValues("0", "PRODUCTION")))
	assert.Equal(t, 3.0, testutil.ToFloat64(collector.queueDepth.WithLabelValues("0", "LOGISTICS")))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.fairShare.WithLabelValues("0", "PRODUCTION")))
	assert.Equal(t, 1, testutil.CollectAndCount(collector.platformWorkers), "platform 3 should be dropped")
}

func TestPathfinderCollector_RecordSearch(t *testing.T) {
	// Arrange
	withRegistry(t)
	collector := NewPathfinderMetricsCollector()
	require.NoError(t, collector.Register())

	// Act
	collector.RecordSearch(routing.StrategyAStar, 0, true, 5, time.Microsecond)
	collector.RecordSearch(routing.StrategyAStar, 0, false, 9, time.Microsecond)

	// Assert
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.searchesTotal.WithLabelValues("astar", "0", "found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.searchesTotal.WithLabelValues("astar", "0", "not_found")))
}

func TestGlobalRecorder_ForwardsOnlyWhenInstalled(t *testing.T) {
	// Arrange
	withRegistry(t)
	collector := NewSchedulerMetricsCollector()
	var recorder GlobalRecorder

	// Act
	recorder.RecordTransfer(0, job.Defense)
	SetGlobalSchedulerCollector(collector)
	recorder.RecordTransfer(0, job.Defense)

	// Assert
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.transfersTotal.WithLabelValues("0", "DEFENSE")))
}

func TestRegister_NoopWhenDisabled(t *testing.T) {
	Registry = nil

	assert.NoError(t, NewSchedulerMetricsCollector().Register())
	assert.NoError(t, NewPathfinderMetricsCollector().Register())
	assert.NoError(t, NewOperatorMetricsCollector().Register())
}

type distributeJobsCommand struct{}

type findPathQuery struct{}

func TestPrometheusMiddleware_RecordsOutcome(t *testing.T) {
	// Arrange
	withRegistry(t)
	collector := NewOperatorMetricsCollector()
	require.NoError(t, collector.Register())
	middleware := PrometheusMiddleware(collector)
	ok := mediator.HandlerFunc(func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return "done", nil
	})
	rejecting := mediator.HandlerFunc(func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, fmt.Errorf("distribute jobs: %w", shared.NewUnknownGraphError(9))
	})
	failing := mediator.HandlerFunc(func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, errors.New("boom")
	})

	// Act
	_, err1 := middleware(context.Background(), &distributeJobsCommand{}, ok)
	_, err2 := middleware(context.Background(), &distributeJobsCommand{}, rejecting)
	_, err3 := middleware(context.Background(), &findPathQuery{}, failing)

	// Assert
	require.NoError(t, err1)
	require.Error(t, err2)
	require.Error(t, err3)
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.requestsTotal.WithLabelValues("distribute_jobs", "command", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.requestsTotal.WithLabelValues("distribute_jobs", "command", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.requestsTotal.WithLabelValues("find_path", "query", "error")))
}

func TestDescribeRequest(t *testing.T) {
	tests := []struct {
		request mediator.Request
		name    string
		kind    string
	}{
		{&distributeJobsCommand{}, "distribute_jobs", "command"},
		{findPathQuery{}, "find_path", "query"},
		{"plain", "string", "request"},
		{nil, "unknown", "request"},
	}

	for _, tt := range tests {
		name, kind := describeRequest(tt.request)
		assert.Equal(t, tt.name, name)
		assert.Equal(t, tt.kind, kind)
	}
}

func TestServer_ServesRegistry(t *testing.T) {
	// Arrange
	withRegistry(t)
	collector := NewSchedulerMetricsCollector()
	require.NoError(t, collector.Register())
	collector.RecordTick(time.Millisecond)
	server, err := NewServer("127.0.0.1:0", "/metrics")
	require.NoError(t, err)
	server.Start()
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })

	// Act
	resp, err := http.Get("http://" + server.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "colony_scheduler_ticks_total 1"))
}

func TestNewServer_RequiresRegistry(t *testing.T) {
	Registry = nil

	_, err := NewServer("127.0.0.1:0", "/metrics")

	assert.Error(t, err)
}
