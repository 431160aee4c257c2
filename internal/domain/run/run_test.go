package run_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/domain/run"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

func TestRun_CompletesAfterTicks(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	r := run.NewRun("run-1", "fairness", 42, "astar", clock)

	// Act
	require.NoError(t, r.RecordTicks(10))
	clock.Advance(3 * time.Second)
	require.NoError(t, r.Complete())

	// Assert
	assert.Equal(t, run.StatusCompleted, r.Status())
	assert.Equal(t, uint64(10), r.Ticks())
	require.NotNil(t, r.StoppedAt())
	assert.Equal(t, 3*time.Second, r.Duration())
}

func TestRun_RejectsTransitionsAfterExit(t *testing.T) {
	// Arrange
	r := run.NewRun("run-1", "fairness", 42, "astar", nil)
	require.NoError(t, r.Fail(errors.New("tick 3: boom")))

	// Act
	errStop := r.Stop("interrupt")
	errTicks := r.RecordTicks(4)

	// Assert
	assert.Error(t, errStop)
	assert.Error(t, errTicks)
	assert.Equal(t, run.StatusFailed, r.Status())
	assert.Equal(t, "tick 3: boom", r.ExitReason())
}

func TestRun_TicksNeverGoBackwards(t *testing.T) {
	r := run.NewRun("run-1", "fairness", 1, "dijkstra", nil)
	require.NoError(t, r.RecordTicks(5))

	err := r.RecordTicks(4)

	assert.Error(t, err)
	assert.Equal(t, uint64(5), r.Ticks())
}
