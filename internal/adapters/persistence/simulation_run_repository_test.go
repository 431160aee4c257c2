package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
	"github.com/andrescamacho/colony-go/internal/domain/run"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/test/helpers"
)

func TestSimulationRunRepository_AddAndFind(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSimulationRunRepository(db)
	sim := run.NewRun("run-1", "fairness", 42, "astar", nil)

	// Act
	err := repo.Add(context.Background(), sim)

	// Assert
	require.NoError(t, err)

	// Act
	found, err := repo.FindByID(context.Background(), "run-1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "fairness", found.Scenario())
	assert.Equal(t, int64(42), found.Seed())
	assert.Equal(t, "astar", found.Pathfinder())
	assert.Equal(t, run.StatusRunning, found.Status())
	assert.Nil(t, found.StoppedAt())
}

func TestSimulationRunRepository_UpdateRecordsExit(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSimulationRunRepository(db)
	sim := run.NewRun("run-2", "construction", 7, "dijkstra", nil)
	require.NoError(t, repo.Add(context.Background(), sim))

	require.NoError(t, sim.RecordTicks(25))
	require.NoError(t, sim.Fail(errors.New("tick 25: worker 3 lost")))

	// Act
	err := repo.Update(context.Background(), sim)

	// Assert
	require.NoError(t, err)
	found, err := repo.FindByID(context.Background(), "run-2")
	require.NoError(t, err)
	assert.Equal(t, run.StatusFailed, found.Status())
	assert.Equal(t, uint64(25), found.Ticks())
	assert.Equal(t, "tick 25: worker 3 lost", found.ExitReason())
	assert.NotNil(t, found.StoppedAt())
}

func TestSimulationRunRepository_NotFound(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSimulationRunRepository(db)

	// Act
	_, errFind := repo.FindByID(context.Background(), "missing")
	errUpdate := repo.Update(context.Background(), run.NewRun("missing", "x", 0, "astar", nil))

	// Assert
	assert.ErrorContains(t, errFind, "run not found")
	assert.ErrorContains(t, errUpdate, "run not found")
}

func TestSimulationRunRepository_ListRecentNewestFirst(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSimulationRunRepository(db)
	clock := shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Add(context.Background(), run.NewRun(id, "fairness", 1, "astar", clock)))
		clock.Advance(time.Minute)
	}

	// Act
	runs, err := repo.ListRecent(context.Background(), 2)

	// Assert
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID())
	assert.Equal(t, "b", runs[1].ID())
}
