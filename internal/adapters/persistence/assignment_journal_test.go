package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/test/helpers"
)

func transferEvent(tick shared.Tick, unitID, platformID int) distribution.AssignmentEvent {
	return distribution.AssignmentEvent{
		GraphIndex: 0,
		Tick:       tick,
		Kind:       distribution.EventTransfer,
		UnitID:     unitID,
		PlatformID: platformID,
		ActionID:   distribution.NoID,
		FromJob:    job.Production,
		ToJob:      job.Production,
		OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newJournal(t *testing.T, runID string) *persistence.GormAssignmentJournal {
	t.Helper()
	db := helpers.NewTestDB(t)
	helpers.SeedRun(t, db, runID, "fairness")
	return persistence.NewGormAssignmentJournal(db, runID, 2)
}

func TestAssignmentJournal_BuffersUntilFlush(t *testing.T) {
	// Arrange
	journal := newJournal(t, "run-1")
	journal.Publish(transferEvent(10, 1, 5))
	journal.Publish(transferEvent(10, 2, 5))
	journal.Publish(transferEvent(11, 3, 5))

	// Act
	before, err := journal.List(context.Background(), "run-1", persistence.JournalFilter{})
	require.NoError(t, err)
	require.NoError(t, journal.Flush(context.Background()))
	after, err := journal.List(context.Background(), "run-1", persistence.JournalFilter{})
	require.NoError(t, err)

	// Assert
	assert.Empty(t, before)
	assert.Equal(t, 0, journal.Pending())
	require.Len(t, after, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{after[0].UnitID, after[1].UnitID, after[2].UnitID})
	assert.Equal(t, distribution.EventTransfer, after[0].Kind)
	assert.Equal(t, job.Production, after[0].FromJob)
	assert.Equal(t, distribution.NoID, after[0].ActionID)
}

func TestAssignmentJournal_ListFilters(t *testing.T) {
	// Arrange
	journal := newJournal(t, "run-1")
	journal.Publish(transferEvent(3, 1, 5))
	journal.Publish(transferEvent(9, 2, 6))
	journal.Publish(distribution.AssignmentEvent{
		Tick:       9,
		Kind:       distribution.EventJobChange,
		UnitID:     2,
		PlatformID: distribution.NoID,
		ActionID:   distribution.NoID,
		FromJob:    job.Idle,
		ToJob:      job.Logistics,
	})
	require.NoError(t, journal.Flush(context.Background()))
	kind := distribution.EventTransfer
	from := shared.Tick(5)
	unit := 2

	// Act
	transfers, err := journal.List(context.Background(), "run-1", persistence.JournalFilter{Kind: &kind})
	require.NoError(t, err)
	late, err := journal.List(context.Background(), "run-1", persistence.JournalFilter{FromTick: &from, UnitID: &unit})
	require.NoError(t, err)
	other, err := journal.List(context.Background(), "run-2", persistence.JournalFilter{})
	require.NoError(t, err)

	// Assert
	assert.Len(t, transfers, 2)
	require.Len(t, late, 2)
	assert.Equal(t, distribution.EventTransfer, late[0].Kind)
	assert.Equal(t, job.Logistics, late[1].ToJob)
	assert.Empty(t, other)
}

func TestAssignmentJournal_FlushEmptyIsNoop(t *testing.T) {
	journal := newJournal(t, "run-1")

	assert.NoError(t, journal.Flush(context.Background()))
}
