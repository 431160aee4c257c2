package helpers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
	"github.com/andrescamacho/colony-go/internal/domain/run"
	"github.com/andrescamacho/colony-go/internal/infrastructure/database"
)

// NewTestDB opens a private, migrated in-memory database closed when t ends.
// Use it for tests that cannot share SharedTestDB.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	require.NoError(t, err, "failed to create test database")
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// SeedRun stores a running simulation so journal rows have a parent
func SeedRun(t *testing.T, db *gorm.DB, runID, scenario string) *run.Run {
	t.Helper()
	sim := run.NewRun(runID, scenario, 42, "astar", nil)
	require.NoError(t, persistence.NewGormSimulationRunRepository(db).Add(context.Background(), sim))
	return sim
}
