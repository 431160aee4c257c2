package helpers

import (
	"gorm.io/gorm"

	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// TestRepositories holds all real repository instances for integration tests
type TestRepositories struct {
	DB      *gorm.DB
	RunRepo *persistence.GormSimulationRunRepository
	LogRepo *persistence.GormSimulationLogRepository
}

// NewTestRepositories creates all real repository instances using shared test DB
// clock is used for time-sensitive operations (usually a MockClock in tests)
func NewTestRepositories(clock shared.Clock) *TestRepositories {
	db := SharedTestDB

	return &TestRepositories{
		DB:      db,
		RunRepo: persistence.NewGormSimulationRunRepository(db),
		LogRepo: persistence.NewGormSimulationLogRepository(db, clock),
	}
}

// NewJournal creates an assignment journal for runID on the shared test DB
func (r *TestRepositories) NewJournal(runID string) *persistence.GormAssignmentJournal {
	return persistence.NewGormAssignmentJournal(r.DB, runID, 64)
}
