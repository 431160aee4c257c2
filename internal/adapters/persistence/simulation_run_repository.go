package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/colony-go/internal/domain/run"
)

// GormSimulationRunRepository implements run.Repository using GORM
type GormSimulationRunRepository struct {
	db *gorm.DB
}

// NewGormSimulationRunRepository creates a new GORM run repository
func NewGormSimulationRunRepository(db *gorm.DB) *GormSimulationRunRepository {
	return &GormSimulationRunRepository{db: db}
}

// Add persists a new run
func (r *GormSimulationRunRepository) Add(ctx context.Context, sim *run.Run) error {
	if err := r.db.WithContext(ctx).Create(runToModel(sim)).Error; err != nil {
		return fmt.Errorf("failed to add run: %w", err)
	}
	return nil
}

// Update saves tick progress and exit state
func (r *GormSimulationRunRepository) Update(ctx context.Context, sim *run.Run) error {
	result := r.db.WithContext(ctx).
		Model(&SimulationRunModel{}).
		Where("id = ?", sim.ID()).
		Updates(map[string]interface{}{
			"status":      string(sim.Status()),
			"ticks":       sim.Ticks(),
			"stopped_at":  sim.StoppedAt(),
			"exit_reason": sim.ExitReason(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("run not found: %s", sim.ID())
	}
	return nil
}

// FindByID retrieves a run by ID
func (r *GormSimulationRunRepository) FindByID(ctx context.Context, id string) (*run.Run, error) {
	var model SimulationRunModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("run not found: %s", id)
		}
		return nil, fmt.Errorf("failed to find run: %w", result.Error)
	}
	return modelToRun(&model), nil
}

// ListRecent returns the newest runs first
func (r *GormSimulationRunRepository) ListRecent(ctx context.Context, limit int) ([]*run.Run, error) {
	var models []SimulationRunModel
	query := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*run.Run, 0, len(models))
	for i := range models {
		runs = append(runs, modelToRun(&models[i]))
	}
	return runs, nil
}

func runToModel(sim *run.Run) *SimulationRunModel {
	return &SimulationRunModel{
		ID:         sim.ID(),
		Scenario:   sim.Scenario(),
		Seed:       sim.Seed(),
		Pathfinder: sim.Pathfinder(),
		Status:     string(sim.Status()),
		Ticks:      sim.Ticks(),
		StartedAt:  sim.StartedAt(),
		StoppedAt:  sim.StoppedAt(),
		ExitReason: sim.ExitReason(),
	}
}

func modelToRun(model *SimulationRunModel) *run.Run {
	return run.Restore(
		model.ID,
		model.Scenario,
		model.Seed,
		model.Pathfinder,
		run.Status(model.Status),
		model.Ticks,
		model.StartedAt,
		model.StoppedAt,
		model.ExitReason,
	)
}
