package persistence

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// JournalFilter narrows a journal listing. Nil fields match everything.
type JournalFilter struct {
	GraphIndex *int
	Kind       *distribution.EventKind
	UnitID     *int
	PlatformID *int
	FromTick   *shared.Tick
	ToTick     *shared.Tick
	Limit      int
	Offset     int
}

// GormAssignmentJournal buffers assignment events in memory and writes them
// in batches when flushed
type GormAssignmentJournal struct {
	db        *gorm.DB
	runID     string
	batchSize int

	mu      sync.Mutex
	pending []AssignmentEventModel
}

// NewGormAssignmentJournal creates a journal writing events for one run
func NewGormAssignmentJournal(db *gorm.DB, runID string, batchSize int) *GormAssignmentJournal {
	if batchSize < 1 {
		batchSize = 1
	}
	return &GormAssignmentJournal{
		db:        db,
		runID:     runID,
		batchSize: batchSize,
	}
}

// Publish buffers an event until the next Flush
func (j *GormAssignmentJournal) Publish(event distribution.AssignmentEvent) {
	model := AssignmentEventModel{
		RunID:      j.runID,
		GraphIndex: event.GraphIndex,
		Tick:       uint64(event.Tick),
		Kind:       string(event.Kind),
		UnitID:     event.UnitID,
		PlatformID: event.PlatformID,
		ActionID:   event.ActionID,
		FromJob:    event.FromJob.String(),
		ToJob:      event.ToJob.String(),
		TaskID:     event.TaskID,
		OccurredAt: event.OccurredAt,
	}

	j.mu.Lock()
	j.pending = append(j.pending, model)
	j.mu.Unlock()
}

// Pending returns how many events wait for the next Flush
func (j *GormAssignmentJournal) Pending() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.pending)
}

// Flush writes every buffered event in one transaction. On failure the
// events stay buffered for the next attempt.
func (j *GormAssignmentJournal) Flush(ctx context.Context) error {
	j.mu.Lock()
	batch := j.pending
	j.pending = nil
	j.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	if err := j.db.WithContext(ctx).CreateInBatches(batch, j.batchSize).Error; err != nil {
		j.mu.Lock()
		j.pending = append(batch, j.pending...)
		j.mu.Unlock()
		return fmt.Errorf("failed to flush %d assignment events: %w", len(batch), err)
	}
	return nil
}

// List reads back journaled events of a run in the order they happened
func (j *GormAssignmentJournal) List(ctx context.Context, runID string, filter JournalFilter) ([]distribution.AssignmentEvent, error) {
	var models []AssignmentEventModel

	query := j.db.WithContext(ctx).Where("run_id = ?", runID)

	if filter.GraphIndex != nil {
		query = query.Where("graph_index = ?", *filter.GraphIndex)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", string(*filter.Kind))
	}
	if filter.UnitID != nil {
		query = query.Where("unit_id = ?", *filter.UnitID)
	}
	if filter.PlatformID != nil {
		query = query.Where("platform_id = ?", *filter.PlatformID)
	}
	if filter.FromTick != nil {
		query = query.Where("tick >= ?", uint64(*filter.FromTick))
	}
	if filter.ToTick != nil {
		query = query.Where("tick <= ?", uint64(*filter.ToTick))
	}

	query = query.Order("tick ASC").Order("id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignment events: %w", err)
	}

	events := make([]distribution.AssignmentEvent, len(models))
	for i, model := range models {
		events[i] = distribution.AssignmentEvent{
			GraphIndex: model.GraphIndex,
			Tick:       shared.Tick(model.Tick),
			Kind:       distribution.EventKind(model.Kind),
			UnitID:     model.UnitID,
			PlatformID: model.PlatformID,
			ActionID:   model.ActionID,
			FromJob:    parseJobOrIdle(model.FromJob),
			ToJob:      parseJobOrIdle(model.ToJob),
			TaskID:     model.TaskID,
			OccurredAt: model.OccurredAt,
		}
	}
	return events, nil
}

func parseJobOrIdle(name string) job.Type {
	t, err := job.Parse(name)
	if err != nil {
		return job.Idle
	}
	return t
}
