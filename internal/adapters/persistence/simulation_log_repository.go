package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// SimulationLogRepository manages run log persistence
type SimulationLogRepository interface {
	// Log writes a log entry to the database with deduplication
	Log(ctx context.Context, runID, message, level string, metadata map[string]interface{}) error

	// GetLogs retrieves logs for a run with optional filtering and pagination
	GetLogs(ctx context.Context, runID string, limit, offset int, level *string, since *time.Time) ([]SimulationLogEntry, error)
}

// SimulationLogEntry represents a log entry
type SimulationLogEntry struct {
	ID        int
	RunID     string
	Timestamp time.Time
	Level     string
	Message   string
	Metadata  map[string]interface{}
}

// GormSimulationLogRepository is a GORM-based implementation
type GormSimulationLogRepository struct {
	db    *gorm.DB
	clock shared.Clock

	// key: runID+message, value: last logged time
	dedupCache   map[string]time.Time
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

// NewGormSimulationLogRepository creates a new run log repository
// If clock is nil, uses RealClock (production behavior)
func NewGormSimulationLogRepository(db *gorm.DB, clock shared.Clock) *GormSimulationLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormSimulationLogRepository{
		db:           db,
		clock:        clock,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  10 * time.Second,
		dedupMaxSize: 10000,
	}
}

// Log writes a log entry unless the same message was written for the run
// within the deduplication window
func (r *GormSimulationLogRepository) Log(ctx context.Context, runID, message, level string, metadata map[string]interface{}) error {
	now := r.clock.Now()
	cacheKey := runID + "|" + message

	r.dedupMu.Lock()
	if lastLogged, exists := r.dedupCache[cacheKey]; exists && now.Sub(lastLogged) < r.dedupWindow {
		r.dedupMu.Unlock()
		return nil
	}
	if len(r.dedupCache) >= r.dedupMaxSize {
		r.cleanupDedupCache(now)
	}
	r.dedupCache[cacheKey] = now
	r.dedupMu.Unlock()

	// metadata is optional, a marshal failure drops it
	var metadataJSON string
	if len(metadata) > 0 {
		if jsonBytes, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	entry := &SimulationLogModel{
		RunID:     runID,
		Timestamp: now,
		Level:     level,
		Message:   message,
		Metadata:  metadataJSON,
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write run log: %w", err)
	}
	return nil
}

// cleanupDedupCache removes entries older than the window
// Must be called while holding dedupMu lock
func (r *GormSimulationLogRepository) cleanupDedupCache(now time.Time) {
	cutoff := now.Add(-r.dedupWindow)
	for key, timestamp := range r.dedupCache {
		if timestamp.Before(cutoff) {
			delete(r.dedupCache, key)
		}
	}
}

// GetLogs retrieves logs for a run, newest first
func (r *GormSimulationLogRepository) GetLogs(ctx context.Context, runID string, limit, offset int, level *string, since *time.Time) ([]SimulationLogEntry, error) {
	var models []SimulationLogModel

	query := r.db.WithContext(ctx).Where("run_id = ?", runID)

	if level != nil {
		query = query.Where("level = ?", *level)
	}

	if since != nil {
		query = query.Where("timestamp > ?", *since)
	}

	query = query.Order("timestamp DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to read run logs: %w", err)
	}

	entries := make([]SimulationLogEntry, len(models))
	for i, model := range models {
		var metadata map[string]interface{}
		if model.Metadata != "" {
			if err := json.Unmarshal([]byte(model.Metadata), &metadata); err != nil {
				metadata = nil
			}
		}

		entries[i] = SimulationLogEntry{
			ID:        model.ID,
			RunID:     model.RunID,
			Timestamp: model.Timestamp,
			Level:     model.Level,
			Message:   model.Message,
			Metadata:  metadata,
		}
	}

	return entries, nil
}

// RunLogger adapts the repository to the application logger so every entry
// logged during a run is also stored with it
type RunLogger struct {
	repo  SimulationLogRepository
	runID string
	// OnError receives write failures; nil discards them
	OnError func(err error)
}

// NewRunLogger creates a logger persisting entries for runID
func NewRunLogger(repo SimulationLogRepository, runID string) *RunLogger {
	return &RunLogger{repo: repo, runID: runID}
}

func (l *RunLogger) Log(level, message string, metadata map[string]interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := l.repo.Log(ctx, l.runID, message, level, metadata); err != nil && l.OnError != nil {
		l.OnError(err)
	}
}
