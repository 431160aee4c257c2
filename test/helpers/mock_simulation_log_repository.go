package helpers

import (
	"context"
	"sync"
	"time"

	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
)

// MockSimulationLogRepository is an in-memory implementation of SimulationLogRepository for testing
type MockSimulationLogRepository struct {
	mu     sync.Mutex
	Logs   map[string][]persistence.SimulationLogEntry // key: run_id
	LogErr error
}

// NewMockSimulationLogRepository creates a new mock run log repository
func NewMockSimulationLogRepository() *MockSimulationLogRepository {
	return &MockSimulationLogRepository{
		Logs: make(map[string][]persistence.SimulationLogEntry),
	}
}

// Log writes a log entry (in-memory only for testing)
func (m *MockSimulationLogRepository) Log(ctx context.Context, runID, message, level string, metadata map[string]interface{}) error {
	if m.LogErr != nil {
		return m.LogErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry := persistence.SimulationLogEntry{
		RunID:     runID,
		Message:   message,
		Level:     level,
		Metadata:  metadata,
		Timestamp: time.Now(),
	}

	m.Logs[runID] = append(m.Logs[runID], entry)
	return nil
}

// GetLogs retrieves logs for a run with optional filtering
func (m *MockSimulationLogRepository) GetLogs(ctx context.Context, runID string, limit, offset int, level *string, since *time.Time) ([]persistence.SimulationLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	logs, exists := m.Logs[runID]
	if !exists {
		return []persistence.SimulationLogEntry{}, nil
	}

	// Filter by level if specified
	filtered := make([]persistence.SimulationLogEntry, 0)
	for _, log := range logs {
		if level != nil && log.Level != *level {
			continue
		}
		if since != nil && log.Timestamp.Before(*since) {
			continue
		}
		filtered = append(filtered, log)
	}

	// Apply offset and limit
	if offset >= len(filtered) {
		return []persistence.SimulationLogEntry{}, nil
	}

	filtered = filtered[offset:]
	if limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}

	return filtered, nil
}

// Messages returns the logged messages of a run in write order
func (m *MockSimulationLogRepository) Messages(runID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.Logs[runID]))
	for _, log := range m.Logs[runID] {
		out = append(out, log.Message)
	}
	return out
}
