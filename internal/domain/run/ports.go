package run

import "context"

// Repository defines persistence operations for simulation runs
type Repository interface {
	// Add stores a new run
	Add(ctx context.Context, r *Run) error

	// Update saves progress and exit state of an existing run
	Update(ctx context.Context, r *Run) error

	// FindByID retrieves a run by ID
	FindByID(ctx context.Context, id string) (*Run, error)

	// ListRecent returns the newest runs first
	ListRecent(ctx context.Context, limit int) ([]*Run, error)
}
