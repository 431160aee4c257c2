// Package run tracks one execution of a scenario from start to exit.
package run

import (
	"fmt"
	"time"

	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// Status represents the lifecycle state of a simulation run
type Status string

const (
	// StatusRunning indicates the tick loop is executing
	StatusRunning Status = "RUNNING"

	// StatusCompleted indicates the requested number of ticks was reached
	StatusCompleted Status = "COMPLETED"

	// StatusStopped indicates the run was cancelled by the operator
	StatusStopped Status = "STOPPED"

	// StatusFailed indicates a tick returned an error
	StatusFailed Status = "FAILED"
)

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusStopped || s == StatusFailed
}

// Run represents one execution of a scenario.
//
// Invariants:
// - Ticks only grows while RUNNING
// - StoppedAt is set exactly when the status is terminal
type Run struct {
	id         string
	scenario   string
	seed       int64
	pathfinder string
	status     Status
	ticks      uint64
	startedAt  time.Time
	stoppedAt  *time.Time
	exitReason string

	clock shared.Clock
}

// NewRun creates a run in RUNNING state
// If clock is nil, uses RealClock (production behavior)
func NewRun(id, scenario string, seed int64, pathfinder string, clock shared.Clock) *Run {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Run{
		id:         id,
		scenario:   scenario,
		seed:       seed,
		pathfinder: pathfinder,
		status:     StatusRunning,
		startedAt:  clock.Now(),
		clock:      clock,
	}
}

// Restore rebuilds a run from persisted state
func Restore(id, scenario string, seed int64, pathfinder string, status Status, ticks uint64, startedAt time.Time, stoppedAt *time.Time, exitReason string) *Run {
	return &Run{
		id:         id,
		scenario:   scenario,
		seed:       seed,
		pathfinder: pathfinder,
		status:     status,
		ticks:      ticks,
		startedAt:  startedAt,
		stoppedAt:  stoppedAt,
		exitReason: exitReason,
		clock:      shared.NewRealClock(),
	}
}

func (r *Run) ID() string            { return r.id }
func (r *Run) Scenario() string      { return r.scenario }
func (r *Run) Seed() int64           { return r.seed }
func (r *Run) Pathfinder() string    { return r.pathfinder }
func (r *Run) Status() Status        { return r.status }
func (r *Run) Ticks() uint64         { return r.ticks }
func (r *Run) StartedAt() time.Time  { return r.startedAt }
func (r *Run) StoppedAt() *time.Time { return r.stoppedAt }
func (r *Run) ExitReason() string    { return r.exitReason }

// RecordTicks sets the number of ticks processed so far
func (r *Run) RecordTicks(ticks uint64) error {
	if r.status != StatusRunning {
		return fmt.Errorf("cannot record ticks for run in %s state", r.status)
	}
	if ticks < r.ticks {
		return fmt.Errorf("tick count cannot go backwards: %d < %d", ticks, r.ticks)
	}
	r.ticks = ticks
	return nil
}

// Complete marks the run as finished after its tick budget
func (r *Run) Complete() error {
	return r.finish(StatusCompleted, "")
}

// Stop marks the run as cancelled
func (r *Run) Stop(reason string) error {
	return r.finish(StatusStopped, reason)
}

// Fail marks the run as failed with the error that ended it
func (r *Run) Fail(err error) error {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	return r.finish(StatusFailed, reason)
}

// Duration returns the wall time spent, up to now for a running run
func (r *Run) Duration() time.Duration {
	if r.stoppedAt != nil {
		return r.stoppedAt.Sub(r.startedAt)
	}
	return r.clock.Now().Sub(r.startedAt)
}

func (r *Run) finish(status Status, reason string) error {
	if r.status.IsTerminal() {
		return fmt.Errorf("cannot move run from %s to %s", r.status, status)
	}
	now := r.clock.Now()
	r.status = status
	r.exitReason = reason
	r.stoppedAt = &now
	return nil
}
