package colony

import (
	"fmt"
	"time"

	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// ActionLifecycle manages the state transitions of a platform action:
//
//	DISABLED → AVAILABLE ⇄ ACTIVE ⇄ DEACTIVATED
//
// Any live state can fall back to DISABLED and dying is terminal.
//
// Invariants:
// - Transitions must follow valid paths
// - A dead lifecycle accepts no transition
// - Clock is injected for testability
type ActionLifecycle struct {
	state       distribution.ActionState
	dead        bool
	createdAt   time.Time
	updatedAt   time.Time
	activatedAt *time.Time
	activeFor   time.Duration
	diedAt      *time.Time
	clock       shared.Clock
}

// NewActionLifecycle creates a lifecycle in the given starting state
func NewActionLifecycle(initial distribution.ActionState, clock shared.Clock) *ActionLifecycle {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	now := clock.Now()
	return &ActionLifecycle{
		state:     initial,
		createdAt: now,
		updatedAt: now,
		clock:     clock,
	}
}

// Getters

func (l *ActionLifecycle) State() distribution.ActionState { return l.state }
func (l *ActionLifecycle) CreatedAt() time.Time            { return l.createdAt }
func (l *ActionLifecycle) UpdatedAt() time.Time            { return l.updatedAt }
func (l *ActionLifecycle) DiedAt() *time.Time              { return l.diedAt }
func (l *ActionLifecycle) IsDead() bool                    { return l.dead }

// IsActive returns true while the action receives dispatch
func (l *ActionLifecycle) IsActive() bool {
	return !l.dead && l.state == distribution.Active
}

// State transition methods

// Enable transitions from DISABLED to AVAILABLE
func (l *ActionLifecycle) Enable() error {
	if err := l.require("enable", distribution.Disabled); err != nil {
		return err
	}
	l.move(distribution.Available)
	return nil
}

// Activate transitions from AVAILABLE or DEACTIVATED to ACTIVE
func (l *ActionLifecycle) Activate() error {
	if err := l.require("activate", distribution.Available, distribution.Deactivated); err != nil {
		return err
	}
	l.move(distribution.Active)
	return nil
}

// Deactivate transitions from ACTIVE to DEACTIVATED
func (l *ActionLifecycle) Deactivate() error {
	if err := l.require("deactivate", distribution.Active); err != nil {
		return err
	}
	l.move(distribution.Deactivated)
	return nil
}

// Disable transitions any live state to DISABLED
func (l *ActionLifecycle) Disable() error {
	if l.dead {
		return fmt.Errorf("cannot disable a dead action")
	}
	l.move(distribution.Disabled)
	return nil
}

// Die marks the lifecycle terminal. Dying twice is a no-op.
func (l *ActionLifecycle) Die() bool {
	if l.dead {
		return false
	}
	l.move(distribution.Disabled)
	now := l.clock.Now()
	l.dead = true
	l.diedAt = &now
	return true
}

// ActiveDuration returns the accumulated time spent ACTIVE
func (l *ActionLifecycle) ActiveDuration() time.Duration {
	total := l.activeFor
	if l.activatedAt != nil {
		total += l.clock.Now().Sub(*l.activatedAt)
	}
	return total
}

func (l *ActionLifecycle) require(transition string, from ...distribution.ActionState) error {
	if l.dead {
		return fmt.Errorf("cannot %s a dead action", transition)
	}
	for _, s := range from {
		if l.state == s {
			return nil
		}
	}
	return fmt.Errorf("cannot %s from %s state", transition, l.state)
}

func (l *ActionLifecycle) move(to distribution.ActionState) {
	now := l.clock.Now()
	if l.activatedAt != nil && to != distribution.Active {
		l.activeFor += now.Sub(*l.activatedAt)
		l.activatedAt = nil
	}
	if to == distribution.Active && l.activatedAt == nil {
		l.activatedAt = &now
	}
	l.state = to
	l.updatedAt = now
}
