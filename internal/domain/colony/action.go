package colony

import (
	"fmt"

	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/job"
)

// Action is a platform capability driven by the simulation
type Action interface {
	distribution.Action
	Kind() string
	// Tick runs once per simulation tick before workers move
	Tick() error
	Activate() error
	Deactivate() error
	Die()
	IsDead() bool
}

// platformAction carries what every action shares: identity, lifecycle,
// the assigned worker set and the link to the graph's manager.
type platformAction struct {
	self         Action
	id           int
	kind         string
	node         *graph.Node
	requirements []job.Type
	lifecycle    *ActionLifecycle
	manager      *distribution.Manager

	assigned map[int]job.Type
	order    []int

	// staffing, for actions that hold production or defense workers
	category job.Type
	desired  int
	pending  int
}

func newPlatformAction(id int, kind string, node *graph.Node, manager *distribution.Manager, lifecycle *ActionLifecycle, requirements ...job.Type) platformAction {
	return platformAction{
		id:           id,
		kind:         kind,
		node:         node,
		requirements: requirements,
		lifecycle:    lifecycle,
		manager:      manager,
		assigned:     make(map[int]job.Type),
	}
}

func (a *platformAction) ID() int                         { return a.id }
func (a *platformAction) Kind() string                    { return a.kind }
func (a *platformAction) Node() *graph.Node               { return a.node }
func (a *platformAction) State() distribution.ActionState { return a.lifecycle.State() }
func (a *platformAction) Lifecycle() *ActionLifecycle     { return a.lifecycle }
func (a *platformAction) IsDead() bool                    { return a.lifecycle.IsDead() }
func (a *platformAction) Requirements() []job.Type {
	out := make([]job.Type, len(a.requirements))
	copy(out, a.requirements)
	return out
}

// Assign records a worker under j
func (a *platformAction) Assign(u distribution.Unit, j job.Type) {
	if _, exists := a.assigned[u.ID()]; !exists {
		a.order = append(a.order, u.ID())
	}
	a.assigned[u.ID()] = j
	if j == a.category && a.pending > 0 {
		a.pending--
	}
}

// Kill forgets a worker that left or died
func (a *platformAction) Kill(u distribution.Unit) {
	if _, exists := a.assigned[u.ID()]; !exists {
		return
	}
	delete(a.assigned, u.ID())
	for i, id := range a.order {
		if id == u.ID() {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// Assigned returns the ids of assigned workers in assignment order
func (a *platformAction) Assigned() []int {
	out := make([]int, len(a.order))
	copy(out, a.order)
	return out
}

// Enable makes a disabled action available, e.g. once its platform is built
func (a *platformAction) Enable() error {
	return a.lifecycle.Enable()
}

// Activate switches the action on and registers it with the manager.
// Staffed actions also register their platform, which rebalances workers.
func (a *platformAction) Activate() error {
	if err := a.lifecycle.Activate(); err != nil {
		return fmt.Errorf("%s %d: %w", a.kind, a.id, err)
	}
	if err := a.manager.RegisterAction(a.self); err != nil {
		return err
	}
	if a.desired > 0 {
		if _, err := a.manager.RegisterPlatform(a.node, a.category == job.Defense); err != nil {
			return err
		}
	}
	return nil
}

// Deactivate switches the action off. Requests it queued are discarded.
func (a *platformAction) Deactivate() error {
	if err := a.lifecycle.Deactivate(); err != nil {
		return fmt.Errorf("%s %d: %w", a.kind, a.id, err)
	}
	a.manager.UnregisterAction(a.self)
	a.pending = 0
	return nil
}

// Pause keeps the action active but stops new work reaching it
func (a *platformAction) Pause() {
	a.manager.PausePlatformAction(a.self)
}

func (a *platformAction) Resume() {
	a.manager.ResumePlatformAction(a.self)
}

// Die unregisters the action and releases its manual workers to Idle.
// Calling it twice is a no-op.
func (a *platformAction) Die() {
	if !a.lifecycle.Die() {
		return
	}
	a.manager.UnregisterAction(a.self)

	manual := 0
	for _, j := range a.assigned {
		if j == job.Manual {
			manual++
		}
	}
	if manual > 0 {
		// cannot fail: job and action are both valid
		_, _ = a.manager.ManualUnassign(job.Idle, manual, a.self)
	}
	a.assigned = make(map[int]job.Type)
	a.order = nil
	a.pending = 0
}

// staff asks for at most one more worker per tick until desired is reached
func (a *platformAction) staff() error {
	if a.desired == 0 || !a.lifecycle.IsActive() {
		return nil
	}
	if len(a.assigned)+a.pending >= a.desired {
		return nil
	}
	queued, err := a.manager.RequestUnits(a.node, a.category, a.self, a.category == job.Defense)
	if err != nil {
		return err
	}
	if queued {
		a.pending++
	}
	return nil
}
