package distribution_test

import (
	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/job"
)

type fakeUnit struct {
	id      int
	job     job.Type
	node    *graph.Node
	home    distribution.Task
	hasHome bool
	rehomes int
}

func newFakeUnit(id int, node *graph.Node) *fakeUnit {
	return &fakeUnit{id: id, node: node}
}

func (u *fakeUnit) ID() int                  { return u.id }
func (u *fakeUnit) Job() job.Type            { return u.job }
func (u *fakeUnit) SetJob(j job.Type)        { u.job = j }
func (u *fakeUnit) CurrentNode() *graph.Node { return u.node }

func (u *fakeUnit) ChangeHomeTask(task distribution.Task) {
	u.home = task
	u.hasHome = true
	u.rehomes++
}

func (u *fakeUnit) ClearHomeTask() {
	u.home = distribution.Task{}
	u.hasHome = false
}

type fakeAction struct {
	id           int
	node         *graph.Node
	state        distribution.ActionState
	requirements []job.Type
	assigned     map[int]job.Type
	kills        []int
	executed     int
}

func newFakeAction(id int, node *graph.Node, requirements ...job.Type) *fakeAction {
	return &fakeAction{
		id:           id,
		node:         node,
		requirements: requirements,
		assigned:     make(map[int]job.Type),
	}
}

func (a *fakeAction) ID() int                                { return a.id }
func (a *fakeAction) Node() *graph.Node                      { return a.node }
func (a *fakeAction) State() distribution.ActionState        { return a.state }
func (a *fakeAction) Requirements() []job.Type               { return a.requirements }
func (a *fakeAction) Assign(u distribution.Unit, j job.Type) { a.assigned[u.ID()] = j }

func (a *fakeAction) Kill(u distribution.Unit) {
	delete(a.assigned, u.ID())
	a.kills = append(a.kills, u.ID())
}

func (a *fakeAction) Execute(distribution.Unit) error {
	a.executed++
	return nil
}

type eventLog struct {
	events []distribution.AssignmentEvent
}

func (l *eventLog) Publish(e distribution.AssignmentEvent) {
	l.events = append(l.events, e)
}

func (l *eventLog) count(kind distribution.EventKind) int {
	n := 0
	for _, e := range l.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
