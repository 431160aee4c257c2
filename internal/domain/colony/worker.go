package colony

import (
	"fmt"

	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/resource"
	"github.com/andrescamacho/colony-go/internal/domain/routing"
)

// Worker is a mobile unit. Each tick it either pulls work from its graph's
// manager, moves one waypoint along its route, or executes the bound action
// on arrival.
//
// Invariants:
// - A worker belongs to the manager of the graph holding its current node
// - A home task is re-run every time the previous task finishes
type Worker struct {
	id         int
	job        job.Type
	node       *graph.Node
	manager    *distribution.Manager
	pathfinder routing.Pathfinder

	home    distribution.Task
	hasHome bool
	current distribution.Task
	hasTask bool
	route   *routing.Route

	dead     bool
	moves    int
	executed int
	stalls   int
}

// NewWorker creates a worker on node and registers it as Idle
func NewWorker(id int, node *graph.Node, manager *distribution.Manager, pathfinder routing.Pathfinder) (*Worker, error) {
	if node == nil {
		return nil, fmt.Errorf("worker %d: node cannot be nil", id)
	}
	w := &Worker{
		id:         id,
		job:        job.Idle,
		node:       node,
		manager:    manager,
		pathfinder: pathfinder,
	}
	if err := manager.RegisterUnit(w); err != nil {
		return nil, fmt.Errorf("worker %d: %w", id, err)
	}
	return w, nil
}

func (w *Worker) ID() int                  { return w.id }
func (w *Worker) Job() job.Type            { return w.job }
func (w *Worker) CurrentNode() *graph.Node { return w.node }
func (w *Worker) IsDead() bool             { return w.dead }
func (w *Worker) Moves() int               { return w.moves }
func (w *Worker) Executed() int            { return w.executed }
func (w *Worker) Stalls() int              { return w.stalls }

// HomeTask returns the task the worker returns to between jobs
func (w *Worker) HomeTask() (distribution.Task, bool) {
	return w.home, w.hasHome
}

// CurrentTask returns the task being carried out
func (w *Worker) CurrentTask() (distribution.Task, bool) {
	return w.current, w.hasTask
}

// SetJob changes the job. A queued task of the old job is handed back.
func (w *Worker) SetJob(j job.Type) {
	if j == w.job {
		return
	}
	w.job = j
	if w.hasTask && !w.isHomeTask(w.current) && w.current.Job() != j {
		w.abandon()
	}
}

// ChangeHomeTask re-targets the worker without touching its job
func (w *Worker) ChangeHomeTask(task distribution.Task) {
	w.home = task
	w.hasHome = true
	if w.hasTask && w.current.ID() != task.ID() {
		w.abandon()
	}
}

func (w *Worker) ClearHomeTask() {
	if w.hasTask && w.isHomeTask(w.current) {
		w.hasTask = false
		w.route = nil
	}
	w.home = distribution.Task{}
	w.hasHome = false
}

// Die removes the worker from its manager. Dying twice is a no-op.
func (w *Worker) Die() {
	if w.dead {
		return
	}
	w.dead = true
	w.hasTask = false
	w.route = nil
	w.manager.KillUnit(w)
}

// Update advances the worker by one tick
func (w *Worker) Update() error {
	if w.dead {
		return nil
	}
	if w.node.IsRemoved() {
		w.Die()
		return nil
	}

	if !w.hasTask {
		if err := w.pickTask(); err != nil {
			return err
		}
		if !w.hasTask {
			return nil
		}
	}

	goal, reachable := w.manager.Graph().Approach(w.current.Target())
	if !reachable || w.current.Target().IsRemoved() {
		w.abandon()
		return nil
	}
	if w.node == goal {
		return w.arrive()
	}

	if w.route == nil || w.route.Destination() != goal {
		route, found, err := w.pathfinder.FindPath(w.manager.Graph(), w.node, goal)
		if err != nil {
			return fmt.Errorf("worker %d: %w", w.id, err)
		}
		if !found {
			w.stalls++
			w.abandon()
			return nil
		}
		w.route = route
	}

	next, ok := w.route.Next(w.node)
	if !ok || next.IsRemoved() {
		w.route = nil
		return nil
	}
	w.node = next
	w.moves++
	if w.node == goal {
		return w.arrive()
	}
	return nil
}

func (w *Worker) pickTask() error {
	if w.hasHome {
		w.current = w.home
		w.hasTask = true
		w.route = nil
		return nil
	}

	task, ok, err := w.manager.RequestNewTask(w, w.job, nil)
	if err != nil {
		return fmt.Errorf("worker %d: %w", w.id, err)
	}
	if !ok {
		return nil
	}
	// fairness-governed dispatch already made this the home task
	w.current = task
	w.hasTask = true
	w.route = nil
	return nil
}

func (w *Worker) arrive() error {
	task := w.current
	w.hasTask = false
	w.route = nil

	a := task.Action()
	if a == nil || task.Job() == job.Idle {
		return nil
	}
	w.executed++
	if err := a.Execute(w); err != nil {
		return fmt.Errorf("worker %d executing action %d: %w", w.id, a.ID(), err)
	}
	return nil
}

// abandon drops the current task. A resource delivery is queued again so
// the requesting action is not starved.
func (w *Worker) abandon() {
	task := w.current
	hadTask := w.hasTask
	w.hasTask = false
	w.route = nil
	if !hadTask || w.isHomeTask(task) || task.Resource() == resource.None {
		return
	}
	a := task.Action()
	if a == nil || !w.manager.IsEligible(a) || task.Target().IsRemoved() {
		return
	}
	// errors only arise for targets outside the graph, which IsRemoved covers
	_, _ = w.manager.RequestResource(task.Target(), task.Resource(), a, task.Job() == job.Construction)
}

func (w *Worker) isHomeTask(task distribution.Task) bool {
	return w.hasHome && task.ID() == w.home.ID()
}
