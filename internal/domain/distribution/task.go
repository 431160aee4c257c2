package distribution

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/resource"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// Task is an immutable unit of work handed to a worker.
// The zero Task carries no work.
type Task struct {
	id       string
	job      job.Type
	target   *graph.Node
	resource resource.Type
	action   Action
	issuedAt shared.Tick
}

// NewTask creates a task with a fresh id. resourceType may be resource.None
// and action may be nil.
func NewTask(j job.Type, target *graph.Node, resourceType resource.Type, action Action, issuedAt shared.Tick) Task {
	return Task{
		id:       uuid.New().String(),
		job:      j,
		target:   target,
		resource: resourceType,
		action:   action,
		issuedAt: issuedAt,
	}
}

func (t Task) ID() string              { return t.id }
func (t Task) Job() job.Type           { return t.job }
func (t Task) Target() *graph.Node     { return t.target }
func (t Task) Resource() resource.Type { return t.resource }
func (t Task) Action() Action          { return t.action }
func (t Task) IssuedAt() shared.Tick   { return t.issuedAt }
func (t Task) HasAction() bool         { return t.action != nil }
func (t Task) IsZero() bool            { return t.id == "" }

func (t Task) String() string {
	if t.IsZero() {
		return "Task(none)"
	}
	target := "<nil>"
	if t.target != nil {
		target = t.target.String()
	}
	return fmt.Sprintf("Task(%s %s → %s, resource=%s)", t.id[:8], t.job, target, t.resource)
}
