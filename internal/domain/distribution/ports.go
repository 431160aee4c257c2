package distribution

import (
	"time"

	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// ActionState is the scheduling state of a platform action
type ActionState int

const (
	// Active actions receive task dispatch
	Active ActionState = iota
	// Available actions can be switched on but receive nothing yet
	Available
	// Deactivated actions were switched off by the player
	Deactivated
	// Disabled actions cannot run, e.g. while their platform is a blueprint
	Disabled
)

func (s ActionState) String() string {
	switch s {
	case Active:
		return "ACTIVE"
	case Available:
		return "AVAILABLE"
	case Deactivated:
		return "DEACTIVATED"
	case Disabled:
		return "DISABLED"
	default:
		return "UNKNOWN"
	}
}

// Unit is a worker that can be told where to go and what to do
type Unit interface {
	ID() int
	Job() job.Type
	SetJob(j job.Type)
	CurrentNode() *graph.Node
	// ChangeHomeTask re-targets the unit without touching its job
	ChangeHomeTask(task Task)
	ClearHomeTask()
}

// Action is the scheduling-visible face of a platform capability
type Action interface {
	ID() int
	Node() *graph.Node
	State() ActionState
	Requirements() []job.Type
	// Assign adds the unit to the action's assigned set under the given job
	Assign(unit Unit, j job.Type)
	// Kill notifies the action that an assigned unit is gone
	Kill(unit Unit)
	Execute(unit Unit) error
}

// Logger matches the application logger so a container logger can be passed straight in
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Recorder receives scheduler measurements
type Recorder interface {
	RecordDispatch(graphIndex int, j job.Type, dispatched bool)
	RecordRequest(graphIndex int, j job.Type, accepted bool)
	RecordTransfer(graphIndex int, category job.Type)
}

// EventSink receives every assignment change the manager makes
type EventSink interface {
	Publish(event AssignmentEvent)
}

// EventKind classifies assignment events
type EventKind string

const (
	EventDispatch       EventKind = "dispatch"
	EventTransfer       EventKind = "transfer"
	EventManualAssign   EventKind = "manual_assign"
	EventManualUnassign EventKind = "manual_unassign"
	EventJobChange      EventKind = "job_change"
	EventUnitDeath      EventKind = "unit_death"
	EventPlatformDeath  EventKind = "platform_death"
)

// AssignmentEvent describes one change to a worker's assignment.
// PlatformID, ActionID and UnitID are NoID when not applicable.
type AssignmentEvent struct {
	GraphIndex int
	Tick       shared.Tick
	Kind       EventKind
	UnitID     int
	PlatformID int
	ActionID   int
	FromJob    job.Type
	ToJob      job.Type
	TaskID     string
	OccurredAt time.Time
}

// NoID marks an absent entity in an AssignmentEvent
const NoID = -1

type noOpLogger struct{}

func (noOpLogger) Log(level, message string, metadata map[string]interface{}) {}

type noOpRecorder struct{}

func (noOpRecorder) RecordDispatch(int, job.Type, bool) {}
func (noOpRecorder) RecordRequest(int, job.Type, bool)  {}
func (noOpRecorder) RecordTransfer(int, job.Type)       {}

type noOpSink struct{}

func (noOpSink) Publish(AssignmentEvent) {}
