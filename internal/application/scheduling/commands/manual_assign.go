package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/colony-go/internal/application/mediator"
	"github.com/andrescamacho/colony-go/internal/domain/colony"
	"github.com/andrescamacho/colony-go/internal/domain/job"
)

// ManualAssignCommand pins workers of a job to an action. Rebalancing never
// moves pinned workers.
type ManualAssignCommand struct {
	ActionID int
	Job      string
	Amount   int
}

// ManualAssignResponse reports how many workers were pinned
type ManualAssignResponse struct {
	Assigned int
}

// ManualAssignHandler handles the ManualAssign command
type ManualAssignHandler struct {
	colony *colony.Colony
}

// NewManualAssignHandler creates a new ManualAssignHandler
func NewManualAssignHandler(c *colony.Colony) *ManualAssignHandler {
	return &ManualAssignHandler{colony: c}
}

// Handle executes the ManualAssign command
func (h *ManualAssignHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ManualAssignCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ManualAssignCommand")
	}

	j, err := parseJob(cmd.Job)
	if err != nil {
		return nil, err
	}
	a, m, err := lookupAction(h.colony, cmd.ActionID)
	if err != nil {
		return nil, err
	}

	assigned, err := m.ManualAssign(cmd.Amount, a, j)
	if err != nil {
		return nil, fmt.Errorf("failed to assign workers to action %d: %w", cmd.ActionID, err)
	}

	return &ManualAssignResponse{Assigned: assigned}, nil
}

// ManualUnassignCommand releases pinned workers of an action into a job
type ManualUnassignCommand struct {
	ActionID int
	// Job the released workers take up; defaults to Idle
	Job    string
	Amount int
}

// ManualUnassignResponse reports how many workers were released
type ManualUnassignResponse struct {
	Released int
}

// ManualUnassignHandler handles the ManualUnassign command
type ManualUnassignHandler struct {
	colony *colony.Colony
}

// NewManualUnassignHandler creates a new ManualUnassignHandler
func NewManualUnassignHandler(c *colony.Colony) *ManualUnassignHandler {
	return &ManualUnassignHandler{colony: c}
}

// Handle executes the ManualUnassign command
func (h *ManualUnassignHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ManualUnassignCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ManualUnassignCommand")
	}

	j := job.Idle
	if cmd.Job != "" {
		parsed, err := parseJob(cmd.Job)
		if err != nil {
			return nil, err
		}
		j = parsed
	}
	a, m, err := lookupAction(h.colony, cmd.ActionID)
	if err != nil {
		return nil, err
	}

	released, err := m.ManualUnassign(j, cmd.Amount, a)
	if err != nil {
		return nil, fmt.Errorf("failed to release workers from action %d: %w", cmd.ActionID, err)
	}

	return &ManualUnassignResponse{Released: released}, nil
}
