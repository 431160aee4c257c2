package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/colony-go/internal/application/mediator"
	"github.com/andrescamacho/colony-go/internal/domain/colony"
)

// Action state transitions an operator can request
const (
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
	ActionPause      = "pause"
	ActionResume     = "resume"
)

// SetActionStateCommand switches an action on or off, or pauses its task
// generation while leaving it registered
type SetActionStateCommand struct {
	ActionID   int
	Transition string
}

// SetActionStateResponse reports the state after the transition
type SetActionStateResponse struct {
	State    string
	Eligible bool
}

type pausable interface {
	Pause()
	Resume()
}

// SetActionStateHandler handles the SetActionState command
type SetActionStateHandler struct {
	colony *colony.Colony
}

// NewSetActionStateHandler creates a new SetActionStateHandler
func NewSetActionStateHandler(c *colony.Colony) *SetActionStateHandler {
	return &SetActionStateHandler{colony: c}
}

// Handle executes the SetActionState command
func (h *SetActionStateHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*SetActionStateCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SetActionStateCommand")
	}

	a, m, err := lookupAction(h.colony, cmd.ActionID)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(cmd.Transition) {
	case ActionActivate:
		err = a.Activate()
	case ActionDeactivate:
		err = a.Deactivate()
	case ActionPause, ActionResume:
		p, ok := a.(pausable)
		if !ok {
			return nil, fmt.Errorf("action %d cannot be paused", cmd.ActionID)
		}
		if strings.ToLower(cmd.Transition) == ActionPause {
			p.Pause()
		} else {
			p.Resume()
		}
	default:
		return nil, fmt.Errorf("unknown action transition %q", cmd.Transition)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s action %d: %w", cmd.Transition, cmd.ActionID, err)
	}

	return &SetActionStateResponse{
		State:    a.State().String(),
		Eligible: m.IsEligible(a),
	}, nil
}
