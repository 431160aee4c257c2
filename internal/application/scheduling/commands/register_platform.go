package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/colony-go/internal/application/logging"
	"github.com/andrescamacho/colony-go/internal/application/mediator"
	"github.com/andrescamacho/colony-go/internal/domain/colony"
)

// RegisterPlatformCommand adds a production or defense platform to its
// graph's fairness tally and pulls a fair share of workers onto it
type RegisterPlatformCommand struct {
	GraphIndex int
	NodeID     int
	IsDefense  bool
}

// RegisterPlatformResponse reports how many workers moved to the platform
type RegisterPlatformResponse struct {
	Transferred int
	FairShare   int
}

// RegisterPlatformHandler handles the RegisterPlatform command
type RegisterPlatformHandler struct {
	colony *colony.Colony
}

// NewRegisterPlatformHandler creates a new RegisterPlatformHandler
func NewRegisterPlatformHandler(c *colony.Colony) *RegisterPlatformHandler {
	return &RegisterPlatformHandler{colony: c}
}

// Handle executes the RegisterPlatform command
func (h *RegisterPlatformHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*RegisterPlatformCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RegisterPlatformCommand")
	}

	platform, m, err := lookupNode(h.colony, cmd.GraphIndex, cmd.NodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find platform: %w", err)
	}

	transferred, err := m.RegisterPlatform(platform, cmd.IsDefense)
	if err != nil {
		return nil, fmt.Errorf("failed to register platform %d: %w", cmd.NodeID, err)
	}

	logging.LoggerFromContext(ctx).Log("INFO", "Platform registered", map[string]interface{}{
		"graph":       cmd.GraphIndex,
		"platform":    cmd.NodeID,
		"defense":     cmd.IsDefense,
		"transferred": transferred,
	})

	return &RegisterPlatformResponse{
		Transferred: transferred,
		FairShare:   m.FairShare(cmd.IsDefense),
	}, nil
}
