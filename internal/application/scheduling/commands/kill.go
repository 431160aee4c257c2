package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/colony-go/internal/application/logging"
	"github.com/andrescamacho/colony-go/internal/application/mediator"
	"github.com/andrescamacho/colony-go/internal/domain/colony"
)

// KillPlatformCommand destroys a platform with its actions and roads
type KillPlatformCommand struct {
	GraphIndex int
	NodeID     int
}

// KillResponse reports whether anything was still alive
type KillResponse struct {
	Killed bool
}

// KillPlatformHandler handles the KillPlatform command
type KillPlatformHandler struct {
	colony *colony.Colony
}

// NewKillPlatformHandler creates a new KillPlatformHandler
func NewKillPlatformHandler(c *colony.Colony) *KillPlatformHandler {
	return &KillPlatformHandler{colony: c}
}

// Handle executes the KillPlatform command. Killing a dead platform is a no-op.
func (h *KillPlatformHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*KillPlatformCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *KillPlatformCommand")
	}

	g, err := h.colony.Director().Graph(cmd.GraphIndex)
	if err != nil {
		return nil, err
	}
	platform, err := g.Node(cmd.NodeID)
	if err != nil {
		// already removed
		return &KillResponse{Killed: false}, nil
	}

	killed := h.colony.KillPlatform(platform)
	if killed {
		logging.LoggerFromContext(ctx).Log("INFO", "Platform destroyed", map[string]interface{}{
			"graph":    cmd.GraphIndex,
			"platform": cmd.NodeID,
		})
	}
	return &KillResponse{Killed: killed}, nil
}

// KillWorkerCommand kills one worker
type KillWorkerCommand struct {
	WorkerID int
}

// KillWorkerHandler handles the KillWorker command
type KillWorkerHandler struct {
	colony *colony.Colony
}

// NewKillWorkerHandler creates a new KillWorkerHandler
func NewKillWorkerHandler(c *colony.Colony) *KillWorkerHandler {
	return &KillWorkerHandler{colony: c}
}

// Handle executes the KillWorker command
func (h *KillWorkerHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*KillWorkerCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *KillWorkerCommand")
	}
	return &KillResponse{Killed: h.colony.KillWorker(cmd.WorkerID)}, nil
}
