package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/colony-go/internal/application/mediator"
	"github.com/andrescamacho/colony-go/internal/domain/colony"
)

// DistributeJobsCommand moves a random subset of one job pool to another job
type DistributeJobsCommand struct {
	GraphIndex int
	FromJob    string
	ToJob      string
	Amount     int
}

// DistributeJobsResponse reports how many workers changed job
type DistributeJobsResponse struct {
	Changed int
}

// DistributeJobsHandler handles the DistributeJobs command
type DistributeJobsHandler struct {
	colony *colony.Colony
}

// NewDistributeJobsHandler creates a new DistributeJobsHandler
func NewDistributeJobsHandler(c *colony.Colony) *DistributeJobsHandler {
	return &DistributeJobsHandler{colony: c}
}

// Handle executes the DistributeJobs command
func (h *DistributeJobsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*DistributeJobsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DistributeJobsCommand")
	}

	from, err := parseJob(cmd.FromJob)
	if err != nil {
		return nil, err
	}
	to, err := parseJob(cmd.ToJob)
	if err != nil {
		return nil, err
	}

	m, err := h.colony.Director().Manager(cmd.GraphIndex)
	if err != nil {
		return nil, err
	}

	changed, err := m.DistributeJobs(from, to, cmd.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to distribute jobs: %w", err)
	}

	return &DistributeJobsResponse{Changed: changed}, nil
}
