// Package queries holds read-only requests against a running colony.
package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/colony-go/internal/application/mediator"
	"github.com/andrescamacho/colony-go/internal/domain/director"
)

// FindPathQuery asks for the cheapest route between two nodes of a graph
type FindPathQuery struct {
	GraphIndex int
	FromNodeID int
	ToNodeID   int
}

// FindPathResponse carries the route, or Found == false when none exists
type FindPathResponse struct {
	Found    bool
	NodeIDs  []int
	Cost     float64
	Strategy string
	Duration time.Duration
}

// FindPathHandler handles the FindPath query
type FindPathHandler struct {
	director *director.Director
}

// NewFindPathHandler creates a new FindPathHandler
func NewFindPathHandler(d *director.Director) *FindPathHandler {
	return &FindPathHandler{director: d}
}

// Handle executes the FindPath query
func (h *FindPathHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*FindPathQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *FindPathQuery")
	}

	start := time.Now()
	route, found, err := h.director.FindPath(query.GraphIndex, query.FromNodeID, query.ToNodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find path: %w", err)
	}

	resp := &FindPathResponse{
		Found:    found,
		Strategy: string(h.director.Pathfinder().Strategy()),
		Duration: time.Since(start),
	}
	if found {
		resp.NodeIDs = route.IDs()
		resp.Cost = route.Cost()
	}
	return resp, nil
}
