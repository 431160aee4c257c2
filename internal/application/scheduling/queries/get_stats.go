package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/colony-go/internal/application/mediator"
	"github.com/andrescamacho/colony-go/internal/domain/director"
	"github.com/andrescamacho/colony-go/internal/domain/distribution"
)

// GetStatsQuery asks for the bookkeeping snapshot of one graph, or of all
// graphs when GraphIndex is nil
type GetStatsQuery struct {
	GraphIndex *int
}

// GetStatsResponse lists snapshots ordered by graph index
type GetStatsResponse struct {
	Graphs []distribution.Stats
}

// GetStatsHandler handles the GetStats query
type GetStatsHandler struct {
	director *director.Director
}

// NewGetStatsHandler creates a new GetStatsHandler
func NewGetStatsHandler(d *director.Director) *GetStatsHandler {
	return &GetStatsHandler{director: d}
}

// Handle executes the GetStats query
func (h *GetStatsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetStatsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetStatsQuery")
	}

	indices := h.director.Indices()
	if query.GraphIndex != nil {
		indices = []int{*query.GraphIndex}
	}

	resp := &GetStatsResponse{Graphs: make([]distribution.Stats, 0, len(indices))}
	for _, index := range indices {
		m, err := h.director.Manager(index)
		if err != nil {
			return nil, err
		}
		resp.Graphs = append(resp.Graphs, m.Stats())
	}
	return resp, nil
}
