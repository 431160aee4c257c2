package routing

import (
	"fmt"
	"strings"
	"time"

	"github.com/andrescamacho/colony-go/internal/domain/graph"
)

// Strategy names a pathfinding algorithm
type Strategy string

const (
	StrategyAStar    Strategy = "astar"
	StrategyDijkstra Strategy = "dijkstra"
)

// Pathfinder computes routes between nodes of a graph.
//
// FindPath returns ok == false when no traversable route exists. err is only
// returned for precondition failures such as nodes that are not in the graph.
type Pathfinder interface {
	FindPath(g *graph.Graph, start, destination *graph.Node) (route *Route, ok bool, err error)
	Strategy() Strategy
}

// SearchRecorder observes completed searches
type SearchRecorder interface {
	RecordSearch(strategy Strategy, graphIndex int, found bool, expanded int, duration time.Duration)
}

// NewPathfinder creates the pathfinder for a configured strategy name.
// An empty name selects A*.
func NewPathfinder(name string, recorder SearchRecorder) (Pathfinder, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case "", StrategyAStar:
		return NewAStar(recorder), nil
	case StrategyDijkstra:
		return NewDijkstra(recorder), nil
	default:
		return nil, fmt.Errorf("unknown pathfinder strategy %q", name)
	}
}
