package routing

import (
	"time"

	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// heuristic estimates the remaining cost from a node to the destination
type heuristic func(from, destination *graph.Node) float64

// BestFirstSearch is A* over a graph with a pluggable heuristic. The
// Euclidean heuristic is scaled by the graph's cost ratio so it never
// overestimates, even on roads cheaper than their length. With the zero
// heuristic it is Dijkstra.
type BestFirstSearch struct {
	strategy  Strategy
	heuristic heuristic
	recorder  SearchRecorder
}

// NewAStar creates an A* pathfinder using Euclidean distance between node centers
func NewAStar(recorder SearchRecorder) *BestFirstSearch {
	return &BestFirstSearch{
		strategy: StrategyAStar,
		heuristic: func(from, destination *graph.Node) float64 {
			return from.Center().DistanceTo(destination.Center())
		},
		recorder: recorder,
	}
}

// NewDijkstra creates a uniform-cost pathfinder
func NewDijkstra(recorder SearchRecorder) *BestFirstSearch {
	return &BestFirstSearch{
		strategy:  StrategyDijkstra,
		heuristic: func(_, _ *graph.Node) float64 { return 0 },
		recorder:  recorder,
	}
}

// Strategy returns the configured algorithm name
func (p *BestFirstSearch) Strategy() Strategy {
	return p.strategy
}

// FindPath searches for the cheapest route from start to destination
func (p *BestFirstSearch) FindPath(g *graph.Graph, start, destination *graph.Node) (*Route, bool, error) {
	if g == nil {
		return nil, false, shared.NewInvalidArgumentError("graph cannot be nil")
	}
	if start == nil || destination == nil {
		return nil, false, shared.NewInvalidArgumentError("start and destination are required")
	}
	if !g.Contains(start) {
		return nil, false, shared.NewUnknownNodeError(start.ID(), g.Index())
	}
	if !g.Contains(destination) {
		return nil, false, shared.NewUnknownNodeError(destination.ID(), g.Index())
	}

	began := time.Now()
	route, expanded := p.search(start, destination, g.CostRatio())
	if p.recorder != nil {
		p.recorder.RecordSearch(p.strategy, g.Index(), route != nil, expanded, time.Since(began))
	}

	if route == nil {
		return nil, false, nil
	}
	return route, true, nil
}

func (p *BestFirstSearch) search(start, destination *graph.Node, scale float64) (*Route, int) {
	h := func(n *graph.Node) float64 { return scale * p.heuristic(n, destination) }

	open := newOpenSet()
	cameFrom := make(map[int]*graph.Node)
	gScore := map[int]float64{start.ID(): 0}

	open.upsert(start, 0, h(start))
	expanded := 0

	for open.Len() > 0 {
		current := open.popMin()
		node := current.node

		if node == destination {
			return reconstruct(cameFrom, node, current.g), expanded
		}

		expanded++

		for _, road := range node.OutwardsEdges() {
			if road.IsBlueprint() {
				continue
			}
			next := road.GetChild()
			tentative := current.g + road.GetCost()
			// Nodes re-enter the open set whenever a cheaper route to them
			// appears, so an inconsistent heuristic cannot leave a stale cost.
			if known, ok := gScore[next.ID()]; ok && tentative >= known {
				continue
			}

			gScore[next.ID()] = tentative
			cameFrom[next.ID()] = node
			open.upsert(next, tentative, h(next))
		}
	}

	return nil, expanded
}

func reconstruct(cameFrom map[int]*graph.Node, last *graph.Node, cost float64) *Route {
	nodes := []*graph.Node{last}
	for {
		prev, ok := cameFrom[last.ID()]
		if !ok {
			break
		}
		nodes = append(nodes, prev)
		last = prev
	}

	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return NewRoute(nodes, cost)
}
