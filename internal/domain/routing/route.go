package routing

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/colony-go/internal/domain/graph"
)

// Route is an ordered sequence of nodes from start to destination
//
// Invariants:
// - Nodes are connected by traversable roads in order
// - The first node is the start, the last node is the destination
type Route struct {
	nodes []*graph.Node
	cost  float64
}

// NewRoute creates a route from an ordered node sequence and its total cost
func NewRoute(nodes []*graph.Node, cost float64) *Route {
	return &Route{nodes: nodes, cost: cost}
}

// Nodes returns the waypoints, start first
func (r *Route) Nodes() []*graph.Node {
	out := make([]*graph.Node, len(r.nodes))
	copy(out, r.nodes)
	return out
}

// Cost returns the accumulated road cost
func (r *Route) Cost() float64 { return r.cost }

// Len returns the number of waypoints
func (r *Route) Len() int { return len(r.nodes) }

// Start returns the first waypoint
func (r *Route) Start() *graph.Node { return r.nodes[0] }

// Destination returns the last waypoint
func (r *Route) Destination() *graph.Node { return r.nodes[len(r.nodes)-1] }

// Next returns the waypoint following current, or false at the destination or
// when current is not on the route.
func (r *Route) Next(current *graph.Node) (*graph.Node, bool) {
	for i, n := range r.nodes {
		if n == current && i+1 < len(r.nodes) {
			return r.nodes[i+1], true
		}
	}
	return nil, false
}

// IDs returns the node ids along the route
func (r *Route) IDs() []int {
	ids := make([]int, len(r.nodes))
	for i, n := range r.nodes {
		ids[i] = n.ID()
	}
	return ids
}

func (r *Route) String() string {
	parts := make([]string, len(r.nodes))
	for i, n := range r.nodes {
		parts[i] = fmt.Sprintf("%d", n.ID())
	}
	return fmt.Sprintf("%s (cost %.1f)", strings.Join(parts, " → "), r.cost)
}
