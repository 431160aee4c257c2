package graph

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// Graph is one connected settlement of platforms and roads. Mutations are
// visible to the next traversal; there is no snapshot isolation.
type Graph struct {
	index int
	nodes map[int]*Node
	roads int

	// lowest cost per unit of distance of any road ever added, capped at 1
	costRatio float64
}

// NewGraph creates an empty graph with the given index
func NewGraph(index int) *Graph {
	return &Graph{
		index:     index,
		nodes:     make(map[int]*Node),
		costRatio: 1,
	}
}

// Index returns the graph index used to look up its distribution manager
func (g *Graph) Index() int {
	return g.index
}

// AddNode places a platform with a caller-chosen unique id
func (g *Graph) AddNode(id int, center shared.Vector, blueprint bool) (*Node, error) {
	if _, exists := g.nodes[id]; exists {
		return nil, shared.NewValidationError("id", fmt.Sprintf("node %d already exists in graph %d", id, g.index))
	}

	n := &Node{
		id:         id,
		graphIndex: g.index,
		center:     center,
		blueprint:  blueprint,
	}
	g.nodes[id] = n
	return n, nil
}

// RemoveNode removes a platform and every road touching it. Removing an
// unknown node is a no-op.
func (g *Graph) RemoveNode(id int) {
	n, exists := g.nodes[id]
	if !exists {
		return
	}

	for _, r := range n.outwards {
		r.child.detachInward(r)
		g.roads--
	}
	for _, r := range n.inwards {
		r.parent.detachOutward(r)
		g.roads--
	}
	n.outwards = nil
	n.inwards = nil
	n.removed = true
	delete(g.nodes, id)
}

// Node returns the node with the given id
func (g *Graph) Node(id int) (*Node, error) {
	n, exists := g.nodes[id]
	if !exists {
		return nil, shared.NewUnknownNodeError(id, g.index)
	}
	return n, nil
}

// Contains reports whether n is currently part of this graph
func (g *Graph) Contains(n *Node) bool {
	if n == nil {
		return false
	}
	existing, exists := g.nodes[n.id]
	return exists && existing == n
}

// AddRoad connects parent to child with a directed road
func (g *Graph) AddRoad(parentID, childID int, cost float64, blueprint bool) (*Road, error) {
	if cost < 0 {
		return nil, shared.NewValidationError("cost", "cannot be negative")
	}
	if parentID == childID {
		return nil, shared.NewValidationError("child", "road cannot loop back to its parent")
	}
	parent, err := g.Node(parentID)
	if err != nil {
		return nil, err
	}
	child, err := g.Node(childID)
	if err != nil {
		return nil, err
	}

	if distance := parent.center.DistanceTo(child.center); distance > 0 && cost/distance < g.costRatio {
		g.costRatio = cost / distance
	}

	r := &Road{parent: parent, child: child, cost: cost, blueprint: blueprint}
	parent.outwards = append(parent.outwards, r)
	child.inwards = append(child.inwards, r)
	g.roads++
	return r, nil
}

// CostRatio returns a factor k such that k times the distance between the
// centers of any road's endpoints never exceeds that road's cost. It never
// rises after roads are removed.
func (g *Graph) CostRatio() float64 {
	return g.costRatio
}

// AddTwoWayRoad adds a road in each direction with the same cost
func (g *Graph) AddTwoWayRoad(aID, bID int, cost float64, blueprint bool) error {
	if _, err := g.AddRoad(aID, bID, cost, blueprint); err != nil {
		return err
	}
	_, err := g.AddRoad(bID, aID, cost, blueprint)
	return err
}

// Connect adds a two-way road whose cost is the distance between node centers
func (g *Graph) Connect(aID, bID int, blueprint bool) error {
	a, err := g.Node(aID)
	if err != nil {
		return err
	}
	b, err := g.Node(bID)
	if err != nil {
		return err
	}
	return g.AddTwoWayRoad(aID, bID, a.center.DistanceTo(b.center), blueprint)
}

// RemoveRoad detaches a road from both endpoints
func (g *Graph) RemoveRoad(r *Road) {
	if r == nil || !g.Contains(r.parent) {
		return
	}
	before := len(r.parent.outwards)
	r.parent.detachOutward(r)
	r.child.detachInward(r)
	if len(r.parent.outwards) < before {
		g.roads--
	}
}

// CompleteBlueprint marks a platform and its incident roads as built
func (g *Graph) CompleteBlueprint(id int) error {
	n, err := g.Node(id)
	if err != nil {
		return err
	}
	n.blueprint = false
	for _, r := range n.outwards {
		r.blueprint = false
	}
	for _, r := range n.inwards {
		r.blueprint = false
	}
	return nil
}

// Nodes returns every node ordered by id
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].id < nodes[j].id })
	return nodes
}

// Neighbours returns the nodes reachable over one traversable road in either
// direction, outward roads first, each node once.
func (g *Graph) Neighbours(n *Node) []*Node {
	seen := make(map[int]bool)
	var neighbours []*Node

	add := func(r *Road) {
		if r.IsBlueprint() {
			return
		}
		other := r.Other(n)
		if other == n || seen[other.id] {
			return
		}
		seen[other.id] = true
		neighbours = append(neighbours, other)
	}

	for _, r := range n.outwards {
		add(r)
	}
	for _, r := range n.inwards {
		add(r)
	}
	return neighbours
}

// Approach returns a built node from which an unbuilt platform can be worked
// on: the first built endpoint of any road touching it. Built nodes approach
// themselves.
func (g *Graph) Approach(n *Node) (*Node, bool) {
	if !n.blueprint {
		return n, true
	}
	for _, r := range n.inwards {
		if !r.parent.blueprint {
			return r.parent, true
		}
	}
	for _, r := range n.outwards {
		if !r.child.blueprint {
			return r.child, true
		}
	}
	return nil, false
}

// NodeCount returns the number of nodes in the graph
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// RoadCount returns the number of roads in the graph
func (g *Graph) RoadCount() int {
	return g.roads
}
