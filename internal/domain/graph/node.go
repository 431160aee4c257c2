package graph

import (
	"fmt"

	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// Node is a platform in the world. Nodes are created through Graph.AddNode and
// owned by exactly one graph.
type Node struct {
	id         int
	graphIndex int
	center     shared.Vector
	blueprint  bool
	removed    bool
	outwards   []*Road
	inwards    []*Road
}

// Getters

func (n *Node) ID() int               { return n.id }
func (n *Node) GraphIndex() int       { return n.graphIndex }
func (n *Node) Center() shared.Vector { return n.center }

// IsBlueprint reports whether the platform is still unbuilt
func (n *Node) IsBlueprint() bool { return n.blueprint }

// IsRemoved reports whether the node was removed from its graph
func (n *Node) IsRemoved() bool { return n.removed }

// OutwardsEdges returns the roads leaving this node
func (n *Node) OutwardsEdges() []*Road {
	out := make([]*Road, len(n.outwards))
	copy(out, n.outwards)
	return out
}

// InwardsEdges returns the roads arriving at this node
func (n *Node) InwardsEdges() []*Road {
	in := make([]*Road, len(n.inwards))
	copy(in, n.inwards)
	return in
}

func (n *Node) String() string {
	if n == nil {
		return "Node(nil)"
	}
	return fmt.Sprintf("Node(%d@%s)", n.id, n.center)
}

func (n *Node) detachOutward(r *Road) {
	n.outwards = removeRoad(n.outwards, r)
}

func (n *Node) detachInward(r *Road) {
	n.inwards = removeRoad(n.inwards, r)
}

func removeRoad(roads []*Road, target *Road) []*Road {
	for i, r := range roads {
		if r == target {
			return append(roads[:i], roads[i+1:]...)
		}
	}
	return roads
}
