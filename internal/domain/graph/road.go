package graph

import "fmt"

// Road is a directed, weighted connection between two nodes
type Road struct {
	parent    *Node
	child     *Node
	cost      float64
	blueprint bool
}

func (r *Road) GetParent() *Node { return r.parent }
func (r *Road) GetChild() *Node  { return r.child }
func (r *Road) GetCost() float64 { return r.cost }

// IsBlueprint reports whether the road cannot be traversed yet, either because
// it is unbuilt itself or because it touches an unbuilt platform.
func (r *Road) IsBlueprint() bool {
	return r.blueprint || r.parent.blueprint || r.child.blueprint
}

// Other returns the endpoint opposite to n
func (r *Road) Other(n *Node) *Node {
	if r.parent == n {
		return r.child
	}
	return r.parent
}

func (r *Road) String() string {
	return fmt.Sprintf("Road(%d -> %d, %.1f)", r.parent.id, r.child.id, r.cost)
}
