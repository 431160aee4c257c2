package routing

import (
	"container/heap"

	"github.com/andrescamacho/colony-go/internal/domain/graph"
)

type openEntry struct {
	node  *graph.Node
	g     float64
	h     float64
	seq   int
	index int
}

// openSet is a min-heap on f = g + h. Ties prefer the entry closer to the
// destination, then the lower node id, then the earlier push, so that equal
// inputs always expand in the same order.
type openSet struct {
	entries []*openEntry
	byNode  map[int]*openEntry
	seq     int
}

func newOpenSet() *openSet {
	return &openSet{byNode: make(map[int]*openEntry)}
}

func (s *openSet) Len() int { return len(s.entries) }

func (s *openSet) Less(i, j int) bool {
	a, b := s.entries[i], s.entries[j]
	fa, fb := a.g+a.h, b.g+b.h
	if fa != fb {
		return fa < fb
	}
	if a.h != b.h {
		return a.h < b.h
	}
	if a.node.ID() != b.node.ID() {
		return a.node.ID() < b.node.ID()
	}
	return a.seq < b.seq
}

func (s *openSet) Swap(i, j int) {
	s.entries[i], s.entries[j] = s.entries[j], s.entries[i]
	s.entries[i].index = i
	s.entries[j].index = j
}

func (s *openSet) Push(x any) {
	e := x.(*openEntry)
	e.index = len(s.entries)
	s.entries = append(s.entries, e)
}

func (s *openSet) Pop() any {
	old := s.entries
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	s.entries = old[:n-1]
	return e
}

// upsert inserts node or lowers its g score when a cheaper route was found
func (s *openSet) upsert(node *graph.Node, g, h float64) {
	if e, ok := s.byNode[node.ID()]; ok {
		if g < e.g {
			e.g = g
			heap.Fix(s, e.index)
		}
		return
	}
	s.seq++
	e := &openEntry{node: node, g: g, h: h, seq: s.seq}
	s.byNode[node.ID()] = e
	heap.Push(s, e)
}

func (s *openSet) popMin() *openEntry {
	e := heap.Pop(s).(*openEntry)
	delete(s.byNode, e.node.ID())
	return e
}
