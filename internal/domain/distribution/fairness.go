package distribution

import (
	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/job"
)

// tally owns the platform → assigned workers table of one fairness-governed
// category. Platforms keep their registration order, workers their homing
// order.
type tally struct {
	category  job.Type
	platforms []*graph.Node
	workers   map[int][]Unit
	homes     map[int]*graph.Node
}

func newTally(category job.Type) *tally {
	return &tally{
		category: category,
		workers:  make(map[int][]Unit),
		homes:    make(map[int]*graph.Node),
	}
}

func (t *tally) register(platform *graph.Node) bool {
	if t.has(platform) {
		return false
	}
	t.platforms = append(t.platforms, platform)
	t.workers[platform.ID()] = nil
	return true
}

func (t *tally) has(platform *graph.Node) bool {
	if platform == nil {
		return false
	}
	_, exists := t.workers[platform.ID()]
	return exists
}

// unregister drops the platform and returns the workers that were homed on it
func (t *tally) unregister(platform *graph.Node) []Unit {
	if !t.has(platform) {
		return nil
	}
	orphans := t.workers[platform.ID()]
	for _, u := range orphans {
		delete(t.homes, u.ID())
	}
	delete(t.workers, platform.ID())
	for i, p := range t.platforms {
		if p.ID() == platform.ID() {
			t.platforms = append(t.platforms[:i], t.platforms[i+1:]...)
			break
		}
	}
	return orphans
}

func (t *tally) count(platform *graph.Node) int {
	return len(t.workers[platform.ID()])
}

func (t *tally) total() int {
	return len(t.homes)
}

func (t *tally) platformCount() int {
	return len(t.platforms)
}

// fairShare is total workers divided by platform count, integer division
func (t *tally) fairShare() int {
	if len(t.platforms) == 0 {
		return 0
	}
	return t.total() / len(t.platforms)
}

func (t *tally) home(u Unit) (*graph.Node, bool) {
	p, ok := t.homes[u.ID()]
	return p, ok
}

// assign homes u on platform, leaving any previous home
func (t *tally) assign(u Unit, platform *graph.Node) {
	t.release(u)
	t.workers[platform.ID()] = append(t.workers[platform.ID()], u)
	t.homes[u.ID()] = platform
}

// release removes u from its home platform and returns that platform
func (t *tally) release(u Unit) (*graph.Node, bool) {
	platform, ok := t.homes[u.ID()]
	if !ok {
		return nil, false
	}
	delete(t.homes, u.ID())
	homed := t.workers[platform.ID()]
	for i, member := range homed {
		if member.ID() == u.ID() {
			t.workers[platform.ID()] = append(homed[:i], homed[i+1:]...)
			break
		}
	}
	return platform, true
}

// busiest returns the platform holding the most workers, skipping except.
// Ties go to the earliest registered platform.
func (t *tally) busiest(except *graph.Node) *graph.Node {
	var best *graph.Node
	bestCount := -1
	for _, p := range t.platforms {
		if except != nil && p.ID() == except.ID() {
			continue
		}
		if c := t.count(p); c > bestCount {
			best, bestCount = p, c
		}
	}
	return best
}

// newest returns the most recently homed worker of platform
func (t *tally) newest(platform *graph.Node) (Unit, bool) {
	homed := t.workers[platform.ID()]
	if len(homed) == 0 {
		return nil, false
	}
	return homed[len(homed)-1], true
}

func (t *tally) loads() []PlatformLoad {
	out := make([]PlatformLoad, 0, len(t.platforms))
	for _, p := range t.platforms {
		out = append(out, PlatformLoad{PlatformID: p.ID(), Workers: t.count(p)})
	}
	return out
}

// PlatformLoad is the number of workers homed on a platform
type PlatformLoad struct {
	PlatformID int
	Workers    int
}
