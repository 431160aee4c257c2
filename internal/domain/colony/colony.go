// Package colony holds the game objects that act as clients of the
// distribution managers: workers and the platform actions they serve.
package colony

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/colony-go/internal/domain/director"
	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/resource"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// Colony owns every worker and action across the director's graphs and
// hands out their ids.
type Colony struct {
	director   *director.Director
	deposits   resource.Map
	clock      shared.Clock
	stockpiles map[int]*Stockpile
	workers    map[int]*Worker
	actions    map[int]Action

	nextWorkerID int
	nextActionID int
}

// New creates an empty colony
func New(d *director.Director, deposits resource.Map, clock shared.Clock) *Colony {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Colony{
		director:     d,
		deposits:     deposits,
		clock:        clock,
		stockpiles:   make(map[int]*Stockpile),
		workers:      make(map[int]*Worker),
		actions:      make(map[int]Action),
		nextWorkerID: 1,
		nextActionID: 1,
	}
}

func (c *Colony) Director() *director.Director { return c.director }

// Stockpile returns the stockpile of a graph, creating it on first use
func (c *Colony) Stockpile(graphIndex int) *Stockpile {
	s, ok := c.stockpiles[graphIndex]
	if !ok {
		s = NewStockpile()
		c.stockpiles[graphIndex] = s
	}
	return s
}

// SpawnWorker creates an Idle worker on a node
func (c *Colony) SpawnWorker(at *graph.Node) (*Worker, error) {
	m, err := c.director.ManagerFor(at)
	if err != nil {
		return nil, err
	}
	w, err := NewWorker(c.nextWorkerID, at, m, c.director.Pathfinder())
	if err != nil {
		return nil, err
	}
	c.workers[w.ID()] = w
	c.nextWorkerID++
	return w, nil
}

// Workers returns the live workers ordered by id
func (c *Colony) Workers() []*Worker {
	out := make([]*Worker, 0, len(c.workers))
	for _, w := range c.workers {
		if !w.IsDead() {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (c *Colony) Worker(id int) (*Worker, bool) {
	w, ok := c.workers[id]
	return w, ok && !w.IsDead()
}

// Actions returns the live actions ordered by id
func (c *Colony) Actions() []Action {
	out := make([]Action, 0, len(c.actions))
	for _, a := range c.actions {
		if !a.IsDead() {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (c *Colony) Action(id int) (Action, bool) {
	a, ok := c.actions[id]
	return a, ok && !a.IsDead()
}

// ActionsAt returns the live actions on a platform ordered by id
func (c *Colony) ActionsAt(at *graph.Node) []Action {
	var out []Action
	for _, a := range c.Actions() {
		if a.Node() == at {
			out = append(out, a)
		}
	}
	return out
}

// AddProducer places a resource extraction action on a platform
func (c *Colony) AddProducer(at *graph.Node, produces resource.Type, workers, interval int) (*ProduceAction, error) {
	m, lifecycle, err := c.prepare(at)
	if err != nil {
		return nil, err
	}
	a := NewProduceAction(c.nextActionID, at, m, lifecycle, c.Stockpile(at.GraphIndex()), c.deposits, produces, workers, interval)
	return a, c.add(a)
}

// AddRefinery places an input → output conversion action on a platform
func (c *Colony) AddRefinery(at *graph.Node, input, output resource.Type) (*RefineAction, error) {
	m, lifecycle, err := c.prepare(at)
	if err != nil {
		return nil, err
	}
	a := NewRefineAction(c.nextActionID, at, m, lifecycle, c.Stockpile(at.GraphIndex()), input, output)
	return a, c.add(a)
}

// AddFactory places a worker training action on a platform
func (c *Colony) AddFactory(at *graph.Node, cost resource.Type, workers, interval int) (*MakeUnitAction, error) {
	m, lifecycle, err := c.prepare(at)
	if err != nil {
		return nil, err
	}
	a := NewMakeUnitAction(c.nextActionID, at, m, lifecycle, c.Stockpile(at.GraphIndex()), cost, workers, interval, c.SpawnWorker)
	return a, c.add(a)
}

// AddTurret places a defense action on a platform
func (c *Colony) AddTurret(at *graph.Node, workers, capacity int) (*ShootAction, error) {
	m, lifecycle, err := c.prepare(at)
	if err != nil {
		return nil, err
	}
	a := NewShootAction(c.nextActionID, at, m, lifecycle, c.Stockpile(at.GraphIndex()), workers, capacity)
	return a, c.add(a)
}

// PlaceBlueprint adds an unbuilt platform connected to existing nodes and
// starts its construction. Actions added to the site later stay disabled
// until the build completes.
func (c *Colony) PlaceBlueprint(graphIndex, nodeID int, center shared.Vector, connectTo []int, cost []resource.Type) (*BuildAction, error) {
	g, err := c.director.Graph(graphIndex)
	if err != nil {
		return nil, err
	}
	site, err := g.AddNode(nodeID, center, true)
	if err != nil {
		return nil, err
	}
	for _, neighbour := range connectTo {
		if err := g.Connect(nodeID, neighbour, false); err != nil {
			g.RemoveNode(nodeID)
			return nil, err
		}
	}

	m, err := c.director.Manager(graphIndex)
	if err != nil {
		return nil, err
	}
	lifecycle := NewActionLifecycle(distribution.Available, c.clock)
	build := NewBuildAction(c.nextActionID, site, m, lifecycle, c.Stockpile(graphIndex), cost)
	build.OnComplete(c.platformBuilt)
	c.actions[build.ID()] = build
	c.nextActionID++

	if err := build.Activate(); err != nil {
		return nil, err
	}
	return build, nil
}

// KillWorker processes a worker death. Returns false when already dead.
func (c *Colony) KillWorker(id int) bool {
	w, ok := c.Worker(id)
	if !ok {
		return false
	}
	w.Die()
	return true
}

// KillPlatform destroys a platform together with its actions, the workers
// standing on it and its roads. Returns false when it was already gone.
func (c *Colony) KillPlatform(at *graph.Node) bool {
	if at == nil || at.IsRemoved() {
		return false
	}
	m, err := c.director.ManagerFor(at)
	if err != nil {
		return false
	}

	for _, a := range c.ActionsAt(at) {
		a.Die()
	}
	m.KillPlatform(at)
	for _, w := range c.Workers() {
		if w.CurrentNode() == at {
			w.Die()
		}
	}
	m.Graph().RemoveNode(at.ID())
	return true
}

// Prune forgets dead workers and actions
func (c *Colony) Prune() {
	for id, w := range c.workers {
		if w.IsDead() {
			delete(c.workers, id)
		}
	}
	for id, a := range c.actions {
		if a.IsDead() {
			delete(c.actions, id)
		}
	}
}

func (c *Colony) prepare(at *graph.Node) (*distribution.Manager, *ActionLifecycle, error) {
	m, err := c.director.ManagerFor(at)
	if err != nil {
		return nil, nil, err
	}
	if !m.Graph().Contains(at) {
		return nil, nil, shared.NewUnknownNodeError(at.ID(), at.GraphIndex())
	}
	initial := distribution.Available
	if at.IsBlueprint() {
		initial = distribution.Disabled
	}
	return m, NewActionLifecycle(initial, c.clock), nil
}

// add stores the action and switches it on unless its platform is unbuilt
func (c *Colony) add(a Action) error {
	c.actions[a.ID()] = a
	c.nextActionID++
	if a.State() == distribution.Disabled {
		return nil
	}
	return a.Activate()
}

func (c *Colony) platformBuilt(site *graph.Node) error {
	for _, a := range c.Actions() {
		if a.Node() != site || a.State() != distribution.Disabled {
			continue
		}
		enabler, ok := a.(interface{ Enable() error })
		if !ok {
			continue
		}
		if err := enabler.Enable(); err != nil {
			continue
		}
		if err := a.Activate(); err != nil {
			return fmt.Errorf("activating action %d on built platform %d: %w", a.ID(), site.ID(), err)
		}
	}
	return nil
}
