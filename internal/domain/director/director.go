// Package director owns the graphs of a colony and one distribution manager per graph.
package director

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/routing"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// Config carries the collaborators every manager is built with
type Config struct {
	Seed       int64
	Pathfinder routing.Pathfinder
	Ticker     *shared.TickCounter
	Clock      shared.Clock
	Logger     distribution.Logger
	Recorder   distribution.Recorder
	Events     distribution.EventSink
}

// Director is the registry actions use to reach the manager of their graph.
//
// Invariants:
// - Each graph index maps to exactly one graph and one manager
// - Every manager draws from its own random source seeded with Seed + index
type Director struct {
	cfg      Config
	graphs   map[int]*graph.Graph
	managers map[int]*distribution.Manager
}

// NewDirector creates an empty director. A pathfinder is required.
func NewDirector(cfg Config) (*Director, error) {
	if cfg.Pathfinder == nil {
		return nil, fmt.Errorf("pathfinder is required")
	}
	if cfg.Ticker == nil {
		cfg.Ticker = &shared.TickCounter{}
	}
	return &Director{
		cfg:      cfg,
		graphs:   make(map[int]*graph.Graph),
		managers: make(map[int]*distribution.Manager),
	}, nil
}

// AddGraph creates and registers an empty graph under index
func (d *Director) AddGraph(index int) (*graph.Graph, error) {
	g := graph.NewGraph(index)
	if err := d.AdoptGraph(g); err != nil {
		return nil, err
	}
	return g, nil
}

// AdoptGraph registers an existing graph and builds its manager
func (d *Director) AdoptGraph(g *graph.Graph) error {
	if g == nil {
		return shared.NewInvalidArgumentError("graph cannot be nil")
	}
	if _, exists := d.graphs[g.Index()]; exists {
		return shared.NewValidationError("graph", fmt.Sprintf("index %d already registered", g.Index()))
	}

	opts := []distribution.Option{
		distribution.WithRand(rand.New(rand.NewSource(d.cfg.Seed + int64(g.Index())))),
		distribution.WithTicker(d.cfg.Ticker),
	}
	if d.cfg.Clock != nil {
		opts = append(opts, distribution.WithClock(d.cfg.Clock))
	}
	if d.cfg.Logger != nil {
		opts = append(opts, distribution.WithLogger(d.cfg.Logger))
	}
	if d.cfg.Recorder != nil {
		opts = append(opts, distribution.WithRecorder(d.cfg.Recorder))
	}
	if d.cfg.Events != nil {
		opts = append(opts, distribution.WithEventSink(d.cfg.Events))
	}

	d.graphs[g.Index()] = g
	d.managers[g.Index()] = distribution.NewManager(g, opts...)
	return nil
}

// Graph returns the graph registered under index
func (d *Director) Graph(index int) (*graph.Graph, error) {
	g, ok := d.graphs[index]
	if !ok {
		return nil, shared.NewUnknownGraphError(index)
	}
	return g, nil
}

// Manager returns the distribution manager of a graph
func (d *Director) Manager(index int) (*distribution.Manager, error) {
	m, ok := d.managers[index]
	if !ok {
		return nil, shared.NewUnknownGraphError(index)
	}
	return m, nil
}

// ManagerFor returns the manager of the graph a node belongs to
func (d *Director) ManagerFor(n *graph.Node) (*distribution.Manager, error) {
	if n == nil {
		return nil, shared.NewInvalidArgumentError("node cannot be nil")
	}
	return d.Manager(n.GraphIndex())
}

// Indices returns the registered graph indices in ascending order
func (d *Director) Indices() []int {
	indices := make([]int, 0, len(d.graphs))
	for index := range d.graphs {
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices
}

// Pathfinder returns the strategy shared by every graph
func (d *Director) Pathfinder() routing.Pathfinder {
	return d.cfg.Pathfinder
}

// Ticker returns the tick counter stamped on tasks
func (d *Director) Ticker() *shared.TickCounter {
	return d.cfg.Ticker
}

// FindPath routes between two node ids of one graph
func (d *Director) FindPath(index, startID, destinationID int) (*routing.Route, bool, error) {
	g, err := d.Graph(index)
	if err != nil {
		return nil, false, err
	}
	start, err := g.Node(startID)
	if err != nil {
		return nil, false, err
	}
	destination, err := g.Node(destinationID)
	if err != nil {
		return nil, false, err
	}
	return d.cfg.Pathfinder.FindPath(g, start, destination)
}
