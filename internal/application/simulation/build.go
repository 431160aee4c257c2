package simulation

import (
	"fmt"

	"github.com/andrescamacho/colony-go/internal/domain/colony"
	"github.com/andrescamacho/colony-go/internal/domain/director"
	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/resource"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// build lays out graphs, then deposits and stockpiles, then blueprints so
// that platforms may sit on them, then platforms, then workers
func build(sc *Scenario, d *director.Director, clock shared.Clock) (*colony.Colony, error) {
	for _, gs := range sc.Graphs {
		if err := buildGraph(d, gs); err != nil {
			return nil, err
		}
	}

	field := resource.NewField(sc.DepositReach)
	for _, ds := range sc.Deposits {
		t, _ := resource.Parse(ds.Resource)
		field.AddDeposit(t, shared.NewVector(ds.X, ds.Y), ds.Amount)
	}

	c := colony.New(d, field, clock)
	for _, ss := range sc.Stockpiles {
		if _, err := d.Graph(ss.Graph); err != nil {
			return nil, err
		}
		t, _ := resource.Parse(ss.Resource)
		c.Stockpile(ss.Graph).Add(t, ss.Amount)
	}

	for _, bs := range sc.Blueprints {
		cost := make([]resource.Type, 0, len(bs.Cost))
		for _, name := range bs.Cost {
			t, _ := resource.Parse(name)
			cost = append(cost, t)
		}
		if _, err := c.PlaceBlueprint(bs.Graph, bs.Node, shared.NewVector(bs.X, bs.Y), bs.Connect, cost); err != nil {
			return nil, fmt.Errorf("blueprint %d: %w", bs.Node, err)
		}
	}

	for _, ps := range sc.Platforms {
		if err := addPlatform(c, d, ps); err != nil {
			return nil, fmt.Errorf("%s on platform %d: %w", ps.Kind, ps.Node, err)
		}
	}

	for _, ws := range sc.Workers {
		if err := addWorkers(c, d, ws); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func buildGraph(d *director.Director, gs GraphSpec) error {
	g, err := d.AddGraph(gs.Index)
	if err != nil {
		return err
	}
	for _, ns := range gs.Nodes {
		if _, err := g.AddNode(ns.ID, shared.NewVector(ns.X, ns.Y), ns.Blueprint); err != nil {
			return err
		}
	}
	for _, rs := range gs.Roads {
		if err := addRoad(g, rs); err != nil {
			return fmt.Errorf("road %d→%d in graph %d: %w", rs.From, rs.To, gs.Index, err)
		}
	}
	return nil
}

func addRoad(g *graph.Graph, rs RoadSpec) error {
	cost := rs.Cost
	if cost == 0 {
		from, err := g.Node(rs.From)
		if err != nil {
			return err
		}
		to, err := g.Node(rs.To)
		if err != nil {
			return err
		}
		cost = from.Center().DistanceTo(to.Center())
	}
	if rs.OneWay {
		_, err := g.AddRoad(rs.From, rs.To, cost, rs.Blueprint)
		return err
	}
	return g.AddTwoWayRoad(rs.From, rs.To, cost, rs.Blueprint)
}

func addPlatform(c *colony.Colony, d *director.Director, ps PlatformSpec) error {
	g, err := d.Graph(ps.Graph)
	if err != nil {
		return err
	}
	at, err := g.Node(ps.Node)
	if err != nil {
		return err
	}
	interval := ps.Interval
	if interval == 0 {
		interval = 1
	}

	switch ps.Kind {
	case "producer":
		produces, _ := resource.Parse(ps.Produces)
		_, err = c.AddProducer(at, produces, ps.Workers, interval)
	case "refinery":
		input, _ := resource.Parse(ps.Input)
		output, _ := resource.Parse(ps.Output)
		_, err = c.AddRefinery(at, input, output)
	case "factory":
		cost, _ := resource.Parse(ps.Cost)
		_, err = c.AddFactory(at, cost, ps.Workers, interval)
	case "turret":
		capacity := ps.Capacity
		if capacity == 0 {
			capacity = 1
		}
		_, err = c.AddTurret(at, ps.Workers, capacity)
	default:
		err = fmt.Errorf("unknown platform kind %q", ps.Kind)
	}
	return err
}

func addWorkers(c *colony.Colony, d *director.Director, ws WorkerSpec) error {
	g, err := d.Graph(ws.Graph)
	if err != nil {
		return err
	}
	at, err := g.Node(ws.Node)
	if err != nil {
		return err
	}
	m, err := d.ManagerFor(at)
	if err != nil {
		return err
	}
	j := job.Idle
	if ws.Job != "" {
		j, _ = job.Parse(ws.Job)
	}
	for i := 0; i < ws.Count; i++ {
		w, err := c.SpawnWorker(at)
		if err != nil {
			return err
		}
		if j == job.Idle {
			continue
		}
		if err := m.SetUnitJob(w, j); err != nil {
			return fmt.Errorf("worker %d: %w", w.ID(), err)
		}
	}
	return nil
}
