package steps

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/routing"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

type routingContext struct {
	graph      *graph.Graph
	pathfinder routing.Pathfinder
	route      *routing.Route
	found      bool
	err        error
}

func (rc *routingContext) reset() {
	rc.graph = graph.NewGraph(0)
	rc.pathfinder = nil
	rc.route = nil
	rc.found = false
	rc.err = nil
}

// ============================================================================
// Setup Steps
// ============================================================================

func (rc *routingContext) aRoadGraphWithNodes(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		if len(row.Cells) != 3 {
			return fmt.Errorf("row %d: expected id, x and y", i)
		}
		id, err := strconv.Atoi(row.Cells[0].Value)
		if err != nil {
			return fmt.Errorf("row %d: invalid id: %w", i, err)
		}
		x, err := strconv.ParseFloat(row.Cells[1].Value, 64)
		if err != nil {
			return fmt.Errorf("row %d: invalid x: %w", i, err)
		}
		y, err := strconv.ParseFloat(row.Cells[2].Value, 64)
		if err != nil {
			return fmt.Errorf("row %d: invalid y: %w", i, err)
		}
		if _, err := rc.graph.AddNode(id, shared.NewVector(x, y), false); err != nil {
			return err
		}
	}
	return nil
}

func (rc *routingContext) aTwoWayRoadCosting(from, to int, cost float64) error {
	return rc.graph.AddTwoWayRoad(from, to, cost, false)
}

func (rc *routingContext) aBlueprintRoadCosting(from, to int, cost float64) error {
	return rc.graph.AddTwoWayRoad(from, to, cost, true)
}

func (rc *routingContext) thePathfinder(name string) error {
	pf, err := routing.NewPathfinder(name, nil)
	if err != nil {
		return err
	}
	rc.pathfinder = pf
	return nil
}

// ============================================================================
// Action Steps
// ============================================================================

func (rc *routingContext) iSearchForAPathFromTo(from, to int) error {
	if rc.pathfinder == nil {
		return fmt.Errorf("no pathfinder selected")
	}
	start, err := rc.graph.Node(from)
	if err != nil {
		return err
	}
	destination, err := rc.graph.Node(to)
	if err != nil {
		return err
	}
	rc.route, rc.found, rc.err = rc.pathfinder.FindPath(rc.graph, start, destination)
	return nil
}

// roadIsRemoved drops the road in both directions
func (rc *routingContext) roadIsRemoved(from, to int) error {
	removed := 0
	for _, pair := range [][2]int{{from, to}, {to, from}} {
		parent, err := rc.graph.Node(pair[0])
		if err != nil {
			return err
		}
		for _, r := range parent.OutwardsEdges() {
			if r.GetChild().ID() == pair[1] {
				rc.graph.RemoveRoad(r)
				removed++
				break
			}
		}
	}
	if removed == 0 {
		return fmt.Errorf("no road between %d and %d", from, to)
	}
	return nil
}

// ============================================================================
// Assertion Steps
// ============================================================================

func (rc *routingContext) theRouteShouldVisitNodes(list string) error {
	if rc.err != nil {
		return fmt.Errorf("search failed: %w", rc.err)
	}
	if !rc.found {
		return fmt.Errorf("expected a route, none was found")
	}
	expected, err := parseIDs(list)
	if err != nil {
		return err
	}
	got := rc.route.IDs()
	if len(got) != len(expected) {
		return fmt.Errorf("expected route %v, got %v", expected, got)
	}
	for i := range got {
		if got[i] != expected[i] {
			return fmt.Errorf("expected route %v, got %v", expected, got)
		}
	}
	return nil
}

func (rc *routingContext) theRouteShouldCost(expected float64) error {
	if rc.route == nil {
		return fmt.Errorf("no route to check")
	}
	if math.Abs(rc.route.Cost()-expected) > 1e-9 {
		return fmt.Errorf("expected cost %.3f, got %.3f", expected, rc.route.Cost())
	}
	return nil
}

func (rc *routingContext) noRouteShouldBeFound() error {
	if rc.err != nil {
		return fmt.Errorf("search failed: %w", rc.err)
	}
	if rc.found {
		return fmt.Errorf("expected no route, got %v", rc.route.IDs())
	}
	return nil
}

// InitializeRoutingScenario registers pathfinding steps
func InitializeRoutingScenario(ctx *godog.ScenarioContext) {
	rc := &routingContext{}

	ctx.Before(func(c context.Context, s *godog.Scenario) (context.Context, error) {
		rc.reset()
		return c, nil
	})

	ctx.Step(`^a road graph with nodes:$`, rc.aRoadGraphWithNodes)
	ctx.Step(`^a two-way road from (\d+) to (\d+) costing (\d+(?:\.\d+)?)$`, rc.aTwoWayRoadCosting)
	ctx.Step(`^a blueprint road from (\d+) to (\d+) costing (\d+(?:\.\d+)?)$`, rc.aBlueprintRoadCosting)
	ctx.Step(`^the "([^"]*)" pathfinder$`, rc.thePathfinder)

	ctx.Step(`^I search for a path from (\d+) to (\d+)$`, rc.iSearchForAPathFromTo)
	ctx.Step(`^the road from (\d+) to (\d+) is removed$`, rc.roadIsRemoved)

	ctx.Step(`^the route should visit nodes ([\d, and]+)$`, rc.theRouteShouldVisitNodes)
	ctx.Step(`^the route should cost (\d+(?:\.\d+)?)$`, rc.theRouteShouldCost)
	ctx.Step(`^no route should be found$`, rc.noRouteShouldBeFound)
}
