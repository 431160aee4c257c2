package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/colony-go/internal/domain/colony"
	"github.com/andrescamacho/colony-go/internal/domain/director"
	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/resource"
	"github.com/andrescamacho/colony-go/internal/domain/routing"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// schedulingContext drives one graph's distribution manager with real colony workers
type schedulingContext struct {
	director  *director.Director
	colony    *colony.Colony
	graph     *graph.Graph
	manager   *distribution.Manager
	workers   []*colony.Worker
	platforms []*graph.Node

	transferred int
	tasks       []distribution.Task
	err         error
}

func (sc *schedulingContext) reset() {
	sc.director = nil
	sc.colony = nil
	sc.graph = nil
	sc.manager = nil
	sc.workers = nil
	sc.platforms = nil
	sc.transferred = 0
	sc.tasks = nil
	sc.err = nil
}

func (sc *schedulingContext) node(id int) (*graph.Node, error) {
	if sc.graph == nil {
		return nil, fmt.Errorf("no graph has been set up")
	}
	return sc.graph.Node(id)
}

// parseIDs reads "1, 2 and 3" style lists
func parseIDs(list string) ([]int, error) {
	fields := strings.FieldsFunc(strings.ReplaceAll(list, " and ", ","), func(r rune) bool {
		return r == ',' || r == ' '
	})
	ids := make([]int, 0, len(fields))
	for _, f := range fields {
		id, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid node id %q", f)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ============================================================================
// Setup Steps
// ============================================================================

func (sc *schedulingContext) aColonyGraphWithNodesOnALine(from, to int) error {
	d, err := director.NewDirector(director.Config{Seed: 42, Pathfinder: routing.NewAStar(nil)})
	if err != nil {
		return err
	}
	g, err := d.AddGraph(0)
	if err != nil {
		return err
	}
	for id := from; id <= to; id++ {
		if _, err := g.AddNode(id, shared.NewVector(float64(id), 0), false); err != nil {
			return err
		}
		if id > from {
			if err := g.Connect(id-1, id, false); err != nil {
				return err
			}
		}
	}
	m, err := d.Manager(0)
	if err != nil {
		return err
	}

	sc.director = d
	sc.graph = g
	sc.manager = m
	sc.colony = colony.New(d, resource.NewField(0), shared.NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	return nil
}

func (sc *schedulingContext) productionPlatformsOnNodes(list string) error {
	ids, err := parseIDs(list)
	if err != nil {
		return err
	}
	for _, id := range ids {
		n, err := sc.node(id)
		if err != nil {
			return err
		}
		if _, err := sc.manager.RegisterPlatform(n, false); err != nil {
			return err
		}
		sc.platforms = append(sc.platforms, n)
	}
	return nil
}

func (sc *schedulingContext) workersOnNode(count, id int) error {
	n, err := sc.node(id)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		w, err := sc.colony.SpawnWorker(n)
		if err != nil {
			return err
		}
		sc.workers = append(sc.workers, w)
	}
	return nil
}

// theWorkersAreStaffedRoundRobin homes workers on the platforms in turn
// through the request and dispatch protocol
func (sc *schedulingContext) theWorkersAreStaffedRoundRobin() error {
	if len(sc.platforms) == 0 {
		return fmt.Errorf("no production platforms registered")
	}
	for i, w := range sc.workers {
		platform := sc.platforms[i%len(sc.platforms)]
		if err := sc.manager.SetUnitJob(w, job.Production); err != nil {
			return err
		}
		queued, err := sc.manager.RequestUnits(platform, job.Production, nil, false)
		if err != nil {
			return err
		}
		if !queued {
			return fmt.Errorf("request for platform %d was refused", platform.ID())
		}
		task, ok, err := sc.manager.RequestNewTask(w, job.Production, nil)
		if err != nil {
			return err
		}
		if !ok || task.Target() != platform {
			return fmt.Errorf("worker %d was not dispatched to platform %d", w.ID(), platform.ID())
		}
	}
	return nil
}

func (sc *schedulingContext) aBuildRequestAtNode(name string, id int) error {
	t, err := resource.Parse(name)
	if err != nil {
		return err
	}
	n, err := sc.node(id)
	if err != nil {
		return err
	}
	queued, err := sc.manager.RequestResource(n, t, nil, true)
	if err != nil {
		return err
	}
	if !queued {
		return fmt.Errorf("build request at node %d was refused", id)
	}
	return nil
}

// ============================================================================
// Action Steps
// ============================================================================

func (sc *schedulingContext) nodeIsRegisteredAsAProductionPlatform(id int) error {
	n, err := sc.node(id)
	if err != nil {
		return err
	}
	sc.transferred, sc.err = sc.manager.RegisterPlatform(n, false)
	if sc.err == nil {
		sc.platforms = append(sc.platforms, n)
	}
	return nil
}

func (sc *schedulingContext) idleWorkersAreMovedTo(amount int, name string) error {
	to, err := job.Parse(name)
	if err != nil {
		return err
	}
	moved, err := sc.manager.DistributeJobs(job.Idle, to, amount)
	if err != nil {
		return err
	}
	if moved != amount {
		return fmt.Errorf("expected %d workers to change job, %d did", amount, moved)
	}
	return nil
}

func (sc *schedulingContext) eachConstructionWorkerPullsATask() error {
	for _, w := range sc.workers {
		task, ok, err := sc.manager.RequestNewTask(w, job.Construction, nil)
		if err != nil {
			return err
		}
		if ok {
			sc.tasks = append(sc.tasks, task)
		}
	}
	return nil
}

// ============================================================================
// Assertion Steps
// ============================================================================

func (sc *schedulingContext) workersShouldHaveBeenTransferred(expected int) error {
	if sc.err != nil {
		return fmt.Errorf("registration failed: %w", sc.err)
	}
	if sc.transferred != expected {
		return fmt.Errorf("expected %d transfers, got %d", expected, sc.transferred)
	}
	return nil
}

func (sc *schedulingContext) everyProductionPlatformShouldHaveBetween(lo, hi int) error {
	for _, p := range sc.platforms {
		workers := sc.manager.Workers(p, false)
		if workers < lo || workers > hi {
			return fmt.Errorf("platform %d has %d workers, expected between %d and %d", p.ID(), workers, lo, hi)
		}
	}
	return nil
}

func (sc *schedulingContext) theProductionPlatformsShouldHoldInTotal(expected int) error {
	total := 0
	for _, load := range sc.manager.Stats().Production {
		total += load.Workers
	}
	if total != expected {
		return fmt.Errorf("expected %d production workers in total, got %d", expected, total)
	}
	return nil
}

func (sc *schedulingContext) platformShouldHaveProductionWorkers(id, expected int) error {
	n, err := sc.node(id)
	if err != nil {
		return err
	}
	if got := sc.manager.Workers(n, false); got != expected {
		return fmt.Errorf("platform %d has %d workers, expected %d", id, got, expected)
	}
	return nil
}

func (sc *schedulingContext) theProductionFairShareShouldBe(expected int) error {
	if got := sc.manager.FairShare(false); got != expected {
		return fmt.Errorf("expected fair share %d, got %d", expected, got)
	}
	return nil
}

func (sc *schedulingContext) theConstructionTasksShouldTargetNodesInOrder(list string) error {
	ids, err := parseIDs(list)
	if err != nil {
		return err
	}
	if len(sc.tasks) != len(ids) {
		return fmt.Errorf("expected %d construction tasks, got %d", len(ids), len(sc.tasks))
	}
	for i, task := range sc.tasks {
		if task.Target().ID() != ids[i] {
			return fmt.Errorf("task %d targets node %d, expected %d", i+1, task.Target().ID(), ids[i])
		}
		if task.Job() != job.Construction {
			return fmt.Errorf("task %d has job %s", i+1, task.Job())
		}
	}
	return nil
}

func (sc *schedulingContext) noConstructionWorkShouldRemain() error {
	if pending := sc.manager.PendingTasks(job.Construction); len(pending) != 0 {
		return fmt.Errorf("expected an empty construction queue, %d tasks remain", len(pending))
	}
	_, ok, err := sc.manager.RequestNewTask(sc.workers[0], job.Construction, nil)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("expected no construction work to be handed out")
	}
	return nil
}

// InitializeSchedulingScenario registers distribution manager steps
func InitializeSchedulingScenario(ctx *godog.ScenarioContext) {
	sc := &schedulingContext{}

	ctx.Before(func(c context.Context, s *godog.Scenario) (context.Context, error) {
		sc.reset()
		return c, nil
	})

	ctx.Step(`^a colony graph with nodes (\d+) to (\d+) on a line$`, sc.aColonyGraphWithNodesOnALine)
	ctx.Step(`^production platforms on nodes ([\d, and]+)$`, sc.productionPlatformsOnNodes)
	ctx.Step(`^(\d+) workers on node (\d+)$`, sc.workersOnNode)
	ctx.Step(`^the workers are staffed round robin across the production platforms$`, sc.theWorkersAreStaffedRoundRobin)
	ctx.Step(`^a build request for (\w+) at node (\d+)$`, sc.aBuildRequestAtNode)

	ctx.Step(`^node (\d+) is registered as a production platform$`, sc.nodeIsRegisteredAsAProductionPlatform)
	ctx.Step(`^(\d+) idle workers are moved to (\w+)$`, sc.idleWorkersAreMovedTo)
	ctx.Step(`^each construction worker pulls a task$`, sc.eachConstructionWorkerPullsATask)

	ctx.Step(`^(\d+) workers should have been transferred$`, sc.workersShouldHaveBeenTransferred)
	ctx.Step(`^every production platform should have between (\d+) and (\d+) workers$`, sc.everyProductionPlatformShouldHaveBetween)
	ctx.Step(`^the production platforms should hold (\d+) workers in total$`, sc.theProductionPlatformsShouldHoldInTotal)
	ctx.Step(`^platform (\d+) should have (\d+) production workers$`, sc.platformShouldHaveProductionWorkers)
	ctx.Step(`^the production fair share should be (\d+)$`, sc.theProductionFairShareShouldBe)
	ctx.Step(`^the construction tasks should target nodes ([\d, and]+) in order$`, sc.theConstructionTasksShouldTargetNodesInOrder)
	ctx.Step(`^no construction work should remain$`, sc.noConstructionWorkShouldRemain)
}
