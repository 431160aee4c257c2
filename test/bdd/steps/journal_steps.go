package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
	"github.com/andrescamacho/colony-go/internal/application/simulation"
	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/run"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/test/helpers"
)

// journalContext runs simulations whose assignment events land in the shared test database
type journalContext struct {
	clock    *shared.MockClock
	repos    *helpers.TestRepositories
	journals map[string]*persistence.GormAssignmentJournal
	worlds   map[string]*simulation.World
	events   []distribution.AssignmentEvent
	err      error
}

func (jc *journalContext) reset() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	jc.clock = shared.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	jc.repos = helpers.NewTestRepositories(jc.clock)
	jc.journals = make(map[string]*persistence.GormAssignmentJournal)
	jc.worlds = make(map[string]*simulation.World)
	jc.events = nil
	jc.err = nil
	return nil
}

// fairnessScenario is a hub with three staffed producers on the spokes and
// a fourth spoke registered as a production platform at tick 10
func fairnessScenario() *simulation.Scenario {
	seed := int64(42)
	return &simulation.Scenario{
		Name: "fairness",
		Seed: &seed,
		Graphs: []simulation.GraphSpec{{
			Index: 0,
			Nodes: []simulation.NodeSpec{
				{ID: 1, X: 0, Y: 0},
				{ID: 2, X: 1, Y: 0},
				{ID: 3, X: 0, Y: 1},
				{ID: 4, X: -1, Y: 0},
				{ID: 5, X: 0, Y: -1},
			},
			Roads: []simulation.RoadSpec{
				{From: 1, To: 2},
				{From: 1, To: 3},
				{From: 1, To: 4},
				{From: 1, To: 5},
			},
		}},
		Platforms: []simulation.PlatformSpec{
			{Graph: 0, Node: 2, Kind: "producer", Produces: "water", Workers: 3},
			{Graph: 0, Node: 3, Kind: "producer", Produces: "metal", Workers: 3},
			{Graph: 0, Node: 4, Kind: "producer", Produces: "stone", Workers: 3},
		},
		Workers: []simulation.WorkerSpec{
			{Graph: 0, Node: 1, Count: 9, Job: "production"},
		},
		Events: []simulation.EventSpec{
			{Tick: 10, Command: simulation.EventRegisterPlatform, Graph: 0, Node: 5},
		},
	}
}

// ============================================================================
// Setup Steps
// ============================================================================

func (jc *journalContext) aJournaledRunOfTheFairnessScenario(runID string) error {
	sc := fairnessScenario()
	ctx := context.Background()

	if err := jc.repos.RunRepo.Add(ctx, run.NewRun(runID, sc.Name, *sc.Seed, "astar", jc.clock)); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	journal := jc.repos.NewJournal(runID)
	world, err := simulation.NewWorld(simulation.Config{
		Scenario: sc,
		Seed:     sc.SeedOr(1),
		Clock:    jc.clock,
		Journal:  journal,
	})
	if err != nil {
		return err
	}
	jc.journals[runID] = journal
	jc.worlds[runID] = world
	return nil
}

// ============================================================================
// Action Steps
// ============================================================================

func (jc *journalContext) runForTicks(runID string, ticks int) error {
	world, ok := jc.worlds[runID]
	if !ok {
		return fmt.Errorf("no run %q", runID)
	}
	ran, err := world.Run(context.Background(), ticks)
	if err != nil {
		return err
	}
	if ran != ticks {
		return fmt.Errorf("expected %d ticks, ran %d", ticks, ran)
	}
	return nil
}

func (jc *journalContext) iListTheEventsOfRun(kind, runID string) error {
	k := distribution.EventKind(kind)
	jc.events, jc.err = jc.repos.NewJournal(runID).List(context.Background(), runID, persistence.JournalFilter{Kind: &k})
	return nil
}

// ============================================================================
// Assertion Steps
// ============================================================================

func (jc *journalContext) theJournalOfRunShouldHaveNoPendingEvents(runID string) error {
	journal, ok := jc.journals[runID]
	if !ok {
		return fmt.Errorf("no run %q", runID)
	}
	if pending := journal.Pending(); pending != 0 {
		return fmt.Errorf("expected every event to be flushed, %d pending", pending)
	}
	return nil
}

func (jc *journalContext) iShouldSeeEvents(expected int) error {
	if jc.err != nil {
		return fmt.Errorf("listing failed: %w", jc.err)
	}
	if len(jc.events) != expected {
		return fmt.Errorf("expected %d events, got %d", expected, len(jc.events))
	}
	return nil
}

func (jc *journalContext) everyEventShouldMoveAWorkerToPlatformAtTick(platformID, tick int) error {
	for _, ev := range jc.events {
		if ev.PlatformID != platformID {
			return fmt.Errorf("event for unit %d targets platform %d, expected %d", ev.UnitID, ev.PlatformID, platformID)
		}
		if ev.Tick != shared.Tick(tick) {
			return fmt.Errorf("event for unit %d happened at tick %d, expected %d", ev.UnitID, ev.Tick, tick)
		}
	}
	return nil
}

func (jc *journalContext) theEventsShouldBeOrderedByTick() error {
	for i := 1; i < len(jc.events); i++ {
		if jc.events[i].Tick < jc.events[i-1].Tick {
			return fmt.Errorf("event %d at tick %d follows tick %d", i, jc.events[i].Tick, jc.events[i-1].Tick)
		}
	}
	return nil
}

// InitializeJournalScenario registers assignment journal steps
func InitializeJournalScenario(ctx *godog.ScenarioContext) {
	jc := &journalContext{}

	ctx.Before(func(c context.Context, s *godog.Scenario) (context.Context, error) {
		return c, jc.reset()
	})

	ctx.Step(`^a journaled run "([^"]*)" of the fairness scenario$`, jc.aJournaledRunOfTheFairnessScenario)

	ctx.Step(`^run "([^"]*)" advances (\d+) ticks$`, jc.runForTicks)
	ctx.Step(`^I list the "([^"]*)" events of run "([^"]*)"$`, jc.iListTheEventsOfRun)

	ctx.Step(`^the journal of run "([^"]*)" should have no pending events$`, jc.theJournalOfRunShouldHaveNoPendingEvents)
	ctx.Step(`^I should see (\d+) events$`, jc.iShouldSeeEvents)
	ctx.Step(`^every event should move a worker to platform (\d+) at tick (\d+)$`, jc.everyEventShouldMoveAWorkerToPlatformAtTick)
	ctx.Step(`^the events should be ordered by tick$`, jc.theEventsShouldBeOrderedByTick)
}
