package colony_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/domain/colony"
	"github.com/andrescamacho/colony-go/internal/domain/director"
	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/resource"
	"github.com/andrescamacho/colony-go/internal/domain/routing"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

type fixture struct {
	colony  *colony.Colony
	graph   *graph.Graph
	manager *distribution.Manager
	field   *resource.Field
}

// newFixture builds graph 0 with nodes 1..n on a line, one unit apart
func newFixture(t *testing.T, n int) *fixture {
	t.Helper()
	d, err := director.NewDirector(director.Config{Seed: 7, Pathfinder: routing.NewAStar(nil)})
	require.NoError(t, err)
	g, err := d.AddGraph(0)
	require.NoError(t, err)
	for id := 1; id <= n; id++ {
		_, err := g.AddNode(id, shared.NewVector(float64(id), 0), false)
		require.NoError(t, err)
		if id > 1 {
			require.NoError(t, g.Connect(id-1, id, false))
		}
	}
	m, err := d.Manager(0)
	require.NoError(t, err)
	field := resource.NewField(0)
	return &fixture{
		colony:  colony.New(d, field, shared.NewMockClock(time.Time{})),
		graph:   g,
		manager: m,
		field:   field,
	}
}

func (f *fixture) node(t *testing.T, id int) *graph.Node {
	t.Helper()
	n, err := f.graph.Node(id)
	require.NoError(t, err)
	return n
}

func (f *fixture) spawn(t *testing.T, at int, j job.Type) *colony.Worker {
	t.Helper()
	w, err := f.colony.SpawnWorker(f.node(t, at))
	require.NoError(t, err)
	if j != job.Idle {
		require.NoError(t, f.manager.SetUnitJob(w, j))
	}
	return w
}

// step runs one tick: actions by id, then workers by id
func (f *fixture) step(t *testing.T, ticks int) {
	t.Helper()
	for i := 0; i < ticks; i++ {
		for _, a := range f.colony.Actions() {
			require.NoError(t, a.Tick())
		}
		for _, w := range f.colony.Workers() {
			require.NoError(t, w.Update())
		}
	}
}

func TestWorker_IdleWorkersWander(t *testing.T) {
	f := newFixture(t, 3)
	w := f.spawn(t, 2, job.Idle)

	f.step(t, 6)

	assert.Equal(t, job.Idle, w.Job())
	assert.Equal(t, 6, w.Moves(), "an idle worker moves every tick between neighbours")
	assert.Zero(t, w.Executed())
}

func TestBuildAction_ConstructsBlueprintAndActivatesSiteActions(t *testing.T) {
	// Arrange
	f := newFixture(t, 2)
	f.colony.Stockpile(0).Add(resource.Stone, 2)
	builder := f.spawn(t, 1, job.Idle)
	build, err := f.colony.PlaceBlueprint(0, 3, shared.NewVector(3, 0), []int{2}, []resource.Type{resource.Stone, resource.Stone})
	require.NoError(t, err)
	site := f.node(t, 3)
	producer, err := f.colony.AddProducer(site, resource.Stone, 1, 1)
	require.NoError(t, err)
	require.Equal(t, distribution.Disabled, producer.State())
	require.Len(t, f.manager.PendingTasks(job.Construction), 2)

	moved, err := f.manager.DistributeJobs(job.Idle, job.Construction, 1)
	require.NoError(t, err)
	require.Equal(t, 1, moved)

	// Act
	f.step(t, 3)

	// Assert
	assert.False(t, site.IsBlueprint())
	assert.True(t, build.IsComplete())
	assert.True(t, build.IsDead())
	assert.Equal(t, 2, builder.Executed())
	assert.Equal(t, 2, builder.CurrentNode().ID(), "builders work from the nearest built node")
	assert.Zero(t, f.colony.Stockpile(0).Amount(resource.Stone))
	assert.Equal(t, distribution.Active, producer.State())
	assert.Len(t, f.manager.Stats().Production, 1)

	route, ok, err := routing.NewAStar(nil).FindPath(f.graph, f.node(t, 1), site)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, route.IDs())
}

func TestBuildAction_WaitsForMissingResources(t *testing.T) {
	f := newFixture(t, 2)
	builder := f.spawn(t, 2, job.Idle)
	build, err := f.colony.PlaceBlueprint(0, 3, shared.NewVector(3, 0), []int{2}, []resource.Type{resource.Metal})
	require.NoError(t, err)
	_, err = f.manager.DistributeJobs(job.Idle, job.Construction, 1)
	require.NoError(t, err)

	f.step(t, 3)
	assert.Zero(t, build.Delivered())
	assert.Len(t, f.manager.PendingTasks(job.Construction), 1, "a failed delivery is requested again")

	f.colony.Stockpile(0).Add(resource.Metal, 1)
	f.step(t, 1)

	assert.True(t, build.IsComplete())
	assert.Equal(t, 4, builder.Executed())
}

func TestProduceAction_HomedWorkersHarvest(t *testing.T) {
	// Arrange
	f := newFixture(t, 2)
	f.field.AddDeposit(resource.Stone, shared.NewVector(2, 1), 3)
	quarry, err := f.colony.AddProducer(f.node(t, 2), resource.Stone, 1, 1)
	require.NoError(t, err)
	w := f.spawn(t, 1, job.Production)

	// Act
	f.step(t, 8)

	// Assert
	home, ok := w.HomeTask()
	require.True(t, ok)
	assert.Equal(t, 2, home.Target().ID())
	assert.Equal(t, 1, f.manager.Workers(f.node(t, 2), false))
	assert.Equal(t, []int{w.ID()}, quarry.Assigned())
	assert.Equal(t, 3, quarry.Produced(), "harvest stops when the deposit is exhausted")
	assert.Equal(t, 3, f.colony.Stockpile(0).Amount(resource.Stone))
}

func TestRefineAction_ConvertsDeliveries(t *testing.T) {
	f := newFixture(t, 2)
	f.colony.Stockpile(0).Add(resource.Stone, 2)
	smelter, err := f.colony.AddRefinery(f.node(t, 2), resource.Stone, resource.Metal)
	require.NoError(t, err)
	f.spawn(t, 1, job.Logistics)

	f.step(t, 6)

	assert.Equal(t, 2, smelter.Refined())
	assert.Equal(t, 2, f.colony.Stockpile(0).Amount(resource.Metal))
	assert.Zero(t, f.colony.Stockpile(0).Amount(resource.Stone))
	assert.Empty(t, f.manager.PendingTasks(job.Logistics))
}

func TestShootAction_DefendersFireWhatLogisticsDelivers(t *testing.T) {
	f := newFixture(t, 2)
	f.colony.Stockpile(0).Add(resource.Ammo, 3)
	turret, err := f.colony.AddTurret(f.node(t, 2), 1, 2)
	require.NoError(t, err)
	f.spawn(t, 1, job.Defense)
	f.spawn(t, 1, job.Logistics)

	f.step(t, 10)

	assert.Equal(t, 3, turret.Shots())
	assert.Zero(t, turret.Magazine())
	assert.Zero(t, f.colony.Stockpile(0).Amount(resource.Ammo))
	assert.Equal(t, 1, f.manager.Workers(f.node(t, 2), true))
}

func TestMakeUnitAction_SpawnsIdleWorkers(t *testing.T) {
	f := newFixture(t, 2)
	barracks, err := f.colony.AddFactory(f.node(t, 2), resource.None, 1, 2)
	require.NoError(t, err)
	f.spawn(t, 1, job.Production)

	f.step(t, 2)

	assert.Equal(t, 1, barracks.Made())
	workers := f.colony.Workers()
	require.Len(t, workers, 2)
	assert.Equal(t, job.Idle, workers[1].Job())
	assert.Equal(t, 2, workers[1].CurrentNode().ID())
	assert.Len(t, f.manager.Pool(job.Idle), 1)
}

func TestWorker_JobChangeHandsBackDelivery(t *testing.T) {
	f := newFixture(t, 4)
	f.colony.Stockpile(0).Add(resource.Stone, 1)
	_, err := f.colony.AddRefinery(f.node(t, 4), resource.Stone, resource.Metal)
	require.NoError(t, err)
	w := f.spawn(t, 1, job.Logistics)

	f.step(t, 1)
	task, ok := w.CurrentTask()
	require.True(t, ok)
	require.Equal(t, resource.Stone, task.Resource())

	moved, err := f.manager.DistributeJobs(job.Logistics, job.Idle, 1)
	require.NoError(t, err)
	require.Equal(t, 1, moved)

	_, ok = w.CurrentTask()
	assert.False(t, ok)
	pending := f.manager.PendingTasks(job.Logistics)
	require.Len(t, pending, 1)
	assert.Equal(t, 4, pending[0].Target().ID())
}

func TestColony_KillPlatformIsIdempotent(t *testing.T) {
	// Arrange
	f := newFixture(t, 3)
	f.field.AddDeposit(resource.Water, shared.NewVector(2, 0), 100)
	well, err := f.colony.AddProducer(f.node(t, 2), resource.Water, 1, 1)
	require.NoError(t, err)
	worker := f.spawn(t, 1, job.Production)
	bystander := f.spawn(t, 3, job.Idle)
	f.step(t, 2)
	require.Equal(t, 2, worker.CurrentNode().ID())
	platform := f.node(t, 2)

	// Act
	first := f.colony.KillPlatform(platform)
	second := f.colony.KillPlatform(platform)

	// Assert
	assert.True(t, first)
	assert.False(t, second)
	assert.True(t, well.IsDead())
	assert.True(t, worker.IsDead())
	assert.False(t, f.manager.IsRegistered(worker))
	assert.True(t, platform.IsRemoved())
	assert.Empty(t, f.manager.Stats().Production)
	assert.Equal(t, 0, f.manager.Stats().Actions)

	standing := bystander.CurrentNode()
	require.NotEqual(t, platform, standing)
	f.step(t, 3)
	assert.False(t, bystander.IsDead())
	assert.Same(t, standing, bystander.CurrentNode(), "nodes 1 and 3 are isolated once node 2 is gone")
	f.colony.Prune()
	assert.Len(t, f.colony.Workers(), 1)
	assert.Empty(t, f.colony.Actions())
}

func TestWorker_DieIsIdempotent(t *testing.T) {
	f := newFixture(t, 2)
	w := f.spawn(t, 1, job.Idle)

	assert.True(t, f.colony.KillWorker(w.ID()))
	assert.False(t, f.colony.KillWorker(w.ID()))
	w.Die()

	assert.True(t, w.IsDead())
	assert.Empty(t, f.manager.Pool(job.Idle))
	assert.Zero(t, f.manager.Stats().Units)
}

func TestColony_ManualWorkersServeTheirAction(t *testing.T) {
	f := newFixture(t, 3)
	f.field.AddDeposit(resource.Metal, shared.NewVector(3, 0), 100)
	mine, err := f.colony.AddProducer(f.node(t, 3), resource.Metal, 0, 1)
	require.NoError(t, err)
	w := f.spawn(t, 1, job.Idle)

	pinned, err := f.manager.ManualAssign(1, mine, job.Idle)
	require.NoError(t, err)
	require.Equal(t, 1, pinned)
	f.step(t, 5)

	assert.Equal(t, job.Manual, w.Job())
	assert.Equal(t, 3, w.CurrentNode().ID())
	assert.Equal(t, 4, mine.Produced(), "two ticks of walking, then one harvest per tick")

	mine.Die()
	assert.Equal(t, job.Idle, w.Job(), "a dying action releases its manual workers")
	assert.False(t, f.manager.IsManual(w))
}
