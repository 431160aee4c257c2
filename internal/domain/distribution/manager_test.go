package distribution_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/resource"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// lineGraph builds nodes 1..n at (i, 0) joined by two-way roads
func lineGraph(t *testing.T, n int) *graph.Graph {
	t.Helper()
	g := graph.NewGraph(0)
	for id := 1; id <= n; id++ {
		_, err := g.AddNode(id, shared.NewVector(float64(id), 0), false)
		require.NoError(t, err)
		if id > 1 {
			require.NoError(t, g.Connect(id-1, id, false))
		}
	}
	return g
}

func node(t *testing.T, g *graph.Graph, id int) *graph.Node {
	t.Helper()
	n, err := g.Node(id)
	require.NoError(t, err)
	return n
}

func newManager(g *graph.Graph, sink distribution.EventSink) *distribution.Manager {
	opts := []distribution.Option{distribution.WithRand(rand.New(rand.NewSource(42)))}
	if sink != nil {
		opts = append(opts, distribution.WithEventSink(sink))
	}
	return distribution.NewManager(g, opts...)
}

func registerUnits(t *testing.T, m *distribution.Manager, at *graph.Node, count int) []*fakeUnit {
	t.Helper()
	units := make([]*fakeUnit, count)
	for i := range units {
		units[i] = newFakeUnit(i+1, at)
		require.NoError(t, m.RegisterUnit(units[i]))
	}
	return units
}

// staffRoundRobin homes units on platforms in turn through the request/dispatch protocol
func staffRoundRobin(t *testing.T, m *distribution.Manager, platforms []*graph.Node, units []*fakeUnit, isDefense bool) {
	t.Helper()
	category := job.Production
	if isDefense {
		category = job.Defense
	}
	for i, u := range units {
		platform := platforms[i%len(platforms)]
		require.NoError(t, m.SetUnitJob(u, category))

		queued, err := m.RequestUnits(platform, category, nil, isDefense)
		require.NoError(t, err)
		require.True(t, queued, "request for platform %d refused", platform.ID())

		task, ok, err := m.RequestNewTask(u, category, nil)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, platform, task.Target())
	}
}

func TestManager_RegisterUnitJoinsIdlePool(t *testing.T) {
	// Arrange
	g := lineGraph(t, 2)
	m := newManager(g, nil)
	u := newFakeUnit(7, node(t, g, 1))
	u.job = job.Logistics

	// Act
	require.NoError(t, m.RegisterUnit(u))
	require.NoError(t, m.RegisterUnit(u))

	// Assert
	assert.Equal(t, job.Idle, u.Job())
	assert.Len(t, m.Pool(job.Idle), 1)
	assert.Equal(t, 1, m.Stats().Units)
}

func TestManager_RegisterUnitFromAnotherGraphFails(t *testing.T) {
	m := newManager(lineGraph(t, 2), nil)
	other := graph.NewGraph(3)
	foreign, err := other.AddNode(1, shared.NewVector(0, 0), false)
	require.NoError(t, err)

	err = m.RegisterUnit(newFakeUnit(1, foreign))

	var unknown *shared.UnknownNodeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, 1, unknown.NodeID)
	assert.Equal(t, 0, unknown.GraphIndex)
	assert.Empty(t, m.Pool(job.Idle))
}

func TestManager_RegisterPlatformRebalancesThreeToFour(t *testing.T) {
	// Arrange
	g := lineGraph(t, 5)
	log := &eventLog{}
	m := newManager(g, log)
	p1, p2, p3, p4 := node(t, g, 1), node(t, g, 2), node(t, g, 3), node(t, g, 4)
	for _, p := range []*graph.Node{p1, p2, p3} {
		_, err := m.RegisterPlatform(p, false)
		require.NoError(t, err)
	}
	units := registerUnits(t, m, node(t, g, 5), 9)
	staffRoundRobin(t, m, []*graph.Node{p1, p2, p3}, units, false)
	require.Equal(t, 3, m.Workers(p1, false))

	// Act
	transferred, err := m.RegisterPlatform(p4, false)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, transferred)
	total := 0
	for _, p := range []*graph.Node{p1, p2, p3, p4} {
		count := m.Workers(p, false)
		assert.GreaterOrEqual(t, count, 2, "platform %d", p.ID())
		assert.LessOrEqual(t, count, 3, "platform %d", p.ID())
		total += count
	}
	assert.Equal(t, 9, total)
	assert.Equal(t, 2, m.Workers(p4, false))
	assert.Equal(t, 2, log.count(distribution.EventTransfer))

	for _, u := range units {
		assert.Equal(t, job.Production, u.Job(), "transfers keep the job")
		home, ok := m.HomeOf(u)
		require.True(t, ok)
		assert.Equal(t, home, u.home.Target())
	}
}

func TestManager_RebalanceTakesFromBusiestEarliestPlatform(t *testing.T) {
	g := lineGraph(t, 4)
	m := newManager(g, nil)
	p1, p2, p3 := node(t, g, 1), node(t, g, 2), node(t, g, 3)
	for _, p := range []*graph.Node{p1, p2} {
		_, err := m.RegisterPlatform(p, true)
		require.NoError(t, err)
	}
	units := registerUnits(t, m, node(t, g, 4), 4)
	staffRoundRobin(t, m, []*graph.Node{p1, p2}, units, true)

	transferred, err := m.RegisterPlatform(p3, true)

	require.NoError(t, err)
	assert.Equal(t, 1, transferred)
	assert.Equal(t, 1, m.Workers(p1, true))
	assert.Equal(t, 2, m.Workers(p2, true))
	assert.Equal(t, 1, m.Workers(p3, true))
	assert.Equal(t, 0, m.Workers(p3, false), "categories are tallied separately")
}

func TestManager_RebalanceMovesHomeActionAssignment(t *testing.T) {
	g := lineGraph(t, 3)
	m := newManager(g, nil)
	p1, p2 := node(t, g, 1), node(t, g, 2)
	a1 := newFakeAction(1, p1, job.Production)
	a2 := newFakeAction(2, p2, job.Production)
	require.NoError(t, m.RegisterAction(a1))
	require.NoError(t, m.RegisterAction(a2))
	_, err := m.RegisterPlatform(p1, false)
	require.NoError(t, err)

	units := registerUnits(t, m, node(t, g, 3), 2)
	for _, u := range units {
		require.NoError(t, m.SetUnitJob(u, job.Production))
		queued, err := m.RequestUnits(p1, job.Production, a1, false)
		require.NoError(t, err)
		require.True(t, queued)
		_, ok, err := m.RequestNewTask(u, job.Production, nil)
		require.NoError(t, err)
		require.True(t, ok)
	}
	require.Len(t, a1.assigned, 2)

	_, err = m.RegisterPlatform(p2, false)

	require.NoError(t, err)
	assert.Len(t, a1.assigned, 1)
	assert.Len(t, a2.assigned, 1)
	moved := units[1]
	assert.Equal(t, job.Production, a2.assigned[moved.ID()])
	assert.Same(t, a2, moved.home.Action())
	assert.Equal(t, []int{moved.ID()}, a1.kills)
}

func TestManager_FairnessBoundAfterRegistration(t *testing.T) {
	for platforms := 1; platforms <= 6; platforms++ {
		for workers := 0; workers <= 20; workers++ {
			g := lineGraph(t, platforms+2)
			m := newManager(g, nil)

			existing := make([]*graph.Node, platforms)
			for i := range existing {
				existing[i] = node(t, g, i+1)
				_, err := m.RegisterPlatform(existing[i], false)
				require.NoError(t, err)
			}
			units := registerUnits(t, m, node(t, g, platforms+2), workers)
			staffRoundRobin(t, m, existing, units, false)

			newcomer := node(t, g, platforms+1)
			_, err := m.RegisterPlatform(newcomer, false)
			require.NoError(t, err)

			average := float64(workers) / float64(platforms+1)
			total, lowest, highest := 0, math.MaxInt, 0
			for _, p := range append(existing, newcomer) {
				c := m.Workers(p, false)
				total += c
				if c < lowest {
					lowest = c
				}
				if c > highest {
					highest = c
				}
				assert.LessOrEqual(t, math.Abs(float64(c)-average), 1.0,
					"platforms=%d workers=%d platform=%d count=%d", platforms, workers, p.ID(), c)
			}
			assert.Equal(t, workers, total)
			assert.LessOrEqual(t, highest-lowest, 1, "platforms=%d workers=%d", platforms, workers)
		}
	}
}

func TestManager_RegisterPlatformTwiceIsNoOp(t *testing.T) {
	g := lineGraph(t, 2)
	m := newManager(g, nil)

	_, err := m.RegisterPlatform(node(t, g, 1), false)
	require.NoError(t, err)
	transferred, err := m.RegisterPlatform(node(t, g, 1), false)

	require.NoError(t, err)
	assert.Zero(t, transferred)
	assert.Len(t, m.Stats().Production, 1)
}

func TestManager_ConstructionQueueIsFIFO(t *testing.T) {
	// Arrange
	g := lineGraph(t, 3)
	m := newManager(g, nil)
	x, y := node(t, g, 1), node(t, g, 2)
	units := registerUnits(t, m, node(t, g, 3), 2)

	ok, err := m.RequestResource(x, resource.Stone, nil, true)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = m.RequestResource(y, resource.Metal, nil, true)
	require.NoError(t, err)
	require.True(t, ok)

	moved, err := m.DistributeJobs(job.Idle, job.Construction, 2)
	require.NoError(t, err)
	require.Equal(t, 2, moved)

	// Act
	first, ok1, err1 := m.RequestNewTask(units[0], job.Construction, nil)
	second, ok2, err2 := m.RequestNewTask(units[1], job.Construction, nil)
	_, ok3, err3 := m.RequestNewTask(units[0], job.Construction, nil)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.NoError(t, err3)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.False(t, ok3, "an empty queue means no work, not an error")
	assert.Equal(t, x, first.Target())
	assert.Equal(t, resource.Stone, first.Resource())
	assert.Equal(t, y, second.Target())
	assert.Equal(t, job.Construction, second.Job())
}

func TestManager_LogisticsQueueKeepsEnqueueOrder(t *testing.T) {
	g := lineGraph(t, 4)
	m := newManager(g, nil)
	u := registerUnits(t, m, node(t, g, 4), 1)[0]
	require.NoError(t, m.SetUnitJob(u, job.Logistics))

	for id := 1; id <= 3; id++ {
		ok, err := m.RequestResource(node(t, g, id), resource.Water, nil, false)
		require.NoError(t, err)
		require.True(t, ok)
	}

	var order []int
	for {
		task, ok, err := m.RequestNewTask(u, job.Logistics, nil)
		require.NoError(t, err)
		if !ok {
			break
		}
		order = append(order, task.Target().ID())
	}
	assert.Equal(t, []int{1, 2, 3}, order)
	assert.Empty(t, m.PendingTasks(job.Construction), "logistics requests stay out of the build queue")
}

func TestManager_RequestUnitsAdmissionControl(t *testing.T) {
	// Arrange
	g := lineGraph(t, 4)
	m := newManager(g, nil)
	p1, p2 := node(t, g, 1), node(t, g, 2)
	for _, p := range []*graph.Node{p1, p2} {
		_, err := m.RegisterPlatform(p, false)
		require.NoError(t, err)
	}
	units := registerUnits(t, m, node(t, g, 4), 4)
	staffRoundRobin(t, m, []*graph.Node{p1, p2}, units[:3], false)
	require.NoError(t, m.SetUnitJob(units[3], job.Production))
	require.Equal(t, 2, m.Workers(p1, false))
	require.Equal(t, 1, m.FairShare(false))

	// Act
	refused, err := m.RequestUnits(p1, job.Production, nil, false)

	// Assert
	require.NoError(t, err)
	assert.False(t, refused)
	assert.Empty(t, m.PendingTasks(job.Production))
	_, ok, err := m.RequestNewTask(units[3], job.Production, nil)
	require.NoError(t, err)
	assert.False(t, ok, "a refused request is never dispatched")

	accepted, err := m.RequestUnits(p2, job.Production, nil, false)
	require.NoError(t, err)
	assert.True(t, accepted)
}

func TestManager_RequestUnitsRejectsBadArguments(t *testing.T) {
	g := lineGraph(t, 2)
	m := newManager(g, nil)
	p := node(t, g, 1)
	_, err := m.RegisterPlatform(p, false)
	require.NoError(t, err)

	_, err = m.RequestUnits(p, job.Defense, nil, false)
	var jobErr *shared.InvalidJobError
	assert.ErrorAs(t, err, &jobErr)

	_, err = m.RequestUnits(p, job.Production, nil, true)
	assert.ErrorAs(t, err, &jobErr)

	_, err = m.RequestUnits(p, job.Defense, nil, true)
	var platformErr *shared.UnknownPlatformError
	require.ErrorAs(t, err, &platformErr)
	assert.Equal(t, 1, platformErr.PlatformID)
	assert.True(t, shared.IsInvalidArgument(err))
}

func TestManager_IdleUnitsWanderToTraversableNeighbours(t *testing.T) {
	g := lineGraph(t, 3)
	_, err := g.AddNode(4, shared.NewVector(2, 1), true)
	require.NoError(t, err)
	require.NoError(t, g.Connect(2, 4, false))
	m := newManager(g, nil)
	middle := node(t, g, 2)
	u := registerUnits(t, m, middle, 1)[0]

	seen := make(map[int]bool)
	for i := 0; i < 100; i++ {
		task, ok, err := m.RequestNewTask(u, job.Idle, nil)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, job.Idle, task.Job())
		assert.False(t, task.HasAction())
		seen[task.Target().ID()] = true
	}
	assert.Equal(t, map[int]bool{1: true, 3: true}, seen)
}

func TestManager_IsolatedIdleUnitStaysPut(t *testing.T) {
	g := graph.NewGraph(0)
	lonely, err := g.AddNode(1, shared.NewVector(0, 0), false)
	require.NoError(t, err)
	m := newManager(g, nil)
	u := registerUnits(t, m, lonely, 1)[0]
	passThrough := newFakeAction(9, lonely)

	task, ok, err := m.RequestNewTask(u, job.Idle, passThrough)

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, lonely, task.Target())
	assert.Same(t, passThrough, task.Action())
}

func TestManager_RequestNewTaskRejectsManualAndUnknownJobs(t *testing.T) {
	g := lineGraph(t, 2)
	m := newManager(g, nil)
	u := registerUnits(t, m, node(t, g, 1), 1)[0]

	for _, j := range []job.Type{job.Manual, job.Type(42)} {
		_, ok, err := m.RequestNewTask(u, j, nil)
		assert.False(t, ok)
		var jobErr *shared.InvalidJobError
		assert.ErrorAs(t, err, &jobErr, "job %s", j)
	}

	_, _, err := m.RequestNewTask(u, job.Logistics, nil)
	assert.True(t, shared.IsInvalidArgument(err), "an idle unit cannot pull logistics work")

	_, _, err = m.RequestNewTask(newFakeUnit(99, node(t, g, 1)), job.Idle, nil)
	assert.True(t, shared.IsInvalidArgument(err))
}

func TestManager_PausedActionsGetNoWork(t *testing.T) {
	// Arrange
	g := lineGraph(t, 3)
	m := newManager(g, nil)
	site := node(t, g, 1)
	build := newFakeAction(1, site, job.Construction)
	require.NoError(t, m.RegisterAction(build))
	u := registerUnits(t, m, node(t, g, 3), 1)[0]
	require.NoError(t, m.SetUnitJob(u, job.Construction))

	queued, err := m.RequestResource(site, resource.Stone, build, true)
	require.NoError(t, err)
	require.True(t, queued)

	// Act
	m.PausePlatformAction(build)
	refused, err := m.RequestResource(site, resource.Stone, build, true)
	require.NoError(t, err)
	_, ok, err := m.RequestNewTask(u, job.Construction, nil)
	require.NoError(t, err)

	// Assert
	assert.False(t, refused)
	assert.False(t, ok, "the task queued before the pause is discarded")
	assert.Empty(t, m.PendingTasks(job.Construction))

	m.ResumePlatformAction(build)
	queued, err = m.RequestResource(site, resource.Stone, build, true)
	require.NoError(t, err)
	require.True(t, queued)
	task, ok, err := m.RequestNewTask(u, job.Construction, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, build, task.Action())
}

func TestManager_UnregisteredActionTasksAreSkipped(t *testing.T) {
	g := lineGraph(t, 3)
	m := newManager(g, nil)
	first := newFakeAction(1, node(t, g, 1), job.Logistics)
	second := newFakeAction(2, node(t, g, 2), job.Logistics)
	require.NoError(t, m.RegisterAction(first))
	require.NoError(t, m.RegisterAction(second))
	u := registerUnits(t, m, node(t, g, 3), 1)[0]
	require.NoError(t, m.SetUnitJob(u, job.Logistics))

	for _, a := range []*fakeAction{first, second} {
		ok, err := m.RequestResource(a.Node(), resource.Metal, a, false)
		require.NoError(t, err)
		require.True(t, ok)
	}
	m.UnregisterAction(first)

	task, ok, err := m.RequestNewTask(u, job.Logistics, nil)

	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, second, task.Action())
	assert.False(t, m.IsEligible(first))
}

func TestManager_DistributeJobsMovesRandomSubset(t *testing.T) {
	g := lineGraph(t, 2)
	log := &eventLog{}
	m := newManager(g, log)
	units := registerUnits(t, m, node(t, g, 1), 10)

	moved, err := m.DistributeJobs(job.Idle, job.Logistics, 4)

	require.NoError(t, err)
	assert.Equal(t, 4, moved)
	assert.Len(t, m.Pool(job.Logistics), 4)
	assert.Len(t, m.Pool(job.Idle), 6)
	logistics := 0
	for _, u := range units {
		if u.Job() == job.Logistics {
			logistics++
		}
	}
	assert.Equal(t, 4, logistics)
	assert.Equal(t, 4, log.count(distribution.EventJobChange))

	moved, err = m.DistributeJobs(job.Idle, job.Construction, 50)
	require.NoError(t, err)
	assert.Equal(t, 6, moved, "capped at pool size")
}

func TestManager_DistributeJobsIsReproducibleWithSeed(t *testing.T) {
	pick := func() []int {
		g := lineGraph(t, 2)
		m := newManager(g, nil)
		registerUnits(t, m, node(t, g, 1), 12)
		_, err := m.DistributeJobs(job.Idle, job.Construction, 5)
		require.NoError(t, err)
		var ids []int
		for _, u := range m.Pool(job.Construction) {
			ids = append(ids, u.ID())
		}
		return ids
	}

	assert.Equal(t, pick(), pick())
}

func TestManager_DistributeJobsFairnessGovernedIsNoOp(t *testing.T) {
	g := lineGraph(t, 2)
	m := newManager(g, nil)
	registerUnits(t, m, node(t, g, 1), 3)

	moved, err := m.DistributeJobs(job.Idle, job.Production, 2)
	require.NoError(t, err)
	assert.Zero(t, moved)
	assert.Len(t, m.Pool(job.Idle), 3)

	moved, err = m.DistributeJobs(job.Defense, job.Idle, 2)
	require.NoError(t, err)
	assert.Zero(t, moved)

	_, err = m.DistributeJobs(job.Manual, job.Idle, 1)
	assert.True(t, shared.IsInvalidArgument(err))
	_, err = m.DistributeJobs(job.Idle, job.Logistics, -1)
	assert.True(t, shared.IsInvalidArgument(err))
}

func TestManager_ManualAssignmentsSurviveRebalance(t *testing.T) {
	// Arrange
	g := lineGraph(t, 4)
	log := &eventLog{}
	m := newManager(g, log)
	p1, p2, workshop := node(t, g, 1), node(t, g, 2), node(t, g, 3)
	_, err := m.RegisterPlatform(p1, false)
	require.NoError(t, err)
	units := registerUnits(t, m, node(t, g, 4), 4)
	staffRoundRobin(t, m, []*graph.Node{p1}, units[:2], false)
	refinery := newFakeAction(5, workshop, job.Logistics)

	// Act
	pinned, err := m.ManualAssign(1, refinery, job.Production)
	require.NoError(t, err)
	idlePinned, err := m.ManualAssign(5, refinery, job.Idle)
	require.NoError(t, err)
	_, err = m.RegisterPlatform(p2, false)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 1, pinned)
	assert.Equal(t, 2, idlePinned)
	assert.Len(t, m.Pool(job.Manual), 3)
	assert.Len(t, refinery.assigned, 3)
	assert.Equal(t, 1, m.Workers(p1, false), "the pinned producer left the tally")
	assert.Equal(t, 0, m.Workers(p2, false), "fair share of one worker over two platforms is zero")
	for _, u := range m.Pool(job.Manual) {
		assert.Equal(t, job.Manual, u.Job())
		assert.True(t, m.IsManual(u))
		assert.Same(t, refinery, u.(*fakeUnit).home.Action())
	}
	assert.Equal(t, 3, log.count(distribution.EventManualAssign))
}

func TestManager_ManualUnassignReturnsWorkersToPool(t *testing.T) {
	g := lineGraph(t, 3)
	m := newManager(g, nil)
	units := registerUnits(t, m, node(t, g, 1), 3)
	smithy := newFakeAction(1, node(t, g, 2), job.Production)
	other := newFakeAction(2, node(t, g, 3), job.Production)
	_, err := m.ManualAssign(2, smithy, job.Idle)
	require.NoError(t, err)
	_, err = m.ManualAssign(1, other, job.Idle)
	require.NoError(t, err)

	released, err := m.ManualUnassign(job.Logistics, 5, smithy)

	require.NoError(t, err)
	assert.Equal(t, 2, released)
	assert.Len(t, m.Pool(job.Logistics), 2)
	assert.Len(t, m.Pool(job.Manual), 1)
	assert.Empty(t, smithy.assigned)
	assert.Len(t, other.assigned, 1)
	for _, u := range units[:2] {
		assert.Equal(t, job.Logistics, u.Job())
		assert.False(t, u.hasHome)
	}

	_, err = m.ManualUnassign(job.Manual, 1, other)
	var jobErr *shared.InvalidJobError
	assert.ErrorAs(t, err, &jobErr)
}

func TestManager_KillUnitIsIdempotent(t *testing.T) {
	// Arrange
	g := lineGraph(t, 3)
	log := &eventLog{}
	m := newManager(g, log)
	p := node(t, g, 1)
	_, err := m.RegisterPlatform(p, false)
	require.NoError(t, err)
	mine := newFakeAction(1, p, job.Production)
	require.NoError(t, m.RegisterAction(mine))
	units := registerUnits(t, m, node(t, g, 3), 2)
	require.NoError(t, m.SetUnitJob(units[0], job.Production))
	queued, err := m.RequestUnits(p, job.Production, mine, false)
	require.NoError(t, err)
	require.True(t, queued)
	_, ok, err := m.RequestNewTask(units[0], job.Production, nil)
	require.NoError(t, err)
	require.True(t, ok)

	// Act
	first := m.KillUnit(units[0])
	statsAfterFirst := m.Stats()
	second := m.KillUnit(units[0])

	// Assert
	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, statsAfterFirst, m.Stats())
	assert.Equal(t, 0, m.Workers(p, false))
	assert.Empty(t, mine.assigned)
	assert.Equal(t, []int{units[0].ID()}, mine.kills)
	assert.Equal(t, 1, m.Stats().Units)
	assert.Equal(t, 1, log.count(distribution.EventUnitDeath))

	_, _, err = m.RequestNewTask(units[0], job.Idle, nil)
	assert.True(t, shared.IsInvalidArgument(err), "dead units are unknown to the manager")
}

func TestManager_KillManualUnitNotifiesAction(t *testing.T) {
	g := lineGraph(t, 2)
	m := newManager(g, nil)
	u := registerUnits(t, m, node(t, g, 1), 1)[0]
	turret := newFakeAction(1, node(t, g, 2), job.Defense)
	_, err := m.ManualAssign(1, turret, job.Idle)
	require.NoError(t, err)

	assert.True(t, m.KillUnit(u))
	assert.False(t, m.KillUnit(u))
	assert.Empty(t, turret.assigned)
	assert.Empty(t, m.Pool(job.Manual))
	assert.Equal(t, []int{u.ID()}, turret.kills)
}

func TestManager_KillPlatformIsIdempotent(t *testing.T) {
	// Arrange
	g := lineGraph(t, 4)
	log := &eventLog{}
	m := newManager(g, log)
	p1, p2 := node(t, g, 1), node(t, g, 2)
	for _, p := range []*graph.Node{p1, p2} {
		_, err := m.RegisterPlatform(p, false)
		require.NoError(t, err)
	}
	units := registerUnits(t, m, node(t, g, 4), 4)
	staffRoundRobin(t, m, []*graph.Node{p1, p2}, units[:2], false)
	turret := newFakeAction(3, p1, job.Defense)
	require.NoError(t, m.RegisterAction(turret))
	_, err := m.ManualAssign(1, turret, job.Idle)
	require.NoError(t, err)
	_, err = m.RequestResource(p1, resource.Ammo, nil, false)
	require.NoError(t, err)
	_, err = m.RequestUnits(p1, job.Production, nil, false)
	require.NoError(t, err)
	_, err = m.RequestResource(p2, resource.Ammo, nil, false)
	require.NoError(t, err)

	// Act
	first := m.KillPlatform(p1)
	statsAfterFirst := m.Stats()
	second := m.KillPlatform(p1)

	// Assert
	assert.True(t, first)
	assert.False(t, second)
	assert.Equal(t, statsAfterFirst, m.Stats())
	assert.Len(t, statsAfterFirst.Production, 1)
	assert.Equal(t, 0, statsAfterFirst.Queues[job.Production])
	assert.Equal(t, 1, statsAfterFirst.Queues[job.Logistics], "only requests for the dead platform are dropped")
	assert.Equal(t, 0, statsAfterFirst.Manual)
	assert.Equal(t, 0, statsAfterFirst.Actions)

	orphan := units[0]
	assert.False(t, orphan.hasHome)
	assert.Equal(t, job.Production, orphan.Job(), "orphans keep their job")
	_, homed := m.HomeOf(orphan)
	assert.False(t, homed)
	assert.Equal(t, job.Idle, units[2].Job(), "manual workers return to the pool they came from")
	assert.Equal(t, 1, log.count(distribution.EventPlatformDeath))
}

func TestManager_DeadPlatformTasksAreSkippedAfterNodeRemoval(t *testing.T) {
	g := lineGraph(t, 3)
	m := newManager(g, nil)
	u := registerUnits(t, m, node(t, g, 3), 1)[0]
	require.NoError(t, m.SetUnitJob(u, job.Logistics))
	doomed := node(t, g, 1)
	_, err := m.RequestResource(doomed, resource.Water, nil, false)
	require.NoError(t, err)
	_, err = m.RequestResource(node(t, g, 2), resource.Water, nil, false)
	require.NoError(t, err)

	g.RemoveNode(doomed.ID())
	task, ok, err := m.RequestNewTask(u, job.Logistics, nil)

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, task.Target().ID())
}

func TestManager_SetUnitJobReleasesHome(t *testing.T) {
	g := lineGraph(t, 2)
	m := newManager(g, nil)
	p := node(t, g, 1)
	_, err := m.RegisterPlatform(p, true)
	require.NoError(t, err)
	u := registerUnits(t, m, node(t, g, 2), 1)[0]
	staffRoundRobin(t, m, []*graph.Node{p}, []*fakeUnit{u}, true)
	require.True(t, u.hasHome)

	require.NoError(t, m.SetUnitJob(u, job.Construction))

	assert.Equal(t, job.Construction, u.Job())
	assert.False(t, u.hasHome)
	assert.Equal(t, 0, m.Workers(p, true))
	assert.Len(t, m.Pool(job.Construction), 1)
	assert.Empty(t, m.Pool(job.Defense))

	err = m.SetUnitJob(u, job.Manual)
	var jobErr *shared.InvalidJobError
	assert.ErrorAs(t, err, &jobErr)
}

func TestManager_TasksCarryTick(t *testing.T) {
	g := lineGraph(t, 2)
	ticker := &shared.TickCounter{}
	m := distribution.NewManager(g, distribution.WithTicker(ticker))
	ticker.Advance()
	ticker.Advance()

	_, err := m.RequestResource(node(t, g, 1), resource.Stone, nil, true)
	require.NoError(t, err)

	tasks := m.PendingTasks(job.Construction)
	require.Len(t, tasks, 1)
	assert.Equal(t, shared.Tick(2), tasks[0].IssuedAt())
	assert.NotEmpty(t, tasks[0].ID())
}
