package director_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/colony-go/internal/domain/director"
	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/routing"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

func newDirector(t *testing.T, seed int64) *director.Director {
	t.Helper()
	d, err := director.NewDirector(director.Config{Seed: seed, Pathfinder: routing.NewAStar(nil)})
	require.NoError(t, err)
	return d
}

func TestDirector_OneManagerPerGraph(t *testing.T) {
	// Arrange
	d := newDirector(t, 1)
	_, err := d.AddGraph(2)
	require.NoError(t, err)
	_, err = d.AddGraph(0)
	require.NoError(t, err)

	// Act
	m0, err0 := d.Manager(0)
	m2, err2 := d.Manager(2)
	_, errMissing := d.Manager(5)

	// Assert
	require.NoError(t, err0)
	require.NoError(t, err2)
	assert.NotSame(t, m0, m2)
	assert.Equal(t, 0, m0.GraphIndex())
	assert.Equal(t, 2, m2.GraphIndex())
	var unknown *shared.UnknownGraphError
	require.ErrorAs(t, errMissing, &unknown)
	assert.Equal(t, 5, unknown.GraphIndex)
	assert.Equal(t, []int{0, 2}, d.Indices())
}

func TestDirector_DuplicateGraphIndexRejected(t *testing.T) {
	d := newDirector(t, 1)
	_, err := d.AddGraph(1)
	require.NoError(t, err)

	_, err = d.AddGraph(1)

	var validation *shared.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestDirector_RequiresPathfinder(t *testing.T) {
	_, err := director.NewDirector(director.Config{})
	assert.Error(t, err)
}

func TestDirector_ManagerForNode(t *testing.T) {
	d := newDirector(t, 1)
	g, err := d.AddGraph(4)
	require.NoError(t, err)
	n, err := g.AddNode(1, shared.NewVector(0, 0), false)
	require.NoError(t, err)

	m, err := d.ManagerFor(n)

	require.NoError(t, err)
	assert.Same(t, g, m.Graph())
}

func TestDirector_FindPath(t *testing.T) {
	d := newDirector(t, 1)
	g, err := d.AddGraph(0)
	require.NoError(t, err)
	for id := 1; id <= 3; id++ {
		_, err := g.AddNode(id, shared.NewVector(float64(id), 0), false)
		require.NoError(t, err)
	}
	require.NoError(t, g.Connect(1, 2, false))
	require.NoError(t, g.Connect(2, 3, false))

	route, ok, err := d.FindPath(0, 1, 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, route.IDs())

	_, _, err = d.FindPath(0, 1, 9)
	assert.True(t, shared.IsInvalidArgument(err))
	_, _, err = d.FindPath(7, 1, 3)
	assert.True(t, shared.IsInvalidArgument(err))
}

type walker struct {
	id   int
	job  job.Type
	node *graph.Node
}

func (w *walker) ID() int                          { return w.id }
func (w *walker) Job() job.Type                    { return w.job }
func (w *walker) SetJob(j job.Type)                { w.job = j }
func (w *walker) CurrentNode() *graph.Node         { return w.node }
func (w *walker) ChangeHomeTask(distribution.Task) {}
func (w *walker) ClearHomeTask()                   {}

func TestDirector_SeedMakesWanderingReproducible(t *testing.T) {
	walk := func() []int {
		d := newDirector(t, 99)
		g, err := d.AddGraph(0)
		require.NoError(t, err)
		for id := 1; id <= 5; id++ {
			_, err := g.AddNode(id, shared.NewVector(float64(id), 0), false)
			require.NoError(t, err)
		}
		for id := 2; id <= 5; id++ {
			require.NoError(t, g.Connect(1, id, false))
		}
		hub, err := g.Node(1)
		require.NoError(t, err)
		m, err := d.Manager(0)
		require.NoError(t, err)

		u := &walker{id: 1, node: hub}
		require.NoError(t, m.RegisterUnit(u))
		var targets []int
		for i := 0; i < 10; i++ {
			task, ok, err := m.RequestNewTask(u, job.Idle, nil)
			require.NoError(t, err)
			require.True(t, ok)
			targets = append(targets, task.Target().ID())
		}
		return targets
	}

	assert.Equal(t, walk(), walk())
}
