package distribution

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/andrescamacho/colony-go/internal/domain/graph"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/domain/resource"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// Manager is the distribution engine of a single graph. It owns the worker
// pools, the FIFO task queues and the per-platform tallies of the fairness
// governed categories; workers and actions only reach them through its
// methods.
//
// A Manager is not safe for concurrent use. The simulation drives it from a
// single goroutine, one tick at a time.
type Manager struct {
	graph    *graph.Graph
	rng      *rand.Rand
	ticker   *shared.TickCounter
	clock    shared.Clock
	logger   Logger
	recorder Recorder
	sink     EventSink

	units       map[int]Unit
	pools       map[job.Type]*unitPool
	manual      map[int]manualAssignment
	manualOrder *unitPool
	queues      map[job.Type]*Queue[Task]
	tallies     map[job.Type]*tally
	homeActions map[int]Action

	actions map[int]Action
	paused  map[int]bool
}

type manualAssignment struct {
	unit     Unit
	action   Action
	original job.Type
}

// Option configures a Manager
type Option func(*Manager)

// WithRand sets the random source used for idle wandering and bulk job changes
func WithRand(rng *rand.Rand) Option {
	return func(m *Manager) { m.rng = rng }
}

// WithTicker sets the tick counter stamped on tasks and events
func WithTicker(ticker *shared.TickCounter) Option {
	return func(m *Manager) { m.ticker = ticker }
}

func WithClock(clock shared.Clock) Option {
	return func(m *Manager) { m.clock = clock }
}

func WithLogger(logger Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

func WithRecorder(recorder Recorder) Option {
	return func(m *Manager) { m.recorder = recorder }
}

func WithEventSink(sink EventSink) Option {
	return func(m *Manager) { m.sink = sink }
}

// NewManager creates the distribution engine for g. Without WithRand the
// random source is seeded with the graph index.
func NewManager(g *graph.Graph, opts ...Option) *Manager {
	m := &Manager{
		graph:       g,
		ticker:      &shared.TickCounter{},
		clock:       &shared.RealClock{},
		logger:      noOpLogger{},
		recorder:    noOpRecorder{},
		sink:        noOpSink{},
		units:       make(map[int]Unit),
		pools:       make(map[job.Type]*unitPool),
		manual:      make(map[int]manualAssignment),
		manualOrder: newUnitPool(),
		queues:      make(map[job.Type]*Queue[Task]),
		tallies: map[job.Type]*tally{
			job.Production: newTally(job.Production),
			job.Defense:    newTally(job.Defense),
		},
		homeActions: make(map[int]Action),
		actions:     make(map[int]Action),
		paused:      make(map[int]bool),
	}
	for _, j := range job.Distributable {
		m.pools[j] = newUnitPool()
		if j.IsQueued() {
			m.queues[j] = NewQueue[Task]()
		}
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(int64(g.Index())))
	}
	return m
}

// Graph returns the graph this manager schedules
func (m *Manager) Graph() *graph.Graph { return m.graph }

// GraphIndex returns the index of the scheduled graph
func (m *Manager) GraphIndex() int { return m.graph.Index() }

// ---------------------------------------------------------------------------
// Registration
// ---------------------------------------------------------------------------

// RegisterUnit adds a new worker to the Idle pool.
// Registering a unit twice is a no-op.
func (m *Manager) RegisterUnit(u Unit) error {
	if u == nil {
		return shared.NewInvalidArgumentError("unit cannot be nil")
	}
	if _, exists := m.units[u.ID()]; exists {
		return nil
	}
	if node := u.CurrentNode(); node != nil && !m.graph.Contains(node) {
		return shared.NewUnknownNodeError(node.ID(), m.graph.Index())
	}

	m.units[u.ID()] = u
	m.pools[job.Idle].add(u)
	u.SetJob(job.Idle)
	return nil
}

// IsRegistered reports whether the unit belongs to this manager's pools
func (m *Manager) IsRegistered(u Unit) bool {
	if u == nil {
		return false
	}
	_, exists := m.units[u.ID()]
	return exists
}

// RegisterPlatform adds a production or defense platform and rebalances its
// category.
//
// Algorithm:
//  1. Register the platform with an empty worker count
//  2. fairShare = workers of the category / platforms of the category
//  3. Repeat fairShare times: take the newest worker of the busiest other
//     platform (earliest registered on ties) and re-home it on the new one
//
// Business Rules:
//   - Transferred workers keep their job, only their home task changes
//   - Manual workers are not part of any tally and never move
//   - A transfer never leaves the donor with fewer workers than the new platform
//
// Returns the number of transferred workers. Registering a platform twice is a no-op.
func (m *Manager) RegisterPlatform(platform *graph.Node, isDefense bool) (int, error) {
	if err := m.checkNode(platform); err != nil {
		return 0, err
	}

	t := m.tallyFor(isDefense)
	if !t.register(platform) {
		return 0, nil
	}

	share := t.fairShare()
	transferred := 0
	for transferred < share {
		donor := t.busiest(platform)
		if donor == nil || t.count(donor) <= t.count(platform) {
			break
		}
		u, _ := t.newest(donor)
		m.rehome(u, t, platform, EventTransfer)
		m.recorder.RecordTransfer(m.GraphIndex(), t.category)
		transferred++
	}

	m.logger.Log("INFO", "Platform registered", map[string]interface{}{
		"graph":       m.GraphIndex(),
		"platform":    platform.ID(),
		"category":    t.category.String(),
		"fair_share":  share,
		"transferred": transferred,
	})
	return transferred, nil
}

// RegisterAction makes an action eligible for task generation
func (m *Manager) RegisterAction(a Action) error {
	if a == nil {
		return shared.NewInvalidArgumentError("action cannot be nil")
	}
	if err := m.checkNode(a.Node()); err != nil {
		return err
	}
	m.actions[a.ID()] = a
	return nil
}

// UnregisterAction removes an action from task generation. Tasks it already
// queued are discarded when they reach the front of their queue.
func (m *Manager) UnregisterAction(a Action) {
	if a == nil {
		return
	}
	delete(m.actions, a.ID())
	delete(m.paused, a.ID())
}

// PausePlatformAction excludes a registered action from future task
// generation without unregistering it
func (m *Manager) PausePlatformAction(a Action) {
	if a == nil {
		return
	}
	if _, registered := m.actions[a.ID()]; registered {
		m.paused[a.ID()] = true
	}
}

// ResumePlatformAction lifts a pause
func (m *Manager) ResumePlatformAction(a Action) {
	if a == nil {
		return
	}
	delete(m.paused, a.ID())
}

// IsEligible reports whether the action is registered and not paused
func (m *Manager) IsEligible(a Action) bool {
	if a == nil {
		return false
	}
	_, registered := m.actions[a.ID()]
	return registered && !m.paused[a.ID()]
}

// ---------------------------------------------------------------------------
// Job changes
// ---------------------------------------------------------------------------

// DistributeJobs moves up to amount workers from oldJob's pool to newJob's,
// chosen uniformly at random without replacement.
//
// Bulk changes into or out of Production and Defense are not implemented;
// the call logs and returns 0. Manual is rejected on either side.
func (m *Manager) DistributeJobs(oldJob, newJob job.Type, amount int) (int, error) {
	if !oldJob.IsValid() || oldJob == job.Manual {
		return 0, shared.NewInvalidJobError("DistributeJobs", oldJob.String())
	}
	if !newJob.IsValid() || newJob == job.Manual {
		return 0, shared.NewInvalidJobError("DistributeJobs", newJob.String())
	}
	if amount < 0 {
		return 0, shared.NewInvalidArgumentError(fmt.Sprintf("amount must be non-negative, got %d", amount))
	}
	if oldJob.IsFairnessGoverned() || newJob.IsFairnessGoverned() {
		m.logger.Log("WARNING", "Bulk job change is not implemented for fairness-governed jobs", map[string]interface{}{
			"graph": m.GraphIndex(),
			"from":  oldJob.String(),
			"to":    newJob.String(),
		})
		return 0, nil
	}
	if oldJob == newJob || amount == 0 {
		return 0, nil
	}

	candidates := m.pools[oldJob].snapshot()
	n := amount
	if n > len(candidates) {
		n = len(candidates)
	}
	for i := 0; i < n; i++ {
		pick := i + m.rng.Intn(len(candidates)-i)
		candidates[i], candidates[pick] = candidates[pick], candidates[i]
		m.changeJob(candidates[i], newJob)
	}
	return n, nil
}

// SetUnitJob moves a single worker to the pool of j, dropping any home task
// or manual assignment it held
func (m *Manager) SetUnitJob(u Unit, j job.Type) error {
	if !j.IsValid() || j == job.Manual {
		return shared.NewInvalidJobError("SetUnitJob", j.String())
	}
	if !m.IsRegistered(u) {
		return m.unregisteredUnit(u)
	}

	if assignment, manual := m.manual[u.ID()]; manual {
		m.releaseManual(assignment)
		m.pools[j].add(u)
		u.SetJob(j)
		m.publish(EventJobChange, u.ID(), NoID, assignment.action.ID(), job.Manual, j, "")
		return nil
	}
	if u.Job() == j && m.pools[j].contains(u) {
		return nil
	}
	m.changeJob(u, j)
	return nil
}

// ManualAssign pins up to amount workers from the pool of j to an action.
// Pinned workers leave every pool and tally, so rebalancing cannot reclaim
// them. Workers are taken oldest first.
func (m *Manager) ManualAssign(amount int, a Action, j job.Type) (int, error) {
	if a == nil {
		return 0, shared.NewInvalidArgumentError("action cannot be nil")
	}
	if !j.IsValid() || j == job.Manual {
		return 0, shared.NewInvalidJobError("ManualAssign", j.String())
	}
	if amount < 0 {
		return 0, shared.NewInvalidArgumentError(fmt.Sprintf("amount must be non-negative, got %d", amount))
	}
	if err := m.checkNode(a.Node()); err != nil {
		return 0, err
	}

	candidates := m.pools[j].snapshot()
	if amount < len(candidates) {
		candidates = candidates[:amount]
	}
	for _, u := range candidates {
		m.pools[j].remove(u)
		m.releaseHome(u)

		m.manual[u.ID()] = manualAssignment{unit: u, action: a, original: j}
		m.manualOrder.add(u)
		u.SetJob(job.Manual)
		a.Assign(u, job.Manual)

		task := NewTask(job.Manual, a.Node(), resource.None, a, m.ticker.Current())
		u.ChangeHomeTask(task)
		m.publish(EventManualAssign, u.ID(), a.Node().ID(), a.ID(), j, job.Manual, task.ID())
	}
	return len(candidates), nil
}

// ManualUnassign releases up to amount workers pinned to the action into the
// pool of j, oldest pin first
func (m *Manager) ManualUnassign(j job.Type, amount int, a Action) (int, error) {
	if a == nil {
		return 0, shared.NewInvalidArgumentError("action cannot be nil")
	}
	if !j.IsValid() || j == job.Manual {
		return 0, shared.NewInvalidJobError("ManualUnassign", j.String())
	}
	if amount < 0 {
		return 0, shared.NewInvalidArgumentError(fmt.Sprintf("amount must be non-negative, got %d", amount))
	}

	released := 0
	for _, u := range m.manualOrder.snapshot() {
		if released == amount {
			break
		}
		assignment := m.manual[u.ID()]
		if assignment.action.ID() != a.ID() {
			continue
		}
		m.releaseManual(assignment)
		m.pools[j].add(u)
		u.SetJob(j)
		m.publish(EventManualUnassign, u.ID(), nodeID(a.Node()), a.ID(), job.Manual, j, "")
		released++
	}
	return released, nil
}

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

// RequestResource queues a Construction task when isBuilding is set and a
// Logistics task otherwise. The request is refused when the action is not
// eligible for task generation; a nil action is always accepted.
func (m *Manager) RequestResource(platform *graph.Node, resourceType resource.Type, a Action, isBuilding bool) (bool, error) {
	if err := m.checkNode(platform); err != nil {
		return false, err
	}

	j := job.Logistics
	if isBuilding {
		j = job.Construction
	}
	if a != nil && !m.IsEligible(a) {
		m.recorder.RecordRequest(m.GraphIndex(), j, false)
		return false, nil
	}

	m.queues[j].Push(NewTask(j, platform, resourceType, a, m.ticker.Current()))
	m.recorder.RecordRequest(m.GraphIndex(), j, true)
	return true, nil
}

// RequestUnits asks for one more worker for a production or defense platform.
//
// Business Rules:
//   - j must be Defense when isDefending is set and Production otherwise
//   - The platform must be registered in that category
//   - Admission: the request is queued only while the platform's worker
//     count is at or below the category's fair share; otherwise it is dropped
//
// Returns whether the request was queued.
func (m *Manager) RequestUnits(platform *graph.Node, j job.Type, a Action, isDefending bool) (bool, error) {
	want := job.Production
	if isDefending {
		want = job.Defense
	}
	if j != want {
		return false, shared.NewInvalidJobError("RequestUnits", j.String())
	}
	if platform == nil {
		return false, shared.NewInvalidArgumentError("platform cannot be nil")
	}
	t := m.tallies[j]
	if !t.has(platform) {
		return false, shared.NewUnknownPlatformError(platform.ID())
	}
	if a != nil && !m.IsEligible(a) {
		m.recorder.RecordRequest(m.GraphIndex(), j, false)
		return false, nil
	}

	if count, share := t.count(platform), t.fairShare(); count > share {
		m.logger.Log("DEBUG", "Unit request refused above fair share", map[string]interface{}{
			"graph":      m.GraphIndex(),
			"platform":   platform.ID(),
			"workers":    count,
			"fair_share": share,
		})
		m.recorder.RecordRequest(m.GraphIndex(), j, false)
		return false, nil
	}

	m.queues[j].Push(NewTask(j, platform, resource.None, a, m.ticker.Current()))
	m.recorder.RecordRequest(m.GraphIndex(), j, true)
	return true, nil
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

// RequestNewTask hands a worker its next unit of work.
//
// Business Rules:
//   - Idle: a random traversable neighbour of the unit's node (the node itself
//     when isolated); assigned is passed through unchecked
//   - Logistics, Construction, Production, Defense: the oldest queued task
//     whose action is still eligible and whose platform is still alive.
//     The unit must hold the job it asks for
//   - Production, Defense: the unit's tally moves to the task's platform and
//     the task becomes its home task
//   - Manual or unknown jobs are invalid
//
// Returns ok == false when no work is available.
func (m *Manager) RequestNewTask(u Unit, j job.Type, assigned Action) (Task, bool, error) {
	if !m.IsRegistered(u) {
		return Task{}, false, m.unregisteredUnit(u)
	}

	switch j {
	case job.Idle:
		return m.wander(u, assigned)
	case job.Logistics, job.Construction, job.Production, job.Defense:
		if u.Job() != j {
			return Task{}, false, shared.NewInvalidArgumentError(
				fmt.Sprintf("unit %d holds job %s, cannot request %s work", u.ID(), u.Job(), j))
		}
		return m.dispatch(u, j)
	default:
		return Task{}, false, shared.NewInvalidJobError("RequestNewTask", j.String())
	}
}

func (m *Manager) wander(u Unit, assigned Action) (Task, bool, error) {
	node := u.CurrentNode()
	if err := m.checkNode(node); err != nil {
		return Task{}, false, err
	}

	target := node
	if neighbours := m.graph.Neighbours(node); len(neighbours) > 0 {
		target = neighbours[m.rng.Intn(len(neighbours))]
	}
	m.recorder.RecordDispatch(m.GraphIndex(), job.Idle, true)
	return NewTask(job.Idle, target, resource.None, assigned, m.ticker.Current()), true, nil
}

func (m *Manager) dispatch(u Unit, j job.Type) (Task, bool, error) {
	q := m.queues[j]
	for {
		task, ok := q.Pop()
		if !ok {
			m.recorder.RecordDispatch(m.GraphIndex(), j, false)
			return Task{}, false, nil
		}
		if m.isStale(task) {
			m.logger.Log("DEBUG", "Discarded stale task", map[string]interface{}{
				"graph": m.GraphIndex(),
				"task":  task.ID(),
				"job":   j.String(),
			})
			continue
		}

		if j.IsFairnessGoverned() {
			m.releaseHome(u)
			t := m.tallies[j]
			t.assign(u, task.Target())
			if a := task.Action(); a != nil {
				m.homeActions[u.ID()] = a
				a.Assign(u, j)
			}
			u.ChangeHomeTask(task)
		}

		m.recorder.RecordDispatch(m.GraphIndex(), j, true)
		m.publish(EventDispatch, u.ID(), task.Target().ID(), actionID(task.Action()), j, j, task.ID())
		return task, true, nil
	}
}

func (m *Manager) isStale(task Task) bool {
	target := task.Target()
	if target == nil || target.IsRemoved() || !m.graph.Contains(target) {
		return true
	}
	if a := task.Action(); a != nil && !m.IsEligible(a) {
		return true
	}
	if t, governed := m.tallies[task.Job()]; governed && !t.has(target) {
		return true
	}
	return false
}

// ---------------------------------------------------------------------------
// Deaths
// ---------------------------------------------------------------------------

// KillUnit removes a dead worker from every pool, tally and manual
// assignment. Returns false when the unit was already gone.
func (m *Manager) KillUnit(u Unit) bool {
	if !m.IsRegistered(u) {
		return false
	}

	from := u.Job()
	if assignment, manual := m.manual[u.ID()]; manual {
		m.releaseManual(assignment)
	} else {
		m.releaseHome(u)
		for _, j := range job.Distributable {
			m.pools[j].remove(u)
		}
	}
	delete(m.units, u.ID())

	m.publish(EventUnitDeath, u.ID(), NoID, NoID, from, from, "")
	return true
}

// KillPlatform processes the death of a platform node.
//
// Business Rules:
//   - The platform leaves both tallies; its workers stay in their pool
//     without a home task
//   - Queued tasks targeting it are dropped
//   - Its actions are unregistered and their manual workers return to the
//     pool they were pinned from
//
// Returns false when nothing referenced the platform any more.
func (m *Manager) KillPlatform(platform *graph.Node) bool {
	if platform == nil {
		return false
	}
	changed := false

	for _, t := range []*tally{m.tallies[job.Production], m.tallies[job.Defense]} {
		if !t.has(platform) {
			continue
		}
		changed = true
		for _, u := range t.unregister(platform) {
			delete(m.homeActions, u.ID())
			u.ClearHomeTask()
		}
	}

	for _, q := range m.queues {
		if q.RemoveIf(func(task Task) bool { return task.Target() == platform }) > 0 {
			changed = true
		}
	}

	for _, u := range m.manualOrder.snapshot() {
		assignment := m.manual[u.ID()]
		if assignment.action.Node() != platform {
			continue
		}
		m.releaseManual(assignment)
		m.pools[assignment.original].add(u)
		u.SetJob(assignment.original)
		changed = true
	}

	for id, a := range m.actions {
		if a.Node() == platform {
			delete(m.actions, id)
			delete(m.paused, id)
			changed = true
		}
	}

	if changed {
		m.publish(EventPlatformDeath, NoID, platform.ID(), NoID, job.Idle, job.Idle, "")
	}
	return changed
}

// ---------------------------------------------------------------------------
// Inspection
// ---------------------------------------------------------------------------

// Stats is a snapshot of the manager's bookkeeping
type Stats struct {
	GraphIndex          int
	Units               int
	Pools               map[job.Type]int
	Manual              int
	Queues              map[job.Type]int
	Production          []PlatformLoad
	Defense             []PlatformLoad
	ProductionFairShare int
	DefenseFairShare    int
	Actions             int
	PausedActions       int
}

// Stats returns a snapshot of pool sizes, queue depths and platform tallies
func (m *Manager) Stats() Stats {
	stats := Stats{
		GraphIndex:          m.GraphIndex(),
		Units:               len(m.units),
		Pools:               make(map[job.Type]int, len(m.pools)),
		Manual:              m.manualOrder.len(),
		Queues:              make(map[job.Type]int, len(m.queues)),
		Production:          m.tallies[job.Production].loads(),
		Defense:             m.tallies[job.Defense].loads(),
		ProductionFairShare: m.tallies[job.Production].fairShare(),
		DefenseFairShare:    m.tallies[job.Defense].fairShare(),
		Actions:             len(m.actions),
		PausedActions:       len(m.paused),
	}
	for j, p := range m.pools {
		stats.Pools[j] = p.len()
	}
	for j, q := range m.queues {
		stats.Queues[j] = q.Len()
	}
	return stats
}

// Pool returns the members of a job pool in insertion order
func (m *Manager) Pool(j job.Type) []Unit {
	if j == job.Manual {
		return m.manualOrder.snapshot()
	}
	p, ok := m.pools[j]
	if !ok {
		return nil
	}
	return p.snapshot()
}

// PendingTasks returns the queued tasks of a job, oldest first
func (m *Manager) PendingTasks(j job.Type) []Task {
	q, ok := m.queues[j]
	if !ok {
		return nil
	}
	return q.Items()
}

// Workers returns how many workers are homed on a platform
func (m *Manager) Workers(platform *graph.Node, isDefense bool) int {
	t := m.tallyFor(isDefense)
	if !t.has(platform) {
		return 0
	}
	return t.count(platform)
}

// FairShare returns the current fair share of a category
func (m *Manager) FairShare(isDefense bool) int {
	return m.tallyFor(isDefense).fairShare()
}

// HomeOf returns the platform a production or defense worker is homed on
func (m *Manager) HomeOf(u Unit) (*graph.Node, bool) {
	for _, t := range m.tallies {
		if p, ok := t.home(u); ok {
			return p, true
		}
	}
	return nil, false
}

// IsManual reports whether the unit is pinned by a manual assignment
func (m *Manager) IsManual(u Unit) bool {
	_, manual := m.manual[u.ID()]
	return manual
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

func (m *Manager) tallyFor(isDefense bool) *tally {
	if isDefense {
		return m.tallies[job.Defense]
	}
	return m.tallies[job.Production]
}

func (m *Manager) checkNode(n *graph.Node) error {
	if n == nil {
		return shared.NewInvalidArgumentError("node cannot be nil")
	}
	if !m.graph.Contains(n) {
		return shared.NewUnknownNodeError(n.ID(), m.graph.Index())
	}
	return nil
}

func (m *Manager) unregisteredUnit(u Unit) error {
	if u == nil {
		return shared.NewInvalidArgumentError("unit cannot be nil")
	}
	return shared.NewInvalidArgumentError(fmt.Sprintf("unit %d is not registered with graph %d", u.ID(), m.GraphIndex()))
}

// rehome moves u onto platform within t and hands it the new home task
func (m *Manager) rehome(u Unit, t *tally, platform *graph.Node, kind EventKind) {
	from, _ := t.home(u)
	if old := m.homeActions[u.ID()]; old != nil {
		old.Kill(u)
		delete(m.homeActions, u.ID())
	}

	t.assign(u, platform)
	a := m.actionAt(platform, t.category)
	if a != nil {
		m.homeActions[u.ID()] = a
		a.Assign(u, t.category)
	}

	task := NewTask(t.category, platform, resource.None, a, m.ticker.Current())
	u.ChangeHomeTask(task)
	m.publish(kind, u.ID(), platform.ID(), actionID(a), t.category, t.category, task.ID())
	m.logger.Log("DEBUG", "Worker re-homed", map[string]interface{}{
		"graph": m.GraphIndex(),
		"unit":  u.ID(),
		"from":  nodeID(from),
		"to":    platform.ID(),
	})
}

// releaseHome drops u from any tally and notifies its home action
func (m *Manager) releaseHome(u Unit) {
	for _, t := range m.tallies {
		t.release(u)
	}
	if a := m.homeActions[u.ID()]; a != nil {
		a.Kill(u)
		delete(m.homeActions, u.ID())
	}
}

// releaseManual removes a manual pin without placing the unit in a pool
func (m *Manager) releaseManual(assignment manualAssignment) {
	u := assignment.unit
	delete(m.manual, u.ID())
	m.manualOrder.remove(u)
	assignment.action.Kill(u)
	u.ClearHomeTask()
}

func (m *Manager) changeJob(u Unit, to job.Type) {
	from := u.Job()
	for _, j := range job.Distributable {
		m.pools[j].remove(u)
	}
	m.releaseHome(u)
	m.pools[to].add(u)
	u.SetJob(to)
	u.ClearHomeTask()
	m.publish(EventJobChange, u.ID(), NoID, NoID, from, to, "")
}

// actionAt returns the lowest-id registered action on platform that requires j
func (m *Manager) actionAt(platform *graph.Node, j job.Type) Action {
	ids := make([]int, 0, len(m.actions))
	for id, a := range m.actions {
		if a.Node() == platform {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	for _, id := range ids {
		a := m.actions[id]
		for _, req := range a.Requirements() {
			if req == j {
				return a
			}
		}
	}
	return nil
}

func (m *Manager) publish(kind EventKind, unitID, platformID, actionID int, from, to job.Type, taskID string) {
	m.sink.Publish(AssignmentEvent{
		GraphIndex: m.GraphIndex(),
		Tick:       m.ticker.Current(),
		Kind:       kind,
		UnitID:     unitID,
		PlatformID: platformID,
		ActionID:   actionID,
		FromJob:    from,
		ToJob:      to,
		TaskID:     taskID,
		OccurredAt: m.clock.Now(),
	})
}

func actionID(a Action) int {
	if a == nil {
		return NoID
	}
	return a.ID()
}

func nodeID(n *graph.Node) int {
	if n == nil {
		return NoID
	}
	return n.ID()
}
