// Package simulation drives a colony tick by tick from a scenario.
package simulation

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/colony-go/internal/application/logging"
	"github.com/andrescamacho/colony-go/internal/application/mediator"
	"github.com/andrescamacho/colony-go/internal/application/scheduling/commands"
	"github.com/andrescamacho/colony-go/internal/application/scheduling/queries"
	"github.com/andrescamacho/colony-go/internal/domain/colony"
	"github.com/andrescamacho/colony-go/internal/domain/director"
	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/routing"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
)

// Config carries everything a world is built from
type Config struct {
	Scenario   *Scenario
	Seed       int64
	Pathfinder routing.Pathfinder
	// TicksPerSecond paces Run; 0 runs as fast as possible
	TicksPerSecond float64
	Clock          shared.Clock
	Logger         logging.ContainerLogger
	Recorder       distribution.Recorder
	Journal        Journal
	Metrics        TickRecorder
	Middlewares    []mediator.Middleware
}

// World owns the director, the colony and the operator mediator of one run.
//
// Tick order is fixed so a seed reproduces a run exactly:
//  1. scheduled operator commands for the tick
//  2. per graph in ascending index: actions by id, then workers by id
//  3. pruning of the dead, stats, journal flush
type World struct {
	cfg      Config
	director *director.Director
	colony   *colony.Colony
	mediator mediator.Mediator
	limiter  *rate.Limiter
	events   map[shared.Tick][]EventSpec
	logger   logging.ContainerLogger
}

// NewWorld builds the colony described by cfg.Scenario
func NewWorld(cfg Config) (*World, error) {
	if cfg.Scenario == nil {
		return nil, fmt.Errorf("scenario is required")
	}
	if cfg.Pathfinder == nil {
		pf, err := routing.NewPathfinder("", nil)
		if err != nil {
			return nil, err
		}
		cfg.Pathfinder = pf
	}
	if cfg.Clock == nil {
		cfg.Clock = shared.NewRealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.LoggerFromContext(context.Background())
	}
	if cfg.Metrics == nil {
		cfg.Metrics = noOpTickRecorder{}
	}

	dcfg := director.Config{
		Seed:       cfg.Seed,
		Pathfinder: cfg.Pathfinder,
		Clock:      cfg.Clock,
		Logger:     cfg.Logger,
		Recorder:   cfg.Recorder,
	}
	if cfg.Journal != nil {
		dcfg.Events = cfg.Journal
	}
	d, err := director.NewDirector(dcfg)
	if err != nil {
		return nil, err
	}

	w := &World{
		cfg:      cfg,
		director: d,
		mediator: mediator.NewMediator(),
		events:   make(map[shared.Tick][]EventSpec),
		logger:   cfg.Logger,
	}
	if cfg.TicksPerSecond > 0 {
		w.limiter = rate.NewLimiter(rate.Limit(cfg.TicksPerSecond), 1)
	}

	c, err := build(cfg.Scenario, d, cfg.Clock)
	if err != nil {
		return nil, fmt.Errorf("failed to build scenario %s: %w", cfg.Scenario.Name, err)
	}
	w.colony = c

	for _, mw := range cfg.Middlewares {
		w.mediator.RegisterMiddleware(mw)
	}
	if err := commands.RegisterHandlers(w.mediator, c); err != nil {
		return nil, err
	}
	if err := queries.RegisterHandlers(w.mediator, d); err != nil {
		return nil, err
	}

	for _, ev := range cfg.Scenario.Events {
		t := shared.Tick(ev.Tick)
		w.events[t] = append(w.events[t], ev)
	}
	return w, nil
}

func (w *World) Director() *director.Director { return w.director }
func (w *World) Colony() *colony.Colony       { return w.colony }
func (w *World) Mediator() mediator.Mediator  { return w.mediator }

// CurrentTick returns the tick the next call to Tick will process
func (w *World) CurrentTick() shared.Tick {
	return w.director.Ticker().Current()
}

// Tick advances the simulation by one tick
func (w *World) Tick(ctx context.Context) error {
	start := time.Now()
	tick := w.CurrentTick()
	ctx = logging.WithLogger(ctx, w.logger)

	for _, ev := range w.events[tick] {
		if err := w.replay(ctx, ev); err != nil {
			w.logger.Log("ERROR", "Scheduled command failed", map[string]interface{}{
				"tick":    uint64(tick),
				"command": ev.Command,
				"error":   err.Error(),
			})
		}
	}
	delete(w.events, tick)

	for _, index := range w.director.Indices() {
		if err := w.updateGraph(index); err != nil {
			return fmt.Errorf("tick %d: %w", tick, err)
		}
	}

	w.colony.Prune()
	for _, index := range w.director.Indices() {
		m, err := w.director.Manager(index)
		if err != nil {
			return err
		}
		w.cfg.Metrics.RecordStats(m.Stats())
	}
	if w.cfg.Journal != nil {
		if err := w.cfg.Journal.Flush(ctx); err != nil {
			return fmt.Errorf("tick %d: failed to flush journal: %w", tick, err)
		}
	}

	w.director.Ticker().Advance()
	w.cfg.Metrics.RecordTick(time.Since(start))
	return nil
}

func (w *World) updateGraph(index int) error {
	for _, a := range w.colony.Actions() {
		if a.Node().GraphIndex() != index || a.IsDead() {
			continue
		}
		if err := a.Tick(); err != nil {
			return fmt.Errorf("action %d: %w", a.ID(), err)
		}
	}
	for _, wk := range w.colony.Workers() {
		if wk.CurrentNode().GraphIndex() != index {
			continue
		}
		if err := wk.Update(); err != nil {
			return err
		}
	}
	return nil
}

// Run ticks until ticks have been processed (0 means until ctx ends) and
// returns how many ran. Cancellation is checked between ticks.
func (w *World) Run(ctx context.Context, ticks int) (int, error) {
	w.logger.Log("INFO", "Simulation started", map[string]interface{}{
		"scenario":   w.cfg.Scenario.Name,
		"seed":       w.cfg.Seed,
		"pathfinder": string(w.cfg.Pathfinder.Strategy()),
		"graphs":     len(w.director.Indices()),
		"workers":    len(w.colony.Workers()),
	})

	ran := 0
	for ticks == 0 || ran < ticks {
		if w.limiter != nil {
			if err := w.limiter.Wait(ctx); err != nil {
				return ran, ctx.Err()
			}
		} else if err := ctx.Err(); err != nil {
			return ran, err
		}
		if err := w.Tick(ctx); err != nil {
			return ran, err
		}
		ran++
	}

	w.logger.Log("INFO", "Simulation finished", map[string]interface{}{
		"ticks":   ran,
		"workers": len(w.colony.Workers()),
		"actions": len(w.colony.Actions()),
	})
	return ran, nil
}

// Stats returns the snapshot of every graph ordered by index
func (w *World) Stats() []distribution.Stats {
	var out []distribution.Stats
	for _, index := range w.director.Indices() {
		m, err := w.director.Manager(index)
		if err != nil {
			continue
		}
		out = append(out, m.Stats())
	}
	return out
}

// Send dispatches an operator command or query through the mediator
func (w *World) Send(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	return w.mediator.Send(logging.WithLogger(ctx, w.logger), request)
}

func (w *World) replay(ctx context.Context, ev EventSpec) error {
	var request mediator.Request
	switch ev.Command {
	case EventDistributeJobs:
		request = &commands.DistributeJobsCommand{GraphIndex: ev.Graph, FromJob: ev.From, ToJob: ev.To, Amount: ev.Amount}
	case EventRegisterPlatform:
		request = &commands.RegisterPlatformCommand{GraphIndex: ev.Graph, NodeID: ev.Node, IsDefense: ev.Defense}
	case EventManualAssign, EventManualUnassign, EventSetActionState:
		actionID, err := w.actionAt(ev.Graph, ev.Node)
		if err != nil {
			return err
		}
		switch ev.Command {
		case EventManualAssign:
			request = &commands.ManualAssignCommand{ActionID: actionID, Job: ev.From, Amount: ev.Amount}
		case EventManualUnassign:
			request = &commands.ManualUnassignCommand{ActionID: actionID, Job: ev.To, Amount: ev.Amount}
		default:
			request = &commands.SetActionStateCommand{ActionID: actionID, Transition: ev.Transition}
		}
	case EventKillPlatform:
		request = &commands.KillPlatformCommand{GraphIndex: ev.Graph, NodeID: ev.Node}
	case EventKillWorker:
		request = &commands.KillWorkerCommand{WorkerID: ev.Worker}
	default:
		return fmt.Errorf("unknown scheduled command %q", ev.Command)
	}
	_, err := w.mediator.Send(ctx, request)
	return err
}

// actionAt picks the oldest live action on a platform
func (w *World) actionAt(graphIndex, nodeID int) (int, error) {
	g, err := w.director.Graph(graphIndex)
	if err != nil {
		return 0, err
	}
	n, err := g.Node(nodeID)
	if err != nil {
		return 0, err
	}
	actions := w.colony.ActionsAt(n)
	if len(actions) == 0 {
		return 0, fmt.Errorf("no action on platform %d of graph %d", nodeID, graphIndex)
	}
	return actions[0].ID(), nil
}
