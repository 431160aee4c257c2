package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	colonygrpc "github.com/andrescamacho/colony-go/internal/adapters/grpc"
	"github.com/andrescamacho/colony-go/internal/adapters/metrics"
	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
	"github.com/andrescamacho/colony-go/internal/application/logging"
	"github.com/andrescamacho/colony-go/internal/application/mediator"
	"github.com/andrescamacho/colony-go/internal/application/simulation"
	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/routing"
	"github.com/andrescamacho/colony-go/internal/domain/run"
	"github.com/andrescamacho/colony-go/internal/infrastructure/config"
	"github.com/andrescamacho/colony-go/internal/infrastructure/database"
	"github.com/andrescamacho/colony-go/pkg/utils"
)

// RunSummary is what a finished simulate invocation reports
type RunSummary struct {
	RunID      string
	Scenario   string
	Seed       int64
	Pathfinder string
	Ticks      int
	Status     run.Status
	Duration   time.Duration
	Stats      []distribution.Stats
}

// SimulationRunner wires one simulate invocation: logging, metrics, the run
// database and the world
type SimulationRunner struct {
	cfg *config.Config
	// SeedOverride beats the scenario seed when set
	SeedOverride *int64
	// Logger replaces the configured stderr/stdout/file logger
	Logger logging.ContainerLogger
}

// NewSimulationRunner creates a runner for an already validated config
func NewSimulationRunner(cfg *config.Config) *SimulationRunner {
	return &SimulationRunner{cfg: cfg}
}

// Run loads the scenario and ticks it. Cancelling ctx stops the run
// cleanly and is not reported as an error.
func (r *SimulationRunner) Run(ctx context.Context, scenarioPath string) (*RunSummary, error) {
	cfg := r.cfg

	logger := r.Logger
	if logger == nil {
		stdLogger, err := logging.NewStdLogger(logging.Options{
			Level:         cfg.Logging.Level,
			Format:        cfg.Logging.Format,
			Output:        cfg.Logging.Output,
			FilePath:      cfg.Logging.FilePath,
			IncludeCaller: cfg.Logging.IncludeCaller,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		defer stdLogger.Close()
		logger = stdLogger
	}

	sc, err := simulation.LoadScenario(scenarioPath)
	if err != nil {
		return nil, err
	}
	seed := sc.SeedOr(cfg.Simulation.Seed)
	if r.SeedOverride != nil {
		seed = *r.SeedOverride
	}

	var (
		searchRecorder routing.SearchRecorder
		recorder       distribution.Recorder
		tickRecorder   simulation.TickRecorder
		middlewares    []mediator.Middleware
	)
	if cfg.Metrics.Enabled {
		server, operatorCollector, err := startMetrics(cfg.Metrics)
		if err != nil {
			return nil, err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
		logger.Log("INFO", "Metrics server listening", map[string]interface{}{
			"address": server.Addr(),
			"path":    cfg.Metrics.Path,
		})

		global := metrics.GlobalRecorder{}
		searchRecorder, recorder, tickRecorder = global, global, global
		middlewares = append(middlewares, metrics.PrometheusMiddleware(operatorCollector))
	}

	var health *colonygrpc.HealthServer
	if cfg.Health.Enabled {
		health, err = colonygrpc.NewHealthServer(cfg.Health.Socket)
		if err != nil {
			return nil, err
		}
		health.Start()
		defer func() {
			if err := health.Stop(); err != nil {
				logger.Log("WARNING", "Health server did not stop cleanly", map[string]interface{}{"error": err.Error()})
			}
		}()
		logger.Log("INFO", "Health endpoint listening", map[string]interface{}{"socket": health.SocketPath()})
	}

	pf, err := routing.NewPathfinder(cfg.Simulation.Pathfinder, searchRecorder)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{
		RunID:      utils.GenerateRunID(sc.Name),
		Scenario:   sc.Name,
		Seed:       seed,
		Pathfinder: string(pf.Strategy()),
		Status:     run.StatusRunning,
	}

	var (
		journal simulation.Journal
		runRepo run.Repository
		sim     *run.Run
	)
	if cfg.Journal.Enabled {
		db, err := openDatabase(cfg)
		if err != nil {
			return nil, err
		}
		defer database.Close(db)

		runRepo = persistence.NewGormSimulationRunRepository(db)
		sim = run.NewRun(summary.RunID, sc.Name, seed, summary.Pathfinder, nil)
		if err := runRepo.Add(ctx, sim); err != nil {
			return nil, err
		}
		journal = persistence.NewGormAssignmentJournal(db, summary.RunID, cfg.Journal.BatchSize)

		runLogger := persistence.NewRunLogger(persistence.NewGormSimulationLogRepository(db, nil), summary.RunID)
		base := logger
		runLogger.OnError = func(err error) {
			base.Log("WARNING", "Failed to persist run log", map[string]interface{}{"error": err.Error()})
		}
		minLevel, _ := logging.ParseLevel(cfg.Logging.Level)
		logger = logging.Fanout{base, logging.LevelFilter{Min: minLevel, Next: runLogger}}
	}

	world, err := simulation.NewWorld(simulation.Config{
		Scenario:       sc,
		Seed:           seed,
		Pathfinder:     pf,
		TicksPerSecond: cfg.Simulation.TicksPerSecond,
		Logger:         logger,
		Recorder:       recorder,
		Journal:        journal,
		Metrics:        tickRecorder,
		Middlewares:    middlewares,
	})
	if err != nil {
		if sim != nil {
			r.finish(runRepo, sim, 0, err, logger)
		}
		return nil, err
	}

	started := time.Now()
	if health != nil {
		health.SetRunning(true)
	}
	ran, runErr := world.Run(ctx, cfg.Simulation.Ticks)
	if health != nil {
		health.SetRunning(false)
	}
	if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
		logger.Log("INFO", "Simulation interrupted", map[string]interface{}{"ticks": ran})
		runErr = nil
		summary.Status = run.StatusStopped
	} else if runErr != nil {
		summary.Status = run.StatusFailed
	} else {
		summary.Status = run.StatusCompleted
	}
	summary.Ticks = ran
	summary.Duration = time.Since(started)
	summary.Stats = world.Stats()

	if sim != nil {
		r.finish(runRepo, sim, ran, runErr, logger)
	}
	return summary, runErr
}

// finish records the exit of a journaled run. It uses its own context so a
// cancelled run is still written.
func (r *SimulationRunner) finish(repo run.Repository, sim *run.Run, ticks int, runErr error, logger logging.ContainerLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sim.RecordTicks(uint64(ticks)); err != nil {
		logger.Log("WARNING", "Failed to record run ticks", map[string]interface{}{"error": err.Error()})
	}

	var err error
	switch {
	case runErr != nil:
		err = sim.Fail(runErr)
	case r.cfg.Simulation.Ticks > 0 && ticks >= r.cfg.Simulation.Ticks:
		err = sim.Complete()
	default:
		err = sim.Stop("interrupted")
	}
	if err != nil {
		logger.Log("WARNING", "Failed to close run", map[string]interface{}{"error": err.Error()})
		return
	}

	if err := repo.Update(ctx, sim); err != nil {
		logger.Log("ERROR", "Failed to save run", map[string]interface{}{
			"run_id": sim.ID(),
			"error":  err.Error(),
		})
	}
}

// startMetrics initializes the registry, installs the global collectors and
// starts the scrape endpoint
func startMetrics(cfg config.MetricsConfig) (*metrics.Server, *metrics.OperatorMetricsCollector, error) {
	metrics.InitRegistry()

	scheduler := metrics.NewSchedulerMetricsCollector()
	if err := scheduler.Register(); err != nil {
		return nil, nil, fmt.Errorf("failed to register scheduler metrics: %w", err)
	}
	pathfinder := metrics.NewPathfinderMetricsCollector()
	if err := pathfinder.Register(); err != nil {
		return nil, nil, fmt.Errorf("failed to register pathfinder metrics: %w", err)
	}
	operator := metrics.NewOperatorMetricsCollector()
	if err := operator.Register(); err != nil {
		return nil, nil, fmt.Errorf("failed to register operator metrics: %w", err)
	}
	metrics.SetGlobalSchedulerCollector(scheduler)
	metrics.SetGlobalPathfinderCollector(pathfinder)

	server, err := metrics.NewServer(cfg.Address(), cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	server.Start()
	return server, operator, nil
}
