package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/job"
	"github.com/andrescamacho/colony-go/internal/infrastructure/pidfile"
)

// NewSimulateCommand creates the simulate command
func NewSimulateCommand() *cobra.Command {
	var (
		scenario   string
		ticks      int
		seed       int64
		pathfinder string
		tps        float64
		journal    bool
		withStats  bool
		serve      bool
		pidFile    string
		healthSock string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a scenario tick by tick",
		Long: `Load a scenario and run the colony for a number of ticks.

Flags override the simulation section of the config file. With --ticks 0
the run continues until interrupted (Ctrl+C). With --journal every
assignment change is written to the run database.

Examples:
  colony simulate --scenario scenarios/fairness.yaml --ticks 100
  colony simulate --ticks 0 --tps 20 --metrics
  colony simulate --seed 7 --pathfinder dijkstra --journal
  colony simulate --ticks 0 --health-socket /tmp/colony.sock`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("ticks") {
				cfg.Simulation.Ticks = ticks
			}
			if flags.Changed("pathfinder") {
				cfg.Simulation.Pathfinder = pathfinder
			}
			if flags.Changed("tps") {
				cfg.Simulation.TicksPerSecond = tps
			}
			if flags.Changed("journal") {
				cfg.Journal.Enabled = journal
			}
			if flags.Changed("metrics") {
				cfg.Metrics.Enabled = serve
			}
			if flags.Changed("health-socket") {
				cfg.Health.Enabled = healthSock != ""
				cfg.Health.Socket = healthSock
			}
			if cfg.Simulation.Ticks < 0 {
				return fmt.Errorf("--ticks cannot be negative")
			}

			scenarioPath, err := resolveScenarioPath(scenario, cfg)
			if err != nil {
				return err
			}

			if pidFile != "" {
				pf := pidfile.New(pidFile)
				if err := pf.Acquire(); err != nil {
					return err
				}
				defer func() {
					_ = pf.Release()
				}()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner := NewSimulationRunner(cfg)
			if flags.Changed("seed") {
				runner.SeedOverride = &seed
			}

			summary, err := runner.Run(ctx, scenarioPath)
			if summary != nil {
				printSummary(cmd.OutOrStdout(), summary, withStats)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "Scenario file (YAML, JSON or TOML)")
	cmd.Flags().IntVarP(&ticks, "ticks", "n", 0, "Ticks to run, 0 runs until interrupted")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed, overrides the scenario seed")
	cmd.Flags().StringVar(&pathfinder, "pathfinder", "", "Pathfinding strategy (astar, dijkstra)")
	cmd.Flags().Float64Var(&tps, "tps", 0, "Ticks per second, 0 runs as fast as possible")
	cmd.Flags().BoolVar(&journal, "journal", false, "Persist the run, its logs and assignment events")
	cmd.Flags().BoolVar(&serve, "metrics", false, "Serve Prometheus metrics while running")
	cmd.Flags().BoolVar(&withStats, "stats", true, "Print per-graph pools, queues and platform staffing at exit")
	cmd.Flags().StringVar(&pidFile, "pid-file", "", "Refuse to start while another simulation holds this file")
	cmd.Flags().StringVar(&healthSock, "health-socket", "", "Serve the gRPC health protocol on this unix socket")

	return cmd
}

// printSummary writes the run outcome and, optionally, the final snapshot
func printSummary(out io.Writer, s *RunSummary, withStats bool) {
	fmt.Fprintf(out, "Run %s (%s, seed %d, %s): %s after %d ticks in %s\n",
		s.RunID, s.Scenario, s.Seed, s.Pathfinder, s.Status, s.Ticks, s.Duration.Round(time.Microsecond))
	if !withStats {
		return
	}

	for _, stats := range s.Stats {
		fmt.Fprintf(out, "\nGraph %d: %d workers, %d manual, %d actions (%d paused)\n",
			stats.GraphIndex, stats.Units, stats.Manual, stats.Actions, stats.PausedActions)

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "JOB\tPOOL\tQUEUE")
		fmt.Fprintln(w, "---\t----\t-----")
		for _, j := range job.Distributable {
			fmt.Fprintf(w, "%s\t%d\t%d\n", j, stats.Pools[j], stats.Queues[j])
		}
		w.Flush()

		printLoads(out, "Production", stats.Production, stats.ProductionFairShare)
		printLoads(out, "Defense", stats.Defense, stats.DefenseFairShare)
	}
}

func printLoads(out io.Writer, label string, loads []distribution.PlatformLoad, fairShare int) {
	if len(loads) == 0 {
		return
	}
	sorted := append([]distribution.PlatformLoad(nil), loads...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PlatformID < sorted[j].PlatformID })

	parts := make([]string, len(sorted))
	for i, load := range sorted {
		parts[i] = fmt.Sprintf("%d:%d", load.PlatformID, load.Workers)
	}
	fmt.Fprintf(out, "%s platforms (fair share %d): %s\n", label, fairShare, strings.Join(parts, " "))
}
