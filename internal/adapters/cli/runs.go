package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colony-go/internal/adapters/persistence"
	"github.com/andrescamacho/colony-go/internal/domain/distribution"
	"github.com/andrescamacho/colony-go/internal/domain/shared"
	"github.com/andrescamacho/colony-go/internal/infrastructure/database"
)

// NewRunsCommand creates the runs command with subcommands
func NewRunsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect journaled simulation runs",
		Long:  `Inspect runs recorded with 'colony simulate --journal': their status, logs and assignment events.`,
	}

	cmd.AddCommand(newRunsListCommand())
	cmd.AddCommand(newRunsShowCommand())
	cmd.AddCommand(newRunsLogsCommand())
	cmd.AddCommand(newRunsJournalCommand())

	return cmd
}

// newRunsListCommand lists recent runs
func newRunsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			runs, err := persistence.NewGormSimulationRunRepository(db).ListRecent(context.Background(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs found")
				return nil
			}

			fmt.Fprintf(out, "%-30s %-20s %-10s %-8s %s\n", "RUN ID", "SCENARIO", "STATUS", "TICKS", "STARTED")
			fmt.Fprintln(out, "─────────────────────────────────────────────────────────────────────────────────")
			for _, r := range runs {
				fmt.Fprintf(out, "%-30s %-20s %-10s %-8d %s\n",
					truncate(r.ID(), 30),
					truncate(r.Scenario(), 20),
					r.Status(),
					r.Ticks(),
					formatTimestamp(r.StartedAt()),
				)
			}
			fmt.Fprintf(out, "\nTotal: %d runs\n", len(runs))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs")

	return cmd
}

// newRunsShowCommand shows one run
func newRunsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			r, err := persistence.NewGormSimulationRunRepository(db).FindByID(context.Background(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:         %s\n", r.ID())
			fmt.Fprintf(out, "Scenario:    %s\n", r.Scenario())
			fmt.Fprintf(out, "Seed:        %d\n", r.Seed())
			fmt.Fprintf(out, "Pathfinder:  %s\n", r.Pathfinder())
			fmt.Fprintf(out, "Status:      %s\n", r.Status())
			fmt.Fprintf(out, "Ticks:       %d\n", r.Ticks())
			fmt.Fprintf(out, "Started:     %s\n", formatTimestamp(r.StartedAt()))
			if r.StoppedAt() != nil {
				fmt.Fprintf(out, "Stopped:     %s (%s)\n", formatTimestamp(*r.StoppedAt()), r.Duration())
			}
			if r.ExitReason() != "" {
				fmt.Fprintf(out, "Exit reason: %s\n", r.ExitReason())
			}
			return nil
		},
	}
}

// newRunsLogsCommand prints the logs stored with a run
func newRunsLogsCommand() *cobra.Command {
	var (
		limit int
		level string
	)

	cmd := &cobra.Command{
		Use:   "logs <run-id>",
		Short: "Get logs from a run",
		Long: `Retrieve logs for a specific run from the database.

Examples:
  colony runs logs fairness-a3f8e2b1
  colony runs logs fairness-a3f8e2b1 --limit 50
  colony runs logs fairness-a3f8e2b1 --level ERROR`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			logRepo := persistence.NewGormSimulationLogRepository(db, nil)

			var levelPtr *string
			if level != "" {
				upper := strings.ToUpper(level)
				levelPtr = &upper
			}

			logs, err := logRepo.GetLogs(context.Background(), runID, limit, 0, levelPtr, nil)
			if err != nil {
				return fmt.Errorf("failed to get logs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(logs) == 0 {
				fmt.Fprintln(out, "No logs found for run:", runID)
				return nil
			}

			// newest first from the repository, print oldest first
			for i := len(logs) - 1; i >= 0; i-- {
				log := logs[i]
				fmt.Fprintf(out, "[%s] [%s] %s\n",
					formatTimestamp(log.Timestamp),
					log.Level,
					log.Message,
				)
			}

			fmt.Fprintf(out, "\nTotal: %d log entries\n", len(logs))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of log entries")
	cmd.Flags().StringVar(&level, "level", "", "Filter by log level (DEBUG, INFO, WARNING, ERROR)")

	return cmd
}

// newRunsJournalCommand prints the assignment events of a run
func newRunsJournalCommand() *cobra.Command {
	var (
		kind       string
		graphIndex int
		unitID     int
		platformID int
		fromTick   uint64
		toTick     uint64
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "journal <run-id>",
		Short: "List the assignment events of a run",
		Long: `List every recorded assignment change in tick order.

Kinds: dispatch, transfer, manual_assign, manual_unassign, job_change,
unit_death, platform_death.

Examples:
  colony runs journal fairness-a3f8e2b1 --kind transfer
  colony runs journal fairness-a3f8e2b1 --unit 4 --from-tick 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			flags := cmd.Flags()
			filter := persistence.JournalFilter{Limit: limit}
			if kind != "" {
				k := distribution.EventKind(strings.ToLower(kind))
				filter.Kind = &k
			}
			if flags.Changed("graph") {
				filter.GraphIndex = &graphIndex
			}
			if flags.Changed("unit") {
				filter.UnitID = &unitID
			}
			if flags.Changed("platform") {
				filter.PlatformID = &platformID
			}
			if flags.Changed("from-tick") {
				t := shared.Tick(fromTick)
				filter.FromTick = &t
			}
			if flags.Changed("to-tick") {
				t := shared.Tick(toTick)
				filter.ToTick = &t
			}

			journal := persistence.NewGormAssignmentJournal(db, args[0], cfg.Journal.BatchSize)
			events, err := journal.List(context.Background(), args[0], filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No events found for run:", args[0])
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TICK\tGRAPH\tKIND\tUNIT\tPLATFORM\tACTION\tFROM\tTO")
			fmt.Fprintln(w, "----\t-----\t----\t----\t--------\t------\t----\t--")
			for _, e := range events {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
					e.Tick, e.GraphIndex, e.Kind,
					formatID(e.UnitID), formatID(e.PlatformID), formatID(e.ActionID),
					e.FromJob, e.ToJob,
				)
			}
			w.Flush()

			fmt.Fprintf(out, "\nTotal: %d events\n", len(events))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Filter by event kind")
	cmd.Flags().IntVar(&graphIndex, "graph", 0, "Filter by graph index")
	cmd.Flags().IntVar(&unitID, "unit", 0, "Filter by worker id")
	cmd.Flags().IntVar(&platformID, "platform", 0, "Filter by platform node id")
	cmd.Flags().Uint64Var(&fromTick, "from-tick", 0, "First tick to include")
	cmd.Flags().Uint64Var(&toTick, "to-tick", 0, "Last tick to include")
	cmd.Flags().IntVar(&limit, "limit", 500, "Maximum number of events")

	return cmd
}

func formatID(id int) string {
	if id == distribution.NoID {
		return "-"
	}
	return fmt.Sprint(id)
}
