package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colony-go/internal/application/logging"
	"github.com/andrescamacho/colony-go/internal/application/scheduling/queries"
	"github.com/andrescamacho/colony-go/internal/application/simulation"
	"github.com/andrescamacho/colony-go/internal/domain/routing"
)

// NewPathCommand creates the path command
func NewPathCommand() *cobra.Command {
	var (
		scenario   string
		graphIndex int
		from       int
		to         int
		pathfinder string
	)

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Find the cheapest route between two platforms",
		Long: `Build the scenario's graphs and search for a route without ticking.

Examples:
  colony path --scenario scenarios/fairness.yaml --from 2 --to 4
  colony path --graph 1 --from 1 --to 9 --pathfinder dijkstra`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("pathfinder") {
				cfg.Simulation.Pathfinder = pathfinder
			}

			scenarioPath, err := resolveScenarioPath(scenario, cfg)
			if err != nil {
				return err
			}
			sc, err := simulation.LoadScenario(scenarioPath)
			if err != nil {
				return err
			}
			pf, err := routing.NewPathfinder(cfg.Simulation.Pathfinder, nil)
			if err != nil {
				return err
			}

			logger, err := logging.NewStdLogger(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Output: "stderr",
			})
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer logger.Close()

			world, err := simulation.NewWorld(simulation.Config{
				Scenario:   sc,
				Seed:       sc.SeedOr(cfg.Simulation.Seed),
				Pathfinder: pf,
				Logger:     logger,
			})
			if err != nil {
				return err
			}

			query := &queries.FindPathQuery{
				GraphIndex: resolveGraphIndex(graphIndex, cmd.Flags().Changed("graph")),
				FromNodeID: from,
				ToNodeID:   to,
			}
			response, err := world.Send(context.Background(), query)
			if err != nil {
				return err
			}
			result, ok := response.(*queries.FindPathResponse)
			if !ok {
				return fmt.Errorf("unexpected response type %T", response)
			}

			out := cmd.OutOrStdout()
			if !result.Found {
				fmt.Fprintf(out, "No route from %d to %d on graph %d (%s)\n", from, to, query.GraphIndex, result.Strategy)
				return nil
			}

			ids := make([]string, len(result.NodeIDs))
			for i, id := range result.NodeIDs {
				ids[i] = strconv.Itoa(id)
			}
			fmt.Fprintf(out, "Route: %s\n", strings.Join(ids, " → "))
			fmt.Fprintf(out, "Cost:  %.3f\n", result.Cost)
			fmt.Fprintf(out, "Hops:  %d (%s)\n", len(result.NodeIDs)-1, result.Strategy)
			return nil
		},
	}

	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "Scenario file")
	cmd.Flags().IntVarP(&graphIndex, "graph", "g", 0, "Graph index (default: user preference, else 0)")
	cmd.Flags().IntVar(&from, "from", 0, "Start platform node id")
	cmd.Flags().IntVar(&to, "to", 0, "Destination platform node id")
	cmd.Flags().StringVar(&pathfinder, "pathfinder", "", "Pathfinding strategy (astar, dijkstra)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
