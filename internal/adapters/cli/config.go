package cli

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colony-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage Colony configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (COLONY_* prefix, plus DATABASE_URL)
2. Config file (colony.yaml)
3. Default values

User preferences (default scenario and graph) are stored in ~/.colony/preferences.yaml

Examples:
  colony config show
  colony config set-scenario scenarios/fairness.yaml
  colony config set-graph 1
  colony config clear`,
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetScenarioCommand())
	cmd.AddCommand(newConfigSetGraphCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long: `Display the current configuration settings.

Shows both system configuration and user preferences.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := loadConfig()
			if err != nil {
				fmt.Fprintf(out, "Warning: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Fprintln(out, "Colony Configuration")
			fmt.Fprintln(out, "====================")

			fmt.Fprintln(out, "User Preferences:")
			fmt.Fprintf(out, "  Config file:      %s\n", userConfigHandler.GetConfigPath())
			fmt.Fprintf(out, "  Default Scenario: %s\n", orNotSet(userCfg.DefaultScenario))
			if userCfg.DefaultGraph != nil {
				fmt.Fprintf(out, "  Default Graph:    %d\n", *userCfg.DefaultGraph)
			} else {
				fmt.Fprintf(out, "  Default Graph:    (not set)\n")
			}

			fmt.Fprintln(out, "\nSimulation:")
			fmt.Fprintf(out, "  Scenario:         %s\n", orNotSet(cfg.Simulation.Scenario))
			fmt.Fprintf(out, "  Seed:             %d\n", cfg.Simulation.Seed)
			fmt.Fprintf(out, "  Pathfinder:       %s\n", cfg.Simulation.Pathfinder)
			if cfg.Simulation.Ticks == 0 {
				fmt.Fprintf(out, "  Ticks:            until interrupted\n")
			} else {
				fmt.Fprintf(out, "  Ticks:            %d\n", cfg.Simulation.Ticks)
			}
			if cfg.Simulation.TicksPerSecond == 0 {
				fmt.Fprintf(out, "  Pace:             unthrottled\n")
			} else {
				fmt.Fprintf(out, "  Pace:             %g ticks/s\n", cfg.Simulation.TicksPerSecond)
			}

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Fprintf(out, "  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Fprintf(out, "  Host:             %s\n", cfg.Database.Host)
				fmt.Fprintf(out, "  Port:             %d\n", cfg.Database.Port)
				fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
				fmt.Fprintf(out, "  User:             %s\n", cfg.Database.User)
				fmt.Fprintf(out, "  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)
			}

			fmt.Fprintln(out, "\nJournal:")
			fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Journal.Enabled)
			fmt.Fprintf(out, "  Batch Size:       %d\n", cfg.Journal.BatchSize)

			fmt.Fprintln(out, "\nMetrics:")
			fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Metrics.Enabled)
			fmt.Fprintf(out, "  Endpoint:         http://%s%s\n", cfg.Metrics.Address(), cfg.Metrics.Path)

			fmt.Fprintln(out, "\nHealth:")
			fmt.Fprintf(out, "  Enabled:          %t\n", cfg.Health.Enabled)
			fmt.Fprintf(out, "  Socket:           %s\n", cfg.Health.Socket)

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}
}

// newConfigSetScenarioCommand creates the config set-scenario subcommand
func newConfigSetScenarioCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-scenario <path>",
		Short: "Set default scenario",
		Long: `Set the scenario file used when --scenario is not given.

The file must exist; it is validated again every time it is loaded.

Example:
  colony config set-scenario scenarios/fairness.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("scenario file not found: %s", path)
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaultScenario(path); err != nil {
				return fmt.Errorf("failed to set default scenario: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Default scenario set:", path)
			return nil
		},
	}
}

// newConfigSetGraphCommand creates the config set-graph subcommand
func newConfigSetGraphCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-graph <index>",
		Short: "Set default graph",
		Long: `Set the graph used by 'colony path' when --graph is not given.

Example:
  colony config set-graph 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil || index < 0 {
				return fmt.Errorf("graph index must be a non-negative integer: %s", args[0])
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaultGraph(index); err != nil {
				return fmt.Errorf("failed to set default graph: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Default graph set: %d\n", index)
			return nil
		},
	}
}

// newConfigClearCommand creates the config clear subcommand
func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear user preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.Clear(); err != nil {
				return fmt.Errorf("failed to clear preferences: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ User preferences cleared")
			return nil
		},
	}
}

// maskPassword hides the password of a connection URL for display
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
