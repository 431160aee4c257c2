package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// Version is stamped at build time with -ldflags "-X .../cli.Version=..."
var Version = "dev"

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "colony",
		Short: "Colony - labor distribution simulator",
		Long: `Colony runs worker scheduling scenarios: job pools, FIFO task queues,
fair per-platform staffing and A* routing over platform graphs.

Examples:
  colony simulate --scenario scenarios/fairness.yaml --ticks 100
  colony simulate --ticks 0 --tps 10 --metrics
  colony path --scenario scenarios/fairness.yaml --from 2 --to 4
  colony runs list
  colony runs journal fairness-a3f8e2b1 --kind transfer
  colony config set-scenario scenarios/fairness.yaml`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./colony.yaml, ./configs/colony.yaml, /etc/colony/colony.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	// Add command groups
	rootCmd.AddCommand(NewSimulateCommand())
	rootCmd.AddCommand(NewPathCommand())
	rootCmd.AddCommand(NewRunsCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// NewVersionCommand prints the build version
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "colony %s\n", Version)
		},
	}
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
