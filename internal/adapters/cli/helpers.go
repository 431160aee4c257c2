package cli

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/colony-go/internal/infrastructure/config"
	"github.com/andrescamacho/colony-go/internal/infrastructure/database"
)

// loadConfig reads the config selected by --config
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// openDatabase connects and makes sure the run tables exist
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		database.Close(db)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// resolveScenarioPath picks the scenario file
// Priority: --scenario flag > simulation.scenario config > user default
func resolveScenarioPath(flagValue string, cfg *config.Config) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.Simulation.Scenario != "" {
		return cfg.Simulation.Scenario, nil
	}

	userConfigHandler, err := config.NewUserConfigHandler()
	if err != nil {
		return "", fmt.Errorf("no scenario specified and failed to load user config: %w", err)
	}
	userCfg, err := userConfigHandler.Load()
	if err != nil {
		return "", fmt.Errorf("no scenario specified and failed to load user config: %w", err)
	}
	if userCfg.DefaultScenario != "" {
		return userCfg.DefaultScenario, nil
	}

	return "", fmt.Errorf("no scenario specified: use --scenario, set simulation.scenario, or run 'colony config set-scenario'")
}

// resolveGraphIndex picks the graph for single-graph commands
// Priority: --graph flag > user default > 0
func resolveGraphIndex(flagValue int, flagSet bool) int {
	if flagSet {
		return flagValue
	}
	userConfigHandler, err := config.NewUserConfigHandler()
	if err != nil {
		return 0
	}
	userCfg, err := userConfigHandler.Load()
	if err != nil || userCfg.DefaultGraph == nil {
		return 0
	}
	return *userCfg.DefaultGraph
}

func formatTimestamp(ts time.Time) string {
	return ts.Format("2006-01-02 15:04:05")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
