package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	// Arrange
	path := writeFile(t, t.TempDir(), "colony.yaml", "simulation:\n  seed: 11\n")

	// Act
	cfg, err := LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(11), cfg.Simulation.Seed)
	assert.Equal(t, "astar", cfg.Simulation.Pathfinder)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "colony.db", cfg.Database.Path)
	assert.Equal(t, 256, cfg.Journal.BatchSize)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "localhost:9090", cfg.Metrics.Address())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	// Arrange
	path := writeFile(t, t.TempDir(), "colony.yaml", "simulation:\n  pathfinder: astar\n")
	t.Setenv("COLONY_SIMULATION_PATHFINDER", "dijkstra")
	t.Setenv("COLONY_SIMULATION_SEED", "99")

	// Act
	cfg, err := LoadConfig(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "dijkstra", cfg.Simulation.Pathfinder)
	assert.Equal(t, int64(99), cfg.Simulation.Seed)
}

func TestLoadConfig_RejectsUnknownPathfinder(t *testing.T) {
	path := writeFile(t, t.TempDir(), "colony.yaml", "simulation:\n  pathfinder: bfs\n")

	_, err := LoadConfig(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Pathfinder")
}

func TestLoadConfig_FileOutputNeedsPath(t *testing.T) {
	path := writeFile(t, t.TempDir(), "colony.yaml", "logging:\n  output: file\n")

	_, err := LoadConfig(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "FilePath")
}

func TestUserConfigHandler_RoundTripsPreferences(t *testing.T) {
	// Arrange
	handler, err := NewUserConfigHandlerAt(t.TempDir())
	require.NoError(t, err)

	// Act
	require.NoError(t, handler.SetDefaultScenario("scenarios/fairness.yaml"))
	require.NoError(t, handler.SetDefaultGraph(2))
	loaded, err := handler.Load()

	// Assert
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(loaded.DefaultScenario))
	assert.Equal(t, filepath.Join("scenarios", "fairness.yaml"), filepath.Join(filepath.Base(filepath.Dir(loaded.DefaultScenario)), filepath.Base(loaded.DefaultScenario)))
	require.NotNil(t, loaded.DefaultGraph)
	assert.Equal(t, 2, *loaded.DefaultGraph)

	require.NoError(t, handler.Clear())
	cleared, err := handler.Load()
	require.NoError(t, err)
	assert.Empty(t, cleared.DefaultScenario)
	assert.Nil(t, cleared.DefaultGraph)
}

func TestUserConfigHandler_MissingFileIsEmpty(t *testing.T) {
	handler, err := NewUserConfigHandlerAt(t.TempDir())
	require.NoError(t, err)

	loaded, err := handler.Load()

	require.NoError(t, err)
	assert.Empty(t, loaded.DefaultScenario)
}

func TestValidateConfig_SqliteNeedsPath(t *testing.T) {
	cfg := &Config{}
	SetDefaults(cfg)
	cfg.Database.Path = ""

	err := ValidateConfig(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Database.Path is required for sqlite databases")
}

func TestValidateConfig_PostgresNeedsTarget(t *testing.T) {
	// Arrange
	cfg := &Config{}
	SetDefaults(cfg)
	cfg.Database.Type = "postgres"
	cfg.Database.Host = ""

	// Act
	missing := ValidateConfig(cfg)
	cfg.Database.URL = "postgresql://colony@db:5432/colony"
	withURL := ValidateConfig(cfg)

	// Assert
	require.Error(t, missing)
	assert.Contains(t, missing.Error(), "Database.URL")
	assert.NoError(t, withURL)
}

func TestValidateConfig_MetricsPathMustBeAbsolute(t *testing.T) {
	cfg := &Config{}
	SetDefaults(cfg)
	cfg.Metrics.Enabled = true
	cfg.Metrics.Path = "metrics"

	err := ValidateConfig(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Metrics.Path must start with '/'")
}
