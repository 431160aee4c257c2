package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const preferencesFile = "preferences.yaml"

// UserConfig holds per-user CLI preferences kept in ~/.colony/preferences.yaml
type UserConfig struct {
	// Scenario simulated when --scenario is omitted
	DefaultScenario string `mapstructure:"default_scenario"`

	// Graph routed on when --graph is omitted
	DefaultGraph *int `mapstructure:"default_graph"`
}

// UserConfigHandler reads and writes the preferences file
type UserConfigHandler struct {
	configPath string
}

func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewUserConfigHandlerAt(filepath.Join(homeDir, ".colony"))
}

// NewUserConfigHandlerAt keeps the preferences file in dir
func NewUserConfigHandlerAt(dir string) (*UserConfigHandler, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return &UserConfigHandler{configPath: filepath.Join(dir, preferencesFile)}, nil
}

// Load returns empty preferences when the file does not exist yet
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	if _, err := os.Stat(h.configPath); errors.Is(err, fs.ErrNotExist) {
		return &UserConfig{}, nil
	}

	v := viper.New()
	v.SetConfigFile(h.configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var prefs UserConfig
	if err := v.Unmarshal(&prefs); err != nil {
		return nil, fmt.Errorf("failed to parse preferences: %w", err)
	}
	return &prefs, nil
}

// Save replaces the preferences file. Unset preferences are left out.
func (h *UserConfigHandler) Save(prefs *UserConfig) error {
	v := viper.New()
	if prefs.DefaultScenario != "" {
		v.Set("default_scenario", prefs.DefaultScenario)
	}
	if prefs.DefaultGraph != nil {
		v.Set("default_graph", *prefs.DefaultGraph)
	}

	if err := v.WriteConfigAs(h.configPath); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

func (h *UserConfigHandler) update(apply func(*UserConfig)) error {
	prefs, err := h.Load()
	if err != nil {
		return err
	}
	apply(prefs)
	return h.Save(prefs)
}

// SetDefaultScenario stores the scenario path as an absolute path so it
// resolves from any working directory
func (h *UserConfigHandler) SetDefaultScenario(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return h.update(func(prefs *UserConfig) { prefs.DefaultScenario = abs })
}

func (h *UserConfigHandler) SetDefaultGraph(index int) error {
	return h.update(func(prefs *UserConfig) { prefs.DefaultGraph = &index })
}

// Clear removes every preference
func (h *UserConfigHandler) Clear() error {
	return h.Save(&UserConfig{})
}

func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
