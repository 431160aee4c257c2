package config

// SimulationConfig holds the tick loop configuration
type SimulationConfig struct {
	// Seed for every random source (per-graph sources use seed + graph index)
	Seed int64 `mapstructure:"seed"`

	// Pathfinding strategy: astar, dijkstra
	Pathfinder string `mapstructure:"pathfinder" validate:"required,oneof=astar dijkstra"`

	// Number of ticks to run (0 runs until cancelled)
	Ticks int `mapstructure:"ticks" validate:"min=0"`

	// Real-time pacing (0 runs as fast as possible)
	TicksPerSecond float64 `mapstructure:"ticks_per_second" validate:"min=0"`

	// Scenario file describing graphs, platforms and workers
	Scenario string `mapstructure:"scenario"`
}

// JournalConfig holds assignment journal configuration
type JournalConfig struct {
	// Persist assignment events to the database
	Enabled bool `mapstructure:"enabled"`

	// Rows per INSERT when the buffered events of a tick are flushed
	BatchSize int `mapstructure:"batch_size" validate:"min=1"`
}
