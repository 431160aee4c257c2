package config

// HealthConfig configures the gRPC health endpoint served during simulate
type HealthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Socket  string `mapstructure:"socket" validate:"required_if=Enabled true"`
}
