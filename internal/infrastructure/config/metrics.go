package config

// MetricsConfig configures the Prometheus scrape endpoint opened for the
// duration of a simulate run
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`
	Path    string `mapstructure:"path"`
}

// Address returns host:port for the metrics listener
func (m MetricsConfig) Address() string {
	return joinHostPort(m.Host, m.Port)
}
