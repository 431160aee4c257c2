package config

// LoggingConfig controls the process logger. Run logs written to the
// database are not affected by Output.
type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// json writes one object per line
	Format string `mapstructure:"format" validate:"required,oneof=json text"`

	Output   string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`
	FilePath string `mapstructure:"file_path" validate:"required_if=Output file"`

	// Prefix entries with file:line
	IncludeCaller bool `mapstructure:"include_caller"`
}
