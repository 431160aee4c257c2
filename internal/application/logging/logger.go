package logging

import "context"

// ContainerLogger provides logging functionality for simulation components
type ContainerLogger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger ContainerLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) ContainerLogger {
	if logger, ok := ctx.Value(loggerKey).(ContainerLogger); ok {
		return logger
	}
	return &noOpLogger{}
}

// noOpLogger is a logger that does nothing (fallback when no logger in context)
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {
	// Do nothing
}

// Fanout sends every entry to each logger in turn
type Fanout []ContainerLogger

func (f Fanout) Log(level, message string, metadata map[string]interface{}) {
	for _, logger := range f {
		logger.Log(level, message, metadata)
	}
}

// LevelFilter drops entries below Min before handing them to Next
type LevelFilter struct {
	Min  Level
	Next ContainerLogger
}

func (f LevelFilter) Log(level, message string, metadata map[string]interface{}) {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = LevelInfo
	}
	if lvl < f.Min {
		return
	}
	f.Next.Log(level, message, metadata)
}
