package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level orders log severities
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel accepts debug, info, warn/warning and error in any case
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO", "":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// StdLogger writes ContainerLogger entries through the standard library log
// package as text or one JSON object per line.
type StdLogger struct {
	mu     sync.Mutex
	out    *log.Logger
	min    Level
	json   bool
	closer io.Closer
}

// Options mirrors the logging section of the configuration
type Options struct {
	Level         string
	Format        string
	Output        string
	FilePath      string
	IncludeCaller bool
}

// NewStdLogger builds a logger for the given options. Close releases the
// file when Output is "file".
func NewStdLogger(opts Options) (*StdLogger, error) {
	min, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	var w io.Writer
	var closer io.Closer
	switch opts.Output {
	case "", "stderr":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	case "file":
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	default:
		return nil, fmt.Errorf("unknown log output %q", opts.Output)
	}

	return NewWriterLogger(w, min, opts.Format == "json", opts.IncludeCaller, closer), nil
}

// NewWriterLogger logs to an arbitrary writer
func NewWriterLogger(w io.Writer, min Level, asJSON, includeCaller bool, closer io.Closer) *StdLogger {
	flags := log.LstdFlags | log.LUTC
	if asJSON {
		flags = 0
	}
	if includeCaller {
		flags |= log.Lshortfile
	}
	return &StdLogger{
		out:    log.New(w, "", flags),
		min:    min,
		json:   asJSON,
		closer: closer,
	}
}

func (l *StdLogger) Log(level, message string, metadata map[string]interface{}) {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = LevelInfo
	}
	if lvl < l.min {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.json {
		entry := make(map[string]interface{}, len(metadata)+2)
		for k, v := range metadata {
			entry[k] = v
		}
		entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)
		entry["level"] = lvl.String()
		entry["message"] = message
		data, err := json.Marshal(entry)
		if err != nil {
			l.out.Printf(`{"level":"ERROR","message":"unencodable log entry: %v"}`, err)
			return
		}
		_ = l.out.Output(2, string(data))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", lvl, message)
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, metadata[k])
	}
	_ = l.out.Output(2, b.String())
}

// Close releases the log file, if any
func (l *StdLogger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
