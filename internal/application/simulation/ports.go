package simulation

import (
	"context"
	"time"

	"github.com/andrescamacho/colony-go/internal/domain/distribution"
)

// Journal buffers assignment events and persists them once per tick
type Journal interface {
	distribution.EventSink
	Flush(ctx context.Context) error
}

// TickRecorder observes tick durations and the per-graph snapshot taken
// after every tick
type TickRecorder interface {
	RecordTick(duration time.Duration)
	RecordStats(stats distribution.Stats)
}

type noOpTickRecorder struct{}

func (noOpTickRecorder) RecordTick(time.Duration)       {}
func (noOpTickRecorder) RecordStats(distribution.Stats) {}
