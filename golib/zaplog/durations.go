package zaplog

import (
	"time"

	"go.uber.org/zap"
)

type duration struct {
	name     string
	duration time.Duration
}

// Durations records how long the phases of a run took.
type Durations []duration

// Record records a duration
func (t *Durations) Record(name string, d time.Duration) {
	*t = append(*t, duration{name, d})
}

// Since records the time elapsed since start and returns the current time,
// so consecutive phases can be chained.
func (t *Durations) Since(name string, start time.Time) time.Time {
	now := time.Now()
	t.Record(name, now.Sub(start))
	return now
}

// Flush logs all recorded durations as one message and resets the tracker.
func (t *Durations) Flush(l *zap.Logger, msg string) {
	fields := make([]zap.Field, 0, len(*t))
	for _, entry := range *t {
		fields = append(fields, zap.Duration(entry.name, entry.duration))
	}
	OrNop(l).Info(msg, fields...)
	*t = nil
}
