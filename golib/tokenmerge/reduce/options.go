// Package reduce learns merges over a splitting: it repeatedly counts
// adjacent tokens, picks sequences to fuse and rewrites the splitting, and it
// replays recorded merges onto a fresh splitting of the same text.
package reduce

import (
	"context"

	"go.uber.org/zap"

	"github.com/SAFedorov/logochemy/golib/errors"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/splitting"
	"github.com/SAFedorov/logochemy/golib/zaplog"
)

// ErrInvalidOptions is returned when reduction options are out of range.
var ErrInvalidOptions = errors.New("invalid reduce options")

// Options are shared by all reducers.
type Options struct {
	// Logger receives one message per iteration; nil disables logging.
	Logger *zap.Logger
	// Progress, if set, is called after each iteration has been applied.
	Progress func(Step)
}

// PairStats describes the pair picked by Pairs.
type PairStats struct {
	N1  int     // count of the first token
	N2  int     // count of the second token
	N12 int     // count of the pair
	MI  float64 // mutual information in bits
}

// NGramStats describes the last sequence picked in an iteration of NGrams.
type NGramStats struct {
	Count int     // occurrences of the sequence
	Freq  float64 // Count divided by the number of input tokens
	// Criterion is (n-1)*f*k*ln(k), with k the vocabulary size. A merge pays
	// off in description length when it exceeds 1.
	Criterion float64
}

// Step is one iteration of a reduction.
type Step struct {
	Iter      int
	Record    splitting.Record
	Tokens    int // tokens before the merge
	VocabSize int // distinct tokens before the merge

	Pair  *PairStats
	NGram *NGramStats
}

// Log extracts the merge log of a run.
func Log(steps []Step) []splitting.Record {
	log := make([]splitting.Record, 0, len(steps))
	for _, s := range steps {
		log = append(log, s.Record)
	}
	return log
}

func (o Options) report(l *zap.Logger, step Step) {
	fields := []zap.Field{
		zap.Int("iter", step.Iter),
		zap.Int("tokens", step.Tokens),
		zap.Int("vocab", step.VocabSize),
		zap.Int("sequences", len(step.Record)),
	}
	switch {
	case step.Pair != nil:
		fields = append(fields,
			zap.Strings("pair", step.Record[0]),
			zap.Int("n1", step.Pair.N1),
			zap.Int("n2", step.Pair.N2),
			zap.Int("n12", step.Pair.N12),
			zap.Float64("mi", step.Pair.MI))
	case step.NGram != nil:
		fields = append(fields,
			zap.Int("count", step.NGram.Count),
			zap.Float64("freq", step.NGram.Freq),
			zap.Float64("criterion", step.NGram.Criterion))
	}
	l.Debug("merge", fields...)
	if o.Progress != nil {
		o.Progress(step)
	}
}

func checkCtx(ctx context.Context, what string, iter int) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, "%s stopped at iteration %d", what, iter)
	}
	return nil
}

func logger(o Options) *zap.Logger {
	return zaplog.OrNop(o.Logger)
}
