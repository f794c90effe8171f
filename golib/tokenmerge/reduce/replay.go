package reduce

import (
	"context"

	"go.uber.org/zap"

	"github.com/SAFedorov/logochemy/golib/errors"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/splitting"
)

// Replay applies a recorded merge log to s, one merge per record in order.
// Given the splitting a log was learned from, it reproduces the splitting the
// learning run ended with. With a debug logger the splitting is validated
// after every record.
func Replay(ctx context.Context, s splitting.Splitting, log []splitting.Record, opts Options) (splitting.Splitting, error) {
	e, err := splitting.Extend(s)
	if err != nil {
		return nil, err
	}

	l := logger(opts)
	check := l.Core().Enabled(zap.DebugLevel)
	l.Info("replaying merge log", zap.Int("records", len(log)), zap.Int("tokens", e.NumTokens()))
	for i, rec := range log {
		if err := checkCtx(ctx, "replay", i); err != nil {
			return e.Compact(), err
		}
		before := e.NumTokens()
		e = splitting.Merge(e, rec)
		if check {
			if err := e.Validate(); err != nil {
				return e.Compact(), errors.Wrapf(err, "replay record %d", i)
			}
		}
		opts.report(l, Step{Iter: i, Record: rec, Tokens: before})
	}
	l.Info("replayed merge log", zap.Int("tokens", e.NumTokens()))
	return e.Compact(), nil
}
