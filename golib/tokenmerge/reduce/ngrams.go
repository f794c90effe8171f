package reduce

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/SAFedorov/logochemy/golib/errors"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/ngram"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/splitting"
)

// NGramOptions configures NGrams.
type NGramOptions struct {
	// MaxN is the longest sequence of tokens merged at once, at least 2.
	MaxN int
	// Iterations is the number of counting passes.
	Iterations int
	// MergesPerIter is the number of non-overlapping merges per pass, at least 1.
	// More merges per pass make the reduction faster but the result less dense.
	MergesPerIter int
	Options
}

// Validate checks the option ranges.
func (o NGramOptions) Validate() error {
	switch {
	case o.MaxN < 2:
		return errors.Wrapf(ErrInvalidOptions, "max n must be >= 2, got %d", o.MaxN)
	case o.Iterations < 0:
		return errors.Wrapf(ErrInvalidOptions, "iterations must be >= 0, got %d", o.Iterations)
	case o.MergesPerIter < 1:
		return errors.Wrapf(ErrInvalidOptions, "merges per iteration must be >= 1, got %d", o.MergesPerIter)
	}
	return nil
}

// NGrams merges the most frequent sequences of 2 to MaxN tokens.
//
// Each pass counts the n-grams of every length and ranks the lengths by
// count*(n-1), the number of tokens saved by merging the most frequent
// sequence of that length. The best sequence of the best length is picked,
// and while more picks remain every sequence sharing a token with an
// already picked one is excluded, so the picks of one pass never conflict.
// All picks of a pass are applied with a single merge.
//
// Equal scores across lengths go to the shorter length; within a length,
// equal counts go to the lexicographically smallest sequence. A pass with
// nothing left to pick ends the run.
func NGrams(ctx context.Context, s splitting.Splitting, opts NGramOptions) (splitting.Splitting, []Step, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	e, err := splitting.Extend(s)
	if err != nil {
		return nil, nil, err
	}

	l := logger(opts.Options)
	var steps []Step
	for i := 0; i < opts.Iterations; i++ {
		if err := checkCtx(ctx, "n-gram reduction", i); err != nil {
			return e.Compact(), steps, err
		}

		step, ok := selectNGrams(e.Compact(), opts.MaxN, opts.MergesPerIter)
		if !ok {
			l.Info("no sequences left to merge", zap.Int("iter", i), zap.Int("tokens", e.NumTokens()))
			break
		}
		step.Iter = i
		e = splitting.Merge(e, step.Record)

		opts.report(l, step)
		steps = append(steps, step)
	}
	return e.Compact(), steps, nil
}

func selectNGrams(stream splitting.Splitting, maxN, mpi int) (Step, bool) {
	tables := make([]*ngram.Table, 0, maxN-1)
	for n := 2; n <= maxN; n++ {
		tables = append(tables, ngram.Count(stream, n))
	}

	var rec splitting.Record
	var last splitting.Seq
	var lastCount int
	affected := make(map[string]struct{})
	for m := 0; m < mpi; m++ {
		best := bestTable(tables)
		if best == nil {
			break
		}
		seq, count, _ := best.MostCommon()
		rec = append(rec, seq)
		last, lastCount = seq, count
		for _, tok := range seq {
			affected[tok] = struct{}{}
		}

		if m < mpi-1 {
			overlaps := func(s splitting.Seq) bool {
				for _, tok := range s {
					if _, ok := affected[tok]; ok {
						return true
					}
				}
				return false
			}
			for _, t := range tables {
				t.Invalidate(overlaps)
			}
		}
	}
	if len(rec) == 0 {
		return Step{}, false
	}

	vocab := len(ngram.Unigrams(stream))
	freq := float64(lastCount) / float64(len(stream))
	return Step{
		Record:    rec,
		Tokens:    len(stream),
		VocabSize: vocab,
		NGram: &NGramStats{
			Count:     lastCount,
			Freq:      freq,
			Criterion: float64(len(last)-1) * freq * float64(vocab) * math.Log(float64(vocab)),
		},
	}, true
}

// bestTable returns the table with the highest positive score, the shortest
// n on ties, or nil when no table has anything left to pick.
func bestTable(tables []*ngram.Table) *ngram.Table {
	var best *ngram.Table
	var bestScore int
	for _, t := range tables {
		if score := t.Score(); score > bestScore {
			best, bestScore = t, score
		}
	}
	return best
}
