package reduce

import (
	"context"

	"go.uber.org/zap"

	"github.com/SAFedorov/logochemy/golib/errors"
	"github.com/SAFedorov/logochemy/golib/infotheory"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/ngram"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/splitting"
)

// PairOptions configures Pairs.
type PairOptions struct {
	Iterations int
	Options
}

// Pairs is byte-pair encoding driven by mutual information: each iteration
// merges the adjacent pair (c1, c2) for which knowing that c1 occurred tells
// the most about c2 following it.
//
// Ties on mutual information go to the more frequent pair, then to the
// lexicographically smallest one. The run ends early, without error, once
// fewer than two tokens are left. On cancellation the splitting reached so far
// is returned together with the error.
func Pairs(ctx context.Context, s splitting.Splitting, opts PairOptions) (splitting.Splitting, []Step, error) {
	if opts.Iterations < 0 {
		return nil, nil, errors.Wrapf(ErrInvalidOptions, "iterations must be >= 0, got %d", opts.Iterations)
	}
	e, err := splitting.Extend(s)
	if err != nil {
		return nil, nil, err
	}

	l := logger(opts.Options)
	var steps []Step
	for i := 0; i < opts.Iterations; i++ {
		if err := checkCtx(ctx, "pair reduction", i); err != nil {
			return e.Compact(), steps, err
		}

		step, ok := selectPair(e.Compact())
		if !ok {
			l.Info("no pairs left to merge", zap.Int("iter", i), zap.Int("tokens", e.NumTokens()))
			break
		}
		step.Iter = i
		e = splitting.Merge(e, step.Record)

		opts.report(l, step)
		steps = append(steps, step)
	}
	return e.Compact(), steps, nil
}

func selectPair(stream splitting.Splitting) (Step, bool) {
	uni := ngram.Unigrams(stream)
	pairs := ngram.Count(stream, 2)
	total := float64(len(stream))

	var best *PairStats
	var bestSeq splitting.Seq
	// entries come by decreasing count, then lexicographically, so keeping
	// the first strict maximum implements the tie-break
	for _, entry := range pairs.Entries() {
		n1, n2 := uni[entry.Seq[0]], uni[entry.Seq[1]]
		p1 := float64(n1) / total
		p2 := float64(n2) / total
		p21 := float64(entry.Count) / float64(n1)
		mi := infotheory.MutualInformation(p1, p2, p21)

		if best == nil || mi > best.MI {
			best = &PairStats{N1: n1, N2: n2, N12: entry.Count, MI: mi}
			bestSeq = entry.Seq
		}
	}
	if best == nil {
		return Step{}, false
	}

	return Step{
		Record:    splitting.Record{bestSeq},
		Tokens:    len(stream),
		VocabSize: len(uni),
		Pair:      best,
	}, true
}
