package reduce

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/SAFedorov/logochemy/golib/errors"
	"github.com/SAFedorov/logochemy/golib/infotheory"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/ngram"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/splitting"
)

func split(s string) splitting.Splitting {
	return strings.Split(s, ",")
}

func Test_PairsNonOverlapping(t *testing.T) {
	out, steps, err := Pairs(context.Background(), split("a,a,a,a"), PairOptions{Iterations: 1})
	require.NoError(t, err)
	require.Equal(t, split("aa,aa"), out)
	require.Len(t, steps, 1)
	require.Equal(t, splitting.Record{{"a", "a"}}, steps[0].Record)
	require.Equal(t, 4, steps[0].Tokens)
	require.Equal(t, 1, steps[0].VocabSize)
	require.Equal(t, &PairStats{N1: 4, N2: 4, N12: 3, MI: steps[0].Pair.MI}, steps[0].Pair)
}

func Test_PairsTieBreak(t *testing.T) {
	// every pair occurs once and has the same mutual information
	out, steps, err := Pairs(context.Background(), split("x,y,z,w"), PairOptions{Iterations: 1})
	require.NoError(t, err)
	require.Equal(t, split("xy,z,w"), out)
	require.Equal(t, splitting.Record{{"x", "y"}}, steps[0].Record)
}

func Test_PairsPrefersInformativePairs(t *testing.T) {
	// (a, b) is the most frequent pair, but b also follows many other tokens,
	// while q is always followed by u
	text := "a,b,a,b,a,b,a,b,c,b,d,b,e,b,q,u,q,u"
	_, steps, err := Pairs(context.Background(), split(text), PairOptions{Iterations: 1})
	require.NoError(t, err)

	pairs := ngram.Count(split(text), 2)
	seq, _, _ := pairs.MostCommon()
	require.Equal(t, splitting.Seq{"a", "b"}, seq)
	require.Equal(t, splitting.Record{{"q", "u"}}, steps[0].Record)
}

func Test_PairsStopsEarly(t *testing.T) {
	out, steps, err := Pairs(context.Background(), split("a,b"), PairOptions{Iterations: 5})
	require.NoError(t, err)
	require.Equal(t, split("ab"), out)
	require.Len(t, steps, 1)

	out, steps, err = Pairs(context.Background(), split("abc"), PairOptions{Iterations: 5})
	require.NoError(t, err)
	require.Equal(t, split("abc"), out)
	require.Empty(t, steps)
}

func Test_PairsZeroIterations(t *testing.T) {
	out, steps, err := Pairs(context.Background(), split("a,b,c"), PairOptions{})
	require.NoError(t, err)
	require.Equal(t, split("a,b,c"), out)
	require.Empty(t, steps)
}

func Test_PairsErrors(t *testing.T) {
	_, _, err := Pairs(context.Background(), split("a,b"), PairOptions{Iterations: -1})
	require.True(t, errors.Is(err, ErrInvalidOptions))

	_, _, err = Pairs(context.Background(), split("a,,b"), PairOptions{Iterations: 1})
	require.True(t, errors.Is(err, splitting.ErrEmptyToken))
}

func Test_PairsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls int
	opts := PairOptions{Iterations: 10}
	opts.Progress = func(Step) {
		calls++
		cancel()
	}

	out, steps, err := Pairs(ctx, split("a,b,c,d,e,f"), opts)
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))
	require.Equal(t, 1, calls)
	require.Len(t, steps, 1)
	require.Equal(t, split("ab,c,d,e,f"), out)
}

// Test_PairsMatchesReference checks the selection against a direct scan of
// every pair with the documented tie-break.
func Test_PairsMatchesReference(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tok := rapid.SampledFrom([]string{"a", "b", "c", "d"})
		stream := splitting.Splitting(rapid.SliceOfN(tok, 2, 30).Draw(rt, "stream"))

		step, ok := selectPair(stream)
		if !ok {
			rt.Fatalf("no pair selected for %q", stream)
		}

		expected := referencePair(stream)
		if !equalSeq(step.Record[0], expected) {
			rt.Fatalf("selected %q, reference %q for %q", step.Record[0], expected, stream)
		}
	})
}

func referencePair(stream splitting.Splitting) splitting.Seq {
	uni := ngram.Unigrams(stream)
	var best splitting.Seq
	var bestMI float64
	var bestCount int
	seen := make(map[[2]string]bool)
	for i := 0; i+1 < len(stream); i++ {
		key := [2]string{stream[i], stream[i+1]}
		if seen[key] {
			continue
		}
		seen[key] = true

		var count int
		for j := 0; j+1 < len(stream); j++ {
			if stream[j] == key[0] && stream[j+1] == key[1] {
				count++
			}
		}
		n := float64(len(stream))
		mi := infotheory.MutualInformation(float64(uni[key[0]])/n, float64(uni[key[1]])/n, float64(count)/float64(uni[key[0]]))

		seq := splitting.Seq{key[0], key[1]}
		better := best == nil ||
			mi > bestMI ||
			(mi == bestMI && count > bestCount) ||
			(mi == bestMI && count == bestCount && seq.Less(best))
		if better {
			best, bestMI, bestCount = seq, mi, count
		}
	}
	return best
}

func equalSeq(a, b splitting.Seq) bool {
	return splitting.Splitting(a).Equal(splitting.Splitting(b))
}

func Test_NGrams(t *testing.T) {
	type tc struct {
		desc     string
		initial  string
		opts     NGramOptions
		expected string
		records  []splitting.Record
	}

	tcs := []tc{
		{
			desc:     "degenerates to pair merging",
			initial:  "a,b,a,b,c",
			opts:     NGramOptions{MaxN: 2, Iterations: 1, MergesPerIter: 1},
			expected: "ab,ab,c",
			records:  []splitting.Record{{{"a", "b"}}},
		},
		{
			desc:     "longer sequence saves more tokens",
			initial:  "a,b,c,a,b,c,a,b,c",
			opts:     NGramOptions{MaxN: 3, Iterations: 1, MergesPerIter: 1},
			expected: "abc,abc,abc",
			records:  []splitting.Record{{{"a", "b", "c"}}},
		},
		{
			desc:     "equal scores go to the shorter length",
			initial:  "a,b,a,b",
			opts:     NGramOptions{MaxN: 3, Iterations: 1, MergesPerIter: 1},
			expected: "ab,ab",
			records:  []splitting.Record{{{"a", "b"}}},
		},
		{
			desc:     "several merges per pass exclude shared tokens",
			initial:  "a,b,c,d,a,b,c,d",
			opts:     NGramOptions{MaxN: 2, Iterations: 1, MergesPerIter: 2},
			expected: "ab,cd,ab,cd",
			records:  []splitting.Record{{{"a", "b"}, {"c", "d"}}},
		},
		{
			desc:     "fewer candidates than merges per pass",
			initial:  "a,b,a,b",
			opts:     NGramOptions{MaxN: 2, Iterations: 1, MergesPerIter: 3},
			expected: "ab,ab",
			records:  []splitting.Record{{{"a", "b"}}},
		},
		{
			desc:     "several passes",
			initial:  "a,a,a,a",
			opts:     NGramOptions{MaxN: 2, Iterations: 2, MergesPerIter: 1},
			expected: "aaaa",
			records:  []splitting.Record{{{"a", "a"}}, {{"aa", "aa"}}},
		},
		{
			desc:     "stops when nothing is left",
			initial:  "a,b",
			opts:     NGramOptions{MaxN: 4, Iterations: 3, MergesPerIter: 1},
			expected: "ab",
			records:  []splitting.Record{{{"a", "b"}}},
		},
	}

	for i, tc := range tcs {
		out, steps, err := NGrams(context.Background(), split(tc.initial), tc.opts)
		require.NoError(t, err, "\ncase %d: %s", i, tc.desc)
		assert.Equal(t, split(tc.expected), out, "\ncase %d: %s", i, tc.desc)
		assert.Equal(t, tc.records, Log(steps), "\ncase %d: %s", i, tc.desc)
	}
}

func Test_NGramStats(t *testing.T) {
	_, steps, err := NGrams(context.Background(), split("a,b,a,b,c"), NGramOptions{MaxN: 2, Iterations: 1, MergesPerIter: 1})
	require.NoError(t, err)
	require.Len(t, steps, 1)

	st := steps[0]
	require.Equal(t, 5, st.Tokens)
	require.Equal(t, 3, st.VocabSize)
	require.NotNil(t, st.NGram)
	require.Equal(t, 2, st.NGram.Count)
	require.InDelta(t, 0.4, st.NGram.Freq, 1e-12)
	require.InDelta(t, 0.4*3*1.0986122886681098, st.NGram.Criterion, 1e-9)
}

func Test_NGramOptionsValidate(t *testing.T) {
	bad := []NGramOptions{
		{MaxN: 1, Iterations: 1, MergesPerIter: 1},
		{MaxN: 2, Iterations: -1, MergesPerIter: 1},
		{MaxN: 2, Iterations: 1, MergesPerIter: 0},
	}
	for i, opts := range bad {
		_, _, err := NGrams(context.Background(), split("a,b"), opts)
		require.True(t, errors.Is(err, ErrInvalidOptions), "case %d", i)
	}
	require.NoError(t, NGramOptions{MaxN: 2, MergesPerIter: 1}.Validate())
}

func Test_NGramsNoOverlapWithinPass(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tok := rapid.SampledFrom([]string{"a", "b", "c", "d"})
		stream := splitting.Splitting(rapid.SliceOfN(tok, 2, 30).Draw(rt, "stream"))
		mpi := rapid.IntRange(1, 4).Draw(rt, "mpi")
		maxN := rapid.IntRange(2, 4).Draw(rt, "maxN")

		step, ok := selectNGrams(stream, maxN, mpi)
		if !ok {
			rt.Fatalf("nothing selected for %q", stream)
		}
		if len(step.Record) > mpi {
			rt.Fatalf("%d picks for %d merges per pass", len(step.Record), mpi)
		}
		for i := range step.Record {
			for j := i + 1; j < len(step.Record); j++ {
				for _, tok := range step.Record[j] {
					if step.Record[i].Contains(tok) {
						rt.Fatalf("picks %q and %q share token %q", step.Record[i], step.Record[j], tok)
					}
				}
			}
		}
	})
}
