package reduce

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/SAFedorov/logochemy/golib/errors"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/splitting"
)

func Test_Replay(t *testing.T) {
	log := []splitting.Record{
		{{"a", "b"}},
		{{"ab", "ab"}, {"c", "d"}},
		{{"x", "y"}}, // matches nothing
	}
	out, err := Replay(context.Background(), split("a,b,a,b,c,d,a,b"), log, Options{})
	require.NoError(t, err)
	require.Equal(t, split("abab,cd,ab"), out)
}

func Test_ReplayErrors(t *testing.T) {
	_, err := Replay(context.Background(), split("a,,b"), nil, Options{})
	require.True(t, errors.Is(err, splitting.ErrEmptyToken))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := Replay(ctx, split("a,b"), []splitting.Record{{{"a", "b"}}}, Options{})
	require.True(t, errors.Is(err, context.Canceled))
	require.Equal(t, split("a,b"), out)
}

func Test_ReplayProgress(t *testing.T) {
	var tokens []int
	opts := Options{Progress: func(s Step) { tokens = append(tokens, s.Tokens) }}
	_, err := Replay(context.Background(), split("a,b,a,b"), []splitting.Record{{{"a", "b"}}, {{"ab", "ab"}}}, opts)
	require.NoError(t, err)
	require.Equal(t, []int{4, 2}, tokens)
}

func Test_ReplayDebugValidates(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := []splitting.Record{{{"a", "b"}}, {{"ab", "ab"}}, {{"abab", "c"}}}
	out, err := Replay(context.Background(), split("a,b,a,b,c"), log, Options{Logger: zap.New(core)})
	require.NoError(t, err)
	require.Equal(t, split("ababc"), out)
	require.Equal(t, 3, logs.FilterMessage("merge").Len())
}

func Test_ReplayFidelity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		text := rapid.StringOfN(rapid.RuneFrom([]rune("abc ⌘")), 1, 60, -1).Draw(rt, "text")
		initial := splitting.Chars(text)
		iters := rapid.IntRange(0, 8).Draw(rt, "iters")

		var out splitting.Splitting
		var steps []Step
		var err error
		if rapid.Bool().Draw(rt, "pairs") {
			out, steps, err = Pairs(context.Background(), initial, PairOptions{Iterations: iters})
		} else {
			out, steps, err = NGrams(context.Background(), initial, NGramOptions{
				MaxN:          rapid.IntRange(2, 4).Draw(rt, "maxN"),
				Iterations:    iters,
				MergesPerIter: rapid.IntRange(1, 3).Draw(rt, "mpi"),
			})
		}
		if err != nil {
			rt.Fatalf("reduce: %v", err)
		}
		if out.Text() != text {
			rt.Fatalf("reduction lost text: %q", out)
		}

		replayed, err := Replay(context.Background(), initial, Log(steps), Options{})
		if err != nil {
			rt.Fatalf("replay: %v", err)
		}
		if !replayed.Equal(out) {
			rt.Fatalf("replay gave %q, run gave %q", replayed, out)
		}

		again, err := Replay(context.Background(), initial, Log(steps), Options{})
		if err != nil || !again.Equal(replayed) {
			rt.Fatalf("replay is not deterministic")
		}
	})
}
