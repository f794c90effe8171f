// Package mergelog reads and writes the merge logs produced by the reducers.
//
// The text format has one entry per iteration: a human readable summary line
// followed by "Replacing <list of tuples>". The binary format is a versioned
// msgpack encoding of the records alone, optionally wrapped in snappy framing.
package mergelog

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/SAFedorov/logochemy/golib/tokenmerge/reduce"
)

// Summary renders the human readable line written before a record.
func Summary(step reduce.Step) string {
	switch {
	case step.Pair != nil:
		return fmt.Sprintf("Input tokens: %8d, vocabulary size = %d, n(c1) = %6d, n(c2) = %6d, n(c1, c2) = %6d.",
			step.Tokens, step.VocabSize, step.Pair.N1, step.Pair.N2, step.Pair.N12)
	case step.NGram != nil:
		return fmt.Sprintf("Input tokens: %8d, f = % .2e, k = %d, (n-1)*f*k*ln(k) = % .3f",
			step.Tokens, step.NGram.Freq, step.VocabSize, finite(step.NGram.Criterion))
	default:
		return fmt.Sprintf("Input tokens: %8d", step.Tokens)
	}
}

// WriteText writes the text log of steps.
func WriteText(w io.Writer, steps []reduce.Step) error {
	bw := bufio.NewWriter(w)
	for _, step := range steps {
		if _, err := fmt.Fprintf(bw, "%s\n%s%s\n", Summary(step), Prefix, FormatRecord(step.Record)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}
