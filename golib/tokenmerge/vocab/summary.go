package vocab

import (
	"unicode/utf8"

	"github.com/montanaflynn/stats"

	"github.com/SAFedorov/logochemy/golib/errors"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/splitting"
)

// Summary describes a splitting; token lengths are in characters.
type Summary struct {
	Chars     int
	Tokens    int
	VocabSize int

	MeanLen   float64
	MedianLen float64
	P95Len    float64
	MaxLen    float64
}

// CharsPerToken is the average number of characters covered by a token.
func (s Summary) CharsPerToken() float64 {
	if s.Tokens == 0 {
		return 0
	}
	return float64(s.Chars) / float64(s.Tokens)
}

// Summarize computes the summary of s. An empty splitting gives a zero Summary.
func Summarize(s splitting.Splitting) (Summary, error) {
	var sum Summary
	if len(s) == 0 {
		return sum, nil
	}

	lens := make(stats.Float64Data, 0, len(s))
	seen := make(map[string]struct{})
	for _, tok := range s {
		n := utf8.RuneCountInString(tok)
		sum.Chars += n
		lens = append(lens, float64(n))
		seen[tok] = struct{}{}
	}
	sum.Tokens = len(s)
	sum.VocabSize = len(seen)

	var err error
	if sum.MeanLen, err = lens.Mean(); err != nil {
		return sum, errors.Wrapf(err, "mean token length")
	}
	if sum.MedianLen, err = lens.Median(); err != nil {
		return sum, errors.Wrapf(err, "median token length")
	}
	if len(lens) == 1 {
		sum.P95Len = lens[0]
	} else if sum.P95Len, err = lens.Percentile(95); err != nil {
		return sum, errors.Wrapf(err, "95th percentile token length")
	}
	if sum.MaxLen, err = lens.Max(); err != nil {
		return sum, errors.Wrapf(err, "max token length")
	}
	return sum, nil
}
