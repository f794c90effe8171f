// Package splitting holds the representations of a segmented text and the
// merge operation that fuses adjacent tokens.
//
// A Splitting is the plain ordered token list. An Extended splitting indexes
// the same tokens by the rune offset at which they start: it has one slot per
// character of the text, the slot at a token's first character holds the
// token and the remaining slots it covers are empty. Merges are applied to an
// Extended splitting by direct positional writes, without rebuilding the
// token list.
package splitting

import (
	"strings"
	"unicode/utf8"

	"github.com/SAFedorov/logochemy/golib/errors"
)

var (
	// ErrEmptyToken is returned when a splitting contains an empty token.
	ErrEmptyToken = errors.New("empty token")
	// ErrInvalidUTF8 is returned when a token is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("token is not valid utf-8")
)

// Splitting is an ordered list of non-empty tokens whose concatenation is the text.
type Splitting []string

// Text returns the concatenation of the tokens.
func (s Splitting) Text() string {
	return strings.Join(s, "")
}

// Equal reports whether both splittings hold the same tokens in the same order.
func (s Splitting) Equal(o Splitting) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Chars splits text into one token per rune, the usual starting point of a reduction.
func Chars(text string) Splitting {
	s := make(Splitting, 0, utf8.RuneCountInString(text))
	for _, r := range text {
		s = append(s, string(r))
	}
	return s
}

// Seq is a sequence of adjacent tokens to be fused into one.
type Seq []string

// Joined returns the token the sequence is merged into.
func (s Seq) Joined() string {
	return strings.Join(s, "")
}

// Less orders sequences lexicographically, token by token.
func (s Seq) Less(o Seq) bool {
	for i := 0; i < len(s) && i < len(o); i++ {
		if s[i] != o[i] {
			return s[i] < o[i]
		}
	}
	return len(s) < len(o)
}

// Contains reports whether tok is one of the tokens of the sequence.
func (s Seq) Contains(tok string) bool {
	for _, t := range s {
		if t == tok {
			return true
		}
	}
	return false
}

// Record is the list of sequences merged in one pass, in application order.
type Record []Seq

// MergeSplitting merges every valid occurrence of seq in s.
func MergeSplitting(s Splitting, seq Seq) (Splitting, error) {
	e, err := Extend(s)
	if err != nil {
		return nil, err
	}
	return Merge(e, Record{seq}).Compact(), nil
}
