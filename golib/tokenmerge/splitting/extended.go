package splitting

import (
	"unicode/utf8"

	"github.com/SAFedorov/logochemy/golib/errors"
)

// slot is one character position. n is the rune length of the token starting
// here, 0 when the position is covered by a token that started earlier.
type slot struct {
	tok string
	n   int
}

// Extended is a splitting indexed by character offset. The text is shared
// between an Extended and its clones and is never written to.
type Extended struct {
	text  []rune
	slots []slot
	ntok  int
}

// Extend builds the extended form of s.
//
//	["abcd", "de", "f"] -> ["abcd", _, _, _, "de", _, "f"]
func Extend(s Splitting) (*Extended, error) {
	var total int
	for i, tok := range s {
		if tok == "" {
			return nil, errors.Wrapf(ErrEmptyToken, "token %d", i)
		}
		if !utf8.ValidString(tok) {
			return nil, errors.Wrapf(ErrInvalidUTF8, "token %d (%q)", i, tok)
		}
		total += utf8.RuneCountInString(tok)
	}

	e := &Extended{
		text:  make([]rune, 0, total),
		slots: make([]slot, total),
		ntok:  len(s),
	}
	for _, tok := range s {
		start := len(e.text)
		e.text = append(e.text, []rune(tok)...)
		e.slots[start] = slot{tok: tok, n: len(e.text) - start}
	}
	return e, nil
}

// Len is the number of characters of the text.
func (e *Extended) Len() int {
	return len(e.slots)
}

// NumTokens is the number of tokens currently in the splitting.
func (e *Extended) NumTokens() int {
	return e.ntok
}

// Text returns the full text.
func (e *Extended) Text() string {
	return string(e.text)
}

// Compact drops the empty slots and returns the plain splitting.
func (e *Extended) Compact() Splitting {
	s := make(Splitting, 0, e.ntok)
	for _, sl := range e.slots {
		if sl.n > 0 {
			s = append(s, sl.tok)
		}
	}
	return s
}

// Clone copies the slots; the text is shared.
func (e *Extended) Clone() *Extended {
	slots := make([]slot, len(e.slots))
	copy(slots, e.slots)
	return &Extended{
		text:  e.text,
		slots: slots,
		ntok:  e.ntok,
	}
}

// Validate checks that every character is covered by exactly one token and
// that each token matches the text under it.
func (e *Extended) Validate() error {
	var ntok int
	for i := 0; i < len(e.slots); {
		sl := e.slots[i]
		if sl.n == 0 {
			return errors.Errorf("position %d is not covered by any token", i)
		}
		end := i + sl.n
		if end > len(e.slots) {
			return errors.Errorf("token %q at %d runs past the end of the text", sl.tok, i)
		}
		if sl.tok != string(e.text[i:end]) {
			return errors.Errorf("token %q at %d does not match text %q", sl.tok, i, string(e.text[i:end]))
		}
		for j := i + 1; j < end; j++ {
			if e.slots[j].n != 0 {
				return errors.Errorf("token at %d overlaps token at %d", j, i)
			}
		}
		ntok++
		i = end
	}
	if ntok != e.ntok {
		return errors.Errorf("token count is %d, tracked %d", ntok, e.ntok)
	}
	return nil
}
