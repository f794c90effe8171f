// Package ngram counts runs of adjacent tokens in a token stream.
//
// Counts are taken over logical adjacency: the stream is the list of tokens
// of a splitting, so two tokens are adjacent when nothing but their own
// characters lies between them.
package ngram

import (
	"encoding/binary"
	"sort"

	"github.com/SAFedorov/logochemy/golib/tokenmerge/splitting"
)

// Entry is an n-gram with its count. A negative count marks an entry that
// has been invalidated and can no longer be selected.
type Entry struct {
	Seq   splitting.Seq
	Count int
}

// Table maps the n-grams of a stream to their number of occurrences.
type Table struct {
	n       int
	entries map[string]*Entry
}

// Count counts the overlapping n-grams of stream. A stream shorter than n
// yields an empty table.
func Count(stream []string, n int) *Table {
	t := &Table{n: n, entries: make(map[string]*Entry)}
	if n < 1 {
		return t
	}
	var buf []byte
	for i := 0; i+n <= len(stream); i++ {
		buf = appendKey(buf[:0], stream[i:i+n])
		if e, ok := t.entries[string(buf)]; ok {
			e.Count++
			continue
		}
		seq := make(splitting.Seq, n)
		copy(seq, stream[i:i+n])
		t.entries[string(buf)] = &Entry{Seq: seq, Count: 1}
	}
	return t
}

// Unigrams counts the tokens of stream.
func Unigrams(stream []string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range stream {
		counts[tok]++
	}
	return counts
}

// N is the length of the sequences counted by the table.
func (t *Table) N() int {
	return t.n
}

// Len is the number of distinct sequences, invalidated ones included.
func (t *Table) Len() int {
	return len(t.entries)
}

// Count returns the count of seq, 0 if it was never seen.
func (t *Table) Count(seq splitting.Seq) int {
	if e, ok := t.entries[string(appendKey(nil, seq))]; ok {
		return e.Count
	}
	return 0
}

// MostCommon returns the selectable sequence with the highest count. Ties go
// to the lexicographically smallest sequence. ok is false when no entry has a
// positive count.
func (t *Table) MostCommon() (seq splitting.Seq, count int, ok bool) {
	var best *Entry
	for _, e := range t.entries {
		if e.Count <= 0 {
			continue
		}
		if best == nil || e.Count > best.Count || (e.Count == best.Count && e.Seq.Less(best.Seq)) {
			best = e
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best.Seq, best.Count, true
}

// Score is the expected reduction in the number of tokens if the most common
// sequence is merged: its count times n-1. Empty tables score 0.
func (t *Table) Score() int {
	_, count, ok := t.MostCommon()
	if !ok {
		return 0
	}
	return count * (t.n - 1)
}

// Invalidate marks every sequence for which pred is true as unselectable and
// returns how many were newly invalidated.
func (t *Table) Invalidate(pred func(splitting.Seq) bool) int {
	var n int
	for _, e := range t.entries {
		if e.Count >= 0 && pred(e.Seq) {
			e.Count = -1
			n++
		}
	}
	return n
}

// Entries returns the entries sorted by decreasing count, ties broken as in MostCommon.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Seq.Less(out[j].Seq)
	})
	return out
}

// appendKey encodes seq as length-prefixed tokens so distinct sequences with
// the same concatenation get distinct keys.
func appendKey(buf []byte, seq []string) []byte {
	for _, tok := range seq {
		buf = binary.AppendUvarint(buf, uint64(len(tok)))
		buf = append(buf, tok...)
	}
	return buf
}
