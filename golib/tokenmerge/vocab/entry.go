// Package vocab derives the vocabulary of a splitting and summarizes it.
package vocab

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/gocarina/gocsv"

	"github.com/SAFedorov/logochemy/golib/tokenmerge/splitting"
)

// Entry is a token of the vocabulary with its number of occurrences.
type Entry struct {
	Token string `csv:"token"`
	Count int    `csv:"count"`
}

// FromSplitting counts the tokens of s, most popular first.
func FromSplitting(s splitting.Splitting) []Entry {
	counts := make(map[string]int)
	for _, tok := range s {
		counts[tok]++
	}
	entries := make([]Entry, 0, len(counts))
	for tok, count := range counts {
		entries = append(entries, Entry{Token: tok, Count: count})
	}
	sort.Sort(SortPopularity(entries))
	return entries
}

// WriteTo writes entries as indented JSON.
func WriteTo(w io.Writer, entries []Entry) (int64, error) {
	// MarshalIndent to make it slightly easier to read
	buf, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// WriteCSV writes entries as CSV with a token,count header.
func WriteCSV(w io.Writer, entries []Entry) error {
	return gocsv.Marshal(&entries, w)
}

// SortToken implements sort.Interface, longest tokens first
type SortToken []Entry

// Len implements sort.Interface
func (b SortToken) Len() int { return len(b) }

// Less implements sort.Interface
func (b SortToken) Less(i, j int) bool {
	if len(b[i].Token) == len(b[j].Token) {
		return b[i].Token < b[j].Token
	}
	return len(b[i].Token) > len(b[j].Token)
}

// Swap implements sort.Interface
func (b SortToken) Swap(i, j int) {
	b[i], b[j] = b[j], b[i]
}

// SortPopularity implements sort.Interface, most frequent tokens first
type SortPopularity []Entry

// Len implements sort.Interface
func (b SortPopularity) Len() int { return len(b) }

// Less implements sort.Interface
func (b SortPopularity) Less(i, j int) bool {
	if b[i].Count == b[j].Count {
		// Fall back to token order if counts are equal
		return SortToken(b).Less(i, j)
	}
	return b[i].Count > b[j].Count
}

// Swap implements sort.Interface
func (b SortPopularity) Swap(i, j int) {
	b[i], b[j] = b[j], b[i]
}
