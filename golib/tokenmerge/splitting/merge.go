package splitting

// Merge applies the sequences of rec to e and returns the result as a new
// Extended; e itself is left untouched.
//
// Sequences are applied in order. An occurrence is merged only if it starts
// and ends on token boundaries of the splitting as it stands at that moment,
// so when two occurrences overlap the one processed first wins and the other
// is skipped. A sequence with no valid occurrence is a no-op.
func Merge(e *Extended, rec Record) *Extended {
	out := e.Clone()
	for _, seq := range rec {
		out.apply(seq)
	}
	return out
}

// apply merges the occurrences of seq in place and returns how many were merged.
func (e *Extended) apply(seq Seq) int {
	pat := []rune(seq.Joined())
	n := len(pat)
	if n == 0 {
		return 0
	}

	var merged int
	for _, start := range Find(e.text, pat) {
		if !e.Accepts(start, n) {
			continue
		}
		end := start + n

		var removed int
		for i := start; i < end; i++ {
			if e.slots[i].n > 0 {
				removed++
			}
			e.slots[i] = slot{}
		}
		e.slots[start] = slot{tok: string(e.text[start:end]), n: n}
		e.ntok -= removed - 1
		merged++
	}
	return merged
}
