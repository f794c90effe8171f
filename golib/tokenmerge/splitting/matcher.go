package splitting

// FindDirect returns the start offsets of the non-overlapping occurrences of
// pat in text, scanning left to right. It finds every occurrence when pat has
// no repeated runes, since such a pattern cannot overlap itself.
func FindDirect(text, pat []rune) []int {
	if len(pat) == 0 {
		return nil
	}
	var offsets []int
	for i := indexFrom(text, pat, 0); i >= 0; i = indexFrom(text, pat, i+len(pat)) {
		offsets = append(offsets, i)
	}
	return offsets
}

// FindOverlapping returns the start offsets of all occurrences of pat in
// text, including overlapping ones: "aa" is found at 0 and 1 in "aaa".
func FindOverlapping(text, pat []rune) []int {
	if len(pat) == 0 {
		return nil
	}
	var offsets []int
	for i := indexFrom(text, pat, 0); i >= 0; i = indexFrom(text, pat, i+1) {
		offsets = append(offsets, i)
	}
	return offsets
}

// Find returns all start offsets of pat in text, choosing the direct scan
// when pat has no repeated runes and the overlapping scan otherwise.
func Find(text, pat []rune) []int {
	if hasRepeats(pat) {
		return FindOverlapping(text, pat)
	}
	return FindDirect(text, pat)
}

// Accepts reports whether a merge of n characters at start would fuse whole
// tokens: a token starts at start and another starts at start+n, or start+n
// is the end of the text.
func (e *Extended) Accepts(start, n int) bool {
	end := start + n
	if start < 0 || n <= 0 || end > len(e.slots) {
		return false
	}
	return e.slots[start].n > 0 && (end == len(e.slots) || e.slots[end].n > 0)
}

func indexFrom(text, pat []rune, from int) int {
	first := pat[0]
	for i := from; i+len(pat) <= len(text); i++ {
		if text[i] != first {
			continue
		}
		if equalRunes(text[i+1:i+len(pat)], pat[1:]) {
			return i
		}
	}
	return -1
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func hasRepeats(pat []rune) bool {
	seen := make(map[rune]struct{}, len(pat))
	for _, r := range pat {
		if _, ok := seen[r]; ok {
			return true
		}
		seen[r] = struct{}{}
	}
	return false
}
