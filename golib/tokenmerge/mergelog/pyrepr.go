package mergelog

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/SAFedorov/logochemy/golib/tokenmerge/splitting"
)

// quote renders s the way Python's repr renders a str, so logs stay readable
// by tools that consume the original log format.
func quote(s string) string {
	q := byte('\'')
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		q = '"'
	}

	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == rune(q) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case unicode.IsPrint(r):
			b.WriteRune(r)
		case r < 0x100:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r < 0x10000:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			fmt.Fprintf(&b, `\U%08x`, r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

// formatSeq renders a sequence as a Python tuple literal.
func formatSeq(seq splitting.Seq) string {
	parts := make([]string, len(seq))
	for i, tok := range seq {
		parts[i] = quote(tok)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// FormatRecord renders a record as a Python list of tuples.
func FormatRecord(rec splitting.Record) string {
	parts := make([]string, len(rec))
	for i, seq := range rec {
		parts[i] = formatSeq(seq)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
