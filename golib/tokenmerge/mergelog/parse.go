package mergelog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/SAFedorov/logochemy/golib/errors"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/splitting"
)

// Prefix starts every line that carries a merge record.
const Prefix = "Replacing "

// ParseError reports a record line that could not be parsed. Parsing stops at
// the first one.
type ParseError struct {
	Line int
	Msg  string
}

// Error implements error
func (e *ParseError) Error() string {
	return fmt.Sprintf("merge log line %d: %s", e.Line, e.Msg)
}

// ParseText reads the records of a text log in file order. Lines that do not
// start with "Replacing" are summary lines and are skipped.
func ParseText(r io.Reader) ([]splitting.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	var log []splitting.Record
	var lineno int
	for scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), "\r")
		if !strings.HasPrefix(line, strings.TrimSpace(Prefix)) {
			continue
		}
		if !strings.HasPrefix(line, Prefix) {
			return nil, &ParseError{Line: lineno, Msg: fmt.Sprintf("expected %q prefix", Prefix)}
		}
		rec, err := ParseRecord(line[len(Prefix):])
		if err != nil {
			return nil, &ParseError{Line: lineno, Msg: err.Error()}
		}
		log = append(log, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading merge log")
	}
	return log, nil
}

// ParseRecord parses a Python literal list of tuples of strings, such as
// [('f', 'am'), ('g', 'at')]. A bare tuple is read as a one-sequence record.
// Nothing but string tuples is accepted.
func ParseRecord(s string) (splitting.Record, error) {
	p := &parser{src: s}
	p.skipSpace()

	var rec splitting.Record
	switch p.peek() {
	case '[':
		var err error
		rec, err = p.list()
		if err != nil {
			return nil, err
		}
	case '(':
		seq, err := p.tuple()
		if err != nil {
			return nil, err
		}
		rec = splitting.Record{seq}
	default:
		return nil, p.errorf("expected '[' or '('")
	}

	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected trailing input")
	}
	return rec, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return errors.Errorf("column %d: %s", p.pos+1, fmt.Sprintf(format, args...))
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

// list parses '[' (tuple (',' tuple)* ','?)? ']'.
func (p *parser) list() (splitting.Record, error) {
	if err := p.expect('['); err != nil {
		return nil, err
	}
	rec := splitting.Record{}
	for {
		p.skipSpace()
		if p.peek() == ']' {
			p.pos++
			return rec, nil
		}
		seq, err := p.tuple()
		if err != nil {
			return nil, err
		}
		rec = append(rec, seq)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
		default:
			return nil, p.errorf("expected ',' or ']'")
		}
	}
}

// tuple parses '(' str (',' str)* ','? ')'. A single element needs the
// trailing comma, as in Python.
func (p *parser) tuple() (splitting.Seq, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var seq splitting.Seq
	var trailingComma bool
	for {
		p.skipSpace()
		if p.peek() == ')' {
			if len(seq) == 0 {
				return nil, p.errorf("empty tuple")
			}
			if len(seq) == 1 && !trailingComma {
				return nil, p.errorf("parenthesized string is not a tuple")
			}
			p.pos++
			return seq, nil
		}
		tok, err := p.str()
		if err != nil {
			return nil, err
		}
		if tok == "" {
			return nil, p.errorf("empty token")
		}
		seq = append(seq, tok)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			trailingComma = true
		case ')':
			trailingComma = false
		default:
			return nil, p.errorf("expected ',' or ')'")
		}
	}
}

// str parses a single or double quoted Python string literal.
func (p *parser) str() (string, error) {
	q := p.peek()
	if q != '\'' && q != '"' {
		return "", p.errorf("expected string literal")
	}
	p.pos++

	var b strings.Builder
	for {
		if p.pos >= len(p.src) {
			return "", p.errorf("unterminated string")
		}
		c := p.src[p.pos]
		switch {
		case c == q:
			p.pos++
			return b.String(), nil
		case c == '\\':
			if err := p.escape(&b); err != nil {
				return "", err
			}
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			if r == utf8.RuneError && size == 1 {
				return "", p.errorf("invalid utf-8")
			}
			b.WriteRune(r)
			p.pos += size
		}
	}
}

var simpleEscapes = map[byte]rune{
	'\\': '\\', '\'': '\'', '"': '"',
	'n': '\n', 't': '\t', 'r': '\r',
	'a': '\a', 'b': '\b', 'f': '\f', 'v': '\v',
}

func (p *parser) escape(b *strings.Builder) error {
	p.pos++ // backslash
	if p.pos >= len(p.src) {
		return p.errorf("unterminated escape")
	}
	c := p.src[p.pos]
	if r, ok := simpleEscapes[c]; ok {
		b.WriteRune(r)
		p.pos++
		return nil
	}

	var digits, base int
	switch c {
	case 'x':
		digits, base = 2, 16
		p.pos++
	case 'u':
		digits, base = 4, 16
		p.pos++
	case 'U':
		digits, base = 8, 16
		p.pos++
	case '0', '1', '2', '3', '4', '5', '6', '7':
		digits, base = 3, 8
		for i := 0; i < 3; i++ {
			if p.pos+i >= len(p.src) || p.src[p.pos+i] < '0' || p.src[p.pos+i] > '7' {
				digits = i
				break
			}
		}
	default:
		return p.errorf("unsupported escape \\%c", c)
	}

	if p.pos+digits > len(p.src) {
		return p.errorf("truncated escape")
	}
	v, err := strconv.ParseUint(p.src[p.pos:p.pos+digits], base, 32)
	if err != nil {
		return p.errorf("bad escape: %v", err)
	}
	if !utf8.ValidRune(rune(v)) {
		return p.errorf("escape is not a valid code point")
	}
	b.WriteRune(rune(v))
	p.pos += digits
	return nil
}
