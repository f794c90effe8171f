package mergelog

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/golang/snappy"

	"github.com/SAFedorov/logochemy/golib/errors"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/reduce"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/splitting"
)

// Format selects the encoding of a merge log.
type Format int

const (
	// Text is the summary + "Replacing" line format.
	Text Format = iota
	// Binary is the msgpack encoding.
	Binary
	// Snappy is the msgpack encoding in snappy framing.
	Snappy
)

// snappy framed streams start with their stream identifier chunk
var snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")

// FormatFor picks the format from a file name: ".sz" is Snappy, ".bin" or
// ".msgp" is Binary, anything else is Text.
func FormatFor(path string) Format {
	switch {
	case strings.HasSuffix(path, ".sz"):
		return Snappy
	case strings.HasSuffix(path, ".bin"), strings.HasSuffix(path, ".msgp"):
		return Binary
	default:
		return Text
	}
}

// String implements fmt.Stringer
func (f Format) String() string {
	switch f {
	case Text:
		return "text"
	case Binary:
		return "binary"
	case Snappy:
		return "snappy"
	default:
		return "unknown"
	}
}

// Write writes the log of steps in format f. The binary formats keep only
// the records.
func Write(w io.Writer, f Format, steps []reduce.Step) (err error) {
	switch f {
	case Text:
		return WriteText(w, steps)
	case Binary:
		return WriteBinary(w, reduce.Log(steps))
	case Snappy:
		sw := snappy.NewBufferedWriter(w)
		defer errors.Defer(&err, sw.Close)
		return WriteBinary(sw, reduce.Log(steps))
	default:
		return errors.Errorf("unknown merge log format %d", int(f))
	}
}

// Read reads a log in any format, telling them apart by their first bytes.
func Read(r io.Reader) ([]splitting.Record, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(snappyMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, errors.Wrapf(err, "reading merge log")
	}

	switch {
	case bytes.HasPrefix(head, snappyMagic):
		return ReadBinary(snappy.NewReader(br))
	case len(head) > 0 && head[0] == 0x93: // msgpack fixarray of 3
		return ReadBinary(br)
	default:
		return ParseText(br)
	}
}
