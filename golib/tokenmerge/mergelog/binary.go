package mergelog

import (
	"io"

	"github.com/tinylib/msgp/msgp"

	"github.com/SAFedorov/logochemy/golib/errors"
	"github.com/SAFedorov/logochemy/golib/tokenmerge/splitting"
)

const (
	magic = "logochemy/mergelog"
	// Version of the binary encoding written by WriteBinary.
	Version = 1
)

var (
	// ErrBadMagic is returned when a binary log does not start with the expected header.
	ErrBadMagic = errors.New("not a binary merge log")
	// ErrVersion is returned for binary logs written by an unknown version.
	ErrVersion = errors.New("unsupported merge log version")
)

// Log is a merge log: [magic, version, [[[token, ...], ...], ...]].
type Log []splitting.Record

// EncodeMsg implements msgp.Encodable
func (l Log) EncodeMsg(en *msgp.Writer) error {
	if err := en.WriteArrayHeader(3); err != nil {
		return err
	}
	if err := en.WriteString(magic); err != nil {
		return err
	}
	if err := en.WriteInt(Version); err != nil {
		return err
	}
	if err := en.WriteArrayHeader(uint32(len(l))); err != nil {
		return err
	}
	for _, rec := range l {
		if err := en.WriteArrayHeader(uint32(len(rec))); err != nil {
			return err
		}
		for _, seq := range rec {
			if err := en.WriteArrayHeader(uint32(len(seq))); err != nil {
				return err
			}
			for _, tok := range seq {
				if err := en.WriteString(tok); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// DecodeMsg implements msgp.Decodable
func (l *Log) DecodeMsg(dc *msgp.Reader) error {
	sz, err := dc.ReadArrayHeader()
	if err != nil {
		return errors.Wrapf(ErrBadMagic, "reading header: %v", err)
	}
	if sz != 3 {
		return errors.Wrapf(ErrBadMagic, "header has %d fields", sz)
	}
	m, err := dc.ReadString()
	if err != nil || m != magic {
		return ErrBadMagic
	}
	v, err := dc.ReadInt()
	if err != nil {
		return errors.Wrapf(err, "reading version")
	}
	if v != Version {
		return errors.Wrapf(ErrVersion, "version %d", v)
	}

	nrec, err := dc.ReadArrayHeader()
	if err != nil {
		return err
	}
	out := make(Log, 0, capHint(nrec))
	for i := uint32(0); i < nrec; i++ {
		nseq, err := dc.ReadArrayHeader()
		if err != nil {
			return errors.Wrapf(err, "record %d", i)
		}
		rec := make(splitting.Record, 0, capHint(nseq))
		for j := uint32(0); j < nseq; j++ {
			ntok, err := dc.ReadArrayHeader()
			if err != nil {
				return errors.Wrapf(err, "record %d sequence %d", i, j)
			}
			seq := make(splitting.Seq, 0, capHint(ntok))
			for k := uint32(0); k < ntok; k++ {
				tok, err := dc.ReadString()
				if err != nil {
					return errors.Wrapf(err, "record %d sequence %d token %d", i, j, k)
				}
				seq = append(seq, tok)
			}
			rec = append(rec, seq)
		}
		out = append(out, rec)
	}
	*l = out
	return nil
}

// capHint bounds a preallocation by a length read from the input; longer
// slices grow as their elements are actually read.
func capHint(n uint32) int {
	const maxHint = 1024
	if n > maxHint {
		return maxHint
	}
	return int(n)
}

// Msgsize returns an upper bound estimate of the number of bytes occupied by the serialized message
func (l Log) Msgsize() int {
	sz := msgp.ArrayHeaderSize + msgp.StringPrefixSize + len(magic) + msgp.IntSize + msgp.ArrayHeaderSize
	for _, rec := range l {
		sz += msgp.ArrayHeaderSize
		for _, seq := range rec {
			sz += msgp.ArrayHeaderSize
			for _, tok := range seq {
				sz += msgp.StringPrefixSize + len(tok)
			}
		}
	}
	return sz
}

// WriteBinary writes log in the binary format.
func WriteBinary(w io.Writer, log []splitting.Record) error {
	mw := msgp.NewWriter(w)
	if err := Log(log).EncodeMsg(mw); err != nil {
		return err
	}
	return mw.Flush()
}

// ReadBinary reads a log written by WriteBinary.
func ReadBinary(r io.Reader) ([]splitting.Record, error) {
	var l Log
	if err := l.DecodeMsg(msgp.NewReader(r)); err != nil {
		return nil, err
	}
	return l, nil
}
