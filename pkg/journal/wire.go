package journal

import (
	"errors"
	"io"
)

// Limits applied while decoding.
const (
	// MaxStringLen bounds a single decoded string (1MB).
	MaxStringLen = 1 << 20

	// MaxRecords bounds the number of records in a frame.
	MaxRecords = 100_000
)

// Decoding errors.
var (
	ErrVarintOverflow     = errors.New("journal: varint overflow")
	ErrAllocationTooLarge = errors.New("journal: allocation size exceeds limit")
	ErrCollectionTooLarge = errors.New("journal: collection count exceeds limit")
	ErrBadMagic           = errors.New("journal: bad frame magic")
)

// encoder appends varint-framed data to a buffer.
type encoder struct {
	buf []byte
}

func (e *encoder) writeByte(b byte) {
	e.buf = append(e.buf, b)
}

func (e *encoder) writeUvarint(v uint64) {
	for v >= 0x80 {
		e.buf = append(e.buf, byte(v)|0x80)
		v >>= 7
	}
	e.buf = append(e.buf, byte(v))
}

// writeString appends a varint length followed by the bytes.
func (e *encoder) writeString(s string) {
	e.writeUvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) writeBool(b bool) {
	if b {
		e.buf = append(e.buf, 0x01)
	} else {
		e.buf = append(e.buf, 0x00)
	}
}

// decoder reads from a byte buffer.
type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) remaining() int {
	return len(d.buf) - d.pos
}

func (d *decoder) readByte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) readUvarint() (uint64, error) {
	var v uint64
	var shift uint
	for {
		if d.pos >= len(d.buf) {
			return 0, io.ErrUnexpectedEOF
		}
		b := d.buf[d.pos]
		d.pos++
		v |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return v, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, ErrVarintOverflow
		}
	}
}

func (d *decoder) readString() (string, error) {
	length, err := d.readUvarint()
	if err != nil {
		return "", err
	}
	if length > uint64(d.remaining()) {
		return "", io.ErrUnexpectedEOF
	}
	if length > MaxStringLen {
		return "", ErrAllocationTooLarge
	}
	n := int(length)
	s := string(d.buf[d.pos : d.pos+n])
	d.pos += n
	return s, nil
}

func (d *decoder) readBool() (bool, error) {
	b, err := d.readByte()
	return b != 0, err
}

// readCount reads a collection size and checks it against limits.
func (d *decoder) readCount() (int, error) {
	count, err := d.readUvarint()
	if err != nil {
		return 0, err
	}
	if count > MaxRecords {
		return 0, ErrCollectionTooLarge
	}
	if count > uint64(d.remaining()) {
		return 0, io.ErrUnexpectedEOF
	}
	return int(count), nil
}
