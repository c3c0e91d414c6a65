package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"

	"github.com/ssargent/osrkit/pkg/stream"
)

// StringMarker is the presence byte written before a present string.
const StringMarker byte = 0x0b

// uleb128MaxShift is the bit offset of the fifth group of a 32-bit value.
const uleb128MaxShift = 28

// readChunk bounds how far a length prefix can run ahead of the bytes that
// have actually arrived.
const readChunk = 64 << 10

// NullString is a string that may be absent on the wire.
type NullString struct {
	String string
	Valid  bool
}

// NewNullString returns a present string.
func NewNullString(s string) NullString {
	return NullString{String: s, Valid: true}
}

// ReadByte reads a single byte.
func ReadByte(r stream.Reader) (byte, error) {
	var b [1]byte
	if err := r.ReadN(b[:]); err != nil {
		return 0, Wrap(KindStream, "read byte", err)
	}
	return b[0], nil
}

// WriteByte writes a single byte.
func WriteByte(w stream.Writer, v byte) error {
	if err := w.WriteN([]byte{v}); err != nil {
		return Wrap(KindStream, "write byte", err)
	}
	return nil
}

// ReadBool reads one byte; any nonzero value is true.
func ReadBool(r stream.Reader) (bool, error) {
	b, err := ReadByte(r)
	if err != nil {
		return false, Wrap(KindStream, "read bool", err)
	}
	return b != 0, nil
}

// WriteBool writes 1 for true and 0 for false.
func WriteBool(w stream.Writer, v bool) error {
	var b byte
	if v {
		b = 1
	}
	if err := WriteByte(w, b); err != nil {
		return Wrap(KindStream, "write bool", err)
	}
	return nil
}

// ReadUint16 reads a little-endian uint16.
func ReadUint16(r stream.Reader) (uint16, error) {
	var b [2]byte
	if err := r.ReadN(b[:]); err != nil {
		return 0, Wrap(KindStream, "read uint16", err)
	}
	return binary.LittleEndian.Uint16(b[:]), nil
}

// WriteUint16 writes a little-endian uint16.
func WriteUint16(w stream.Writer, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	if err := w.WriteN(b[:]); err != nil {
		return Wrap(KindStream, "write uint16", err)
	}
	return nil
}

// ReadInt32 reads a little-endian int32.
func ReadInt32(r stream.Reader) (int32, error) {
	var b [4]byte
	if err := r.ReadN(b[:]); err != nil {
		return 0, Wrap(KindStream, "read int32", err)
	}
	return int32(binary.LittleEndian.Uint32(b[:])), nil
}

// WriteInt32 writes a little-endian int32.
func WriteInt32(w stream.Writer, v int32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	if err := w.WriteN(b[:]); err != nil {
		return Wrap(KindStream, "write int32", err)
	}
	return nil
}

// ReadInt64 reads a little-endian int64.
func ReadInt64(r stream.Reader) (int64, error) {
	var b [8]byte
	if err := r.ReadN(b[:]); err != nil {
		return 0, Wrap(KindStream, "read int64", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// WriteInt64 writes a little-endian int64.
func WriteInt64(w stream.Writer, v int64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	if err := w.WriteN(b[:]); err != nil {
		return Wrap(KindStream, "write int64", err)
	}
	return nil
}

// ReadULEB128 decodes a 7-bit-group variable-length integer of at most
// five groups. The fifth group may only carry the top four bits.
func ReadULEB128(r stream.Reader) (int32, error) {
	var v uint32
	for shift := 0; shift < uleb128MaxShift; shift += 7 {
		b, err := ReadByte(r)
		if err != nil {
			return 0, Wrap(KindStream, "read uleb128", err)
		}
		v |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return int32(v), nil
		}
	}

	b, err := ReadByte(r)
	if err != nil {
		return 0, Wrap(KindStream, "read uleb128", err)
	}
	if b > 0x0f {
		return 0, Errorf(KindOverflow, "read uleb128", "guard byte 0x%02x exceeds 0x0f", b)
	}
	v |= uint32(b) << uleb128MaxShift
	return int32(v), nil
}

// AppendULEB128 appends the encoding of v to dst. Negative values are
// encoded by their 32-bit two's complement pattern.
func AppendULEB128(dst []byte, v int32) []byte {
	u := uint32(v)
	for {
		b := byte(u & 0x7f)
		u >>= 7
		if u != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
		if u == 0 {
			return dst
		}
	}
}

// WriteULEB128 writes v as a 7-bit-group variable-length integer.
func WriteULEB128(w stream.Writer, v int32) error {
	var scratch [5]byte
	if err := w.WriteN(AppendULEB128(scratch[:0], v)); err != nil {
		return Wrap(KindStream, "write uleb128", err)
	}
	return nil
}

// ReadString reads a presence byte, then a ULEB128 length and that many
// bytes. A zero presence byte yields an absent string and nothing more is
// consumed.
func ReadString(r stream.Reader) (NullString, error) {
	marker, err := ReadByte(r)
	if err != nil {
		return NullString{}, Wrap(KindStream, "read string marker", err)
	}
	if marker == 0 {
		return NullString{}, nil
	}

	n, err := ReadULEB128(r)
	if err != nil {
		return NullString{}, Wrap(KindStream, "read string length", err)
	}
	if n < 0 {
		return NullString{}, Errorf(KindFormat, "read string length", "negative length %d", n)
	}

	buf, err := readBody(r, int(n))
	if err != nil {
		return NullString{}, Wrap(KindStream, "read string body", err)
	}
	return NullString{String: string(buf), Valid: true}, nil
}

// WriteString writes s. An absent string is a single zero byte.
func WriteString(w stream.Writer, s NullString) error {
	if !s.Valid {
		if err := WriteByte(w, 0); err != nil {
			return Wrap(KindStream, "write string marker", err)
		}
		return nil
	}
	if len(s.String) > math.MaxInt32 {
		return Errorf(KindFormat, "write string", "length %d exceeds int32", len(s.String))
	}

	buf := make([]byte, 0, 1+5+len(s.String))
	buf = append(buf, StringMarker)
	buf = AppendULEB128(buf, int32(len(s.String)))
	buf = append(buf, s.String...)
	if err := w.WriteN(buf); err != nil {
		return Wrap(KindStream, "write string", err)
	}
	return nil
}

// ReadByteArray reads an int32 length and that many bytes. A length of zero
// or less is the absent outcome: ok is false, err is nil and no payload is
// consumed.
func ReadByteArray(r stream.Reader) (data []byte, ok bool, err error) {
	n, err := ReadInt32(r)
	if err != nil {
		return nil, false, Wrap(KindStream, "read byte array length", err)
	}
	if n <= 0 {
		return nil, false, nil
	}

	buf, err := readBody(r, int(n))
	if err != nil {
		return nil, false, Wrap(KindStream, "read byte array body", err)
	}
	return buf, true, nil
}

// WriteByteArray writes an int32 length followed by data. An empty array is
// written as a zero length with no payload.
func WriteByteArray(w stream.Writer, data []byte) error {
	if len(data) > math.MaxInt32 {
		return Errorf(KindFormat, "write byte array", "length %d exceeds int32", len(data))
	}
	if err := WriteInt32(w, int32(len(data))); err != nil {
		return Wrap(KindStream, "write byte array length", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := w.WriteN(data); err != nil {
		return Wrap(KindStream, "write byte array body", err)
	}
	return nil
}

// readBody reads exactly n bytes. Sized readers are checked up front; other
// readers are drained in chunks so the buffer only grows with data that
// actually arrives.
func readBody(r stream.Reader, n int) ([]byte, error) {
	if s, ok := r.(stream.Sized); ok && s.Len() < n {
		return nil, fmt.Errorf("%w: wanted %d bytes, have %d", stream.ErrEndOfStream, n, s.Len())
	}
	if n <= readChunk {
		buf := make([]byte, n)
		if err := r.ReadN(buf); err != nil {
			return nil, err
		}
		return buf, nil
	}

	buf := make([]byte, 0, readChunk)
	for len(buf) < n {
		start := len(buf)
		step := min(n-start, readChunk)
		buf = slices.Grow(buf, step)[:start+step]
		if err := r.ReadN(buf[start:]); err != nil {
			return nil, err
		}
	}
	return buf, nil
}
