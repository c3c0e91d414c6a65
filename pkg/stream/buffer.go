package stream

import "fmt"

// Buffer is an in-memory Reader and Writer. Reads consume from the front,
// writes append to the back.
type Buffer struct {
	data []byte
	off  int
}

// NewBuffer returns a Buffer whose unread portion is data.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// ReadN implements Reader.
func (b *Buffer) ReadN(p []byte) error {
	if len(b.data)-b.off < len(p) {
		return fmt.Errorf("%w: wanted %d bytes at offset %d, have %d",
			ErrEndOfStream, len(p), b.off, len(b.data)-b.off)
	}
	b.off += copy(p, b.data[b.off:])
	return nil
}

// WriteN implements Writer.
func (b *Buffer) WriteN(p []byte) error {
	b.data = append(b.data, p...)
	return nil
}

// Bytes returns the unread portion of the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data[b.off:]
}

// Len returns the number of unread bytes.
func (b *Buffer) Len() int {
	return len(b.data) - b.off
}
