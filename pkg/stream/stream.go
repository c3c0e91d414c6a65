// Package stream defines the byte source and sink the replay codecs read from
// and write to. A Reader either fills the whole buffer it is handed or fails;
// a Writer either writes every byte or fails. Neither knows about files.
package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// ErrEndOfStream is returned when a source runs out before a read completes.
var ErrEndOfStream = errors.New("stream: unexpected end of stream")

// Reader pulls exact-length chunks from a byte source.
type Reader interface {
	// ReadN fills p completely. On failure the contents of p are undefined.
	ReadN(p []byte) error
}

// Sized is implemented by readers that know how many unread bytes remain.
type Sized interface {
	Len() int
}

// Writer pushes exact-length chunks into a byte sink.
type Writer interface {
	// WriteN writes all of p.
	WriteN(p []byte) error
}

// IOReader adapts an io.Reader to Reader.
type IOReader struct {
	r      io.Reader
	offset int64
}

// NewReader wraps r. Reads are buffered.
func NewReader(r io.Reader) *IOReader {
	if _, ok := r.(*bufio.Reader); !ok {
		r = bufio.NewReader(r)
	}
	return &IOReader{r: r}
}

// ReadN implements Reader.
func (r *IOReader) ReadN(p []byte) error {
	n, err := io.ReadFull(r.r, p)
	r.offset += int64(n)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("%w: wanted %d bytes at offset %d, got %d",
				ErrEndOfStream, len(p), r.offset-int64(n), n)
		}
		return err
	}
	return nil
}

// Offset reports how many bytes have been consumed.
func (r *IOReader) Offset() int64 {
	return r.offset
}

// IOWriter adapts an io.Writer to Writer.
type IOWriter struct {
	w *bufio.Writer
}

// NewWriter wraps w. Call Flush once the last chunk has been written.
func NewWriter(w io.Writer) *IOWriter {
	return &IOWriter{w: bufio.NewWriter(w)}
}

// WriteN implements Writer.
func (w *IOWriter) WriteN(p []byte) error {
	n, err := w.w.Write(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return io.ErrShortWrite
	}
	return nil
}

// Flush pushes buffered bytes to the underlying writer.
func (w *IOWriter) Flush() error {
	return w.w.Flush()
}
