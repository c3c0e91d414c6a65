package compress

import (
	"fmt"
	"io"

	"github.com/golang/snappy"
)

// Snappy uses the framed snappy stream format.
type Snappy struct{}

var _ Engine = (*Snappy)(nil)

func NewSnappy() *Snappy {
	return &Snappy{}
}

func (e *Snappy) Name() string {
	return "snappy"
}

func (e *Snappy) Compress(dst io.Writer, src io.Reader) error {
	w := snappy.NewBufferedWriter(dst)
	if _, err := io.Copy(w, src); err != nil {
		_ = w.Close()
		return fmt.Errorf("snappy compress write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("snappy compress close: %w", err)
	}
	return nil
}

func (e *Snappy) Decompress(dst io.Writer, src io.Reader) error {
	if _, err := io.Copy(dst, snappy.NewReader(src)); err != nil {
		return fmt.Errorf("snappy decompress: %w", err)
	}
	return nil
}
