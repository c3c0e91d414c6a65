package compress

import (
	"fmt"
	"io"

	lz4 "github.com/pierrec/lz4/v4"
)

// LZ4 uses the lz4 frame format.
type LZ4 struct{}

var _ Engine = (*LZ4)(nil)

func NewLZ4() *LZ4 {
	return &LZ4{}
}

func (e *LZ4) Name() string {
	return "lz4"
}

func (e *LZ4) Compress(dst io.Writer, src io.Reader) error {
	w := lz4.NewWriter(dst)
	if _, err := io.Copy(w, src); err != nil {
		_ = w.Close()
		return fmt.Errorf("lz4 compress write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("lz4 compress close: %w", err)
	}
	return nil
}

func (e *LZ4) Decompress(dst io.Writer, src io.Reader) error {
	if _, err := io.Copy(dst, lz4.NewReader(src)); err != nil {
		return fmt.Errorf("lz4 decompress: %w", err)
	}
	return nil
}
