package compress

import (
	"fmt"
	"io"
)

// None copies bytes through unchanged.
type None struct{}

var _ Engine = (*None)(nil)

func NewNone() *None {
	return &None{}
}

func (e *None) Name() string {
	return "none"
}

func (e *None) Compress(dst io.Writer, src io.Reader) error {
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return nil
}

func (e *None) Decompress(dst io.Writer, src io.Reader) error {
	return e.Compress(dst, src)
}
