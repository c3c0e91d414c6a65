package compress

import (
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Zstd pools encoders and decoders across calls.
type Zstd struct {
	encoderPool sync.Pool
	decoderPool sync.Pool
}

var _ Engine = (*Zstd)(nil)

// NewZstd returns a zstd engine with default encoder settings.
func NewZstd() *Zstd {
	return &Zstd{
		encoderPool: sync.Pool{
			New: func() interface{} {
				enc, err := zstd.NewWriter(nil)
				if err != nil {
					return nil
				}
				return enc
			},
		},
		decoderPool: sync.Pool{
			New: func() interface{} {
				dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(64*1024*1024))
				if err != nil {
					return nil
				}
				return dec
			},
		},
	}
}

func (e *Zstd) Name() string {
	return "zstd"
}

func (e *Zstd) Compress(dst io.Writer, src io.Reader) error {
	enc, ok := e.encoderPool.Get().(*zstd.Encoder)
	if !ok || enc == nil {
		return fmt.Errorf("zstd encoder unavailable")
	}
	defer e.encoderPool.Put(enc)

	enc.Reset(dst)
	if _, err := io.Copy(enc, src); err != nil {
		// Close must still run or the encoder cannot be reused.
		_ = enc.Close()
		return fmt.Errorf("zstd compress write: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("zstd compress close: %w", err)
	}
	return nil
}

func (e *Zstd) Decompress(dst io.Writer, src io.Reader) error {
	dec, ok := e.decoderPool.Get().(*zstd.Decoder)
	if !ok || dec == nil {
		return fmt.Errorf("zstd decoder unavailable")
	}
	// Decoder.Close would invalidate it for reuse.
	defer e.decoderPool.Put(dec)

	if err := dec.Reset(src); err != nil {
		return fmt.Errorf("zstd decoder reset: %w", err)
	}
	if _, err := io.Copy(dst, dec); err != nil {
		return fmt.Errorf("zstd decompress: %w", err)
	}
	return nil
}
