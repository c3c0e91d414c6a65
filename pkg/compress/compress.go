// Package compress bridges in-memory payloads to general purpose compression
// engines.
//
// An Engine never sees the whole payload at once: it pulls its input from a
// source and pushes its output into a sink, so any streaming implementation
// can be substituted. The replay container always uses the lzma engine; the
// others exist for archive storage and experiments.
package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/ssargent/osrkit/pkg/codec"
)

// DefaultEngine is the engine the legacy container format is written with.
const DefaultEngine = "lzma"

// DefaultMaxInflate caps the output of a single Inflate call. It matches the
// memory limit of the zstd decoder.
const DefaultMaxInflate = 64 << 20

// ErrOutputLimit is returned when an engine produces more bytes than the
// bridge allows.
var ErrOutputLimit = errors.New("decompressed output exceeds limit")

// Engine is a streaming compressor. Implementations must be safe for
// concurrent use.
type Engine interface {
	// Name is the registry key of the engine.
	Name() string
	// Compress reads src until EOF and writes the compressed form to dst.
	Compress(dst io.Writer, src io.Reader) error
	// Decompress reads a compressed stream from src and writes the original
	// bytes to dst.
	Decompress(dst io.Writer, src io.Reader) error
}

var registry = map[string]func() Engine{
	"lzma":   func() Engine { return NewLZMA() },
	"zstd":   func() Engine { return NewZstd() },
	"snappy": func() Engine { return NewSnappy() },
	"lz4":    func() Engine { return NewLZ4() },
	"none":   func() Engine { return NewNone() },
}

// Lookup returns a fresh engine registered under name.
func Lookup(name string) (Engine, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown compression engine %q (known: %v)", name, Names())
	}
	return ctor(), nil
}

// Names lists registered engines in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bridge runs an Engine over byte slices.
type Bridge struct {
	engine    Engine
	maxOutput int64
}

// NewBridge returns a Bridge over e. A nil engine selects DefaultEngine.
// Inflate output is capped at DefaultMaxInflate.
func NewBridge(e Engine) *Bridge {
	if e == nil {
		e = NewLZMA()
	}
	return &Bridge{engine: e, maxOutput: DefaultMaxInflate}
}

// WithMaxOutput sets the Inflate output cap and returns b. Values below one
// restore DefaultMaxInflate.
func (b *Bridge) WithMaxOutput(n int64) *Bridge {
	if n < 1 {
		n = DefaultMaxInflate
	}
	b.maxOutput = n
	return b
}

// MaxOutput reports the Inflate output cap.
func (b *Bridge) MaxOutput() int64 {
	return b.maxOutput
}

// Engine returns the engine the bridge drives.
func (b *Bridge) Engine() Engine {
	return b.engine
}

// Inflate decompresses payload. The engine pulls from a cursor over payload
// and pushes into a growable buffer that refuses to grow past MaxOutput.
func (b *Bridge) Inflate(payload []byte) ([]byte, error) {
	src := bytes.NewReader(payload)
	dst := bytes.NewBuffer(make([]byte, 0, min(int64(len(payload))*3/2, b.maxOutput)))

	if err := b.engine.Decompress(&limitWriter{w: dst, n: b.maxOutput}, src); err != nil {
		return nil, codec.Wrap(codec.KindCompression, "inflate "+b.engine.Name(), err)
	}
	return dst.Bytes(), nil
}

// Deflate compresses text.
func (b *Bridge) Deflate(text []byte) ([]byte, error) {
	src := bytes.NewReader(text)
	dst := bytes.NewBuffer(make([]byte, 0, len(text)/2+64))

	if err := b.engine.Compress(dst, src); err != nil {
		return nil, codec.Wrap(codec.KindCompression, "deflate "+b.engine.Name(), err)
	}
	return dst.Bytes(), nil
}

// limitWriter passes through at most n bytes and fails with ErrOutputLimit
// on the write that would cross it.
type limitWriter struct {
	w io.Writer
	n int64
}

func (l *limitWriter) Write(p []byte) (int, error) {
	if int64(len(p)) > l.n {
		return 0, ErrOutputLimit
	}
	n, err := l.w.Write(p)
	l.n -= int64(n)
	return n, err
}
