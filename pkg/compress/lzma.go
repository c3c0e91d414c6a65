package compress

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// LegacyDictCap is the dictionary size legacy replays are written with.
const LegacyDictCap = 1 << 21

// MaxDecodeDictCap is the largest dictionary a stream header may ask the
// decoder to allocate.
const MaxDecodeDictCap = DefaultMaxInflate

const lzmaHeaderLen = 13

// LZMA is the classic .lzma engine: a 13 byte header of properties,
// dictionary size and uncompressed size followed by the raw stream.
type LZMA struct {
	// DictCap is the dictionary capacity used when compressing.
	DictCap int
}

var _ Engine = (*LZMA)(nil)

// NewLZMA returns an engine that writes the same header layout as the
// legacy producer: lc=3 lp=0 pb=2, a 2 MiB dictionary and an explicit size.
func NewLZMA() *LZMA {
	return &LZMA{DictCap: LegacyDictCap}
}

func (e *LZMA) Name() string {
	return "lzma"
}

// Compress buffers src to learn its length, since the header records the
// uncompressed size up front.
func (e *LZMA) Compress(dst io.Writer, src io.Reader) error {
	data, err := io.ReadAll(src)
	if err != nil {
		return fmt.Errorf("lzma read source: %w", err)
	}

	cfg := lzma.WriterConfig{
		Properties:   &lzma.Properties{LC: 3, LP: 0, PB: 2},
		DictCap:      e.DictCap,
		SizeInHeader: true,
		Size:         int64(len(data)),
	}
	w, err := cfg.NewWriter(dst)
	if err != nil {
		return fmt.Errorf("lzma new writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("lzma compress write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("lzma compress close: %w", err)
	}
	return nil
}

// Decompress accepts both explicit-size and end-marker streams. Headers
// declaring a dictionary above MaxDecodeDictCap are rejected before the
// decoder allocates it.
func (e *LZMA) Decompress(dst io.Writer, src io.Reader) error {
	var hdr [lzmaHeaderLen]byte
	if _, err := io.ReadFull(src, hdr[:]); err != nil {
		return fmt.Errorf("lzma header: %w", err)
	}
	if dictCap := binary.LittleEndian.Uint32(hdr[1:5]); int64(dictCap) > MaxDecodeDictCap {
		return fmt.Errorf("lzma header: dictionary of %d bytes exceeds %d", dictCap, MaxDecodeDictCap)
	}

	r, err := lzma.NewReader(io.MultiReader(bytes.NewReader(hdr[:]), src))
	if err != nil {
		return fmt.Errorf("lzma header: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		return fmt.Errorf("lzma decompress: %w", err)
	}
	return nil
}
