package osr

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ssargent/osrkit/pkg/replay"
	"github.com/ssargent/osrkit/pkg/stream"
)

var defaultCodec = NewCodec()

// Unmarshal decodes a container held in memory with the default codec.
func Unmarshal(data []byte) (*replay.Replay, error) {
	return defaultCodec.Unmarshal(data)
}

// Marshal encodes rp with the default codec.
func Marshal(rp *replay.Replay) ([]byte, error) {
	return defaultCodec.Marshal(rp)
}

// ReadFile decodes the container stored at path with the default codec.
func ReadFile(path string) (*replay.Replay, error) {
	return defaultCodec.ReadFile(path)
}

// WriteFile encodes rp to path with the default codec.
func WriteFile(path string, rp *replay.Replay) error {
	return defaultCodec.WriteFile(path, rp)
}

// Unmarshal decodes a container held in memory.
func (c *Codec) Unmarshal(data []byte) (*replay.Replay, error) {
	return c.Decode(stream.NewBuffer(data))
}

// Marshal encodes rp into a new byte slice.
func (c *Codec) Marshal(rp *replay.Replay) ([]byte, error) {
	buf := stream.NewBuffer(nil)
	if err := c.Encode(buf, rp); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadFile decodes the container stored at path.
func (c *Codec) ReadFile(path string) (*replay.Replay, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open replay: %w", err)
	}
	defer f.Close()

	rp, err := c.Decode(stream.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rp, nil
}

// WriteFile encodes rp and writes it to path. Nothing is written if
// encoding fails.
func (c *Codec) WriteFile(path string, rp *replay.Replay) error {
	var out bytes.Buffer
	w := stream.NewWriter(&out)
	if err := c.Encode(w, rp); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush replay: %w", err)
	}
	if err := os.WriteFile(path, out.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write replay: %w", err)
	}
	return nil
}
