package archive

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/pebble"
)

const checksumSize = 8

// Key namespaces inside the pebble keyspace.
var (
	prefixRaw   = []byte("r/")
	prefixMeta  = []byte("m/")
	prefixScore = []byte("h/")
)

func key(prefix []byte, id string) []byte {
	k := make([]byte, 0, len(prefix)+len(id))
	k = append(k, prefix...)
	return append(k, id...)
}

// prefixUpperBound returns the smallest key greater than every key with
// the given prefix.
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

// sealBlob prepends the xxhash64 of data.
func sealBlob(data []byte) []byte {
	out := make([]byte, checksumSize+len(data))
	binary.LittleEndian.PutUint64(out, xxhash.Sum64(data))
	copy(out[checksumSize:], data)
	return out
}

// openBlob verifies and strips the checksum written by sealBlob.
func openBlob(stored []byte) ([]byte, error) {
	if len(stored) < checksumSize {
		return nil, fmt.Errorf("%w: blob of %d bytes has no checksum", ErrCorrupt, len(stored))
	}
	want := binary.LittleEndian.Uint64(stored)
	data := stored[checksumSize:]
	if got := xxhash.Sum64(data); got != want {
		return nil, fmt.Errorf("%w: checksum %016x != %016x", ErrCorrupt, got, want)
	}
	return data, nil
}

// get copies the value out before the pebble closer releases it.
func (a *Archive) get(k []byte) ([]byte, error) {
	data, closer, err := a.db.Get(k)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()

	return append([]byte(nil), data...), nil
}
