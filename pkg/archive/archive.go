// Package archive stores replays in a pebble database keyed by ksuid.
//
// Every entry is written as three keys in one batch: the raw container
// guarded by an xxhash64 checksum, a JSON summary, and a score hash index
// used to reject duplicates.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/osrkit/pkg/osr"
	"github.com/ssargent/osrkit/pkg/replay"
)

// Errors
var (
	ErrNotFound  = errors.New("archive: replay not found")
	ErrDuplicate = errors.New("archive: replay already archived")
	ErrCorrupt   = errors.New("archive: stored replay is corrupt")
	ErrInvalidID = errors.New("archive: invalid replay id")
)

// Entry summarizes one archived replay.
type Entry struct {
	ID          string    `json:"id"`
	ScoreHash   string    `json:"score_hash"`
	BeatmapHash string    `json:"beatmap_hash"`
	Player      string    `json:"player"`
	Mode        string    `json:"mode"`
	Version     int32     `json:"version"`
	TotalScore  int32     `json:"total_score"`
	MaxCombo    uint16    `json:"max_combo"`
	Mods        string    `json:"mods"`
	Frames      int       `json:"frames"`
	PlayedAt    time.Time `json:"played_at"`
	StoredAt    time.Time `json:"stored_at"`
	Size        int       `json:"size"`
}

// NewEntry summarizes rp. ID and StoredAt are left for the caller.
func NewEntry(rp *replay.Replay, size int) *Entry {
	return &Entry{
		ScoreHash:   rp.ScoreHash.String(),
		BeatmapHash: rp.BeatmapHash.String(),
		Player:      rp.Player(),
		Mode:        rp.Mode.String(),
		Version:     rp.Version,
		TotalScore:  rp.TotalScore,
		MaxCombo:    rp.MaxCombo,
		Mods:        rp.Mods.String(),
		Frames:      len(rp.Frames),
		PlayedAt:    rp.PlayedAt(),
		Size:        size,
	}
}

// Archive is safe for concurrent use.
type Archive struct {
	db     *pebble.DB
	codec  *osr.Codec
	logger zerolog.Logger

	// mu serializes the duplicate check with the write that follows it.
	mu sync.Mutex
}

// Open opens or creates an archive in dir.
func Open(dir string, codec *osr.Codec, logger zerolog.Logger) (*Archive, error) {
	if codec == nil {
		codec = osr.NewCodec()
	}
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive at %s: %w", dir, err)
	}
	return &Archive{db: db, codec: codec, logger: logger}, nil
}

// Close releases the database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Put decodes raw and stores it. A replay whose score hash is already
// present yields the existing entry together with ErrDuplicate.
func (a *Archive) Put(raw []byte) (*Entry, error) {
	rp, err := a.codec.Unmarshal(raw)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	scoreHash := rp.ScoreHash.String()
	if existing, err := a.get(key(prefixScore, scoreHash)); err == nil {
		entry, lerr := a.entry(string(existing))
		if lerr != nil {
			return nil, lerr
		}
		return entry, ErrDuplicate
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	id := ksuid.New()
	entry := NewEntry(rp, len(raw))
	entry.ID = id.String()
	entry.StoredAt = id.Time().UTC()

	meta, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entry: %w", err)
	}

	b := a.db.NewBatch()
	defer b.Close()
	if err := b.Set(key(prefixRaw, entry.ID), sealBlob(raw), nil); err != nil {
		return nil, err
	}
	if err := b.Set(key(prefixMeta, entry.ID), meta, nil); err != nil {
		return nil, err
	}
	if err := b.Set(key(prefixScore, scoreHash), []byte(entry.ID), nil); err != nil {
		return nil, err
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return nil, fmt.Errorf("failed to commit replay: %w", err)
	}

	a.logger.Debug().Str("id", entry.ID).Str("player", entry.Player).Int("bytes", len(raw)).Msg("archived replay")
	return entry, nil
}

func parseID(id string) (string, error) {
	parsed, err := ksuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return parsed.String(), nil
}

func (a *Archive) entry(id string) (*Entry, error) {
	meta, err := a.get(key(prefixMeta, id))
	if err != nil {
		return nil, err
	}
	var e Entry
	if err := json.Unmarshal(meta, &e); err != nil {
		return nil, fmt.Errorf("%w: entry %s: %v", ErrCorrupt, id, err)
	}
	return &e, nil
}

// Entry returns the summary stored for id.
func (a *Archive) Entry(id string) (*Entry, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return a.entry(id)
}

// Raw returns the stored container bytes after verifying their checksum.
func (a *Archive) Raw(id string) ([]byte, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	stored, err := a.get(key(prefixRaw, id))
	if err != nil {
		return nil, err
	}
	return openBlob(stored)
}

// Get decodes the stored container.
func (a *Archive) Get(id string) (*replay.Replay, error) {
	raw, err := a.Raw(id)
	if err != nil {
		return nil, err
	}
	rp, err := a.codec.Unmarshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return rp, nil
}

// Lookup finds the entry archived for a score hash.
func (a *Archive) Lookup(scoreHash replay.Hash) (*Entry, error) {
	id, err := a.get(key(prefixScore, scoreHash.String()))
	if err != nil {
		return nil, err
	}
	return a.entry(string(id))
}

// List returns every entry, oldest first.
func (a *Archive) List() ([]*Entry, error) {
	iter, err := a.db.NewIter(&pebble.IterOptions{
		LowerBound: prefixMeta,
		UpperBound: prefixUpperBound(prefixMeta),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	entries := []*Entry{}
	for iter.First(); iter.Valid(); iter.Next() {
		var e Entry
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			return nil, fmt.Errorf("%w: entry %s: %v", ErrCorrupt, iter.Key(), err)
		}
		entries = append(entries, &e)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Stats reports the number of entries and their stored size in bytes.
func (a *Archive) Stats() (count int, bytes int64, err error) {
	entries, err := a.List()
	if err != nil {
		return 0, 0, err
	}
	for _, e := range entries {
		bytes += int64(e.Size)
	}
	return len(entries), bytes, nil
}

// Delete removes id and its score hash index.
func (a *Archive) Delete(id string) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	e, err := a.entry(id)
	if err != nil {
		return err
	}

	b := a.db.NewBatch()
	defer b.Close()
	if err := b.Delete(key(prefixRaw, id), nil); err != nil {
		return err
	}
	if err := b.Delete(key(prefixMeta, id), nil); err != nil {
		return err
	}
	if err := b.Delete(key(prefixScore, e.ScoreHash), nil); err != nil {
		return err
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete replay: %w", err)
	}

	a.logger.Debug().Str("id", id).Msg("deleted replay")
	return nil
}
