package archive

import (
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"github.com/ssargent/osrkit/pkg/codec"
	"github.com/ssargent/osrkit/pkg/osr"
	"github.com/ssargent/osrkit/pkg/replay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(t.TempDir(), osr.NewCodec(), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func testReplay(scoreHash string, player string) []byte {
	rp := &replay.Replay{
		Mode:        replay.ModeTaiko,
		Version:     20210520,
		BeatmapHash: replay.MustParseHash("0f8e0d5a1c7f4e2b9a3d6c5b4e3f2a19"),
		Username:    codec.NewNullString(player),
		ScoreHash:   replay.MustParseHash(scoreHash),
		Count300:    400,
		TotalScore:  1234567,
		MaxCombo:    512,
		Mods:        replay.ModHardRock,
		Timestamp:   638000000000000000,
		Frames: []replay.Frame{
			{Time: 0, X: 256, Y: 192},
			{Time: 20, X: 250, Y: 180, Buttons: 1},
		},
		OnlineID: 99,
	}
	raw, err := osr.Marshal(rp)
	if err != nil {
		panic(err)
	}
	return raw
}

func TestArchive_PutAndGet(t *testing.T) {
	a := setupArchive(t)
	raw := testReplay("a1b2c3d4e5f60718293a4b5c6d7e8f90", "WhiteCat")

	entry, err := a.Put(raw)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "WhiteCat", entry.Player)
	assert.Equal(t, "taiko", entry.Mode)
	assert.Equal(t, "HR", entry.Mods)
	assert.Equal(t, 2, entry.Frames)
	assert.Equal(t, len(raw), entry.Size)
	assert.False(t, entry.StoredAt.IsZero())

	stored, err := a.Raw(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, raw, stored)

	rp, err := a.Get(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(1234567), rp.TotalScore)
	assert.Equal(t, int64(99), rp.OnlineID)

	got, err := a.Entry(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ScoreHash, got.ScoreHash)

	byHash, err := a.Lookup(rp.ScoreHash)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, byHash.ID)
}

func TestArchive_PutDuplicate(t *testing.T) {
	a := setupArchive(t)
	raw := testReplay("a1b2c3d4e5f60718293a4b5c6d7e8f90", "WhiteCat")

	first, err := a.Put(raw)
	require.NoError(t, err)

	second, err := a.Put(raw)
	assert.ErrorIs(t, err, ErrDuplicate)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)

	entries, err := a.List()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestArchive_PutRejectsUndecodable(t *testing.T) {
	a := setupArchive(t)

	_, err := a.Put([]byte{0x00, 0x01})
	assert.ErrorIs(t, err, codec.ErrStream)

	entries, err := a.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestArchive_ListAndStats(t *testing.T) {
	a := setupArchive(t)
	hashes := []string{
		"00000000000000000000000000000001",
		"00000000000000000000000000000002",
		"00000000000000000000000000000003",
	}
	ids := map[string]bool{}
	var total int64
	for _, h := range hashes {
		raw := testReplay(h, "player-"+h[31:])
		e, err := a.Put(raw)
		require.NoError(t, err)
		ids[e.ID] = true
		total += int64(len(raw))
	}

	entries, err := a.List()
	require.NoError(t, err)
	require.Len(t, entries, len(hashes))
	for i, e := range entries {
		assert.True(t, ids[e.ID])
		if i > 0 {
			assert.Less(t, entries[i-1].ID, e.ID)
		}
	}

	count, size, err := a.Stats()
	require.NoError(t, err)
	assert.Equal(t, len(hashes), count)
	assert.Equal(t, total, size)
}

func TestArchive_Delete(t *testing.T) {
	a := setupArchive(t)
	raw := testReplay("a1b2c3d4e5f60718293a4b5c6d7e8f90", "WhiteCat")
	entry, err := a.Put(raw)
	require.NoError(t, err)

	require.NoError(t, a.Delete(entry.ID))

	_, err = a.Entry(entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = a.Raw(entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, a.Delete(entry.ID), ErrNotFound)

	// the score hash is free again
	again, err := a.Put(raw)
	require.NoError(t, err)
	assert.NotEqual(t, entry.ID, again.ID)
}

func TestArchive_InvalidAndMissingIDs(t *testing.T) {
	a := setupArchive(t)

	tests := []struct {
		name string
		id   string
		want error
	}{
		{"garbage", "not-a-ksuid", ErrInvalidID},
		{"empty", "", ErrInvalidID},
		{"unknown", ksuid.New().String(), ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Entry(tt.id)
			assert.ErrorIs(t, err, tt.want)
			_, err = a.Get(tt.id)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := a.Lookup(replay.MustParseHash("ffffffffffffffffffffffffffffffff"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchive_DetectsCorruption(t *testing.T) {
	a := setupArchive(t)
	entry, err := a.Put(testReplay("a1b2c3d4e5f60718293a4b5c6d7e8f90", "WhiteCat"))
	require.NoError(t, err)

	stored, err := a.get(key(prefixRaw, entry.ID))
	require.NoError(t, err)
	stored[len(stored)-1] ^= 0xff
	require.NoError(t, a.db.Set(key(prefixRaw, entry.ID), stored, pebble.Sync))

	_, err = a.Raw(entry.ID)
	assert.ErrorIs(t, err, ErrCorrupt)
	_, err = a.Get(entry.ID)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestBlobChecksum(t *testing.T) {
	tests := []struct {
		name   string
		stored []byte
		ok     bool
	}{
		{"sealed", sealBlob([]byte("payload")), true},
		{"sealed empty", sealBlob(nil), true},
		{"too short", []byte{1, 2, 3}, false},
		{"flipped", append(sealBlob([]byte("payload"))[:8], []byte("paylaod")...), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := openBlob(tt.stored)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrCorrupt)
			}
		})
	}
}

func TestPrefixUpperBound(t *testing.T) {
	assert.Equal(t, []byte("m0"), prefixUpperBound([]byte("m/")))
	assert.Equal(t, []byte{0x02}, prefixUpperBound([]byte{0x01, 0xff}))
	assert.Nil(t, prefixUpperBound([]byte{0xff}))
}
