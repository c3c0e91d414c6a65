package osr

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/ssargent/osrkit/pkg/codec"
	"github.com/ssargent/osrkit/pkg/compress"
	"github.com/ssargent/osrkit/pkg/replay"
	"github.com/ssargent/osrkit/pkg/stream"
)

// Version thresholds that decide the width of the online id.
const (
	VersionOnlineID64 int32 = 20140721
	VersionOnlineID32 int32 = 20121008
)

// Codec converts between replay containers and replay.Replay values.
type Codec struct {
	bridge    *compress.Bridge
	maxFrames int64
	logger    zerolog.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithEngine replaces the frame list compression engine.
func WithEngine(e compress.Engine) Option {
	return func(c *Codec) {
		c.bridge = compress.NewBridge(e)
	}
}

// WithMaxFrameText caps the decompressed size of the frame list. Zero or less
// keeps compress.DefaultMaxInflate.
func WithMaxFrameText(n int64) Option {
	return func(c *Codec) {
		c.maxFrames = n
	}
}

// WithLogger attaches a logger. Decode and encode steps are logged at debug
// level.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Codec) {
		c.logger = l
	}
}

// NewCodec returns a Codec using lzma for the frame list.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		bridge: compress.NewBridge(nil),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.bridge.WithMaxOutput(c.maxFrames)
	return c
}

// Engine returns the name of the frame list compression engine.
func (c *Codec) Engine() string {
	return c.bridge.Engine().Name()
}

// onlineIDWidth returns 8 or 4 for supported versions.
func onlineIDWidth(version int32) (int, error) {
	switch {
	case version >= VersionOnlineID64:
		return 8, nil
	case version >= VersionOnlineID32:
		return 4, nil
	default:
		return 0, codec.Errorf(codec.KindUnsupported, "online id",
			"version %d predates %d", version, VersionOnlineID32)
	}
}

func fieldErr(op, field string, err error) error {
	return codec.Wrap(codec.KindStream, fmt.Sprintf("osr: %s %s", op, field), err)
}

// Decode reads one container from r. On failure it returns a nil Replay.
func (c *Codec) Decode(r stream.Reader) (*replay.Replay, error) {
	rp := &replay.Replay{}

	mode, err := codec.ReadByte(r)
	if err != nil {
		return nil, fieldErr("decode", "mode", err)
	}
	rp.Mode = replay.Mode(mode)

	if rp.Version, err = codec.ReadInt32(r); err != nil {
		return nil, fieldErr("decode", "version", err)
	}
	c.logger.Debug().Int32("version", rp.Version).Str("mode", rp.Mode.String()).Msg("decoding replay")

	if rp.BeatmapHash, err = readHash(r); err != nil {
		return nil, fieldErr("decode", "beatmap hash", err)
	}
	if rp.Username, err = codec.ReadString(r); err != nil {
		return nil, fieldErr("decode", "username", err)
	}
	if rp.ScoreHash, err = readHash(r); err != nil {
		return nil, fieldErr("decode", "score hash", err)
	}

	counters := []struct {
		name string
		dst  *uint16
	}{
		{"300 count", &rp.Count300},
		{"100 count", &rp.Count100},
		{"50 count", &rp.Count50},
		{"geki count", &rp.CountGeki},
		{"katu count", &rp.CountKatu},
		{"miss count", &rp.CountMiss},
	}
	for _, ctr := range counters {
		if *ctr.dst, err = codec.ReadUint16(r); err != nil {
			return nil, fieldErr("decode", ctr.name, err)
		}
	}

	if rp.TotalScore, err = codec.ReadInt32(r); err != nil {
		return nil, fieldErr("decode", "score", err)
	}
	if rp.MaxCombo, err = codec.ReadUint16(r); err != nil {
		return nil, fieldErr("decode", "max combo", err)
	}
	if rp.Perfect, err = codec.ReadBool(r); err != nil {
		return nil, fieldErr("decode", "perfect", err)
	}
	mods, err := codec.ReadInt32(r)
	if err != nil {
		return nil, fieldErr("decode", "mods", err)
	}
	rp.Mods = replay.Mods(uint32(mods))
	if bad := rp.Mods.Inconsistencies(); len(bad) > 0 {
		c.logger.Warn().Strs("inconsistencies", bad).Str("mods", rp.Mods.String()).Msg("mod mask is inconsistent")
	}

	health, err := codec.ReadString(r)
	if err != nil {
		return nil, fieldErr("decode", "health graph", err)
	}
	if rp.Health, err = replay.DecodeHealth([]byte(health.String)); err != nil {
		return nil, fieldErr("decode", "health graph", err)
	}

	if rp.Timestamp, err = codec.ReadInt64(r); err != nil {
		return nil, fieldErr("decode", "timestamp", err)
	}

	compressed, ok, err := codec.ReadByteArray(r)
	if err != nil {
		return nil, fieldErr("decode", "frames", err)
	}
	if !ok {
		return nil, fieldErr("decode", "frames",
			codec.Errorf(codec.KindUnsupported, "frames", "frame array is absent"))
	}
	text, err := c.bridge.Inflate(compressed)
	if err != nil {
		return nil, fieldErr("decode", "frames", err)
	}
	if rp.Frames, err = replay.DecodeFrames(text); err != nil {
		return nil, fieldErr("decode", "frames", err)
	}
	c.logger.Debug().
		Int("compressed_bytes", len(compressed)).
		Int("text_bytes", len(text)).
		Int("frames", len(rp.Frames)).
		Msg("decoded frame list")

	width, err := onlineIDWidth(rp.Version)
	if err != nil {
		return nil, fieldErr("decode", "online id", err)
	}
	if width == 8 {
		if rp.OnlineID, err = codec.ReadInt64(r); err != nil {
			return nil, fieldErr("decode", "online id", err)
		}
	} else {
		id, err := codec.ReadInt32(r)
		if err != nil {
			return nil, fieldErr("decode", "online id", err)
		}
		rp.OnlineID = int64(id)
	}

	return rp, nil
}

func readHash(r stream.Reader) (replay.Hash, error) {
	s, err := codec.ReadString(r)
	if err != nil {
		return replay.Hash{}, err
	}
	return replay.ParseHash(s.String)
}

// Encode writes rp to w. The version and online id are validated before
// the first byte is written.
func (c *Codec) Encode(w stream.Writer, rp *replay.Replay) error {
	if rp == nil {
		return codec.Errorf(codec.KindFormat, "osr: encode", "nil replay")
	}
	width, err := onlineIDWidth(rp.Version)
	if err != nil {
		return fieldErr("encode", "online id", err)
	}
	if width == 4 && (rp.OnlineID > math.MaxInt32 || rp.OnlineID < math.MinInt32) {
		return fieldErr("encode", "online id", codec.Errorf(codec.KindFormat, "online id",
			"%d does not fit the 32-bit id of version %d", rp.OnlineID, rp.Version))
	}

	compressed, err := c.bridge.Deflate(replay.EncodeFrames(rp.Frames))
	if err != nil {
		return fieldErr("encode", "frames", err)
	}
	if len(compressed) == 0 {
		return fieldErr("encode", "frames", codec.Errorf(codec.KindCompression, "frames", "engine produced no output"))
	}

	if err := codec.WriteByte(w, byte(rp.Mode)); err != nil {
		return fieldErr("encode", "mode", err)
	}
	if err := codec.WriteInt32(w, rp.Version); err != nil {
		return fieldErr("encode", "version", err)
	}
	if err := codec.WriteString(w, codec.NewNullString(rp.BeatmapHash.String())); err != nil {
		return fieldErr("encode", "beatmap hash", err)
	}
	if err := codec.WriteString(w, rp.Username); err != nil {
		return fieldErr("encode", "username", err)
	}
	if err := codec.WriteString(w, codec.NewNullString(rp.ScoreHash.String())); err != nil {
		return fieldErr("encode", "score hash", err)
	}

	counters := []struct {
		name string
		v    uint16
	}{
		{"300 count", rp.Count300},
		{"100 count", rp.Count100},
		{"50 count", rp.Count50},
		{"geki count", rp.CountGeki},
		{"katu count", rp.CountKatu},
		{"miss count", rp.CountMiss},
	}
	for _, ctr := range counters {
		if err := codec.WriteUint16(w, ctr.v); err != nil {
			return fieldErr("encode", ctr.name, err)
		}
	}

	if err := codec.WriteInt32(w, rp.TotalScore); err != nil {
		return fieldErr("encode", "score", err)
	}
	if err := codec.WriteUint16(w, rp.MaxCombo); err != nil {
		return fieldErr("encode", "max combo", err)
	}
	if err := codec.WriteBool(w, rp.Perfect); err != nil {
		return fieldErr("encode", "perfect", err)
	}
	if err := codec.WriteInt32(w, int32(uint32(rp.Mods))); err != nil {
		return fieldErr("encode", "mods", err)
	}
	health := codec.NewNullString(string(replay.EncodeHealth(rp.Health)))
	if err := codec.WriteString(w, health); err != nil {
		return fieldErr("encode", "health graph", err)
	}
	if err := codec.WriteInt64(w, rp.Timestamp); err != nil {
		return fieldErr("encode", "timestamp", err)
	}
	if err := codec.WriteByteArray(w, compressed); err != nil {
		return fieldErr("encode", "frames", err)
	}

	if width == 8 {
		err = codec.WriteInt64(w, rp.OnlineID)
	} else {
		err = codec.WriteInt32(w, int32(rp.OnlineID))
	}
	if err != nil {
		return fieldErr("encode", "online id", err)
	}

	c.logger.Debug().
		Int32("version", rp.Version).
		Int("frames", len(rp.Frames)).
		Int("compressed_bytes", len(compressed)).
		Msg("encoded replay")
	return nil
}
