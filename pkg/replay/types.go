package replay

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/ssargent/osrkit/pkg/codec"
)

// Mode is the ruleset a replay was played in.
type Mode uint8

const (
	ModeOsu Mode = iota
	ModeTaiko
	ModeCatch
	ModeMania
)

var modeNames = [...]string{"osu", "taiko", "catch", "mania"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Valid reports whether m is one of the four known rulesets.
func (m Mode) Valid() bool {
	return int(m) < len(modeNames)
}

var modeAliases = map[string]Mode{
	"osu": ModeOsu, "std": ModeOsu, "standard": ModeOsu, "0": ModeOsu,
	"taiko": ModeTaiko, "1": ModeTaiko,
	"catch": ModeCatch, "ctb": ModeCatch, "fruits": ModeCatch, "2": ModeCatch,
	"mania": ModeMania, "3": ModeMania,
}

// ParseMode accepts a ruleset name, a common alias or its numeric value.
func ParseMode(s string) (Mode, error) {
	m, ok := modeAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown mode %q", s)
	}
	return m, nil
}

// HashSize is the width of the hex digests stored in a replay.
const HashSize = 32

// Hash is a 32 character hex digest as stored on the wire.
type Hash [HashSize]byte

// ParseHash copies s into a Hash. s must be exactly HashSize bytes.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != HashSize {
		return h, codec.Errorf(codec.KindFormat, "parse hash", "length %d, want %d", len(s), HashSize)
	}
	copy(h[:], s)
	return h, nil
}

// MustParseHash is ParseHash for constants; it panics on bad input.
func MustParseHash(s string) Hash {
	h, err := ParseHash(s)
	if err != nil {
		panic(err)
	}
	return h
}

func (h Hash) String() string {
	return string(h[:])
}

// IsZero reports whether h was never set.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// IsHex reports whether every byte of h is a lowercase or uppercase hex digit.
func (h Hash) IsHex() bool {
	_, err := hex.DecodeString(string(h[:]))
	return err == nil
}

// Frame is one sample of cursor and button state. Time is absolute in
// milliseconds from the start of the replay.
type Frame struct {
	Time    float32 `json:"time"`
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	Buttons int32   `json:"buttons"`
}

// HealthPoint is one sample of the life bar. Value is in [0, 1].
type HealthPoint struct {
	Time  int32   `json:"time"`
	Value float32 `json:"value"`
}

// Replay is a decoded replay container.
type Replay struct {
	Mode        Mode
	Version     int32
	BeatmapHash Hash
	Username    codec.NullString
	ScoreHash   Hash

	Count300  uint16
	Count100  uint16
	Count50   uint16
	CountGeki uint16
	CountKatu uint16
	CountMiss uint16

	TotalScore int32
	MaxCombo   uint16
	Perfect    bool
	Mods       Mods

	Health []HealthPoint
	// Timestamp is in .NET ticks: 100ns units since 0001-01-01 UTC.
	Timestamp int64
	Frames    []Frame
	OnlineID  int64
}

// unixEpochTicks is 1970-01-01 expressed in .NET ticks.
const unixEpochTicks int64 = 621355968000000000

// PlayedAt converts Timestamp to a time.Time in UTC.
func (r *Replay) PlayedAt() time.Time {
	return time.Unix(0, (r.Timestamp-unixEpochTicks)*100).UTC()
}

// SetPlayedAt stores t as .NET ticks.
func (r *Replay) SetPlayedAt(t time.Time) {
	r.Timestamp = t.UnixNano()/100 + unixEpochTicks
}

// Player returns the username, or the empty string if it is absent.
func (r *Replay) Player() string {
	return r.Username.String
}

// Duration is the time of the last frame.
func (r *Replay) Duration() time.Duration {
	if len(r.Frames) == 0 {
		return 0
	}
	return time.Duration(float64(r.Frames[len(r.Frames)-1].Time) * float64(time.Millisecond))
}
