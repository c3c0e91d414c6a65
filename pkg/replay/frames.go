package replay

import (
	"bytes"
	"math"
	"strconv"

	"github.com/ssargent/osrkit/pkg/codec"
)

const (
	frameFieldCount = 4
	// sentinelPrefix marks records that carry no input: the terminator
	// "-1234|0|0|0" and the RNG seed record "-12345|0|0|<seed>".
	sentinelPrefix = "-1234"
	frameTerminator = "-1234|0|0|0"
)

// Skip markers are frames parked at this off-screen position.
const (
	skipMarkerX float32 = 256
	skipMarkerY float32 = -500
)

// DecodeFrames parses the frame list text. Records with fewer than four
// fields and sentinel records are skipped; a record with more than four
// fields or a non-numeric field fails with codec.KindFormat.
func DecodeFrames(text []byte) ([]Frame, error) {
	var (
		frames  []Frame
		current float32
	)

	for i, rec := range bytes.Split(text, []byte{','}) {
		fields := bytes.Split(rec, []byte{'|'})
		if len(fields) < frameFieldCount {
			continue
		}
		if bytes.HasPrefix(rec, []byte(sentinelPrefix)) {
			continue
		}
		if len(fields) > frameFieldCount {
			return nil, codec.Errorf(codec.KindFormat, "decode frames",
				"record %d has %d fields, want %d", i, len(fields), frameFieldCount)
		}

		delta, err := parseFloat32(fields[0])
		if err != nil {
			return nil, codec.Errorf(codec.KindFormat, "decode frames", "record %d time: %w", i, err)
		}
		x, err := parseFloat32(fields[1])
		if err != nil {
			return nil, codec.Errorf(codec.KindFormat, "decode frames", "record %d x: %w", i, err)
		}
		y, err := parseFloat32(fields[2])
		if err != nil {
			return nil, codec.Errorf(codec.KindFormat, "decode frames", "record %d y: %w", i, err)
		}
		buttons, err := strconv.ParseInt(string(fields[3]), 10, 32)
		if err != nil {
			return nil, codec.Errorf(codec.KindFormat, "decode frames", "record %d buttons: %w", i, err)
		}

		current += delta
		frames = append(frames, Frame{Time: current, X: x, Y: y, Buttons: int32(buttons)})

		fixInvertedHead(frames)
		fixHeadOvershoot(frames)
		frames = dropHeadSkipMarkers(frames)
	}

	return frames, nil
}

// fixInvertedHead handles a second frame that lands before the first: the
// second inherits the first frame's time and the first restarts at zero.
func fixInvertedHead(frames []Frame) {
	if len(frames) >= 2 && frames[1].Time < frames[0].Time {
		frames[1].Time = frames[0].Time
		frames[0].Time = 0
	}
}

// fixHeadOvershoot pulls the first two frames back to the third frame's time
// when the first one lies past it.
func fixHeadOvershoot(frames []Frame) {
	if len(frames) >= 3 && frames[0].Time > frames[2].Time {
		frames[0].Time = frames[2].Time
		frames[1].Time = frames[2].Time
	}
}

// dropHeadSkipMarkers removes skip markers from the first two slots, second
// slot first.
func dropHeadSkipMarkers(frames []Frame) []Frame {
	if len(frames) >= 2 && frames[1].isSkipMarker() {
		frames = append(frames[:1], frames[2:]...)
	}
	if len(frames) >= 1 && frames[0].isSkipMarker() {
		frames = append(frames[:0], frames[1:]...)
	}
	return frames
}

func (f Frame) isSkipMarker() bool {
	return f.X == skipMarkerX && f.Y == skipMarkerY
}

// EncodeFrames writes each frame as a delta record with four decimals,
// followed by the terminator record. There is no trailing comma.
func EncodeFrames(frames []Frame) []byte {
	buf := make([]byte, 0, len(frames)*24+len(frameTerminator))

	var prev float32
	for _, f := range frames {
		delta := f.Time - prev
		prev = f.Time

		buf = strconv.AppendFloat(buf, float64(delta), 'f', 4, 64)
		buf = append(buf, '|')
		buf = strconv.AppendFloat(buf, float64(f.X), 'f', 4, 64)
		buf = append(buf, '|')
		buf = strconv.AppendFloat(buf, float64(f.Y), 'f', 4, 64)
		buf = append(buf, '|')
		buf = strconv.AppendInt(buf, int64(f.Buttons), 10)
		buf = append(buf, ',')
	}

	return append(buf, frameTerminator...)
}

// parseFloat32 rounds to float64 first and then to float32, which the legacy
// reader does. A value only representable as a float64 is a range error.
func parseFloat32(b []byte) (float32, error) {
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0, err
	}
	f := float32(v)
	if math.IsInf(float64(f), 0) && !math.IsInf(v, 0) {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: string(b), Err: strconv.ErrRange}
	}
	return f, nil
}
