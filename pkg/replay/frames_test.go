package replay

import (
	"strconv"
	"testing"

	"github.com/ssargent/osrkit/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func times(frames []Frame) []float32 {
	out := make([]float32, len(frames))
	for i, f := range frames {
		out[i] = f.Time
	}
	return out
}

func TestDecodeFrames(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  []Frame
	}{
		{
			name:  "single frame and terminator",
			input: "0|0|0|0,-1234|0|0|0",
			want:  []Frame{{Time: 0, X: 0, Y: 0, Buttons: 0}},
		},
		{
			name:  "deltas accumulate",
			input: "10|1.5|2.5|1,16|3|4|0,17|5|6|2",
			want: []Frame{
				{Time: 10, X: 1.5, Y: 2.5, Buttons: 1},
				{Time: 26, X: 3, Y: 4, Buttons: 0},
				{Time: 43, X: 5, Y: 6, Buttons: 2},
			},
		},
		{
			name:  "short record skipped",
			input: "1|2|3,5|6|7|1",
			want:  []Frame{{Time: 5, X: 6, Y: 7, Buttons: 1}},
		},
		{
			name:  "seed record skipped",
			input: "5|6|7|1,-12345|0|0|8675309",
			want:  []Frame{{Time: 5, X: 6, Y: 7, Buttons: 1}},
		},
		{
			name:  "trailing comma",
			input: "5|6|7|1,",
			want:  []Frame{{Time: 5, X: 6, Y: 7, Buttons: 1}},
		},
		{
			name:  "empty text",
			input: "",
			want:  nil,
		},
		{
			name:  "legacy start of replay",
			input: "0|256|-500|0,-1|256|-500|0,15|100|100|0,16|110|105|1,-1234|0|0|0",
			want: []Frame{
				{Time: 14, X: 100, Y: 100, Buttons: 0},
				{Time: 30, X: 110, Y: 105, Buttons: 1},
			},
		},
		{
			name:  "inverted head",
			input: "5|1|1|0,-4|2|2|0",
			want: []Frame{
				{Time: 0, X: 1, Y: 1},
				{Time: 5, X: 2, Y: 2},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeFrames([]byte(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeFrames_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "five fields", input: "1|2|3|4|5"},
		{name: "bad delta", input: "abc|2|3|4"},
		{name: "bad x", input: "1|x|3|4"},
		{name: "bad y", input: "1|2|y|4"},
		{name: "fractional buttons", input: "1|2|3|4.5"},
		{name: "x beyond float32", input: "1|1e39|3|4"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeFrames([]byte(tc.input))
			assert.Nil(t, got)
			assert.ErrorIs(t, err, codec.ErrFormat)
		})
	}
}

func TestFixInvertedHead(t *testing.T) {
	frames := []Frame{{Time: 5}, {Time: 1}}
	fixInvertedHead(frames)
	assert.Equal(t, []float32{0, 5}, times(frames))

	ordered := []Frame{{Time: 1}, {Time: 5}}
	fixInvertedHead(ordered)
	assert.Equal(t, []float32{1, 5}, times(ordered))

	single := []Frame{{Time: 7}}
	fixInvertedHead(single)
	assert.Equal(t, []float32{7}, times(single))
}

func TestFixHeadOvershoot(t *testing.T) {
	frames := []Frame{{Time: 10}, {Time: 3}, {Time: 2}}
	fixHeadOvershoot(frames)
	assert.Equal(t, []float32{2, 2, 2}, times(frames))

	fine := []Frame{{Time: 0}, {Time: 3}, {Time: 4}}
	fixHeadOvershoot(fine)
	assert.Equal(t, []float32{0, 3, 4}, times(fine))

	short := []Frame{{Time: 10}, {Time: 3}}
	fixHeadOvershoot(short)
	assert.Equal(t, []float32{10, 3}, times(short))
}

func TestDropHeadSkipMarkers(t *testing.T) {
	marker := Frame{X: 256, Y: -500}

	testCases := []struct {
		name  string
		input []Frame
		want  []Frame
	}{
		{
			name:  "both head frames are markers",
			input: []Frame{marker, marker},
			want:  []Frame{},
		},
		{
			name:  "second slot only",
			input: []Frame{{X: 1}, marker, {X: 2}},
			want:  []Frame{{X: 1}, {X: 2}},
		},
		{
			name:  "first slot only",
			input: []Frame{marker, {X: 1}},
			want:  []Frame{{X: 1}},
		},
		{
			name:  "marker beyond head stays",
			input: []Frame{{X: 1}, {X: 2}, marker},
			want:  []Frame{{X: 1}, {X: 2}, marker},
		},
		{
			name:  "near miss stays",
			input: []Frame{{X: 256, Y: -499}},
			want:  []Frame{{X: 256, Y: -499}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, dropHeadSkipMarkers(tc.input))
		})
	}
}

func TestDecodeFrames_TwoMarkersDropped(t *testing.T) {
	got, err := DecodeFrames([]byte("0|256|-500|0,10|256|-500|0"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEncodeFrames(t *testing.T) {
	frames := []Frame{
		{Time: 0, X: 0, Y: 0, Buttons: 0},
		{Time: 16.5, X: 100.25, Y: -3, Buttons: 5},
		{Time: 33, X: 512, Y: 384, Buttons: 0},
	}

	got := EncodeFrames(frames)
	assert.Equal(t,
		"0.0000|0.0000|0.0000|0,16.5000|100.2500|-3.0000|5,16.5000|512.0000|384.0000|0,-1234|0|0|0",
		string(got))
}

func TestEncodeFrames_Empty(t *testing.T) {
	assert.Equal(t, "-1234|0|0|0", string(EncodeFrames(nil)))
}

func TestFrames_DecodeEncodeDecodeIsFixedPoint(t *testing.T) {
	inputs := []string{
		"0|256|-500|0,-1|256|-500|0,15|100|100|0,16|110|105|1,17|120.5|110.25|3,-12345|0|0|42,-1234|0|0|0",
		"5|1|1|0,-4|2|2|0,8|3|3|1",
		"0|0|0|0,-1234|0|0|0",
	}

	for _, input := range inputs {
		first, err := DecodeFrames([]byte(input))
		require.NoError(t, err)

		second, err := DecodeFrames(EncodeFrames(first))
		require.NoError(t, err)
		assert.Equal(t, first, second, "input %q", input)

		third, err := DecodeFrames(EncodeFrames(second))
		require.NoError(t, err)
		assert.Equal(t, second, third)
	}
}

func TestParseFloat32_RoundsThroughDouble(t *testing.T) {
	// Just above the float32 midpoint between 1 and the next float32. Rounding
	// to float64 lands exactly on the midpoint, which then ties to even.
	const input = "1.00000005960464477539062500001"

	direct, err := strconv.ParseFloat(input, 32)
	require.NoError(t, err)
	require.Equal(t, float32(1.0000001), float32(direct))

	got, err := parseFloat32([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, float32(1), got)

	for _, s := range []string{"0", "-500", "16.6667", "260.5", "-1234", "3.4028234e38"} {
		want, err := strconv.ParseFloat(s, 64)
		require.NoError(t, err)
		got, err := parseFloat32([]byte(s))
		require.NoError(t, err)
		assert.Equal(t, float32(want), got, s)
	}
}
