package replay

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFramesCSV(t *testing.T) {
	frames := []Frame{
		{Time: 0, X: 1.5, Y: 2.25, Buttons: 0},
		{Time: 16.6667, X: 100, Y: -3, Buttons: 5},
	}

	var out bytes.Buffer
	require.NoError(t, WriteFramesCSV(&out, frames, true))
	assert.Equal(t,
		"time,mouse_x,mouse_y,button_state\n"+
			"0.000,1.500,2.250,0\n"+
			"16.667,100.000,-3.000,5\n",
		out.String())
}

func TestWriteFramesCSV_NoHeader(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteFramesCSV(&out, []Frame{{Time: 1, X: 2, Y: 3, Buttons: 1}}, false))
	assert.Equal(t, "1.000,2.000,3.000,1\n", out.String())
}
