package replay

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{"time", "mouse_x", "mouse_y", "button_state"}

// WriteFramesCSV renders frames as CSV with three decimals per coordinate.
func WriteFramesCSV(w io.Writer, frames []Frame, header bool) error {
	cw := csv.NewWriter(w)

	if header {
		if err := cw.Write(csvHeader); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}

	row := make([]string, 4)
	for i, f := range frames {
		row[0] = strconv.FormatFloat(float64(f.Time), 'f', 3, 64)
		row[1] = strconv.FormatFloat(float64(f.X), 'f', 3, 64)
		row[2] = strconv.FormatFloat(float64(f.Y), 'f', 3, 64)
		row[3] = strconv.FormatInt(int64(f.Buttons), 10)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
