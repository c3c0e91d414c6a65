package replay

import (
	"bytes"
	"strconv"

	"github.com/ssargent/osrkit/pkg/codec"
)

// DecodeHealth parses the health graph text. Every record must hold exactly
// a time and a value; a single trailing comma is accepted.
func DecodeHealth(text []byte) ([]HealthPoint, error) {
	if len(text) == 0 {
		return nil, nil
	}

	records := bytes.Split(text, []byte{','})
	if len(records[len(records)-1]) == 0 {
		records = records[:len(records)-1]
	}

	points := make([]HealthPoint, 0, len(records))
	for i, rec := range records {
		fields := bytes.Split(rec, []byte{'|'})
		if len(fields) != 2 {
			return nil, codec.Errorf(codec.KindFormat, "decode health",
				"record %d has %d fields, want 2", i, len(fields))
		}

		t, err := strconv.ParseInt(string(fields[0]), 10, 32)
		if err != nil {
			return nil, codec.Errorf(codec.KindFormat, "decode health", "record %d time: %w", i, err)
		}
		v, err := parseFloat32(fields[1])
		if err != nil {
			return nil, codec.Errorf(codec.KindFormat, "decode health", "record %d value: %w", i, err)
		}

		points = append(points, HealthPoint{Time: int32(t), Value: v})
	}

	return points, nil
}

// EncodeHealth writes each point as time|value with three decimals and a
// trailing comma. An empty graph encodes to empty text.
func EncodeHealth(points []HealthPoint) []byte {
	buf := make([]byte, 0, len(points)*12)
	for _, p := range points {
		buf = strconv.AppendInt(buf, int64(p.Time), 10)
		buf = append(buf, '|')
		buf = strconv.AppendFloat(buf, float64(p.Value), 'f', 3, 64)
		buf = append(buf, ',')
	}
	return buf
}
