package api

import (
	"time"

	"github.com/ssargent/osrkit/pkg/archive"
	"github.com/ssargent/osrkit/pkg/replay"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port           int
	Bind           string
	APIKey         string
	MaxUploadBytes int64
}

// ReplayArchive defines the archive operations the API depends on
type ReplayArchive interface {
	Put(raw []byte) (*archive.Entry, error)
	Entry(id string) (*archive.Entry, error)
	Raw(id string) ([]byte, error)
	Get(id string) (*replay.Replay, error)
	List() ([]*archive.Entry, error)
	Delete(id string) error
	Stats() (count int, bytes int64, err error)
}

// ReplaySummary is the JSON view of a decoded replay
type ReplaySummary struct {
	Mode        string    `json:"mode"`
	Version     int32     `json:"version"`
	BeatmapHash string    `json:"beatmap_hash"`
	Player      string    `json:"player"`
	ScoreHash   string    `json:"score_hash"`
	Count300    uint16    `json:"count_300"`
	Count100    uint16    `json:"count_100"`
	Count50     uint16    `json:"count_50"`
	CountGeki   uint16    `json:"count_geki"`
	CountKatu   uint16    `json:"count_katu"`
	CountMiss   uint16    `json:"count_miss"`
	TotalScore  int32     `json:"total_score"`
	MaxCombo    uint16    `json:"max_combo"`
	Perfect     bool      `json:"perfect"`
	Mods        string    `json:"mods"`
	ModFlags    uint32    `json:"mod_flags"`
	PlayedAt    time.Time `json:"played_at"`
	OnlineID    int64     `json:"online_id"`
	Frames      int       `json:"frames"`
	HealthPts   int       `json:"health_points"`
	DurationMS  int64     `json:"duration_ms"`
}

// NewReplaySummary flattens rp for JSON output
func NewReplaySummary(rp *replay.Replay) ReplaySummary {
	return ReplaySummary{
		Mode:        rp.Mode.String(),
		Version:     rp.Version,
		BeatmapHash: rp.BeatmapHash.String(),
		Player:      rp.Player(),
		ScoreHash:   rp.ScoreHash.String(),
		Count300:    rp.Count300,
		Count100:    rp.Count100,
		Count50:     rp.Count50,
		CountGeki:   rp.CountGeki,
		CountKatu:   rp.CountKatu,
		CountMiss:   rp.CountMiss,
		TotalScore:  rp.TotalScore,
		MaxCombo:    rp.MaxCombo,
		Perfect:     rp.Perfect,
		Mods:        rp.Mods.String(),
		ModFlags:    uint32(rp.Mods),
		PlayedAt:    rp.PlayedAt(),
		OnlineID:    rp.OnlineID,
		Frames:      len(rp.Frames),
		HealthPts:   len(rp.Health),
		DurationMS:  rp.Duration().Milliseconds(),
	}
}
