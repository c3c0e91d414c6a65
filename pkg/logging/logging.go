// Package logging builds the zerolog logger shared by the CLI and the
// REST service.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/ssargent/osrkit/pkg/config"
)

// Environment overrides, applied on top of the config file.
const (
	EnvLogLevel   = "OSRKIT_LOG_LEVEL"
	EnvLogFormat  = "OSRKIT_LOG_FORMAT"
	EnvLogNoColor = "OSRKIT_LOG_NOCOLOR"
)

// New returns a logger writing to out. Console output is human readable,
// json output is one object per line.
func New(cfg config.Logging, out io.Writer, app string) zerolog.Logger {
	applyEnvOverrides(&cfg)

	level, ok := ParseLevel(cfg.Level)
	if !ok {
		level = zerolog.InfoLevel
	}

	if out == nil {
		out = os.Stderr
	}
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    cfg.NoColor,
		}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("app", app).Logger()
}

func applyEnvOverrides(cfg *config.Logging) {
	if raw := strings.TrimSpace(os.Getenv(EnvLogLevel)); raw != "" {
		if _, ok := ParseLevel(raw); ok {
			cfg.Level = raw
		}
	}
	switch f := strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogFormat))); f {
	case "console", "json":
		cfg.Format = f
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

// ParseLevel maps a level name to a zerolog level. The second result is
// false for unknown names.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info", "":
		return zerolog.InfoLevel, raw != ""
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
