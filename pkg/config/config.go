/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ssargent/osrkit/pkg/compress"
	"gopkg.in/yaml.v3"
)

// Config represents the osrkit configuration
type Config struct {
	Logging Logging `yaml:"logging"`
	Codec   Codec   `yaml:"codec"`
	Archive Archive `yaml:"archive"`
	Server  Server  `yaml:"server"`
}

// Logging contains logging configuration
type Logging struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"` // console or json
	NoColor bool   `yaml:"no_color"`
}

// Codec selects the frame list compression engine
type Codec struct {
	Engine string `yaml:"engine"`
}

// Archive contains replay archive settings
type Archive struct {
	DataDir string `yaml:"data_dir"`
	// Engine used when re-encoding archived replays for export.
	ExportEngine string `yaml:"export_engine"`
}

// Server contains REST API settings
type Server struct {
	Port   int    `yaml:"port"`
	Bind   string `yaml:"bind"`
	APIKey string `yaml:"api_key"`
	// MaxUploadBytes bounds request bodies on upload endpoints.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
		Codec: Codec{
			Engine: compress.DefaultEngine,
		},
		Archive: Archive{
			DataDir:      "./data",
			ExportEngine: compress.DefaultEngine,
		},
		Server: Server{
			Port:           8080,
			Bind:           "127.0.0.1",
			APIKey:         "auto",
			MaxUploadBytes: 32 << 20,
		},
	}
}

// Validate checks values that would otherwise fail later at runtime
func (c *Config) Validate() error {
	if _, err := compress.Lookup(c.Codec.Engine); err != nil {
		return fmt.Errorf("codec.engine: %w", err)
	}
	if _, err := compress.Lookup(c.Archive.ExportEngine); err != nil {
		return fmt.Errorf("archive.export_engine: %w", err)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive")
	}
	return nil
}

// LoadConfig loads configuration from the specified path. Keys missing
// from the file keep their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0600: the file carries the API key
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig writes a default configuration with a generated API key
func BootstrapConfig(configPath string, dataDir string) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.Archive.DataDir = dataDir
	}

	apiKey, err := GenerateSecureKey(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	config.Server.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./osrkit.yaml"
	}

	// ~/.config/osrkit/config.yaml on Linux and macOS
	return filepath.Join(homeDir, ".config", "osrkit", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
