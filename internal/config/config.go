package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Defaults applied when the config file is absent or a field is unset.
const (
	DefaultReasonID       = "ADJUST"
	DefaultTimeoutSeconds = 30
)

// Config represents the flat jbatch configuration
type Config struct {
	Endpoint       string `json:"endpoint"`                  // JobBOSS bridge base URL
	ReasonID       string `json:"reason_id,omitempty"`       // default adjustment reason code
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"` // per round-trip bound
}

// LoadConfig reads .jbatch/config.json from the specified directory.
// A missing file is not an error: generation and dry runs work without any
// configuration, and the endpoint can still come from --endpoint.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".jbatch", "config.json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaults(&Config{}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return defaults(&cfg), nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	jbatchDir := filepath.Join(dir, ".jbatch")
	if err := os.MkdirAll(jbatchDir, 0755); err != nil {
		return fmt.Errorf("failed to create .jbatch dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(jbatchDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Timeout returns the per-round-trip bound as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func defaults(cfg *Config) *Config {
	if cfg.ReasonID == "" {
		cfg.ReasonID = DefaultReasonID
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = DefaultTimeoutSeconds
	}
	return cfg
}
