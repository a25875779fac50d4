package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/seleniumqt/workbench/internal/shared/paths"
)

// Config holds all application configuration.
type Config struct {
	Data    DataConfig
	Model   ModelConfig
	Session SessionConfig
	Logging LogConfig
}

// DataConfig locates durable state on disk.
type DataConfig struct {
	Root string `envconfig:"WORKBENCH_DATA_DIR" default:""`
}

// ModelConfig holds model loading configuration.
type ModelConfig struct {
	Dir        string `envconfig:"MODEL_DIR" default:""`
	OffloadDir string `envconfig:"MODEL_OFFLOAD_DIR" default:""`
	Thresholds string `envconfig:"MODEL_THRESHOLDS" default:"standard"`
}

// SessionConfig holds session persistence configuration.
type SessionConfig struct {
	// HistoryLimit caps the browsing history after each save. Zero keeps
	// the original unbounded-growth behavior.
	HistoryLimit int `envconfig:"SESSION_HISTORY_LIMIT" default:"0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	cfg := &Config{
		Model: ModelConfig{
			Thresholds: "standard",
		},
		Session: SessionConfig{
			HistoryLimit: 0,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: true,
		},
	}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills path fields that depend on the user's home directory,
// which envconfig tags cannot express.
func (c *Config) applyDefaults() {
	if c.Data.Root == "" {
		c.Data.Root = paths.DefaultDataRoot()
	}
	if c.Model.Dir == "" {
		c.Model.Dir = paths.DefaultModelDir()
	}
	if c.Model.OffloadDir == "" {
		c.Model.OffloadDir = paths.DefaultOffloadDir()
	}
}
