// Package config loads the optional policy configuration for a
// casement event loop: blocking-queue sizing, coordinate space,
// exit policy and diagnostics logging. Programmatic options set by the
// embedding application always win over file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CoordinateSpace selects how positions and sizes are reported.
type CoordinateSpace string

const (
	CoordinatesLogical  CoordinateSpace = "logical"
	CoordinatesPhysical CoordinateSpace = "physical"
)

// Loop holds event-loop policy settings.
type Loop struct {
	// ExitOnLastWindowClose requests loop exit once the last live
	// window is destroyed. Off by default; applications without
	// windows (tray tools, test rigs) keep running.
	ExitOnLastWindowClose bool `yaml:"exit_on_last_window_close"`
	// QueueCapacity bounds the backend raw-event buffer.
	QueueCapacity int `yaml:"queue_capacity"`
}

// Diagnostics holds settings for the rotating diagnostics log.
type Diagnostics struct {
	Enabled   bool   `yaml:"enabled"`
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

// Config is the merged policy configuration.
type Config struct {
	Loop        Loop            `yaml:"loop"`
	Coordinates CoordinateSpace `yaml:"coordinates"`
	Diagnostics Diagnostics     `yaml:"diagnostics"`
}

const (
	defaultQueueCapacity = 1024
	configDirName        = "casement"
	configFileName       = "config.yaml"
	configEnvVar         = "CASEMENT_CONFIG"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Loop: Loop{
			ExitOnLastWindowClose: false,
			QueueCapacity:         defaultQueueCapacity,
		},
		Coordinates: CoordinatesLogical,
		Diagnostics: Diagnostics{
			Enabled:   false,
			Level:     "warn",
			MaxSizeMB: 5,
			MaxFiles:  3,
		},
	}
}

// DefaultConfigPath returns the standard config location, honoring the
// CASEMENT_CONFIG override.
func DefaultConfigPath() (string, error) {
	if path := os.Getenv(configEnvVar); path != "" {
		return path, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(configDir, configDirName, configFileName), nil
}

// Load reads the configuration from the standard location. A missing
// file is not an error; the defaults apply.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads and validates the configuration at path, layered
// over the defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Loop.QueueCapacity <= 0 {
		c.Loop.QueueCapacity = defaultQueueCapacity
	}
	switch strings.ToLower(string(c.Coordinates)) {
	case string(CoordinatesLogical), string(CoordinatesPhysical):
		c.Coordinates = CoordinateSpace(strings.ToLower(string(c.Coordinates)))
	case "":
		c.Coordinates = CoordinatesLogical
	default:
		return fmt.Errorf("unknown coordinate space %q", c.Coordinates)
	}
	if c.Diagnostics.Enabled && c.Diagnostics.File == "" {
		return fmt.Errorf("diagnostics enabled but no file configured")
	}
	return nil
}
