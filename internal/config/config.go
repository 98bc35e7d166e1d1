// Package config loads the engine's TOML configuration.
//
// The configuration file lives in ~/.magnificence/config.toml. A missing
// file yields the defaults; a malformed file is an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the host-side settings of the engine.
type Config struct {
	Engine  EngineConfig  `toml:"engine"`
	Storage StorageConfig `toml:"storage"`
}

// EngineConfig selects the playing strategy and the default search bounds
// used when the host gives none.
type EngineConfig struct {
	// Name of the strategy: "magnificence" or "random".
	Name string `toml:"name"`
	// DefaultDepth bounds fixed-depth searches started without limits.
	DefaultDepth int `toml:"default_depth"`
	// DefaultMoveTimeMs bounds timed searches started without a clock.
	DefaultMoveTimeMs int `toml:"default_move_time_ms"`
	// LogSearchInfo prints an info line for each completed search iteration.
	LogSearchInfo bool `toml:"log_search_info"`
}

// StorageConfig controls the preferences/statistics store.
type StorageConfig struct {
	// Dir is the badger database directory. Empty selects
	// ~/.magnificence/store; "off" disables persistence.
	Dir string `toml:"dir"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Engine: EngineConfig{
			Name:              "magnificence",
			DefaultDepth:      7,
			DefaultMoveTimeMs: 5000,
			LogSearchInfo:     true,
		},
	}
}

// ConfigDir returns the per-user configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".magnificence"), nil
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration at path, filling unset fields from the
// defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return cfg, err
		}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Engine.Name == "" {
		cfg.Engine.Name = Default().Engine.Name
	}
	return cfg, nil
}

// Save writes the configuration to path, creating the directory as needed.
func Save(path string, cfg Config) error {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
