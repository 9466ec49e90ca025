// Package config loads and persists StowPack configuration files. Config
// files are YAML; a missing file yields the defaults so a first run needs no
// setup.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/StowPack/internal/model"
	"gopkg.in/yaml.v3"
)

// Config is the complete on-disk configuration: the warehouse geometry and
// box population, the planner tuning, and the HTTP server settings.
type Config struct {
	Warehouse model.WarehouseConfig `yaml:"warehouse"`
	Tuning    model.Tuning          `yaml:"tuning"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	// Seed drives box generation and the retrieval-order shuffle. 0 means
	// derive one from the clock at run time.
	Seed int64 `yaml:"seed"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var cfg Config
	cfg.Warehouse = model.WarehouseConfig{
		StorageWidth:  800,
		StorageLength: 600,
		NumBoxes:      20,
		MinSide:       30,
		MaxSide:       90,
		Clearance:     10,
	}
	cfg.Tuning = model.DefaultTuning()
	cfg.Server.Addr = ":8080"
	return cfg
}

// DefaultDir returns the default directory for configuration files.
// On all platforms this is ~/.stowpack/
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".stowpack")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Load reads a Config from the given path. If the file does not exist, it
// returns Default with no error. The loaded config is validated.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the config to the given path as YAML, creating any missing
// parent directories.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the warehouse and tuning sections.
func (c Config) Validate() error {
	if err := c.Warehouse.Validate(); err != nil {
		return fmt.Errorf("warehouse: %w", err)
	}
	if err := c.Tuning.Validate(); err != nil {
		return fmt.Errorf("tuning: %w", err)
	}
	return nil
}
