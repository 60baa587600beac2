// Package config loads livels configuration from an optional YAML file,
// merging it over built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// CacheConfig controls the persistent directory-stats cache.
type CacheConfig struct {
	// Enabled turns the cache on. Off by default: most listings are fast
	// enough without it.
	Enabled bool `yaml:"enabled"`

	// Path is the cache database location.
	Path string `yaml:"path"`

	// TTL is how long a cached aggregate stays valid.
	TTL time.Duration `yaml:"ttl"`
}

// Config represents livels configuration options.
type Config struct {
	// MaxTotalWidth is the widest a listing may grow before the column
	// count is reduced.
	MaxTotalWidth int `yaml:"max_total_width"`

	// MinColumnWidth is the floor below which a column is never shrunk.
	MinColumnWidth int `yaml:"min_column_width"`

	// Padding is the space appended to each column but the last.
	Padding int `yaml:"padding"`

	// MaxColumns caps the column count when only names are shown.
	MaxColumns int `yaml:"max_columns"`

	// RedrawInterval throttles live repaints while entries stream in.
	RedrawInterval time.Duration `yaml:"redraw_interval"`

	// Colour selects colour output: auto, always or never.
	Colour string `yaml:"colour"`

	// DebugLog, when set, is a file that receives per-run debug output.
	DebugLog string `yaml:"debug_log"`

	// Cache contains the directory-stats cache configuration.
	Cache CacheConfig `yaml:"cache"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		MaxTotalWidth:  100,
		MinColumnWidth: 16,
		Padding:        5,
		MaxColumns:     4,
		RedrawInterval: 100 * time.Millisecond,
		Colour:         "auto",
		DebugLog:       "",
		Cache: CacheConfig{
			Enabled: false,
			Path:    defaultCachePath(),
			TTL:     7 * 24 * time.Hour,
		},
	}
}

// DefaultPath returns the standard config file location,
// ~/.config/livels/config.yaml on Linux.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "livels", "config.yaml")
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "livels", "stats.db")
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Use a temporary struct so durations can be written as strings
	// ("250ms", "72h") in the file.
	type yamlCache struct {
		Enabled *bool  `yaml:"enabled"`
		Path    string `yaml:"path"`
		TTL     string `yaml:"ttl"`
	}
	type yamlConfig struct {
		MaxTotalWidth  *int      `yaml:"max_total_width"`
		MinColumnWidth *int      `yaml:"min_column_width"`
		Padding        *int      `yaml:"padding"`
		MaxColumns     *int      `yaml:"max_columns"`
		RedrawInterval string    `yaml:"redraw_interval"`
		Colour         string    `yaml:"colour"`
		DebugLog       string    `yaml:"debug_log"`
		Cache          yamlCache `yaml:"cache"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.MaxTotalWidth != nil {
		cfg.MaxTotalWidth = *yamlCfg.MaxTotalWidth
	}
	if yamlCfg.MinColumnWidth != nil {
		cfg.MinColumnWidth = *yamlCfg.MinColumnWidth
	}
	if yamlCfg.Padding != nil {
		cfg.Padding = *yamlCfg.Padding
	}
	if yamlCfg.MaxColumns != nil {
		cfg.MaxColumns = *yamlCfg.MaxColumns
	}
	if yamlCfg.RedrawInterval != "" {
		d, err := time.ParseDuration(yamlCfg.RedrawInterval)
		if err != nil {
			return nil, fmt.Errorf("invalid redraw_interval %q: %w", yamlCfg.RedrawInterval, err)
		}
		cfg.RedrawInterval = d
	}
	if yamlCfg.Colour != "" {
		cfg.Colour = yamlCfg.Colour
	}
	if yamlCfg.DebugLog != "" {
		cfg.DebugLog = yamlCfg.DebugLog
	}
	if yamlCfg.Cache.Enabled != nil {
		cfg.Cache.Enabled = *yamlCfg.Cache.Enabled
	}
	if yamlCfg.Cache.Path != "" {
		cfg.Cache.Path = yamlCfg.Cache.Path
	}
	if yamlCfg.Cache.TTL != "" {
		d, err := time.ParseDuration(yamlCfg.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("invalid cache ttl %q: %w", yamlCfg.Cache.TTL, err)
		}
		cfg.Cache.TTL = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Colour {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid colour setting %q: must be auto, always or never", c.Colour)
	}
	if c.MaxTotalWidth < 1 {
		return fmt.Errorf("max_total_width must be positive, got %d", c.MaxTotalWidth)
	}
	if c.MaxColumns < 1 {
		return fmt.Errorf("max_columns must be positive, got %d", c.MaxColumns)
	}
	if c.Padding < 0 {
		return fmt.Errorf("padding must not be negative, got %d", c.Padding)
	}
	if c.RedrawInterval < 0 {
		return fmt.Errorf("redraw_interval must not be negative, got %s", c.RedrawInterval)
	}
	return nil
}
