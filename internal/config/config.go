// Package config loads arealog settings from an optional YAML file and the
// environment.
//
// Precedence, lowest first: defaults, config file, AREALOG_FILE, command
// line flags (applied by the CLI).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/arealog/internal/cache"
	"github.com/roach88/arealog/internal/stats"
	"github.com/roach88/arealog/internal/store"
)

// EnvFile overrides the log path.
const EnvFile = "AREALOG_FILE"

// Config holds all runtime settings.
type Config struct {
	// File is the path of the area log.
	File string `yaml:"file"`

	// CacheTTL bounds how long a snapshot is served without a reload.
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// StatsCapacity is the number of memoized statistics results.
	StatsCapacity int `yaml:"stats_capacity"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		File:          store.DefaultFile,
		CacheTTL:      cache.DefaultTTL,
		StatsCapacity: stats.DefaultCapacity,
		LogLevel:      "warn",
	}
}

// Load reads the YAML file at path over the defaults, then applies the
// environment. An empty path skips the file. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decode(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// ApplyEnv applies environment overrides using lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvFile); ok && strings.TrimSpace(v) != "" {
		c.File = v
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if strings.TrimSpace(c.File) == "" {
		return errors.New("file: must not be empty")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl: must be positive, got %s", c.CacheTTL)
	}
	if c.StatsCapacity <= 0 {
		return fmt.Errorf("stats_capacity: must be positive, got %d", c.StatsCapacity)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// SlogLevel returns the configured level. Invalid levels map to warn.
func (c Config) SlogLevel() slog.Level {
	level, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown level %q", name)
}
