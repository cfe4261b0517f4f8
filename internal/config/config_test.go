package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "areas.json", cfg.File)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.Equal(t, 128, cfg.StatsCapacity)
	assert.Equal(t, slog.LevelWarn, cfg.SlogLevel())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv(EnvFile, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Full(t *testing.T) {
	t.Setenv(EnvFile, "")

	cfg, err := Load("testdata/full.yaml")
	require.NoError(t, err)

	assert.Equal(t, Config{
		File:          "/var/lib/arealog/areas.json",
		CacheTTL:      5 * time.Second,
		StatsCapacity: 16,
		LogLevel:      "debug",
	}, cfg)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	t.Setenv(EnvFile, "")

	cfg, err := Load("testdata/partial.yaml")
	require.NoError(t, err)

	assert.Equal(t, "custom.json", cfg.File)
	assert.Equal(t, Default().CacheTTL, cfg.CacheTTL)
	assert.Equal(t, Default().StatsCapacity, cfg.StatsCapacity)
}

func TestLoad_EmptyFile(t *testing.T) {
	t.Setenv(EnvFile, "")
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv(EnvFile, "/tmp/from-env.json")

	cfg, err := Load("testdata/full.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.json", cfg.File)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(EnvFile, "")

	tests := []struct {
		name string
		path string
	}{
		{"missing file", "testdata/does-not-exist.yaml"},
		{"unknown field", "testdata/typo.yaml"},
		{"invalid value", "testdata/invalid.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()

	cfg.ApplyEnv(func(string) (string, bool) { return "   ", true })
	assert.Equal(t, "areas.json", cfg.File, "blank value is ignored")

	cfg.ApplyEnv(func(key string) (string, bool) {
		if key == EnvFile {
			return "otro.json", true
		}
		return "", false
	})
	assert.Equal(t, "otro.json", cfg.File)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty file", func(c *Config) { c.File = "" }},
		{"zero ttl", func(c *Config) { c.CacheTTL = 0 }},
		{"zero capacity", func(c *Config) { c.StatsCapacity = 0 }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("")
	assert.Error(t, err)
}
