package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2024, cfg.Season)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)

	coeffs := cfg.Adjustments.Coefficients()
	assert.True(t, coeffs.IsValid())
	assert.InDelta(t, 0.15, coeffs.Protection, 1e-12)
	assert.InDelta(t, 0.10, coeffs.Shrinkage, 1e-12)
}

func TestLoadYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "talent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
season: 2023
output:
  dir: /tmp/reports
  formats: [json, xlsx]
adjustments:
  protection_coeff: 0.15
  pitcher_coeff: 0.001
  pitch_quality_coeff: 0.15
  shrinkage: 0.20
logging:
  level: debug
  format: text
server:
  port: 9090
  rate_limit_rps: 100
  rate_limit_burst: 50
inputs:
  pitch_events_glob: data/statcast_*.csv
  batting_stats: data/batting.csv
  pitching_stats: data/pitching.csv
  park_factors: data/parks.csv
  woba_constants: data/constants.csv
  protection_summary: data/protection.csv
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2023, cfg.Season)
	assert.Equal(t, "/tmp/reports", cfg.Output.Dir)
	assert.Equal(t, []string{"json", "xlsx"}, cfg.Output.Formats)
	assert.InDelta(t, 0.20, cfg.Adjustments.Shrinkage, 1e-12)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("TALENT_SEASON", "2022")
	t.Setenv("TALENT_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2022, cfg.Season)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"shrinkage above one", func(c *Config) { c.Adjustments.Shrinkage = 1.5 }},
		{"negative coefficient", func(c *Config) { c.Adjustments.ProtectionCoeff = -0.1 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"bad output format", func(c *Config) { c.Output.Formats = []string{"pdf"} }},
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"missing input path", func(c *Config) { c.Inputs.BattingStats = "" }},
		{"season out of range", func(c *Config) { c.Season = 1800 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger := LoggingConfig{Level: "debug", Format: "text"}.NewLogger()
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(nil, slog.LevelDebug))

	logger = LoggingConfig{Level: "error", Format: "json"}.NewLogger()
	assert.False(t, logger.Enabled(nil, slog.LevelInfo))
}
