// Package config loads the pipeline configuration from defaults, an optional
// YAML file, and TALENT_-prefixed environment variables, in that order of
// increasing precedence, then validates the result.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"truetalent/internal/talent"
)

// Config is the complete application configuration.
type Config struct {
	Season      int               `yaml:"season" envconfig:"SEASON" validate:"required,gte=1900,lte=2100"`
	Inputs      InputsConfig      `yaml:"inputs" envconfig:"INPUTS"`
	Output      OutputConfig      `yaml:"output" envconfig:"OUTPUT"`
	Adjustments AdjustmentsConfig `yaml:"adjustments" envconfig:"ADJUSTMENTS"`
	Server      ServerConfig      `yaml:"server" envconfig:"SERVER"`
	Logging     LoggingConfig     `yaml:"logging" envconfig:"LOGGING"`
}

// InputsConfig locates the six source tables.
type InputsConfig struct {
	PitchEventsGlob   string `yaml:"pitch_events_glob" envconfig:"PITCH_EVENTS_GLOB" validate:"required"`
	BattingStats      string `yaml:"batting_stats" envconfig:"BATTING_STATS" validate:"required"`
	PitchingStats     string `yaml:"pitching_stats" envconfig:"PITCHING_STATS" validate:"required"`
	ParkFactors       string `yaml:"park_factors" envconfig:"PARK_FACTORS" validate:"required"`
	WOBAConstants     string `yaml:"woba_constants" envconfig:"WOBA_CONSTANTS" validate:"required"`
	ProtectionSummary string `yaml:"protection_summary" envconfig:"PROTECTION_SUMMARY" validate:"required"`
}

// OutputConfig controls where and in which formats the report is written.
type OutputConfig struct {
	Dir     string   `yaml:"dir" envconfig:"DIR" validate:"required"`
	Formats []string `yaml:"formats" envconfig:"FORMATS" validate:"required,dive,oneof=csv json xlsx summary"`
}

// AdjustmentsConfig carries the estimator coefficients. The defaults are the
// calibrated values; override them only for sensitivity runs.
type AdjustmentsConfig struct {
	ProtectionCoeff   float64 `yaml:"protection_coeff" envconfig:"PROTECTION_COEFF" validate:"gte=0,lte=1"`
	PitcherCoeff      float64 `yaml:"pitcher_coeff" envconfig:"PITCHER_COEFF" validate:"gte=0,lte=1"`
	PitchQualityCoeff float64 `yaml:"pitch_quality_coeff" envconfig:"PITCH_QUALITY_COEFF" validate:"gte=0,lte=1"`
	Shrinkage         float64 `yaml:"shrinkage" envconfig:"SHRINKAGE" validate:"gte=0,lte=1"`
}

// Coefficients converts the config values to the estimator's form.
func (a AdjustmentsConfig) Coefficients() talent.Coefficients {
	return talent.Coefficients{
		Protection:   a.ProtectionCoeff,
		Pitcher:      a.PitcherCoeff,
		PitchQuality: a.PitchQualityCoeff,
		Shrinkage:    a.Shrinkage,
	}
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" validate:"gte=0"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
}

// NewLogger builds a slog.Logger on stderr per the logging configuration.
func (l LoggingConfig) NewLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(l.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	coeffs := talent.DefaultCoefficients()
	return Config{
		Season: 2024,
		Inputs: InputsConfig{
			PitchEventsGlob:   "data/statcast_*.csv",
			BattingStats:      "data/batting_stats.csv",
			PitchingStats:     "data/pitching_stats.csv",
			ParkFactors:       "data/park_factors.csv",
			WOBAConstants:     "data/woba_constants.csv",
			ProtectionSummary: "data/protection_summary.csv",
		},
		Output: OutputConfig{
			Dir:     "reports",
			Formats: []string{"csv", "summary"},
		},
		Adjustments: AdjustmentsConfig{
			ProtectionCoeff:   coeffs.Protection,
			PitcherCoeff:      coeffs.Pitcher,
			PitchQualityCoeff: coeffs.PitchQuality,
			Shrinkage:         coeffs.Shrinkage,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    100,
			RateLimitBurst:  50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (skipped when path is empty and no default file exists), then
// environment overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat("truetalent.yaml"); err == nil {
			path = "truetalent.yaml"
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("TALENT", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration, including the estimator coefficients.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if !c.Adjustments.Coefficients().IsValid() {
		return fmt.Errorf("config validation failed: adjustment coefficients out of range")
	}
	return nil
}
