package config

import (
	"github.com/ajitpratap0/nebula-nested/pkg/errors"
)

// Config is the top-level configuration.
type Config struct {
	// Engine settings control how arrays are laid out and built
	Engine EngineConfig `yaml:"engine" json:"engine"`
	// Logging configures the global logger
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	// Metrics configures build metrics
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// EngineConfig contains build settings.
type EngineConfig struct {
	// OffsetWidth is "auto", "32" or "64"
	OffsetWidth string `yaml:"offset_width" json:"offset_width"`
	// ParallelThreshold is the row count from which estimation runs in parallel
	ParallelThreshold int `yaml:"parallel_threshold" json:"parallel_threshold"`
	// Workers caps the goroutines used for parallel estimation (0 = GOMAXPROCS)
	Workers int `yaml:"workers" json:"workers"`
}

// LoggingConfig contains logger settings.
type LoggingConfig struct {
	// Level is a zap level name
	Level string `yaml:"level" json:"level"`
	// Encoding is json or console
	Encoding string `yaml:"encoding" json:"encoding"`
	// Development enables colored levels and stack traces on errors
	Development bool `yaml:"development" json:"development"`
}

// MetricsConfig contains metrics settings.
type MetricsConfig struct {
	// Enabled turns build metrics on
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Namespace prefixes every metric name
	Namespace string `yaml:"namespace" json:"namespace"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			OffsetWidth:       "auto",
			ParallelThreshold: 1 << 16,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "json",
		},
		Metrics: MetricsConfig{
			Enabled:   false,
			Namespace: "nebula",
		},
	}
}

// Validate validates the configuration for correctness.
func (c *Config) Validate() error {
	switch c.Engine.OffsetWidth {
	case "", "auto", "32", "64":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "offset_width must be auto, 32 or 64, got %q", c.Engine.OffsetWidth)
	}
	if c.Engine.ParallelThreshold < 0 {
		return errors.New(errors.ErrorTypeConfig, "parallel_threshold cannot be negative")
	}
	if c.Engine.Workers < 0 {
		return errors.New(errors.ErrorTypeConfig, "workers cannot be negative")
	}
	switch c.Logging.Encoding {
	case "", "json", "console":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "logging encoding must be json or console, got %q", c.Logging.Encoding)
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return errors.New(errors.ErrorTypeConfig, "metrics namespace is required when metrics are enabled")
	}
	return nil
}
