package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. NESTCTL_ENGINE_WORKERS.
const EnvPrefix = "NESTCTL"

// Viper keys.
const (
	KeyOffsetWidth       = "engine.offset_width"
	KeyParallelThreshold = "engine.parallel_threshold"
	KeyWorkers           = "engine.workers"
	KeyLogLevel          = "logging.level"
	KeyLogEncoding       = "logging.encoding"
	KeyLogDevelopment    = "logging.development"
	KeyMetricsEnabled    = "metrics.enabled"
	KeyMetricsNamespace  = "metrics.namespace"
)

// NewViper returns a viper instance reading NESTCTL_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// FromViper overlays every key set in v (by flag, env or config) onto base
// and validates the result.
func FromViper(v *viper.Viper, base *Config) (*Config, error) {
	cfg := *base
	if v.IsSet(KeyOffsetWidth) {
		cfg.Engine.OffsetWidth = v.GetString(KeyOffsetWidth)
	}
	if v.IsSet(KeyParallelThreshold) {
		cfg.Engine.ParallelThreshold = v.GetInt(KeyParallelThreshold)
	}
	if v.IsSet(KeyWorkers) {
		cfg.Engine.Workers = v.GetInt(KeyWorkers)
	}
	if v.IsSet(KeyLogLevel) {
		cfg.Logging.Level = v.GetString(KeyLogLevel)
	}
	if v.IsSet(KeyLogEncoding) {
		cfg.Logging.Encoding = v.GetString(KeyLogEncoding)
	}
	if v.IsSet(KeyLogDevelopment) {
		cfg.Logging.Development = v.GetBool(KeyLogDevelopment)
	}
	if v.IsSet(KeyMetricsEnabled) {
		cfg.Metrics.Enabled = v.GetBool(KeyMetricsEnabled)
	}
	if v.IsSet(KeyMetricsNamespace) {
		cfg.Metrics.Namespace = v.GetString(KeyMetricsNamespace)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
