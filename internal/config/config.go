// Package config loads prodnet settings from a YAML file, PRODNET_
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/prodnet/internal/engine"
)

// Config is the main configuration struct combining all sub-configs.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// EngineConfig holds network defaults applied when a plan omits them.
type EngineConfig struct {
	CycleLength     float64 `mapstructure:"cycle_length" validate:"gt=0"`
	CycleScaling    bool    `mapstructure:"cycle_scaling"`
	CapacityScaling bool    `mapstructure:"capacity_scaling"`

	// Nested effect flushes allowed before a cascade is aborted.
	MaxCascade int `mapstructure:"max_cascade" validate:"min=1"`
}

// StoreConfig holds report log settings.
type StoreConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Log format: json, text
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// EnvPrefix is prepended to every environment override, e.g.
// PRODNET_LOGGING_LEVEL=debug.
const EnvPrefix = "PRODNET"

// Load reads configuration with priority:
// 1. Environment variables (highest priority)
// 2. Config file (prodnet.yaml in the working directory, or configPath)
// 3. Defaults (lowest priority)
func Load(configPath string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("prodnet")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Missing file is fine; env vars and defaults still apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// Defaults are plain scalars; Unmarshal cannot fail on them.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// NetworkOptions converts the engine section into network options.
func (c EngineConfig) NetworkOptions() []engine.NetworkOption {
	return []engine.NetworkOption{
		engine.WithCycleLength(c.CycleLength),
		engine.WithCycleScaling(c.CycleScaling),
		engine.WithCapacityScaling(c.CapacityScaling),
		engine.WithMaxCascade(c.MaxCascade),
	}
}
