package config

import "github.com/spf13/viper"

// Default values. Registering them with viper also makes every key
// visible to AutomaticEnv.
const (
	DefaultCycleLength = 1.0
	DefaultMaxCascade  = 1000
	DefaultStorePath   = "prodnet.db"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
)

// SetDefaults registers default values for all configuration fields.
func SetDefaults(v *viper.Viper) {
	// Engine defaults
	v.SetDefault("engine.cycle_length", DefaultCycleLength)
	v.SetDefault("engine.cycle_scaling", false)
	v.SetDefault("engine.capacity_scaling", false)
	v.SetDefault("engine.max_cascade", DefaultMaxCascade)

	// Store defaults
	v.SetDefault("store.path", DefaultStorePath)

	// Logging defaults
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}
