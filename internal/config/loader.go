package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const rootKey = "arpdrop"

// FlagKeys maps command-line flag names to configuration keys.
// Flags listed here override file and environment values when set.
var FlagKeys = map[string]string{
	"log-level":    "log.level",
	"log-format":   "log.format",
	"interval":     "spoof.interval",
	"read-timeout": "link.read_timeout",
}

// configRoot is the top-level wrapper matching the YAML structure `arpdrop: ...`.
type configRoot struct {
	Arpdrop Config `mapstructure:"arpdrop"`
}

// Load builds the configuration from defaults, an optional file, the environment
// and flags, in increasing order of precedence. An empty path skips the file.
// Env vars use the ARPDROP_ prefix (e.g., ARPDROP_LOG_LEVEL).
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// key "arpdrop.log.level" → env "ARPDROP_LOG_LEVEL"
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		for name, key := range FlagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(rootKey+"."+key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Arpdrop

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets default values for configuration.
// All keys use the "arpdrop." prefix to match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("arpdrop.log.level", "info")
	v.SetDefault("arpdrop.log.format", "text")
	v.SetDefault("arpdrop.log.pattern", "%time [%level] %msg %field\n")
	v.SetDefault("arpdrop.log.time", "2006-01-02 15:04:05.000")
	v.SetDefault("arpdrop.log.file.enabled", false)
	v.SetDefault("arpdrop.log.file.path", "/var/log/arpdrop/arpdrop.log")
	v.SetDefault("arpdrop.log.file.rotation.max_size_mb", 10)
	v.SetDefault("arpdrop.log.file.rotation.max_age_days", 7)
	v.SetDefault("arpdrop.log.file.rotation.max_backups", 3)
	v.SetDefault("arpdrop.log.file.rotation.compress", true)

	// Link defaults
	v.SetDefault("arpdrop.link.read_timeout", "500ms")
	v.SetDefault("arpdrop.link.snap_len", 1514)
	v.SetDefault("arpdrop.link.buffer_size_kb", 512)

	// Spoof defaults
	v.SetDefault("arpdrop.spoof.interval", "2s")
	v.SetDefault("arpdrop.spoof.report_every", 10)
}
