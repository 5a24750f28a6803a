// Package config handles configuration loading using viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"firestige.xyz/arpdrop/internal/core"
)

// Config is the top-level configuration.
// Maps to the `arpdrop:` root key in YAML.
type Config struct {
	Log   LogConfig   `mapstructure:"log" yaml:"log"`
	Link  LinkConfig  `mapstructure:"link" yaml:"link"`
	Spoof SpoofConfig `mapstructure:"spoof" yaml:"spoof"`
}

// ─── Log ───

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string           `mapstructure:"level" yaml:"level"`     // trace / debug / info / warn / error
	Format  string           `mapstructure:"format" yaml:"format"`   // text / json
	Pattern string           `mapstructure:"pattern" yaml:"pattern"` // text format only
	Time    string           `mapstructure:"time" yaml:"time"`       // Go time layout
	File    FileOutputConfig `mapstructure:"file" yaml:"file"`
}

// FileOutputConfig configures file log output.
type FileOutputConfig struct {
	Enabled  bool           `mapstructure:"enabled" yaml:"enabled"`
	Path     string         `mapstructure:"path" yaml:"path"`
	Rotation RotationConfig `mapstructure:"rotation" yaml:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxAgeDays int  `mapstructure:"max_age_days" yaml:"max_age_days"`
	MaxBackups int  `mapstructure:"max_backups" yaml:"max_backups"`
	Compress   bool `mapstructure:"compress" yaml:"compress"`
}

// ─── Link ───

// LinkConfig configures the raw datalink channel.
type LinkConfig struct {
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	SnapLen      int           `mapstructure:"snap_len" yaml:"snap_len"`
	BufferSizeKB int           `mapstructure:"buffer_size_kb" yaml:"buffer_size_kb"`
}

// ─── Spoof ───

// SpoofConfig configures the forged reply loop.
type SpoofConfig struct {
	Interval    time.Duration `mapstructure:"interval" yaml:"interval"`
	ReportEvery int           `mapstructure:"report_every" yaml:"report_every"` // 0 = never
}

// Validate checks the configuration and normalises case-insensitive fields.
func (cfg *Config) Validate() error {
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("%w: log level %q (must be trace/debug/info/warn/error)", core.ErrConfigInvalid, cfg.Log.Level)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return fmt.Errorf("%w: log format %q (must be json/text)", core.ErrConfigInvalid, cfg.Log.Format)
	}
	if cfg.Log.File.Enabled && cfg.Log.File.Path == "" {
		return fmt.Errorf("%w: log.file.path is required when log.file.enabled=true", core.ErrConfigInvalid)
	}

	if cfg.Link.ReadTimeout <= 0 {
		return fmt.Errorf("%w: link.read_timeout must be positive, got %s", core.ErrConfigInvalid, cfg.Link.ReadTimeout)
	}
	if cfg.Link.SnapLen < 42 {
		return fmt.Errorf("%w: link.snap_len must hold an ARP frame (>= 42), got %d", core.ErrConfigInvalid, cfg.Link.SnapLen)
	}
	if cfg.Link.BufferSizeKB <= 0 {
		return fmt.Errorf("%w: link.buffer_size_kb must be positive, got %d", core.ErrConfigInvalid, cfg.Link.BufferSizeKB)
	}

	if cfg.Spoof.Interval <= 0 {
		return fmt.Errorf("%w: spoof.interval must be positive, got %s", core.ErrConfigInvalid, cfg.Spoof.Interval)
	}
	if cfg.Spoof.ReportEvery < 0 {
		return fmt.Errorf("%w: spoof.report_every must not be negative, got %d", core.ErrConfigInvalid, cfg.Spoof.ReportEvery)
	}
	return nil
}
