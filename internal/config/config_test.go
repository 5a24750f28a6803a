package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"firestige.xyz/arpdrop/internal/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return configPath
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}

	if cfg.Log.Level != "info" {
		t.Errorf("Expected log level info, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Expected log format text, got %s", cfg.Log.Format)
	}
	if cfg.Log.File.Enabled {
		t.Error("Expected file output disabled by default")
	}
	if cfg.Spoof.Interval != 2*time.Second {
		t.Errorf("Expected spoof interval 2s, got %s", cfg.Spoof.Interval)
	}
	if cfg.Spoof.ReportEvery != 10 {
		t.Errorf("Expected report_every 10, got %d", cfg.Spoof.ReportEvery)
	}
	if cfg.Link.ReadTimeout != 500*time.Millisecond {
		t.Errorf("Expected read timeout 500ms, got %s", cfg.Link.ReadTimeout)
	}
	if cfg.Link.SnapLen != 1514 {
		t.Errorf("Expected snap_len 1514, got %d", cfg.Link.SnapLen)
	}
}

func TestLoadValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
arpdrop:
  log:
    level: "DEBUG"
    format: "json"
    file:
      enabled: true
      path: "/tmp/arpdrop.log"
      rotation:
        max_size_mb: 5
  link:
    read_timeout: "1s"
    buffer_size_kb: 1024
  spoof:
    interval: "500ms"
    report_every: 0
`)

	cfg, err := Load(configPath, nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level normalised to debug, got %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Expected log format json, got %s", cfg.Log.Format)
	}
	if !cfg.Log.File.Enabled || cfg.Log.File.Path != "/tmp/arpdrop.log" {
		t.Errorf("Unexpected file output %+v", cfg.Log.File)
	}
	if cfg.Log.File.Rotation.MaxSizeMB != 5 {
		t.Errorf("Expected max_size_mb 5, got %d", cfg.Log.File.Rotation.MaxSizeMB)
	}
	if cfg.Log.File.Rotation.MaxBackups != 3 {
		t.Errorf("Expected default max_backups 3, got %d", cfg.Log.File.Rotation.MaxBackups)
	}
	if cfg.Link.ReadTimeout != time.Second {
		t.Errorf("Expected read timeout 1s, got %s", cfg.Link.ReadTimeout)
	}
	if cfg.Link.BufferSizeKB != 1024 {
		t.Errorf("Expected buffer 1024KB, got %d", cfg.Link.BufferSizeKB)
	}
	if cfg.Spoof.Interval != 500*time.Millisecond {
		t.Errorf("Expected interval 500ms, got %s", cfg.Spoof.Interval)
	}
	if cfg.Spoof.ReportEvery != 0 {
		t.Errorf("Expected report_every 0, got %d", cfg.Spoof.ReportEvery)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"), nil)
	if err == nil {
		t.Error("Expected error for missing config file, got nil")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	tests := map[string]string{
		"log level": `
arpdrop:
  log:
    level: "loud"
`,
		"log format": `
arpdrop:
  log:
    format: "xml"
`,
		"file path": `
arpdrop:
  log:
    file:
      enabled: true
      path: ""
`,
		"interval": `
arpdrop:
  spoof:
    interval: "0s"
`,
		"report every": `
arpdrop:
  spoof:
    report_every: -1
`,
		"read timeout": `
arpdrop:
  link:
    read_timeout: "-1s"
`,
		"snap len": `
arpdrop:
  link:
    snap_len: 20
`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content), nil)
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			if !errors.Is(err, core.ErrConfigInvalid) {
				t.Errorf("Expected ErrConfigInvalid, got %v", err)
			}
		})
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ARPDROP_LOG_LEVEL", "warn")
	t.Setenv("ARPDROP_SPOOF_INTERVAL", "3s")

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Expected env log level warn, got %s", cfg.Log.Level)
	}
	if cfg.Spoof.Interval != 3*time.Second {
		t.Errorf("Expected env interval 3s, got %s", cfg.Spoof.Interval)
	}
}

func TestLoadFlagOverride(t *testing.T) {
	configPath := writeConfig(t, `
arpdrop:
  log:
    level: "debug"
  spoof:
    interval: "5s"
`)
	t.Setenv("ARPDROP_LOG_FORMAT", "json")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "", "")
	flags.String("log-format", "", "")
	flags.Duration("interval", 0, "")
	flags.Duration("read-timeout", 0, "")
	if err := flags.Parse([]string{"--interval", "250ms", "--log-format", "text"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	cfg, err := Load(configPath, flags)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Spoof.Interval != 250*time.Millisecond {
		t.Errorf("Expected flag interval 250ms, got %s", cfg.Spoof.Interval)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Expected flag to beat env, got format %s", cfg.Log.Format)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected unset flag to keep file value debug, got %s", cfg.Log.Level)
	}
	if cfg.Link.ReadTimeout != 500*time.Millisecond {
		t.Errorf("Expected unset flag to keep default read timeout, got %s", cfg.Link.ReadTimeout)
	}
}
