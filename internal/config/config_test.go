package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Game.Mode != nil || cfg.Storage.Backend != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[game]
mode = "practice"
timed-seconds = 30
bell = false

[storage]
backend = "yaml"

[log]
level = "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Game.Mode == nil || *cfg.Game.Mode != "practice" {
		t.Fatalf("unexpected mode: %v", cfg.Game.Mode)
	}
	if cfg.Game.TimedSeconds == nil || *cfg.Game.TimedSeconds != 30 {
		t.Fatalf("unexpected timed seconds: %v", cfg.Game.TimedSeconds)
	}
	if cfg.Game.Bell == nil || *cfg.Game.Bell {
		t.Fatalf("unexpected bell: %v", cfg.Game.Bell)
	}
	if cfg.Storage.Backend == nil || *cfg.Storage.Backend != "yaml" {
		t.Fatalf("unexpected backend: %v", cfg.Storage.Backend)
	}
	if cfg.Storage.YAMLPath != nil {
		t.Fatalf("expected unset yaml path")
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" {
		t.Fatalf("unexpected log level: %v", cfg.Log.Level)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[game\nmode ="), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PIRECALL_DB", "/tmp/custom.db")
	t.Setenv("PIRECALL_LOG_LEVEL", "warn")
	t.Setenv("PIRECALL_LOG_FILE", "")
	cfg, err := LoadEnv()
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if cfg.DBPathOrDefault() != "/tmp/custom.db" {
		t.Fatalf("unexpected db path: %s", cfg.DBPathOrDefault())
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel)
	}
	t.Setenv("XDG_DATA_HOME", "/data")
	if cfg.LogFileOrDefault() != filepath.Join("/data", "pirecall", "pirecall.log") {
		t.Fatalf("unexpected log path: %s", cfg.LogFileOrDefault())
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pirecall.env")
	content := "PIRECALL_DB=/var/lib/pirecall.db\nPIRECALL_LOG_LEVEL=debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("PIRECALL_DB", "")
	if err := os.Unsetenv("PIRECALL_DB"); err != nil {
		t.Fatalf("unset: %v", err)
	}
	t.Setenv("PIRECALL_LOG_LEVEL", "warn")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	cfg, err := LoadEnv()
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if cfg.DBPath != "/var/lib/pirecall.db" {
		t.Fatalf("expected db path from file, got %q", cfg.DBPath)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected environment to win, got %q", cfg.LogLevel)
	}
	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}
}
