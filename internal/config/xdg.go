// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appDir = "pirecall"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appDir, "pirecall.db")
}

// DefaultYAMLScoresPath returns the default path for the YAML score file.
func DefaultYAMLScoresPath() string {
	return filepath.Join(XDGDataHome(), appDir, "scores.yaml")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(XDGDataHome(), appDir, "pirecall.log")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "config.toml")
}

// DefaultDotEnvPath returns the optional dotenv file holding PIRECALL_* overrides.
func DefaultDotEnvPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "pirecall.env")
}
