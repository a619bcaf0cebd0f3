package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvConfig holds environment overrides. Empty values leave defaults alone.
type EnvConfig struct {
	DBPath   string `env:"PIRECALL_DB"`
	LogLevel string `env:"PIRECALL_LOG_LEVEL"`
	LogFile  string `env:"PIRECALL_LOG_FILE"`
}

// LoadDotEnv exports variables from a dotenv file at path. Variables already
// set in the environment win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LoadEnv parses environment overrides.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to parse env: %w", err)
	}
	return cfg, nil
}

// DBPathOrDefault returns the override when set, else the default database path.
func (e EnvConfig) DBPathOrDefault() string {
	if e.DBPath != "" {
		return e.DBPath
	}
	return DefaultDBPath()
}

// LogFileOrDefault returns the override when set, else the default log path.
func (e EnvConfig) LogFileOrDefault() string {
	if e.LogFile != "" {
		return e.LogFile
	}
	return DefaultLogPath()
}
