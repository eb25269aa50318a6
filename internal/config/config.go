// Package config loads engine configuration from the environment
// (optionally seeded by a .env file) with a YAML file for overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the engine's tunables.
type Config struct {
	RemoteBaseURL  string        `yaml:"remote_base_url"`
	DatabasePath   string        `yaml:"database_path"`
	SyncInterval   time.Duration `yaml:"sync_interval"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	PeriodDays     int           `yaml:"period_days"`
	LogLevel       string        `yaml:"log_level"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		RemoteBaseURL:  "https://api.miniramadan.app",
		DatabasePath:   "miniramadan.db",
		SyncInterval:   5 * time.Minute,
		RequestTimeout: 10 * time.Second,
		PeriodDays:     30,
		LogLevel:       "info",
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (if non-empty), then environment variables. A missing .env file is
// not an error.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if v := os.Getenv("RAMADAN_REMOTE_URL"); v != "" {
		cfg.RemoteBaseURL = v
	}
	if v := os.Getenv("RAMADAN_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("RAMADAN_SYNC_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse RAMADAN_SYNC_INTERVAL: %w", err)
		}
		cfg.SyncInterval = d
	}
	if v := os.Getenv("RAMADAN_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse RAMADAN_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("RAMADAN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}
