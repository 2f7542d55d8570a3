package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *AppConfig) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if cfg.API.HealthPath == "" {
		cfg.API.HealthPath = "/health"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 10 * time.Second
	}
	if cfg.API.MaxRetries == 0 {
		cfg.API.MaxRetries = 3
	}
	if cfg.API.BackoffBase == 0 {
		cfg.API.BackoffBase = 200 * time.Millisecond
	}
	if cfg.API.BackoffJitter == 0 {
		cfg.API.BackoffJitter = 200 * time.Millisecond
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "memory"
	}
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = "reminders:snapshot"
	}
	if cfg.Sync.RefreshInterval == 0 {
		cfg.Sync.RefreshInterval = 30 * time.Second
	}
	if cfg.Sync.TTL == 0 {
		cfg.Sync.TTL = 5 * time.Minute
	}
}
