package config

import (
	"time"

	redisclient "github.com/vietddude/remindd/internal/infra/redis"
	"github.com/vietddude/remindd/internal/infra/storage/postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server      ServerConfig      `yaml:"server"`
	API         APIConfig         `yaml:"api"`
	Storage     StorageConfig     `yaml:"storage"`
	Sync        SyncConfig        `yaml:"sync"`
	Credentials CredentialsConfig `yaml:"credentials"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ServerConfig holds health/metrics HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// APIConfig holds backend API settings for the request executor.
type APIConfig struct {
	// OverrideURL wins over any discovered or default address.
	OverrideURL string `yaml:"override_url"`
	// DevHost is a discovered development-host address ("host" or "host:port").
	DevHost string `yaml:"dev_host"`
	// Platform selects the fallback default address (e.g. "android").
	Platform string `yaml:"platform"`

	HealthPath string        `yaml:"health_path"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`

	BackoffBase   time.Duration `yaml:"backoff_base"`
	BackoffJitter time.Duration `yaml:"backoff_jitter"`
}

// StorageConfig selects and configures the durable key-value backing store.
type StorageConfig struct {
	// Backend is one of "redis", "postgres", "memory".
	Backend string `yaml:"backend"`
	// Key is the fixed key the reminder snapshot is stored under.
	Key string `yaml:"key"`

	Redis    redisclient.Config `yaml:"redis"`
	Postgres postgres.Config    `yaml:"postgres"`
}

// SyncConfig holds the refresh loop settings.
type SyncConfig struct {
	// RefreshInterval is how often the agent checks resource freshness.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	// TTL is how long a fetched resource counts as fresh.
	TTL time.Duration `yaml:"ttl"`
}

// CredentialsConfig holds secure credential store settings.
type CredentialsConfig struct {
	// Path is the credential file location; empty selects in-memory.
	Path string `yaml:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}
