// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	GraphQL  GraphQLConfig  `koanf:"graphql"`
	Auth     AuthConfig     `koanf:"auth"`
	Cache    CacheConfig    `koanf:"cache"`
	Storage  StorageConfig  `koanf:"storage"`
	Polling  PollingConfig  `koanf:"polling"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds the admin HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GraphQLConfig holds the fleet API client settings.
type GraphQLConfig struct {
	Endpoint          string        `koanf:"endpoint"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	MaxRetries        int           `koanf:"max_retries"`
	CircuitBreaker    bool          `koanf:"circuit_breaker"`
}

// AuthConfig controls how the organization id is resolved.
//
// When OrganizationID is set the session never queries the API for it; this
// is meant for headless deployments pinned to one organization.
type AuthConfig struct {
	Token           string        `koanf:"token"`
	OrganizationID  string        `koanf:"organization_id"`
	ResolveInterval time.Duration `koanf:"resolve_interval"`
}

// CacheConfig holds the Cache Store settings.
type CacheConfig struct {
	DefaultTTL     time.Duration `koanf:"default_ttl"`
	Capacity       int           `koanf:"capacity"`
	PersistTimeout time.Duration `koanf:"persist_timeout"`
}

// StorageConfig selects and configures the persistent cache tier.
type StorageConfig struct {
	// Backend is one of badger, sqlite, valkey, none.
	Backend string `koanf:"backend"`

	// BadgerPath is the badger directory. Empty with InMemory=false falls
	// back to an in-memory badger instance.
	BadgerPath string `koanf:"badger_path"`
	InMemory   bool   `koanf:"in_memory"`

	SQLitePath string `koanf:"sqlite_path"`

	ValkeyAddress  string `koanf:"valkey_address"`
	ValkeyPassword string `koanf:"valkey_password"`
	ValkeyDB       int    `koanf:"valkey_db"`
	ValkeyPrefix   string `koanf:"valkey_prefix"`
}

// PollingConfig controls the background reconcilers.
type PollingConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
}

// SecurityConfig holds admin API protection settings.
type SecurityConfig struct {
	AdminToken        string        `koanf:"admin_token"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load loads configuration from defaults, an optional YAML file and the
// environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
