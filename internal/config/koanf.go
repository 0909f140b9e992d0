// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/fleetcache/config.yaml",
	"/etc/fleetcache/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8787,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		GraphQL: GraphQLConfig{
			Endpoint:          "http://localhost:4000/graphql",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 10,
			Burst:             20,
			MaxRetries:        3,
			CircuitBreaker:    true,
		},
		Auth: AuthConfig{
			ResolveInterval: 5 * time.Minute,
		},
		Cache: CacheConfig{
			DefaultTTL:     5 * time.Minute,
			Capacity:       100,
			PersistTimeout: 250 * time.Millisecond,
		},
		Storage: StorageConfig{
			Backend:      "badger",
			BadgerPath:   "/data/fleetcache/badger",
			SQLitePath:   "/data/fleetcache/cache.db",
			ValkeyPrefix: "fleetcache:",
		},
		Polling: PollingConfig{
			Enabled:  true,
			Interval: 5 * time.Minute,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"http://localhost:3000"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration in three layers, later layers winning:
//
//  1. Built-in defaults
//  2. Optional YAML config file (CONFIG_PATH or DefaultConfigPaths)
//  3. Environment variables listed in envMappings
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields splits comma-separated env values for slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"http_host":        "server.host",
	"http_port":        "server.port",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	"graphql_endpoint":            "graphql.endpoint",
	"graphql_timeout":             "graphql.timeout",
	"graphql_requests_per_second": "graphql.requests_per_second",
	"graphql_burst":               "graphql.burst",
	"graphql_max_retries":         "graphql.max_retries",
	"graphql_circuit_breaker":     "graphql.circuit_breaker",

	"auth_token":            "auth.token",
	"organization_id":       "auth.organization_id",
	"auth_resolve_interval": "auth.resolve_interval",

	"cache_default_ttl":     "cache.default_ttl",
	"cache_capacity":        "cache.capacity",
	"cache_persist_timeout": "cache.persist_timeout",

	"storage_backend":  "storage.backend",
	"badger_path":      "storage.badger_path",
	"badger_in_memory": "storage.in_memory",
	"sqlite_path":      "storage.sqlite_path",
	"valkey_address":   "storage.valkey_address",
	"valkey_password":  "storage.valkey_password",
	"valkey_db":        "storage.valkey_db",
	"valkey_prefix":    "storage.valkey_prefix",

	"polling_enabled":  "polling.enabled",
	"polling_interval": "polling.interval",

	"admin_token":         "security.admin_token",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped variables return "" and are skipped.
//
//   - GRAPHQL_ENDPOINT -> graphql.endpoint
//   - CACHE_DEFAULT_TTL -> cache.default_ttl
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
