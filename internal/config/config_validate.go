// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"json": true, "console": true,
}

var validStorageBackends = map[string]bool{
	"badger": true, "sqlite": true, "valkey": true, "none": true,
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateGraphQL(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validatePolling(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	return nil
}

func (c *Config) validateGraphQL() error {
	if c.GraphQL.Endpoint == "" {
		return fmt.Errorf("GRAPHQL_ENDPOINT is required")
	}
	u, err := url.Parse(c.GraphQL.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("GRAPHQL_ENDPOINT must be an http(s) URL, got %q", c.GraphQL.Endpoint)
	}
	if c.GraphQL.RequestsPerSecond < 0 {
		return fmt.Errorf("GRAPHQL_REQUESTS_PER_SECOND must not be negative")
	}
	if c.GraphQL.MaxRetries < 0 {
		return fmt.Errorf("GRAPHQL_MAX_RETRIES must not be negative")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.DefaultTTL <= 0 {
		return fmt.Errorf("CACHE_DEFAULT_TTL must be positive, got %s", c.Cache.DefaultTTL)
	}
	if c.Cache.Capacity < 1 {
		return fmt.Errorf("CACHE_CAPACITY must be at least 1, got %d", c.Cache.Capacity)
	}
	if c.Cache.PersistTimeout <= 0 {
		return fmt.Errorf("CACHE_PERSIST_TIMEOUT must be positive, got %s", c.Cache.PersistTimeout)
	}
	return nil
}

func (c *Config) validateStorage() error {
	backend := strings.ToLower(c.Storage.Backend)
	if !validStorageBackends[backend] {
		return fmt.Errorf("STORAGE_BACKEND must be one of: badger, sqlite, valkey, none")
	}
	switch backend {
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	case "valkey":
		if c.Storage.ValkeyAddress == "" {
			return fmt.Errorf("VALKEY_ADDRESS is required when STORAGE_BACKEND=valkey")
		}
	}
	return nil
}

func (c *Config) validatePolling() error {
	if c.Polling.Enabled && c.Polling.Interval < time.Second {
		return fmt.Errorf("POLLING_INTERVAL must be at least 1s, got %s", c.Polling.Interval)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitRequests < 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must not be negative")
	}
	if c.Security.RateLimitRequests > 0 && c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	if c.IsProduction() && c.Security.AdminToken == "" {
		return fmt.Errorf("ADMIN_TOKEN is required in production")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// IsProduction reports whether the server runs with ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}
