// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

// Package config loads Fleetcache configuration with koanf.
//
// Precedence is environment > YAML file > defaults. The YAML file is taken
// from CONFIG_PATH or the first existing entry of DefaultConfigPaths.
//
// Example config.yaml:
//
//	graphql:
//	  endpoint: https://fleet.example.com/graphql
//	cache:
//	  default_ttl: 5m
//	  capacity: 100
//	storage:
//	  backend: sqlite
//	  sqlite_path: /var/lib/fleetcache/cache.db
//	polling:
//	  interval: 5m
//
// Only the environment variables listed in envMappings are read, for
// example GRAPHQL_ENDPOINT, AUTH_TOKEN, STORAGE_BACKEND and LOG_LEVEL.
package config
