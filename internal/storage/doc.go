// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

// Package storage provides the persistent tier backends for the cache Store.
//
// Three durable backends are available, selected by storage.backend in the
// configuration:
//
//   - badger: embedded BadgerDB key-value store (default)
//   - sqlite: a single cache_entries table in a pure-Go SQLite database
//   - valkey: a shared Valkey/Redis server, scoped by a key prefix
//
// A fourth value, "none", disables the persistent tier entirely.
//
// Every backend stores opaque string values under string keys. Encoding of
// entries, TTL handling and expiry are the Store's job; backends never
// interpret values.
//
// # Usage
//
//	backend, closer, err := storage.Open(ctx, cfg.Storage)
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
//
//	store := cache.NewStore(backend, cache.Config{DefaultTTL: 5 * time.Minute})
package storage
