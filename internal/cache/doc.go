// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

/*
Package cache provides the two-tier TTL Cache Store shared by every entity
context, plus the key and fingerprint helpers built around it.

# Overview

A Store keeps two tiers over one keyspace:
  - a memory tier, authoritative while the process runs
  - a persistent tier (Backend), best effort, surviving restarts

Reads consult memory first and fall back to the persistent tier, promoting
live entries back into memory. Writes go to both tiers. Persistent tier
failures (I/O errors, timeouts, corrupt entries) are logged and counted but
always degrade to a miss.

# Expiry

An entry is live while now - StoredAt < TTL. Expired entries are removed
lazily when read. When a Set pushes the memory tier past Capacity (default
100) every expired entry is swept. Live entries are never evicted, so the
memory tier is not strictly bounded by Capacity.

# Usage Example

	store := cache.NewStore(backend, cache.Config{DefaultTTL: 5 * time.Minute})

	key := cache.EntityKey("missions", orgID)
	if err := store.Set(ctx, key, missions); err != nil {
	    return err // value not JSON encodable
	}

	var cached []models.Mission
	if store.Load(ctx, key, &cached) {
	    // live in one of the tiers
	}

	store.Delete(ctx, cache.EntityKey("drones", orgID)) // invalidation

# Cache Key Conventions

	missions:<organizationId>    entity collections (EntityKey)
	drones:<organizationId>
	settings:<organizationId>
	gql:<hash>:<hash>            generic query results (GenerateQueryKey)

KeyType extracts the namespace used by the admin surface to group keys.

# Thread Safety

All Store methods are safe for concurrent use. Backend calls are made
outside the memory lock and bounded by Config.PersistTimeout, so a slow
backend never blocks memory tier readers.
*/
package cache
