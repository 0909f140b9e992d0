// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

// Package metrics defines the Prometheus instrumentation for Fleetcache.
//
// All collectors are registered on the default registry through promauto
// and exposed by the admin API at /metrics.
//
// Cache Store:
//   - fleetcache_cache_hits_total{tier}
//   - fleetcache_cache_misses_total
//   - fleetcache_cache_promotions_total
//   - fleetcache_cache_evictions_total{reason}
//   - fleetcache_cache_memory_entries
//   - fleetcache_persistent_errors_total{backend,operation}
//   - fleetcache_cache_invalidations_total{source,target}
//
// Entity contexts and polling:
//   - fleetcache_entity_fetches_total{entity,source,result}
//   - fleetcache_entity_mutations_total{entity,mutation,result}
//   - fleetcache_entity_state{entity}
//   - fleetcache_poll_ticks_total{entity,outcome}
//
// GraphQL client:
//   - fleetcache_graphql_request_duration_seconds{operation}
//   - fleetcache_graphql_requests_total{operation,status}
//   - fleetcache_circuit_breaker_*{name}
package metrics
