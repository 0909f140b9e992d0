// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Tier label values.
const (
	TierMemory     = "memory"
	TierPersistent = "persistent"
)

var (
	// Cache Store Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcache_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"tier"}, // "memory", "persistent"
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fleetcache_cache_misses_total",
			Help: "Total number of cache misses (absent or expired in both tiers)",
		},
	)

	CachePromotions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fleetcache_cache_promotions_total",
			Help: "Total number of persistent tier entries promoted into memory",
		},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcache_cache_evictions_total",
			Help: "Total number of expired entries removed",
		},
		[]string{"reason"}, // "lazy", "sweep"
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fleetcache_cache_memory_entries",
			Help: "Current number of entries in the memory tier",
		},
	)

	PersistentErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcache_persistent_errors_total",
			Help: "Total number of absorbed persistent tier failures",
		},
		[]string{"backend", "operation"}, // operation: "get", "set", "remove", "clear", "len", "decode"
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcache_cache_invalidations_total",
			Help: "Total number of cross-entity invalidations",
		},
		[]string{"source", "target"},
	)

	// Entity Context Metrics
	EntityFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcache_entity_fetches_total",
			Help: "Total number of entity reads by source and outcome",
		},
		[]string{"entity", "source", "result"}, // source: "cache", "network", "fallback"
	)

	EntityMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcache_entity_mutations_total",
			Help: "Total number of entity mutations",
		},
		[]string{"entity", "mutation", "result"},
	)

	EntityState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fleetcache_entity_state",
			Help: "Entity context state (0=uninitialized, 1=loading, 2=ready, 3=error)",
		},
		[]string{"entity"},
	)

	// Polling Reconciler Metrics
	PollTicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcache_poll_ticks_total",
			Help: "Total number of poll ticks by outcome",
		},
		[]string{"entity", "outcome"}, // "changed", "unchanged", "error", "stale"
	)

	// GraphQL Client Metrics
	GraphQLRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleetcache_graphql_request_duration_seconds",
			Help:    "Duration of GraphQL requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	GraphQLRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcache_graphql_requests_total",
			Help: "Total number of GraphQL requests",
		},
		[]string{"operation", "status"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fleetcache_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcache_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcache_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Admin API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fleetcache_api_requests_total",
			Help: "Total number of admin API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fleetcache_api_request_duration_seconds",
			Help:    "Admin API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RecordGraphQLRequest records one GraphQL round trip.
func RecordGraphQLRequest(operation string, statusCode int, duration time.Duration) {
	GraphQLRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	GraphQLRequests.WithLabelValues(operation, status).Inc()
}

// RecordAPIRequest records an admin API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordMutation records the outcome of an entity mutation.
func RecordMutation(entity, mutation string, err error) {
	EntityMutations.WithLabelValues(entity, mutation, result(err)).Inc()
}

// RecordFetch records an entity read.
func RecordFetch(entity, source string, err error) {
	EntityFetches.WithLabelValues(entity, source, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
