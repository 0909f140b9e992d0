// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package cache

import (
	"context"
	"time"
)

// Remember is a read-through helper: it returns the value cached under key
// or calls fetch, caches its result with ttl and returns it.
//
// fetch errors are returned as-is and nothing is cached. A result that
// cannot be encoded is still returned; only the cache write is skipped.
//
//	stats, err := cache.Remember(ctx, store, key, time.Minute, func(ctx context.Context) (Stats, error) {
//	    return client.OrganizationStats(ctx, orgID)
//	})
func Remember[T any](ctx context.Context, s *Store, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var cached T
	if s.Load(ctx, key, &cached) {
		return cached, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := s.SetWithTTL(ctx, key, v, ttl); err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("Read-through result not cached")
	}
	return v, nil
}
