// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package graphql

import (
	"context"
	"time"

	"github.com/tomtom215/fleetcache/internal/cache"
)

// CachedQuery runs op through store. The key is derived from the query text
// and vars, so two calls with equal variables share one entry. A ttl of 0
// uses the store default.
func CachedQuery[T any](ctx context.Context, d Doer, store *cache.Store, op Operation, vars map[string]any, ttl time.Duration) (T, error) {
	if ttl <= 0 {
		ttl = store.DefaultTTL()
	}
	key := cache.GenerateQueryKey(op.Query, vars)
	return cache.Remember(ctx, store, key, ttl, func(ctx context.Context) (T, error) {
		var out T
		err := d.Do(ctx, op, vars, &out)
		return out, err
	})
}
