// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

/*
Package fleet instantiates the six entity collections of the dashboard
(missions, drones, sites, users, settings and analytics) over one shared
cache.Store and one GraphQL client.

Cross-invalidation:

	missions mutation -> delete drones:{org}
	drones mutation   -> delete missions:{org}
	sites, users, settings, analytics -> none

Invalidation removes the dependent cache entry only; the dependent
collection refreshes on its next read or poll tick.

Mutation inputs are validated before any network call. Settings and
analytics also have local mutations that write the cache without a
network call.
*/
package fleet
