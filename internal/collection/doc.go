// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

/*
Package collection implements the cached remote collection: one remote
dataset per organization, read through the shared cache.Store, written
through on every mutation and reconciled by a background poller.

A Collection is generic over its value type and is configured with a fetch
function, an optional fallback and the entity names its mutations
invalidate. The fleet package instantiates it once per entity.

# State Machine

	Uninitialized --Load--> Loading --Succeeded--> Ready
	                        Loading --Failed-----> Error
	Ready --Load--> Loading            Error --Load--> Loading
	any --Reset--> Uninitialized

Reduce implements the transitions; illegal events leave the state as is.

# Organization Gating

Nothing is fetched until SetOrganization receives a non-empty organization
while auth is settled. Changing the organization bumps a generation
counter; results of operations started under an older generation are
discarded with ErrStaleOrganization instead of being merged.

# Ordering

Reads, refetches, polls and mutations are not serialized against each
other. The operation that completes last wins.
*/
package collection
