// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

/*
Package auth supplies the organization the fleet collections are bound to.

A Session holds the API bearer token and resolves the current
organization, either from static configuration or from the first
organization membership returned by the ME query. Until the first
resolution finishes the session reports Loading; subscribers receive every
state change and gate their work on it:

	session.Subscribe(func(ctx context.Context, s auth.State) {
	    _ = fleet.SetOrganization(ctx, s.OrganizationID, s.Loading)
	})

Token expiry is read from the JWT exp claim without verifying the
signature; the API verifies tokens. Opaque tokens are accepted as they are.

Run resolves once and then re-resolves on an interval. It returns an error
when the token is rejected or expired so the supervisor can restart it.
*/
package auth
