// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

// Package testinfra provides shared test infrastructure.
//
// # Mock GraphQL Server
//
// MockGraphQLServer is an httptest server speaking the GraphQL-over-HTTP
// request shape used by internal/graphql. Handlers are registered per
// operation name and every request is captured for later assertions:
//
//	srv := testinfra.NewMockGraphQLServer(t)
//	srv.HandleData("Missions", map[string]any{"missions": missions})
//	client := graphql.NewClient(graphql.Options{Endpoint: srv.URL()})
//
// # Valkey Container
//
// Behind the integration build tag, NewValkeyContainer starts a real Valkey
// server with testcontainers-go for the storage backend tests:
//
//	valkey, err := testinfra.NewValkeyContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, valkey)
//
// These tests require Docker and are skipped gracefully when it is not
// available.
package testinfra
