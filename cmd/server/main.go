// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

// Package main is the entry point for the fleetcache server.
//
// The server keeps the six fleet dashboard collections (missions, drones,
// sites, users, settings, analytics) cached for the organization resolved
// from the configured API token, polls the fleet GraphQL API for changes
// and exposes the cache admin surface over HTTP.
//
// # Startup order
//
//  1. Configuration (koanf: defaults, config.yaml, environment)
//  2. Logging (zerolog)
//  3. Persistent cache tier (badger, sqlite, valkey or none)
//  4. Cache Store, GraphQL client, fleet collections
//  5. Auth session, subscribed by the fleet
//  6. Supervisor tree: session (data), pollers (messaging), HTTP (api)
//
// # Example
//
//	export GRAPHQL_ENDPOINT=https://fleet.example.com/graphql
//	export AUTH_TOKEN=eyJhbGciOi...
//	export STORAGE_BACKEND=badger BADGER_PATH=/var/lib/fleetcache
//	export ADMIN_TOKEN=$(openssl rand -hex 24)
//	./fleetcache
//
// SIGINT and SIGTERM stop the tree; the HTTP server drains in-flight
// requests within SHUTDOWN_TIMEOUT.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/fleetcache/internal/api"
	"github.com/tomtom215/fleetcache/internal/auth"
	"github.com/tomtom215/fleetcache/internal/cache"
	"github.com/tomtom215/fleetcache/internal/collection"
	"github.com/tomtom215/fleetcache/internal/config"
	"github.com/tomtom215/fleetcache/internal/fleet"
	"github.com/tomtom215/fleetcache/internal/graphql"
	"github.com/tomtom215/fleetcache/internal/logging"
	"github.com/tomtom215/fleetcache/internal/monitor"
	"github.com/tomtom215/fleetcache/internal/storage"
	"github.com/tomtom215/fleetcache/internal/supervisor"
	"github.com/tomtom215/fleetcache/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("storage", cfg.Storage.Backend).
		Str("graphql_endpoint", cfg.GraphQL.Endpoint).
		Bool("polling", cfg.Polling.Enabled).
		Msg("Starting fleetcache")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Server stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend, closer, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing persistent cache tier")
		}
	}()

	store := cache.NewStore(backend, cache.Config{
		DefaultTTL:     cfg.Cache.DefaultTTL,
		Capacity:       cfg.Cache.Capacity,
		PersistTimeout: cfg.Cache.PersistTimeout,
	})

	client := graphql.NewClient(graphql.OptionsFromConfig(cfg.GraphQL, cfg.Auth.Token))

	fl := fleet.New(fleet.Options{
		Store:        store,
		Client:       client,
		PollInterval: cfg.Polling.Interval,
		TTL:          cfg.Cache.DefaultTTL,
		Notifier:     collection.LogNotifier{},
	})
	defer fl.Close()

	session := auth.NewSession(auth.Options{
		Client:          client,
		Token:           cfg.Auth.Token,
		OrganizationID:  cfg.Auth.OrganizationID,
		ResolveInterval: cfg.Auth.ResolveInterval,
	})
	session.Subscribe(ctx, func(ctx context.Context, st auth.State) {
		ctx = logging.ContextWithOrganization(ctx, st.OrganizationID)
		if err := fl.SetOrganization(ctx, st.OrganizationID, st.Loading); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Organization switch finished with errors")
		}
	})

	contexts := fl.Contexts()
	refreshers := make([]monitor.Refresher, len(contexts))
	for i, c := range contexts {
		refreshers[i] = c
	}
	mon := monitor.New(store, refreshers...)

	router := api.NewRouter(
		api.NewHandler(mon, fl),
		api.NewMiddleware(api.MiddlewareConfigFromSecurity(cfg.Security)),
	)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(services.NewSessionService(session, auth.IsFatal))
	if cfg.Polling.Enabled {
		tree.AddMessagingService(services.NewPollerService(fl))
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	var treeErr error
	for err := range tree.ServeBackground(ctx) {
		if err != nil && !errors.Is(err, context.Canceled) {
			treeErr = err
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return treeErr
}
