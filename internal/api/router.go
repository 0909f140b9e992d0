// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

// Package api serves the cache admin surface over HTTP using the chi router.
//
// Routes:
//
//	GET    /api/v1/health                     liveness, no auth
//	GET    /api/v1/cache/stats                aggregate cache statistics
//	POST   /api/v1/cache/refresh              refresh every entity
//	POST   /api/v1/cache/refresh/{entity}     refresh one entity
//	DELETE /api/v1/cache                      clear both cache tiers
//	GET    /api/v1/organization/stats         cached organization stats
//	GET    /metrics                           Prometheus exposition
//
// Every /api/v1 route except health is rate limited and requires the admin
// bearer token when one is configured.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router wires the handlers and middleware.
type Router struct {
	handler    *Handler
	middleware *Middleware
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, middleware *Middleware) *Router {
	return &Router{handler: handler, middleware: middleware}
}

// Setup builds the chi route tree.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS())

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Metrics)

		r.Get("/health", router.handler.Health)

		r.Group(func(r chi.Router) {
			r.Use(router.middleware.RateLimit())
			r.Use(router.middleware.AdminAuth())

			r.Get("/cache/stats", router.handler.CacheStats)
			r.Post("/cache/refresh", router.handler.RefreshAll)
			r.Post("/cache/refresh/{entity}", router.handler.RefreshEntity)
			r.Delete("/cache", router.handler.ClearCache)
			r.Get("/organization/stats", router.handler.OrganizationStats)
		})
	})

	return r
}
