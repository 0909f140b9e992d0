// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/fleetcache/internal/collection"
	"github.com/tomtom215/fleetcache/internal/models"
	"github.com/tomtom215/fleetcache/internal/monitor"
)

// CacheMonitor is the cache admin surface the handlers drive.
type CacheMonitor interface {
	Entities() []string
	Stats(ctx context.Context) monitor.Stats
	Refresh(ctx context.Context, entity string) error
	RefreshAll(ctx context.Context) monitor.RefreshReport
	ClearAll(ctx context.Context)
}

// OrganizationSource exposes the bound organization and its stats.
type OrganizationSource interface {
	OrganizationID() string
	OrganizationStats(ctx context.Context) (models.OrganizationStats, error)
}

// Handler serves the admin endpoints.
type Handler struct {
	monitor CacheMonitor
	org     OrganizationSource
}

// NewHandler creates a Handler.
func NewHandler(mon CacheMonitor, org OrganizationSource) *Handler {
	return &Handler{monitor: mon, org: org}
}

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status         string   `json:"status"`
	OrganizationID string   `json:"organizationId,omitempty"`
	Entities       []string `json:"entities"`
}

type refreshRequest struct {
	Entity string `json:"entity" validate:"required,alpha,lowercase,max=32"`
}

// Health reports liveness and the bound organization.
//
// @Summary Health check
// @Description Reports liveness, the bound organization and the cached entity names. Not authenticated or rate limited.
// @Tags System
// @Produce json
// @Success 200 {object} models.APIResponse{data=HealthResponse} "Service is alive"
// @Router /api/v1/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	resp := HealthResponse{Status: "ok", Entities: h.monitor.Entities()}
	if h.org != nil {
		resp.OrganizationID = h.org.OrganizationID()
	}
	respondSuccess(w, r, start, resp)
}

// CacheStats returns the aggregate cache statistics.
//
// @Summary Get cache statistics
// @Description Returns per-tier entry counts, hit/miss counters, hit rate and the state of every entity collection.
// @Tags Cache
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=monitor.Stats} "Cache statistics retrieved successfully"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 429 {object} models.APIResponse "Rate limit exceeded"
// @Router /api/v1/cache/stats [get]
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, r, start, h.monitor.Stats(r.Context()))
}

// RefreshEntity refreshes one entity collection from the network.
//
// @Summary Refresh one entity
// @Description Reloads one entity collection from the fleet API, bypassing the cache read, and writes the result through both tiers.
// @Tags Cache
// @Produce json
// @Security BearerAuth
// @Param entity path string true "Entity name" Enums(missions, drones, sites, users, settings, analytics)
// @Success 200 {object} models.APIResponse{data=map[string]string} "Entity refreshed"
// @Failure 400 {object} models.APIResponse "Invalid entity name"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 404 {object} models.APIResponse "Unknown entity"
// @Failure 409 {object} models.APIResponse "No organization is bound yet"
// @Failure 429 {object} models.APIResponse "Rate limit exceeded"
// @Failure 502 {object} models.APIResponse "Upstream fetch failed"
// @Router /api/v1/cache/refresh/{entity} [post]
func (h *Handler) RefreshEntity(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := refreshRequest{Entity: chi.URLParam(r, "entity")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	err := h.monitor.Refresh(r.Context(), req.Entity)
	switch {
	case err == nil:
		respondSuccess(w, r, start, map[string]string{"refreshed": req.Entity})
	case errors.Is(err, monitor.ErrUnknownEntity):
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Unknown entity: "+req.Entity, nil)
	case errors.Is(err, collection.ErrNoOrganization):
		respondError(w, r, http.StatusConflict, "NO_ORGANIZATION", "No organization is bound yet", nil)
	default:
		respondError(w, r, http.StatusBadGateway, "REFRESH_FAILED", "Refresh failed for "+req.Entity, err)
	}
}

// RefreshAll refreshes every entity collection concurrently.
//
// @Summary Refresh every entity
// @Description Reloads all entity collections concurrently. A partial failure answers 502 with the succeeded and failed entities in the error details.
// @Tags Cache
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=monitor.RefreshReport} "All entities refreshed"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 429 {object} models.APIResponse "Rate limit exceeded"
// @Failure 502 {object} models.APIResponse "One or more entities failed to refresh"
// @Router /api/v1/cache/refresh [post]
func (h *Handler) RefreshAll(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	report := h.monitor.RefreshAll(r.Context())
	if report.OK() {
		respondSuccess(w, r, start, report)
		return
	}

	failed := make(map[string]any, len(report.Failed))
	for entity, msg := range report.Failed {
		failed[entity] = msg
	}
	respondErrorDetails(w, r, http.StatusBadGateway, &models.APIError{
		Code:    "REFRESH_FAILED",
		Message: "One or more entities failed to refresh",
		Details: map[string]any{
			"succeeded": report.Succeeded,
			"failed":    failed,
		},
	}, nil)
}

// ClearCache drops every cache entry from both tiers.
//
// @Summary Clear the cache
// @Description Drops every entry from the memory and persistent tiers. Held collection values are kept until the next read.
// @Tags Cache
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=map[string]bool} "Cache cleared"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 429 {object} models.APIResponse "Rate limit exceeded"
// @Router /api/v1/cache [delete]
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	h.monitor.ClearAll(r.Context())
	respondSuccess(w, r, start, map[string]bool{"cleared": true})
}

// OrganizationStats returns the cached ORGANIZATION_STATS query result.
//
// @Summary Get organization statistics
// @Description Returns the organization stats query result through the query cache, keyed by query text and variables.
// @Tags Organization
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.OrganizationStats} "Organization statistics retrieved successfully"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 409 {object} models.APIResponse "No organization is bound yet"
// @Failure 429 {object} models.APIResponse "Rate limit exceeded"
// @Failure 502 {object} models.APIResponse "Upstream query failed"
// @Router /api/v1/organization/stats [get]
func (h *Handler) OrganizationStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.org == nil {
		respondError(w, r, http.StatusConflict, "NO_ORGANIZATION", "No organization is bound yet", nil)
		return
	}

	stats, err := h.org.OrganizationStats(r.Context())
	switch {
	case err == nil:
		respondSuccess(w, r, start, stats)
	case errors.Is(err, collection.ErrNoOrganization):
		respondError(w, r, http.StatusConflict, "NO_ORGANIZATION", "No organization is bound yet", nil)
	default:
		respondError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to load organization stats", err)
	}
}
