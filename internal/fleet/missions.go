// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package fleet

import (
	"context"
	"net/url"
	"sync"

	"github.com/tomtom215/fleetcache/internal/cache"
	"github.com/tomtom215/fleetcache/internal/collection"
	"github.com/tomtom215/fleetcache/internal/graphql"
	"github.com/tomtom215/fleetcache/internal/models"
	"github.com/tomtom215/fleetcache/internal/validation"
)

// Missions is the missions collection. Its mutations invalidate drones.
type Missions struct {
	*collection.Collection[[]models.Mission]

	client graphql.Doer

	mu     sync.RWMutex
	filter models.MissionFilter
}

func newMissions(client graphql.Doer, base baseConfig, filter models.MissionFilter) *Missions {
	m := &Missions{client: client, filter: filter}
	cfg := configFor(base, EntityMissions, m.fetch, EntityDrones)
	cfg.KeySuffix = func() string { return filterSuffix(m.Filter()) }
	m.Collection = collection.New(cfg)
	return m
}

// The values MissionFilter accepts; missionKeys enumerates them.
var (
	missionStatuses = []models.MissionStatus{
		models.MissionStatusPlanned, models.MissionStatusInProgress, models.MissionStatusPaused,
		models.MissionStatusCompleted, models.MissionStatusAborted, models.MissionStatusFailed,
	}
	missionTimeRanges = []string{"24h", "7d", "30d", "90d"}
)

// filterSuffix renders a filter as a key suffix, e.g.
// "?status=COMPLETED&timeRange=7d". The empty filter renders as "".
func filterSuffix(filter models.MissionFilter) string {
	q := url.Values{}
	if filter.Status != "" {
		q.Set("status", string(filter.Status))
	}
	if filter.TimeRange != "" {
		q.Set("timeRange", filter.TimeRange)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// missionKey returns the cache key of org's missions read with filter.
func missionKey(org string, filter models.MissionFilter) string {
	return cache.EntityKey(EntityMissions, org) + filterSuffix(filter)
}

// missionKeys returns the cache key of every filter org's missions can be
// read with, the unfiltered key first.
func missionKeys(org string) []string {
	statuses := append([]models.MissionStatus{""}, missionStatuses...)
	ranges := append([]string{""}, missionTimeRanges...)
	keys := make([]string, 0, len(statuses)*len(ranges))
	for _, status := range statuses {
		for _, tr := range ranges {
			keys = append(keys, missionKey(org, models.MissionFilter{Status: status, TimeRange: tr}))
		}
	}
	return keys
}

func (m *Missions) fetch(ctx context.Context, org string) ([]models.Mission, error) {
	vars := orgVars(org)
	filter := m.Filter()
	if filter.Status != "" {
		vars["status"] = filter.Status
	}
	if filter.TimeRange != "" {
		vars["timeRange"] = filter.TimeRange
	}
	return graphql.Fetch[[]models.Mission](ctx, m.client, graphql.Missions, vars)
}

// Filter returns the current query filter.
func (m *Missions) Filter() models.MissionFilter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.filter
}

// SetFilter replaces the query filter and refetches.
func (m *Missions) SetFilter(ctx context.Context, filter models.MissionFilter) error {
	if err := validation.Validate(filter); err != nil {
		return err
	}
	m.mu.Lock()
	m.filter = filter
	m.mu.Unlock()

	if m.Key() == "" {
		return nil
	}
	return m.Refetch(ctx)
}

// Create creates a mission in the current organization.
func (m *Missions) Create(ctx context.Context, input models.CreateMissionInput) error {
	if err := validation.Validate(input); err != nil {
		return err
	}
	return m.Mutate(ctx, createRecord[models.Mission](m.client, graphql.CreateMission, func(org string) any {
		input.OrganizationID = org
		return input
	}))
}

// Update changes the non-nil fields of a mission.
func (m *Missions) Update(ctx context.Context, id string, input models.UpdateMissionInput) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := validation.Validate(input); err != nil {
		return err
	}
	return m.Mutate(ctx, updateRecord[models.Mission](m.client, graphql.UpdateMission, id, input))
}

// Delete deletes a mission.
func (m *Missions) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return m.Mutate(ctx, deleteRecord[models.Mission](m.client, graphql.DeleteMission, id))
}

// StartMission moves a mission to IN_PROGRESS.
func (m *Missions) StartMission(ctx context.Context, id string) error {
	return m.transition(ctx, graphql.StartMission, id)
}

// PauseMission pauses an in-progress mission.
func (m *Missions) PauseMission(ctx context.Context, id string) error {
	return m.transition(ctx, graphql.PauseMission, id)
}

// ResumeMission resumes a paused mission.
func (m *Missions) ResumeMission(ctx context.Context, id string) error {
	return m.transition(ctx, graphql.ResumeMission, id)
}

// AbortMission aborts a mission.
func (m *Missions) AbortMission(ctx context.Context, id string) error {
	return m.transition(ctx, graphql.AbortMission, id)
}

// CompleteMission marks a mission completed.
func (m *Missions) CompleteMission(ctx context.Context, id string) error {
	return m.transition(ctx, graphql.CompleteMission, id)
}

// transition runs a status mutation. The API answers with the changed
// fields only, which are merged into the held mission.
func (m *Missions) transition(ctx context.Context, op graphql.Operation, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return m.Mutate(ctx, patchRecord[models.Mission](m.client, op, map[string]any{"id": id}, id))
}
