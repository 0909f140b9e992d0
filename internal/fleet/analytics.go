// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package fleet

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/fleetcache/internal/collection"
	"github.com/tomtom215/fleetcache/internal/graphql"
	"github.com/tomtom215/fleetcache/internal/logging"
	"github.com/tomtom215/fleetcache/internal/models"
)

// missionStatsRange is the time range of the mission stats query.
const missionStatsRange = "30d"

// Analytics is the analytics collection. A fetch combines three queries;
// sections the API does not return are filled from models.MockAnalytics.
// Reads and polls use the same combined fetch.
type Analytics struct {
	*collection.Collection[models.Analytics]

	client graphql.Doer
}

func newAnalytics(client graphql.Doer, base baseConfig) *Analytics {
	a := &Analytics{client: client}
	cfg := configFor(base, EntityAnalytics, a.fetch)
	cfg.Fallback = models.MockAnalytics
	cfg.Empty = models.MockAnalytics
	a.Collection = collection.New(cfg)
	return a
}

// fetch runs the three analytics queries concurrently. It fails only when
// all three fail; a partial result is completed from the mock snapshot.
func (a *Analytics) fetch(ctx context.Context, org string) (models.Analytics, error) {
	var (
		stats    *models.OrganizationStats
		missions *models.MissionStats
		drones   *models.DroneUtilizationStats
		errs     [3]error
	)

	var g errgroup.Group
	g.Go(func() error {
		v, err := graphql.Fetch[models.OrganizationStats](ctx, a.client, graphql.OrganizationStats, orgVars(org))
		if err == nil {
			stats = &v
		}
		errs[0] = err
		return nil
	})
	g.Go(func() error {
		vars := orgVars(org)
		vars["timeRange"] = missionStatsRange
		v, err := graphql.Fetch[models.MissionStats](ctx, a.client, graphql.MissionStats, vars)
		if err == nil {
			missions = &v
		}
		errs[1] = err
		return nil
	})
	g.Go(func() error {
		v, err := graphql.Fetch[models.DroneUtilizationStats](ctx, a.client, graphql.DroneUtilization, orgVars(org))
		if err == nil {
			drones = &v
		}
		errs[2] = err
		return nil
	})
	_ = g.Wait()

	if errs[0] != nil && errs[1] != nil && errs[2] != nil {
		return models.Analytics{}, errors.Join(errs[:]...)
	}
	if err := errors.Join(errs[:]...); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("organization_id", org).Msg("Partial analytics, filling from mock data")
	}
	return models.BuildAnalytics(stats, missions, drones), nil
}

// UpdateAnalytics replaces the held analytics locally.
func (a *Analytics) UpdateAnalytics(ctx context.Context, analytics models.Analytics) error {
	return a.Mutate(ctx, collection.LocalMutation("updateAnalytics", func(models.Analytics) (models.Analytics, error) {
		return analytics, nil
	}))
}
