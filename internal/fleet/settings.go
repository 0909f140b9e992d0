// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package fleet

import (
	"context"

	"github.com/tomtom215/fleetcache/internal/collection"
	"github.com/tomtom215/fleetcache/internal/graphql"
	"github.com/tomtom215/fleetcache/internal/models"
	"github.com/tomtom215/fleetcache/internal/validation"
)

// Settings is the organization settings collection. A failed read falls
// back to models.DefaultSettings. Its mutations are local: they change the
// held value and the cache entry but are not sent to the API.
type Settings struct {
	*collection.Collection[models.Settings]

	client graphql.Doer
}

func newSettings(client graphql.Doer, base baseConfig) *Settings {
	s := &Settings{client: client}
	cfg := configFor(base, EntitySettings, s.fetch)
	cfg.Fallback = models.DefaultSettings
	cfg.Empty = models.DefaultSettings
	s.Collection = collection.New(cfg)
	return s
}

func (s *Settings) fetch(ctx context.Context, org string) (models.Settings, error) {
	return graphql.Fetch[models.Settings](ctx, s.client, graphql.Settings, orgVars(org))
}

// UpdateSetting sets one top-level setting by its JSON name, e.g.
// UpdateSetting(ctx, "theme", "dark").
func (s *Settings) UpdateSetting(ctx context.Context, key string, value any) error {
	return s.Mutate(ctx, collection.LocalMutation("updateSetting", func(current models.Settings) (models.Settings, error) {
		next, err := current.With(key, value)
		if err != nil {
			return current, err
		}
		if err := validation.Validate(next); err != nil {
			return current, err
		}
		return next, nil
	}))
}

// UpdateSettings applies the non-nil fields of patch.
func (s *Settings) UpdateSettings(ctx context.Context, patch models.SettingsPatch) error {
	if err := validation.Validate(patch); err != nil {
		return err
	}
	return s.Mutate(ctx, collection.LocalMutation("updateSettings", func(current models.Settings) (models.Settings, error) {
		return current.Apply(patch), nil
	}))
}

// ResetSettings restores the defaults.
func (s *Settings) ResetSettings(ctx context.Context) error {
	return s.Mutate(ctx, collection.LocalMutation("resetSettings", func(models.Settings) (models.Settings, error) {
		return models.DefaultSettings(), nil
	}))
}
