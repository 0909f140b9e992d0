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

// Sites is the sites collection.
type Sites struct {
	*collection.Collection[[]models.Site]

	client graphql.Doer
}

func newSites(client graphql.Doer, base baseConfig) *Sites {
	s := &Sites{client: client}
	s.Collection = collection.New(configFor(base, EntitySites, s.fetch))
	return s
}

func (s *Sites) fetch(ctx context.Context, org string) ([]models.Site, error) {
	return graphql.Fetch[[]models.Site](ctx, s.client, graphql.Sites, orgVars(org))
}

// Create adds a site to the current organization.
func (s *Sites) Create(ctx context.Context, input models.CreateSiteInput) error {
	if err := validation.Validate(input); err != nil {
		return err
	}
	return s.Mutate(ctx, createRecord[models.Site](s.client, graphql.CreateSite, func(org string) any {
		input.OrganizationID = org
		return input
	}))
}

// Update changes the non-nil fields of a site.
func (s *Sites) Update(ctx context.Context, id string, input models.UpdateSiteInput) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := validation.Validate(input); err != nil {
		return err
	}
	return s.Mutate(ctx, updateRecord[models.Site](s.client, graphql.UpdateSite, id, input))
}

// Delete deletes a site.
func (s *Sites) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return s.Mutate(ctx, deleteRecord[models.Site](s.client, graphql.DeleteSite, id))
}
