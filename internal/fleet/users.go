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

// Users is the users collection.
type Users struct {
	*collection.Collection[[]models.User]

	client graphql.Doer
}

func newUsers(client graphql.Doer, base baseConfig) *Users {
	u := &Users{client: client}
	u.Collection = collection.New(configFor(base, EntityUsers, u.fetch))
	return u
}

func (u *Users) fetch(ctx context.Context, org string) ([]models.User, error) {
	return graphql.Fetch[[]models.User](ctx, u.client, graphql.Users, orgVars(org))
}

// Create invites a user into the current organization.
func (u *Users) Create(ctx context.Context, input models.CreateUserInput) error {
	if err := validation.Validate(input); err != nil {
		return err
	}
	return u.Mutate(ctx, createRecord[models.User](u.client, graphql.CreateUser, func(org string) any {
		input.OrganizationID = org
		return input
	}))
}

// Update changes the non-nil fields of a user.
func (u *Users) Update(ctx context.Context, id string, input models.UpdateUserInput) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := validation.Validate(input); err != nil {
		return err
	}
	return u.Mutate(ctx, updateRecord[models.User](u.client, graphql.UpdateUser, id, input))
}

// Delete removes a user.
func (u *Users) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return u.Mutate(ctx, deleteRecord[models.User](u.client, graphql.DeleteUser, id))
}
