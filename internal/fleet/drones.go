// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package fleet

import (
	"context"
	"fmt"

	"github.com/tomtom215/fleetcache/internal/collection"
	"github.com/tomtom215/fleetcache/internal/graphql"
	"github.com/tomtom215/fleetcache/internal/models"
	"github.com/tomtom215/fleetcache/internal/validation"
)

// Drones is the drones collection. Its mutations invalidate missions.
type Drones struct {
	*collection.Collection[[]models.Drone]

	client graphql.Doer
}

func newDrones(client graphql.Doer, base baseConfig) *Drones {
	d := &Drones{client: client}
	d.Collection = collection.New(configFor(base, EntityDrones, d.fetch, EntityMissions))
	return d
}

func (d *Drones) fetch(ctx context.Context, org string) ([]models.Drone, error) {
	return graphql.Fetch[[]models.Drone](ctx, d.client, graphql.Drones, orgVars(org))
}

// Create registers a drone in the current organization.
func (d *Drones) Create(ctx context.Context, input models.CreateDroneInput) error {
	if err := validation.Validate(input); err != nil {
		return err
	}
	return d.Mutate(ctx, createRecord[models.Drone](d.client, graphql.CreateDrone, func(org string) any {
		input.OrganizationID = org
		return input
	}))
}

// Update changes the non-nil fields of a drone.
func (d *Drones) Update(ctx context.Context, id string, input models.UpdateDroneInput) error {
	if err := requireID(id); err != nil {
		return err
	}
	if err := validation.Validate(input); err != nil {
		return err
	}
	return d.Mutate(ctx, updateRecord[models.Drone](d.client, graphql.UpdateDrone, id, input))
}

// UpdateStatus sets a drone's status. The API answers with the changed
// fields only, which are merged into the held drone.
func (d *Drones) UpdateStatus(ctx context.Context, id string, status models.DroneStatus) error {
	if err := requireID(id); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("%w: unknown drone status %q", validation.ErrValidation, status)
	}
	vars := map[string]any{"id": id, "status": status}
	return d.Mutate(ctx, patchRecord[models.Drone](d.client, graphql.UpdateDroneStatus, vars, id))
}

// Delete deletes a drone.
func (d *Drones) Delete(ctx context.Context, id string) error {
	if err := requireID(id); err != nil {
		return err
	}
	return d.Mutate(ctx, deleteRecord[models.Drone](d.client, graphql.DeleteDrone, id))
}
