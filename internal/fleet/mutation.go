// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package fleet

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/fleetcache/internal/collection"
	"github.com/tomtom215/fleetcache/internal/graphql"
	"github.com/tomtom215/fleetcache/internal/models"
	"github.com/tomtom215/fleetcache/internal/validation"
)

// ErrNotDeleted is returned when a delete mutation answers false.
var ErrNotDeleted = errors.New("record was not deleted")

// remote builds a Mutation that runs op and folds its decoded result into
// the held value with apply. The mutation is named after op's response
// field, e.g. "updateDroneStatus".
func remote[V, R any](client graphql.Doer, op graphql.Operation, vars func(org string) map[string]any, apply func(current V, result R) (V, error)) collection.Mutation[V] {
	return collection.Mutation[V]{
		Name: op.Field(),
		Run: func(ctx context.Context, org string) (collection.ApplyFunc[V], error) {
			result, err := graphql.Fetch[R](ctx, client, op, vars(org))
			if err != nil {
				return nil, err
			}
			return func(current V) (V, error) {
				return apply(current, result)
			}, nil
		},
	}
}

func createRecord[T models.Identifiable](client graphql.Doer, op graphql.Operation, input func(org string) any) collection.Mutation[[]T] {
	return remote(client, op,
		func(org string) map[string]any { return map[string]any{"input": input(org)} },
		func(current []T, created T) ([]T, error) {
			return collection.Append(current, created), nil
		})
}

func updateRecord[T models.Identifiable](client graphql.Doer, op graphql.Operation, id string, input any) collection.Mutation[[]T] {
	return remote(client, op,
		func(string) map[string]any { return map[string]any{"id": id, "input": input} },
		func(current []T, updated T) ([]T, error) {
			return collection.ReplaceByID(current, updated), nil
		})
}

func deleteRecord[T models.Identifiable](client graphql.Doer, op graphql.Operation, id string) collection.Mutation[[]T] {
	return remote(client, op,
		func(string) map[string]any { return map[string]any{"id": id} },
		func(current []T, deleted bool) ([]T, error) {
			if !deleted {
				return nil, fmt.Errorf("%w: %s", ErrNotDeleted, id)
			}
			return collection.RemoveByID(current, id), nil
		})
}

// patchRecord merges a partial record returned by op into the held record.
func patchRecord[T models.Identifiable](client graphql.Doer, op graphql.Operation, vars map[string]any, id string) collection.Mutation[[]T] {
	return remote(client, op,
		func(string) map[string]any { return vars },
		func(current []T, patch map[string]any) ([]T, error) {
			return collection.MergeByID(current, id, patch)
		})
}

func requireID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", validation.ErrValidation)
	}
	return nil
}
