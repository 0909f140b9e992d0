// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package collection

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/fleetcache/internal/models"
)

// The list helpers never modify their input; each returns a new slice so a
// mutation can be computed aside and swapped in whole.

// Append returns list with item added at the end.
func Append[T any](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, item)
}

// ReplaceByID returns list with every record whose id matches item's
// replaced by item. Records are left in place; an unknown id is a no-op.
func ReplaceByID[T models.Identifiable](list []T, item T) []T {
	id := item.EntityID()
	out := make([]T, len(list))
	for i, v := range list {
		if v.EntityID() == id {
			out[i] = item
			continue
		}
		out[i] = v
	}
	return out
}

// RemoveByID returns list without the record with the given id.
func RemoveByID[T models.Identifiable](list []T, id string) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if v.EntityID() != id {
			out = append(out, v)
		}
	}
	return out
}

// MergeByID overlays patch onto the record with the given id. patch is
// decoded over a deep copy of the record, so fields absent from patch keep
// their current value. An unknown id is a no-op.
func MergeByID[T models.Identifiable](list []T, id string, patch any) ([]T, error) {
	raw, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode patch for %s: %w", id, err)
	}

	out := make([]T, len(list))
	for i, v := range list {
		if v.EntityID() != id {
			out[i] = v
			continue
		}
		merged, err := deepCopy(v)
		if err != nil {
			return nil, fmt.Errorf("copy record %s: %w", id, err)
		}
		if err := json.Unmarshal(raw, &merged); err != nil {
			return nil, fmt.Errorf("merge patch into %s: %w", id, err)
		}
		out[i] = merged
	}
	return out, nil
}

func deepCopy[T any](v T) (T, error) {
	var out T
	b, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(b, &out)
	return out, err
}
