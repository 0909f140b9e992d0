// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package graphql

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
)

// Fetch runs op and decodes its top-level field (see Operation.Field) into
// R. A missing or null field is ErrNoData.
func Fetch[R any](ctx context.Context, d Doer, op Operation, vars map[string]any) (R, error) {
	var out R
	var data map[string]json.RawMessage
	if err := d.Do(ctx, op, vars, &data); err != nil {
		return out, err
	}

	field := op.Field()
	raw, ok := data[field]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return out, fmt.Errorf("%w (%s.%s)", ErrNoData, op.Name, field)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("graphql %s: decode %s: %w", op.Name, field, err)
	}
	return out, nil
}
