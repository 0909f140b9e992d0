// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package cache

import (
	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
)

// Fingerprint returns a content hash of v: xxhash64 over its JSON encoding.
//
// Two structurally equal values (same fields, same element order) always
// share a fingerprint. The polling reconciler compares fingerprints instead
// of holding two full serializations side by side.
func Fingerprint(v any) (uint64, error) {
	d := xxhash.New()
	if err := json.NewEncoder(d).Encode(v); err != nil {
		return 0, err
	}
	return d.Sum64(), nil
}
