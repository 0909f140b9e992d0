// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package cache

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
)

// QueryKeyPrefix namespaces keys produced by GenerateQueryKey.
const QueryKeyPrefix = "gql"

// GenerateQueryKey derives a stable cache key for a query and its variables.
//
// The query text and the JSON encoding of variables are hashed separately
// with 64-bit xxhash and rendered in base36:
//
//	gql:<hash(query)>:<hash(json(variables))>
//
// A nil variables value hashes like an empty object. Map keys are encoded in
// sorted order, so two maps holding the same pairs always produce the same
// key regardless of insertion order.
func GenerateQueryKey(query string, variables any) string {
	vars := []byte("{}")
	if variables != nil {
		b, err := json.Marshal(variables)
		switch {
		case err != nil:
			vars = []byte(fmt.Sprintf("%#v", variables))
		case string(b) != "null":
			vars = b
		}
	}
	return QueryKeyPrefix + ":" + hash36([]byte(query)) + ":" + hash36(vars)
}

// EntityKey returns the cache key of an entity collection for one
// organization, e.g. EntityKey("missions", "org1") == "missions:org1".
func EntityKey(entity, organizationID string) string {
	return entity + ":" + organizationID
}

// KeyType returns the namespace of a key: the text before the first ':'.
// Keys without a separator are their own type.
func KeyType(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}

func hash36(b []byte) string {
	return strconv.FormatUint(xxhash.Sum64(b), 36)
}
