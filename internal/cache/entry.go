// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package cache

import (
	"time"

	"github.com/goccy/go-json"
)

// Entry is one cached value with its storage metadata.
//
// Data holds the go-json encoding of the cached value. The same encoding of
// the whole Entry is what the persistent tier stores under Key.
type Entry struct {
	Key      string          `json:"key"`
	Data     json.RawMessage `json:"data"`
	StoredAt time.Time       `json:"storedAt"`
	TTL      time.Duration   `json:"ttl"`
}

// Live reports whether the entry is still valid at now: now - StoredAt < TTL.
func (e Entry) Live(now time.Time) bool {
	return now.Sub(e.StoredAt) < e.TTL
}

// Remaining returns TTL - (now - StoredAt), clamped to zero.
func (e Entry) Remaining(now time.Time) time.Duration {
	r := e.TTL - now.Sub(e.StoredAt)
	if r < 0 {
		return 0
	}
	return r
}

func encodeEntry(e Entry) (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeEntry(raw string) (Entry, error) {
	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}
