// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package cache

import "context"

// Backend is the persistent tier of a Store.
//
// Implementations live in internal/storage (badger, sqlite, valkey). The
// Store never propagates a Backend error: every failure is logged, counted
// and treated as a persistent tier miss.
//
// Get returns ok=false with a nil error when the key is absent.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string

	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Len(ctx context.Context) (int, error)
}

// NopBackend is a Backend that stores nothing. A Store built on it behaves
// as a memory-only cache.
type NopBackend struct{}

// Name implements Backend.
func (NopBackend) Name() string { return "none" }

// Get implements Backend.
func (NopBackend) Get(context.Context, string) (string, bool, error) { return "", false, nil }

// Set implements Backend.
func (NopBackend) Set(context.Context, string, string) error { return nil }

// Remove implements Backend.
func (NopBackend) Remove(context.Context, string) error { return nil }

// Clear implements Backend.
func (NopBackend) Clear(context.Context) error { return nil }

// Len implements Backend.
func (NopBackend) Len(context.Context) (int, error) { return 0, nil }

var _ Backend = NopBackend{}
