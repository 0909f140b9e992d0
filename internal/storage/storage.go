// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/tomtom215/fleetcache/internal/cache"
	"github.com/tomtom215/fleetcache/internal/config"
)

// Backend names accepted by Open.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendValkey = "valkey"
	BackendNone   = "none"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the persistent backend selected by cfg. The returned Closer
// releases the backend's resources and is never nil on success.
func Open(ctx context.Context, cfg config.StorageConfig) (cache.Backend, io.Closer, error) {
	switch cfg.Backend {
	case BackendBadger:
		b, err := OpenBadger(cfg.BadgerPath, cfg.InMemory || cfg.BadgerPath == "")
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil

	case BackendSQLite:
		s, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil

	case BackendValkey:
		v, err := OpenValkey(ctx, ValkeyOptions{
			Address:  cfg.ValkeyAddress,
			Password: cfg.ValkeyPassword,
			DB:       cfg.ValkeyDB,
			Prefix:   cfg.ValkeyPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return v, v, nil

	case BackendNone, "":
		return cache.NopBackend{}, nopCloser{}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
