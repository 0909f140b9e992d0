// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package storage

import (
	"context"
	"fmt"
	"time"

	valkeylib "github.com/valkey-io/valkey-go"

	"github.com/tomtom215/fleetcache/internal/cache"
)

// DefaultValkeyPrefix namespaces cache keys on a shared server.
const DefaultValkeyPrefix = "fleetcache:"

const valkeyPingTimeout = 5 * time.Second

// ValkeyOptions configures a ValkeyBackend.
type ValkeyOptions struct {
	Address  string
	Password string
	DB       int
	Prefix   string
}

// ValkeyBackend implements cache.Backend on a Valkey server. All keys live
// under Prefix; Clear and Len never touch keys outside it.
type ValkeyBackend struct {
	client valkeylib.Client
	prefix string
}

// OpenValkey connects to the server and verifies it with a PING.
func OpenValkey(ctx context.Context, opts ValkeyOptions) (*ValkeyBackend, error) {
	if opts.Address == "" {
		return nil, fmt.Errorf("valkey address is required")
	}

	client, err := valkeylib.NewClient(valkeylib.ClientOption{
		InitAddress: []string{opts.Address},
		Password:    opts.Password,
		SelectDB:    opts.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, valkeyPingTimeout)
	defer cancel()
	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping valkey: %w", err)
	}

	return NewValkeyBackend(client, opts.Prefix), nil
}

// NewValkeyBackend wraps an existing client.
func NewValkeyBackend(client valkeylib.Client, prefix string) *ValkeyBackend {
	if prefix == "" {
		prefix = DefaultValkeyPrefix
	}
	return &ValkeyBackend{client: client, prefix: prefix}
}

func (v *ValkeyBackend) fullKey(key string) string {
	return v.prefix + key
}

// Name implements cache.Backend.
func (v *ValkeyBackend) Name() string { return "valkey" }

// Get implements cache.Backend.
func (v *ValkeyBackend) Get(ctx context.Context, key string) (string, bool, error) {
	cmd := v.client.B().Get().Key(v.fullKey(key)).Build()
	value, err := v.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkeylib.IsValkeyNil(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get cache entry: %w", err)
	}
	return value, true, nil
}

// Set implements cache.Backend.
func (v *ValkeyBackend) Set(ctx context.Context, key, value string) error {
	cmd := v.client.B().Set().Key(v.fullKey(key)).Value(value).Build()
	if err := v.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set cache entry: %w", err)
	}
	return nil
}

// Remove implements cache.Backend.
func (v *ValkeyBackend) Remove(ctx context.Context, key string) error {
	cmd := v.client.B().Del().Key(v.fullKey(key)).Build()
	if err := v.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// Clear implements cache.Backend.
func (v *ValkeyBackend) Clear(ctx context.Context) error {
	keys, err := v.scan(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	cmd := v.client.B().Del().Key(keys...).Build()
	if err := v.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("clear cache entries: %w", err)
	}
	return nil
}

// Len implements cache.Backend.
func (v *ValkeyBackend) Len(ctx context.Context) (int, error) {
	keys, err := v.scan(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (v *ValkeyBackend) scan(ctx context.Context) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		cmd := v.client.B().Scan().Cursor(cursor).Match(v.prefix + "*").Count(100).Build()
		result, err := v.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, fmt.Errorf("scan cache entries: %w", err)
		}

		keys = append(keys, result.Elements...)
		cursor = result.Cursor
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

// Close closes the client.
func (v *ValkeyBackend) Close() error {
	v.client.Close()
	return nil
}

var _ cache.Backend = (*ValkeyBackend)(nil)
