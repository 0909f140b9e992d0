// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultValkeyImage is the official Valkey Docker image
	DefaultValkeyImage = "valkey/valkey:8-alpine"

	// DefaultValkeyPort is the default Valkey port
	DefaultValkeyPort = "6379"
)

// ValkeyContainer represents a running Valkey container for testing.
type ValkeyContainer struct {
	testcontainers.Container
	Address string
}

// ValkeyOption configures the Valkey container.
type ValkeyOption func(*valkeyConfig)

type valkeyConfig struct {
	image        string
	startTimeout time.Duration
}

// WithValkeyImage sets a custom Valkey Docker image.
func WithValkeyImage(image string) ValkeyOption {
	return func(c *valkeyConfig) {
		c.image = image
	}
}

// WithValkeyStartTimeout sets the timeout for waiting for Valkey to start.
func WithValkeyStartTimeout(timeout time.Duration) ValkeyOption {
	return func(c *valkeyConfig) {
		c.startTimeout = timeout
	}
}

// NewValkeyContainer creates and starts a new Valkey container.
func NewValkeyContainer(ctx context.Context, opts ...ValkeyOption) (*ValkeyContainer, error) {
	cfg := &valkeyConfig{
		image:        DefaultValkeyImage,
		startTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultValkeyPort + "/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultValkeyPort+"/tcp"),
			wait.ForLog("Ready to accept connections"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create valkey container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, DefaultValkeyPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &ValkeyContainer{
		Container: container,
		Address:   fmt.Sprintf("%s:%s", host, port.Port()),
	}, nil
}
