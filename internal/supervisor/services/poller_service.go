// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package services

import "context"

// Pollers is satisfied by *fleet.Fleet.
type Pollers interface {
	Start(ctx context.Context)
	Stop()
}

// PollerService enables background polling for as long as it is served.
// Pollers are stopped when the supervisor stops the service.
type PollerService struct {
	pollers Pollers
}

// NewPollerService wraps pollers.
func NewPollerService(pollers Pollers) *PollerService {
	return &PollerService{pollers: pollers}
}

// Serve implements suture.Service.
func (p *PollerService) Serve(ctx context.Context) error {
	p.pollers.Start(ctx)
	defer p.pollers.Stop()

	<-ctx.Done()
	return ctx.Err()
}

func (p *PollerService) String() string {
	return "fleet-pollers"
}
