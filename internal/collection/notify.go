// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package collection

import (
	"context"

	"github.com/tomtom215/fleetcache/internal/logging"
)

// Notification reports the outcome of a user-triggered operation. Err is
// nil on success.
type Notification struct {
	Entity         string
	OrganizationID string
	Action         string
	Err            error
}

// Notifier receives user-facing notifications. Background poll ticks never
// notify.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

// Notify calls f.
func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// LogNotifier writes notifications to the context logger.
type LogNotifier struct{}

// Notify logs successes at info and failures at warn.
func (LogNotifier) Notify(ctx context.Context, n Notification) {
	logger := logging.Ctx(ctx)
	if n.Err != nil {
		logger.Warn().Err(n.Err).
			Str("entity", n.Entity).
			Str("organization_id", n.OrganizationID).
			Str("action", n.Action).
			Msg("Operation failed")
		return
	}
	logger.Info().
		Str("entity", n.Entity).
		Str("organization_id", n.OrganizationID).
		Str("action", n.Action).
		Msg("Operation succeeded")
}
