// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

// Package services adapts fleetcache components to suture.Service.
//
// Each wrapper depends on a small interface instead of the concrete
// component, so the supervisor package does not import the domain
// packages and the wrappers can be tested with fakes:
//
//	HTTPServerService  *http.Server          api layer
//	SessionService     *auth.Session         data layer
//	PollerService      *fleet.Fleet          messaging layer
package services
