// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

// Package logging provides the zerolog-based logger shared by every Fleetcache
// package.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Msg("Server starting")
//	logging.Err(err).Str("entity", "drones").Msg("Fetch failed")
//
//	ctx = logging.ContextWithNewCorrelationID(ctx)
//	logging.Ctx(ctx).Debug().Msg("Poll tick")
//
// Components keep a child logger created with WithComponent so that every
// line carries a "component" field (cache, storage, collection, graphql,
// auth, monitor, api).
//
// The supervisor tree requires an *slog.Logger; NewSlogLogger returns one
// that writes through zerolog.
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event
// is never emitted.
package logging
