// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

/*
Package models defines the fleet records held by the entity caches and the
inputs accepted by their mutations.

Record Types:

  - Mission: a planned or running flight, with waypoints and references to
    its drone, site and crew
  - Drone: an aircraft with telemetry snapshot and capabilities
  - Site: a named location missions fly over
  - User: an organization member with a role
  - Settings: per-organization dashboard preferences
  - Analytics: aggregated charts and key metrics for the dashboard

Every list record implements Identifiable so the collection helpers can
append, replace, merge and remove records by id.

Inputs:

Create and update inputs carry validate tags checked by internal/validation
before any network call. Update inputs use pointer fields so that only the
fields a caller sets are sent.

Defaults:

DefaultSettings and MockAnalytics return fresh values on every call; the
caller may modify the result freely.

API Envelope:

APIResponse, APIError and Metadata form the JSON envelope written by the
admin HTTP API.
*/
package models
