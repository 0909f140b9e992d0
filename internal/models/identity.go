// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package models

// Identifiable is implemented by every record stored in a list collection.
type Identifiable interface {
	EntityID() string
}
