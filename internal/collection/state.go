// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package collection

import "fmt"

// State is the lifecycle state of a Collection.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateError
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText lets snapshots carry the state name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name written by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "uninitialized":
		*s = StateUninitialized
	case "loading":
		*s = StateLoading
	case "ready":
		*s = StateReady
	case "error":
		*s = StateError
	default:
		return fmt.Errorf("collection: unknown state %q", text)
	}
	return nil
}

// Event drives a State transition.
type Event int

const (
	// EventLoad starts a read, refetch, refresh or mutation.
	EventLoad Event = iota
	// EventSucceeded completes a load with a value.
	EventSucceeded
	// EventFailed completes a load with an error.
	EventFailed
	// EventReset returns to Uninitialized (organization cleared or changed).
	EventReset
)

// Reduce returns the state that follows s on event e.
func Reduce(s State, e Event) State {
	if e == EventReset {
		return StateUninitialized
	}
	switch s {
	case StateUninitialized, StateReady, StateError:
		if e == EventLoad {
			return StateLoading
		}
	case StateLoading:
		switch e {
		case EventSucceeded:
			return StateReady
		case EventFailed:
			return StateError
		}
	}
	return s
}
