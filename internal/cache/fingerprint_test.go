// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package cache

import "testing"

type droneRow struct {
	ID      string  `json:"id"`
	Status  string  `json:"status"`
	Battery float64 `json:"batteryLevel"`
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := []droneRow{{"d1", "AVAILABLE", 80}, {"d2", "CHARGING", 40}}
	b := []droneRow{{"d1", "AVAILABLE", 80}, {"d2", "CHARGING", 40}}
	changed := []droneRow{{"d1", "IN_MISSION", 80}, {"d2", "CHARGING", 40}}
	reordered := []droneRow{{"d2", "CHARGING", 40}, {"d1", "AVAILABLE", 80}}

	fa, err := Fingerprint(a)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	fb, _ := Fingerprint(b)
	fc, _ := Fingerprint(changed)
	fr, _ := Fingerprint(reordered)

	if fa != fb {
		t.Error("structurally equal collections should share a fingerprint")
	}
	if fa == fc {
		t.Error("a changed field should change the fingerprint")
	}
	if fa == fr {
		t.Error("collection order is part of the content")
	}
}

func TestFingerprintError(t *testing.T) {
	t.Parallel()

	if _, err := Fingerprint(make(chan int)); err == nil {
		t.Error("expected an error for an unencodable value")
	}
}
