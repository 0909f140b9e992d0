// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package collection

import (
	"reflect"
	"testing"
)

type item struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Status string            `json:"status,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

func (i item) EntityID() string { return i.ID }

func sampleItems() []item {
	return []item{
		{ID: "a", Name: "Alpha", Status: "PLANNED"},
		{ID: "b", Name: "Bravo", Status: "PLANNED", Tags: map[string]string{"zone": "north"}},
		{ID: "c", Name: "Charlie"},
	}
}

func TestAppend(t *testing.T) {
	t.Parallel()

	in := sampleItems()[:2]
	out := Append(in, item{ID: "z"})
	if len(out) != 3 || out[2].ID != "z" {
		t.Fatalf("Append() = %+v", out)
	}
	if len(in) != 2 {
		t.Errorf("input modified: %+v", in)
	}

	if got := Append[item](nil, item{ID: "x"}); len(got) != 1 {
		t.Errorf("Append(nil) = %+v", got)
	}
}

func TestReplaceByID(t *testing.T) {
	t.Parallel()

	in := sampleItems()
	out := ReplaceByID(in, item{ID: "b", Name: "Bravo 2"})
	if out[1].Name != "Bravo 2" || out[1].Status != "" {
		t.Errorf("ReplaceByID() replaced with %+v", out[1])
	}
	if in[1].Name != "Bravo" {
		t.Errorf("input modified: %+v", in[1])
	}
	if got := ReplaceByID(in, item{ID: "missing"}); !reflect.DeepEqual(got, in) {
		t.Errorf("unknown id changed list: %+v", got)
	}
}

func TestRemoveByID(t *testing.T) {
	t.Parallel()

	in := sampleItems()
	out := RemoveByID(in, "a")
	if len(out) != 2 || out[0].ID != "b" || out[1].ID != "c" {
		t.Errorf("RemoveByID() = %+v", out)
	}
	if len(in) != 3 || in[0].ID != "a" {
		t.Errorf("input modified: %+v", in)
	}
	if got := RemoveByID(in, "missing"); len(got) != 3 {
		t.Errorf("unknown id removed records: %+v", got)
	}
}

func TestMergeByID(t *testing.T) {
	t.Parallel()

	in := sampleItems()
	out, err := MergeByID(in, "b", map[string]any{"status": "IN_PROGRESS"})
	if err != nil {
		t.Fatalf("MergeByID() error = %v", err)
	}
	if out[1].Status != "IN_PROGRESS" || out[1].Name != "Bravo" || out[1].Tags["zone"] != "north" {
		t.Errorf("merged record = %+v", out[1])
	}
	if in[1].Status != "PLANNED" {
		t.Errorf("input modified: %+v", in[1])
	}

	// The merged record must not share maps with the original.
	out[1].Tags["zone"] = "south"
	if in[1].Tags["zone"] != "north" {
		t.Error("merged record aliases the original")
	}

	if _, err := MergeByID(in, "a", map[string]any{"name": 42}); err == nil {
		t.Error("MergeByID() with mistyped patch should fail")
	}
}
