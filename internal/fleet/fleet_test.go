// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package fleet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/fleetcache/internal/cache"
	"github.com/tomtom215/fleetcache/internal/collection"
	"github.com/tomtom215/fleetcache/internal/graphql"
	"github.com/tomtom215/fleetcache/internal/models"
	"github.com/tomtom215/fleetcache/internal/testinfra"
	"github.com/tomtom215/fleetcache/internal/validation"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	srv   *testinfra.MockGraphQLServer
	clock *fakeClock
	store *cache.Store
	fleet *Fleet
}

func sampleMissions(n int) []models.Mission {
	out := make([]models.Mission, n)
	for i := range out {
		out[i] = models.Mission{
			ID:     fmt.Sprintf("m%d", i+1),
			Name:   fmt.Sprintf("Mission %d", i+1),
			Type:   models.MissionTypeInspection,
			Status: models.MissionStatusPlanned,
		}
	}
	return out
}

func sampleDrones() []models.Drone {
	return []models.Drone{
		{ID: "d1", Name: "Falcon", Model: "X4", Status: models.DroneStatusAvailable, BatteryLevel: 90, SensorTypes: []string{"rgb"}},
		{ID: "d2", Name: "Kestrel", Model: "X4", Status: models.DroneStatusCharging, BatteryLevel: 40, SensorTypes: []string{"thermal"}},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		srv:   testinfra.NewMockGraphQLServer(t),
		clock: &fakeClock{t: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)},
	}
	f.srv.HandleData("Missions", map[string]any{"missions": sampleMissions(3)})
	f.srv.HandleData("Drones", map[string]any{"drones": sampleDrones()})
	f.srv.HandleData("Sites", map[string]any{"sites": []models.Site{{ID: "s1", Name: "North Yard", Latitude: 51.5, Longitude: -0.12}}})
	f.srv.HandleData("Users", map[string]any{"users": []models.User{{ID: "u1", Email: "ops@example.com", Role: models.RoleOperator}}})
	f.srv.HandleData("Settings", map[string]any{"settings": models.DefaultSettings()})
	f.srv.HandleData("OrganizationStats", map[string]any{"organizationStats": models.OrganizationStats{TotalMissions: 40, CompletedMissions: 30, TotalFlightHours: 12}})
	f.srv.HandleData("MissionStats", map[string]any{"missionStats": models.MissionStats{
		MissionData: []models.MissionMonth{{Month: "Jan", Completed: 3}},
	}})
	f.srv.HandleData("DroneUtilization", map[string]any{"droneUtilization": models.DroneUtilizationStats{
		DroneUtilizationData: []models.DroneUtilization{{Drone: "Falcon", Utilization: 50}},
	}})

	client := graphql.NewClient(graphql.Options{Endpoint: f.srv.URL(), Token: "t", RetryBaseDelay: time.Millisecond})
	f.store = cache.NewStore(nil, cache.Config{DefaultTTL: 5 * time.Minute, Now: f.clock.Now})
	f.fleet = New(Options{
		Store:    f.store,
		Client:   client,
		Notifier: collection.NotifierFunc(func(context.Context, collection.Notification) {}),
	})
	t.Cleanup(f.fleet.Close)
	return f
}

func (f *fixture) bind(t *testing.T) {
	t.Helper()
	if err := f.fleet.SetOrganization(context.Background(), "org1", false); err != nil {
		t.Fatalf("SetOrganization() error = %v", err)
	}
}

func TestFleet_SetOrganizationLoadsAll(t *testing.T) {
	f := newFixture(t)
	f.bind(t)
	ctx := context.Background()

	for _, c := range f.fleet.Contexts() {
		st := c.Status()
		if st.State != collection.StateReady {
			t.Errorf("%s state = %s, want ready", c.Entity(), st.State)
		}
		if !f.store.Exists(ctx, c.Entity()+":org1") {
			t.Errorf("%s not cached", c.Entity())
		}
	}
	if f.fleet.OrganizationID() != "org1" {
		t.Errorf("OrganizationID() = %q", f.fleet.OrganizationID())
	}
	if c, ok := f.fleet.Context(EntityDrones); !ok || c.Key() != "drones:org1" {
		t.Errorf("Context(drones) = %v, %v", c, ok)
	}
	if _, ok := f.fleet.Context("widgets"); ok {
		t.Error("Context(widgets) should not exist")
	}

	if err := f.fleet.SetOrganization(ctx, "org1", true); err != nil {
		t.Fatal(err)
	}
	for _, c := range f.fleet.Contexts() {
		if c.Status().State != collection.StateUninitialized {
			t.Errorf("%s not reset while auth is loading", c.Entity())
		}
	}
}

func TestFleet_SetOrganizationJoinsErrors(t *testing.T) {
	f := newFixture(t)
	f.srv.Handle("Sites", func(map[string]any) (any, error) { return nil, errors.New("sites unavailable") })

	err := f.fleet.SetOrganization(context.Background(), "org1", false)
	if err == nil {
		t.Fatal("SetOrganization() expected error")
	}
	if f.fleet.Sites.Status().State != collection.StateError {
		t.Errorf("sites state = %s", f.fleet.Sites.Status().State)
	}
	if f.fleet.Drones.Status().State != collection.StateReady {
		t.Errorf("drones state = %s, failures must stay isolated", f.fleet.Drones.Status().State)
	}
}

// A drone mutation removes the missions entry; a refetch restores it with
// a fresh TTL.
func TestScenario_DroneStatusInvalidatesMissions(t *testing.T) {
	f := newFixture(t)
	f.bind(t)
	ctx := context.Background()

	f.srv.HandleData("UpdateDroneStatus", map[string]any{
		"updateDroneStatus": map[string]any{"id": "d1", "status": "MAINTENANCE"},
	})

	if err := f.store.SetWithTTL(ctx, "missions:org1", sampleMissions(5), 5*time.Minute); err != nil {
		t.Fatal(err)
	}
	var got []models.Mission
	if !f.store.Load(ctx, "missions:org1", &got) || len(got) != 5 {
		t.Fatalf("missions:org1 holds %d items, want 5", len(got))
	}

	if err := f.fleet.Drones.UpdateStatus(ctx, "d1", models.DroneStatusMaintenance); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if f.store.Exists(ctx, "missions:org1") {
		t.Fatal("missions:org1 still cached after drone mutation")
	}

	drones := f.fleet.Drones.Snapshot().Value
	if drones[0].Status != models.DroneStatusMaintenance || drones[0].Name != "Falcon" {
		t.Errorf("merged drone = %+v", drones[0])
	}

	f.clock.Advance(time.Minute)
	if err := f.fleet.Missions.Refetch(ctx); err != nil {
		t.Fatalf("Refetch() error = %v", err)
	}
	if !f.store.Exists(ctx, "missions:org1") {
		t.Fatal("missions:org1 not repopulated")
	}
	if rem := f.store.TimeRemaining("missions:org1"); rem != 5*time.Minute {
		t.Errorf("TimeRemaining() = %v, want fresh 5m", rem)
	}
	if n := len(f.fleet.Missions.Snapshot().Value); n != 3 {
		t.Errorf("missions = %d, want 3 from the API", n)
	}
}

func TestInvalidationCascade(t *testing.T) {
	tests := []struct {
		name           string
		setup          func(*testinfra.MockGraphQLServer)
		mutate         func(context.Context, *Fleet) error
		missionsEvicts bool
		dronesEvicts   bool
	}{
		{
			name: "mission mutation",
			setup: func(s *testinfra.MockGraphQLServer) {
				s.HandleData("DeleteMission", map[string]any{"deleteMission": true})
			},
			mutate:       func(ctx context.Context, f *Fleet) error { return f.Missions.Delete(ctx, "m1") },
			dronesEvicts: true,
		},
		{
			name: "drone mutation",
			setup: func(s *testinfra.MockGraphQLServer) {
				s.HandleData("DeleteDrone", map[string]any{"deleteDrone": true})
			},
			mutate:         func(ctx context.Context, f *Fleet) error { return f.Drones.Delete(ctx, "d2") },
			missionsEvicts: true,
		},
		{
			name: "site mutation",
			setup: func(s *testinfra.MockGraphQLServer) {
				s.HandleData("CreateSite", map[string]any{"createSite": models.Site{ID: "s2", Name: "South Yard"}})
			},
			mutate: func(ctx context.Context, f *Fleet) error {
				return f.Sites.Create(ctx, models.CreateSiteInput{Name: "South Yard", Latitude: 10, Longitude: 20})
			},
		},
		{
			name: "user mutation",
			setup: func(s *testinfra.MockGraphQLServer) {
				s.HandleData("DeleteUser", map[string]any{"deleteUser": true})
			},
			mutate: func(ctx context.Context, f *Fleet) error { return f.Users.Delete(ctx, "u1") },
		},
		{
			name:   "settings mutation",
			setup:  func(*testinfra.MockGraphQLServer) {},
			mutate: func(ctx context.Context, f *Fleet) error { return f.Settings.UpdateSetting(ctx, "theme", "dark") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.bind(t)
			tt.setup(f.srv)
			ctx := context.Background()

			if err := tt.mutate(ctx, f.fleet); err != nil {
				t.Fatalf("mutation error = %v", err)
			}
			if got := !f.store.Exists(ctx, "missions:org1"); got != tt.missionsEvicts {
				t.Errorf("missions evicted = %v, want %v", got, tt.missionsEvicts)
			}
			if got := !f.store.Exists(ctx, "drones:org1"); got != tt.dronesEvicts {
				t.Errorf("drones evicted = %v, want %v", got, tt.dronesEvicts)
			}
		})
	}
}

func TestMissions_Mutations(t *testing.T) {
	f := newFixture(t)
	f.bind(t)
	ctx := context.Background()

	f.srv.Handle("CreateMission", func(vars map[string]any) (any, error) {
		input, _ := vars["input"].(map[string]any)
		if input["organizationId"] != "org1" {
			return nil, fmt.Errorf("organizationId = %v", input["organizationId"])
		}
		return map[string]any{"createMission": models.Mission{ID: "m9", Name: input["name"].(string), Status: models.MissionStatusPlanned}}, nil
	})
	f.srv.HandleData("StartMission", map[string]any{
		"startMission": map[string]any{"id": "m2", "status": "IN_PROGRESS", "startedAt": "2026-05-04T09:30:00Z", "progress": 0},
	})
	f.srv.HandleData("UpdateMission", map[string]any{
		"updateMission": models.Mission{ID: "m1", Name: "Renamed", Status: models.MissionStatusPlanned},
	})

	err := f.fleet.Missions.Create(ctx, models.CreateMissionInput{
		Name:          "Roof survey",
		Type:          models.MissionTypeSurvey,
		FlightPattern: models.FlightPatternGrid,
		DroneID:       "d1",
		SiteID:        "s1",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := f.fleet.Missions.StartMission(ctx, "m2"); err != nil {
		t.Fatalf("StartMission() error = %v", err)
	}
	name := "Renamed"
	if err := f.fleet.Missions.Update(ctx, "m1", models.UpdateMissionInput{Name: &name}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	missions := f.fleet.Missions.Snapshot().Value
	if len(missions) != 4 || missions[3].ID != "m9" {
		t.Fatalf("missions = %+v", missions)
	}
	if missions[0].Name != "Renamed" {
		t.Errorf("updated mission = %+v", missions[0])
	}
	started := missions[1]
	if started.Status != models.MissionStatusInProgress || started.StartedAt == nil || started.Name != "Mission 2" {
		t.Errorf("started mission = %+v", started)
	}

	var cached []models.Mission
	if !f.store.Load(ctx, "missions:org1", &cached) || len(cached) != 4 {
		t.Errorf("cached missions = %d, want 4", len(cached))
	}
}

func TestMissions_DeleteNotAcknowledged(t *testing.T) {
	f := newFixture(t)
	f.bind(t)
	f.srv.HandleData("DeleteMission", map[string]any{"deleteMission": false})

	err := f.fleet.Missions.Delete(context.Background(), "m1")
	if !errors.Is(err, ErrNotDeleted) {
		t.Fatalf("Delete() error = %v, want ErrNotDeleted", err)
	}
	if n := len(f.fleet.Missions.Snapshot().Value); n != 3 {
		t.Errorf("missions = %d, want unchanged 3", n)
	}
	if !f.store.Exists(context.Background(), "drones:org1") {
		t.Error("failed mutation invalidated drones")
	}
}

func TestMissions_SetFilter(t *testing.T) {
	f := newFixture(t)
	f.bind(t)
	ctx := context.Background()

	if err := f.fleet.Missions.SetFilter(ctx, models.MissionFilter{Status: "BOGUS"}); !errors.Is(err, validation.ErrValidation) {
		t.Fatalf("SetFilter() error = %v, want ErrValidation", err)
	}

	f.srv.ClearCaptures()
	filter := models.MissionFilter{Status: models.MissionStatusCompleted, TimeRange: "7d"}
	if err := f.fleet.Missions.SetFilter(ctx, filter); err != nil {
		t.Fatalf("SetFilter() error = %v", err)
	}
	caps := f.srv.GetCaptures()
	if len(caps) != 1 {
		t.Fatalf("requests = %d, want 1 refetch", len(caps))
	}
	if caps[0].Variables["status"] != "COMPLETED" || caps[0].Variables["timeRange"] != "7d" {
		t.Errorf("variables = %v", caps[0].Variables)
	}
}

func TestMissions_FilteredReadsDoNotShareKey(t *testing.T) {
	f := newFixture(t)
	f.srv.Handle("Missions", func(vars map[string]any) (any, error) {
		if vars["status"] == string(models.MissionStatusCompleted) {
			return map[string]any{"missions": sampleMissions(1)}, nil
		}
		return map[string]any{"missions": sampleMissions(3)}, nil
	})
	f.srv.HandleData("UpdateDroneStatus", map[string]any{
		"updateDroneStatus": map[string]any{"id": "d1", "status": "MAINTENANCE"},
	})
	ctx := context.Background()

	// A second dashboard reads the same store without a filter.
	client := graphql.NewClient(graphql.Options{Endpoint: f.srv.URL(), Token: "t", RetryBaseDelay: time.Millisecond})
	other := New(Options{
		Store:    f.store,
		Client:   client,
		Notifier: collection.NotifierFunc(func(context.Context, collection.Notification) {}),
	})
	t.Cleanup(other.Close)

	f.bind(t)
	filter := models.MissionFilter{Status: models.MissionStatusCompleted}
	if err := f.fleet.Missions.SetFilter(ctx, filter); err != nil {
		t.Fatalf("SetFilter() error = %v", err)
	}
	if got, want := f.fleet.Missions.Key(), "missions:org1?status=COMPLETED"; got != want {
		t.Errorf("filtered Key() = %q, want %q", got, want)
	}
	if n := len(f.fleet.Missions.Snapshot().Value); n != 1 {
		t.Errorf("filtered missions = %d, want 1", n)
	}

	if err := other.SetOrganization(ctx, "org1", false); err != nil {
		t.Fatalf("SetOrganization() error = %v", err)
	}
	if n := len(other.Missions.Snapshot().Value); n != 3 {
		t.Errorf("unfiltered reader sees %d missions, want 3", n)
	}
	var cached []models.Mission
	if !f.store.Load(ctx, "missions:org1", &cached) || len(cached) != 3 {
		t.Errorf("missions:org1 holds %d missions, want 3", len(cached))
	}
	if !f.store.Load(ctx, "missions:org1?status=COMPLETED", &cached) || len(cached) != 1 {
		t.Errorf("filtered key holds %d missions, want 1", len(cached))
	}

	// Invalidation reaches every filter variant.
	if err := other.Drones.UpdateStatus(ctx, "d1", models.DroneStatusMaintenance); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	for _, key := range []string{"missions:org1", "missions:org1?status=COMPLETED"} {
		if f.store.Exists(ctx, key) {
			t.Errorf("%s still cached after drone mutation", key)
		}
	}
}

func TestMissionKeys(t *testing.T) {
	tests := []struct {
		filter models.MissionFilter
		want   string
	}{
		{models.MissionFilter{}, "missions:org1"},
		{models.MissionFilter{Status: models.MissionStatusPaused}, "missions:org1?status=PAUSED"},
		{models.MissionFilter{TimeRange: "30d"}, "missions:org1?timeRange=30d"},
		{models.MissionFilter{Status: models.MissionStatusFailed, TimeRange: "24h"}, "missions:org1?status=FAILED&timeRange=24h"},
	}

	keys := make(map[string]bool)
	for _, k := range missionKeys("org1") {
		keys[k] = true
	}
	if len(keys) != 35 {
		t.Errorf("missionKeys() = %d distinct keys, want 35", len(keys))
	}

	for _, tt := range tests {
		got := missionKey("org1", tt.filter)
		if got != tt.want {
			t.Errorf("missionKey(%+v) = %q, want %q", tt.filter, got, tt.want)
		}
		if !keys[got] {
			t.Errorf("missionKeys() misses %q", got)
		}
	}
}

func TestValidationBeforeNetwork(t *testing.T) {
	f := newFixture(t)
	f.bind(t)
	ctx := context.Background()
	f.srv.ClearCaptures()

	tests := []struct {
		name string
		call func() error
	}{
		{"mission without drone", func() error {
			return f.fleet.Missions.Create(ctx, models.CreateMissionInput{Name: "x", Type: models.MissionTypeSurvey, FlightPattern: models.FlightPatternGrid, SiteID: "s1"})
		}},
		{"mission blank name", func() error {
			return f.fleet.Missions.Create(ctx, models.CreateMissionInput{Name: "   ", Type: models.MissionTypeSurvey, FlightPattern: models.FlightPatternGrid, DroneID: "d1", SiteID: "s1"})
		}},
		{"drone bad status", func() error { return f.fleet.Drones.UpdateStatus(ctx, "d1", "FLYING") }},
		{"drone missing id", func() error { return f.fleet.Drones.Delete(ctx, "") }},
		{"site bad latitude", func() error {
			return f.fleet.Sites.Create(ctx, models.CreateSiteInput{Name: "x", Latitude: 123, Longitude: 0})
		}},
		{"user bad email", func() error {
			return f.fleet.Users.Create(ctx, models.CreateUserInput{Email: "nope", FirstName: "A", LastName: "B", Role: models.RoleViewer})
		}},
		{"mission transition missing id", func() error { return f.fleet.Missions.AbortMission(ctx, "") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, validation.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", err)
			}
		})
	}
	if n := len(f.srv.GetCaptures()); n != 0 {
		t.Errorf("invalid input reached the API %d times", n)
	}
}

func TestSettings(t *testing.T) {
	f := newFixture(t)
	f.bind(t)
	ctx := context.Background()
	s := f.fleet.Settings

	if err := s.UpdateSetting(ctx, "theme", "dark"); err != nil {
		t.Fatalf("UpdateSetting() error = %v", err)
	}
	if got := s.Snapshot().Value.Theme; got != "dark" {
		t.Errorf("theme = %q", got)
	}
	var cached models.Settings
	if !f.store.Load(ctx, "settings:org1", &cached) || cached.Theme != "dark" {
		t.Errorf("cached theme = %q", cached.Theme)
	}

	if err := s.UpdateSetting(ctx, "wallpaper", "x"); !errors.Is(err, models.ErrUnknownSetting) {
		t.Errorf("UpdateSetting(unknown) error = %v", err)
	}
	if err := s.UpdateSetting(ctx, "units", "furlongs"); !errors.Is(err, validation.ErrValidation) {
		t.Errorf("UpdateSetting(invalid) error = %v", err)
	}
	if got := s.Snapshot().Value.Units; got != "metric" {
		t.Errorf("units = %q after rejected update", got)
	}

	interval := 60
	if err := s.UpdateSettings(ctx, models.SettingsPatch{RefreshInterval: &interval}); err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}
	bad := 1
	if err := s.UpdateSettings(ctx, models.SettingsPatch{RefreshInterval: &bad}); !errors.Is(err, validation.ErrValidation) {
		t.Errorf("UpdateSettings(invalid) error = %v", err)
	}
	if got := s.Snapshot().Value; got.RefreshInterval != 60 || got.Theme != "dark" {
		t.Errorf("settings = %+v", got)
	}

	if err := s.ResetSettings(ctx); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().Value; got != models.DefaultSettings() {
		t.Errorf("after reset settings = %+v", got)
	}
	if f.srv.Count("Settings") != 1 {
		t.Errorf("settings mutations reached the API")
	}
}

func TestSettings_FallbackToDefaults(t *testing.T) {
	f := newFixture(t)
	f.srv.Handle("Settings", func(map[string]any) (any, error) { return nil, errors.New("forbidden") })

	_ = f.fleet.Settings.SetOrganization(context.Background(), "org1", false)
	snap := f.fleet.Settings.Snapshot()
	if snap.State != collection.StateError || snap.Value != models.DefaultSettings() {
		t.Errorf("snapshot = %+v, want error state with defaults", snap)
	}
}

func TestAnalytics(t *testing.T) {
	t.Run("partial result filled from mock", func(t *testing.T) {
		f := newFixture(t)
		f.srv.Handle("DroneUtilization", func(map[string]any) (any, error) { return nil, errors.New("not ready") })
		f.bind(t)

		got := f.fleet.Analytics.Snapshot().Value
		mock := models.MockAnalytics()
		if got.KeyMetrics.TotalMissions != 40 {
			t.Errorf("TotalMissions = %d, want 40", got.KeyMetrics.TotalMissions)
		}
		if len(got.MissionData) != 1 || got.MissionData[0].Month != "Jan" {
			t.Errorf("MissionData = %+v", got.MissionData)
		}
		if len(got.DroneUtilizationData) != len(mock.DroneUtilizationData) {
			t.Errorf("DroneUtilizationData not filled from mock: %+v", got.DroneUtilizationData)
		}

		caps := f.srv.GetCaptures()
		for _, c := range caps {
			if c.OperationName == "MissionStats" && c.Variables["timeRange"] != "30d" {
				t.Errorf("MissionStats timeRange = %v", c.Variables["timeRange"])
			}
		}
	})

	t.Run("all queries fail", func(t *testing.T) {
		f := newFixture(t)
		for _, op := range []string{"OrganizationStats", "MissionStats", "DroneUtilization"} {
			f.srv.Handle(op, func(map[string]any) (any, error) { return nil, errors.New("down") })
		}
		_ = f.fleet.Analytics.SetOrganization(context.Background(), "org1", false)

		snap := f.fleet.Analytics.Snapshot()
		if snap.State != collection.StateError || snap.Source != collection.SourceFallback {
			t.Errorf("state = %s source = %s", snap.State, snap.Source)
		}
		if snap.Value.KeyMetrics != models.MockAnalytics().KeyMetrics {
			t.Errorf("KeyMetrics = %+v, want mock", snap.Value.KeyMetrics)
		}
	})

	t.Run("local update", func(t *testing.T) {
		f := newFixture(t)
		f.bind(t)
		next := models.MockAnalytics()
		next.KeyMetrics.TotalMissions = 1234
		if err := f.fleet.Analytics.UpdateAnalytics(context.Background(), next); err != nil {
			t.Fatal(err)
		}
		if got := f.fleet.Analytics.Snapshot().Value.KeyMetrics.TotalMissions; got != 1234 {
			t.Errorf("TotalMissions = %d", got)
		}
	})
}

func TestOrganizationStats_QueryCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.fleet.OrganizationStats(ctx); !errors.Is(err, collection.ErrNoOrganization) {
		t.Fatalf("OrganizationStats() error = %v, want ErrNoOrganization", err)
	}

	f.bind(t)
	before := f.srv.Count("OrganizationStats")
	for i := 0; i < 3; i++ {
		stats, err := f.fleet.OrganizationStats(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if stats.TotalMissions != 40 {
			t.Errorf("TotalMissions = %d", stats.TotalMissions)
		}
	}
	if got := f.srv.Count("OrganizationStats") - before; got != 1 {
		t.Errorf("OrganizationStats requests = %d, want 1", got)
	}
}
