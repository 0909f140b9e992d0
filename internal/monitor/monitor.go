// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

// Package monitor is the cache admin surface: aggregate statistics and
// refresh or clear actions over the shared store and the entity
// collections.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/fleetcache/internal/cache"
	"github.com/tomtom215/fleetcache/internal/collection"
	"github.com/tomtom215/fleetcache/internal/logging"
)

// ErrUnknownEntity is returned by Refresh for an entity with no collection.
var ErrUnknownEntity = errors.New("monitor: unknown entity")

// Refresher is one entity collection as seen by the monitor.
type Refresher interface {
	Entity() string
	Status() collection.Status
	RefreshCache(ctx context.Context) error
}

// Stats is the aggregate cache view.
type Stats struct {
	TotalKeys       int                 `json:"totalKeys"`
	KeysByType      map[string]int      `json:"keysByType"`
	MemoryCount     int                 `json:"memoryCount"`
	PersistentCount int                 `json:"persistentCount"`
	HitRate         float64             `json:"hitRate"`
	Counters        cache.Counters      `json:"counters"`
	Collections     []collection.Status `json:"collections"`
	LastUpdated     time.Time           `json:"lastUpdated"`
}

// RefreshReport is the outcome of RefreshAll.
type RefreshReport struct {
	Succeeded []string          `json:"succeeded"`
	Failed    map[string]string `json:"failed,omitempty"`
}

// OK reports whether every refresh succeeded.
func (r RefreshReport) OK() bool {
	return len(r.Failed) == 0
}

// Monitor reads and manages the cache.
type Monitor struct {
	store    *cache.Store
	contexts []Refresher
	now      func() time.Time
}

// New creates a Monitor over store and the given collections.
func New(store *cache.Store, contexts ...Refresher) *Monitor {
	return &Monitor{store: store, contexts: contexts, now: time.Now}
}

// Entities returns the entity names in registration order.
func (m *Monitor) Entities() []string {
	out := make([]string, len(m.contexts))
	for i, c := range m.contexts {
		out[i] = c.Entity()
	}
	return out
}

// Stats collects the current statistics.
func (m *Monitor) Stats(ctx context.Context) Stats {
	keys := m.store.Keys()
	byType := make(map[string]int)
	for _, k := range keys {
		byType[cache.KeyType(k)]++
	}

	tiers := m.store.Stats(ctx)
	statuses := make([]collection.Status, len(m.contexts))
	for i, c := range m.contexts {
		statuses[i] = c.Status()
	}

	return Stats{
		TotalKeys:       len(keys),
		KeysByType:      byType,
		MemoryCount:     tiers.MemoryCount,
		PersistentCount: tiers.PersistentCount,
		HitRate:         m.store.HitRate(),
		Counters:        m.store.Counters(),
		Collections:     statuses,
		LastUpdated:     m.now(),
	}
}

// Refresh runs RefreshCache on one collection.
func (m *Monitor) Refresh(ctx context.Context, entity string) error {
	for _, c := range m.contexts {
		if c.Entity() == entity {
			return c.RefreshCache(ctx)
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
}

// RefreshAll refreshes every collection concurrently. A failing collection
// does not cancel the others.
func (m *Monitor) RefreshAll(ctx context.Context) RefreshReport {
	var (
		mu     sync.Mutex
		report = RefreshReport{Failed: make(map[string]string)}
	)

	var g errgroup.Group
	for _, c := range m.contexts {
		g.Go(func() error {
			err := c.RefreshCache(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed[c.Entity()] = err.Error()
				return nil
			}
			report.Succeeded = append(report.Succeeded, c.Entity())
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(report.Succeeded)
	if len(report.Failed) > 0 {
		logging.Ctx(ctx).Warn().Int("failed", len(report.Failed)).Msg("Cache refresh finished with failures")
	} else {
		logging.Ctx(ctx).Info().Int("refreshed", len(report.Succeeded)).Msg("Cache refreshed")
	}
	return report
}

// ClearAll drops every entry from both cache tiers.
func (m *Monitor) ClearAll(ctx context.Context) {
	m.store.Clear(ctx)
	logging.Ctx(ctx).Info().Msg("Cache cleared")
}
