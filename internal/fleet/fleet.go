// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package fleet

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/fleetcache/internal/cache"
	"github.com/tomtom215/fleetcache/internal/collection"
	"github.com/tomtom215/fleetcache/internal/graphql"
	"github.com/tomtom215/fleetcache/internal/logging"
	"github.com/tomtom215/fleetcache/internal/models"
)

// Entity names. They are also the cache key prefixes.
const (
	EntityMissions  = "missions"
	EntityDrones    = "drones"
	EntitySites     = "sites"
	EntityUsers     = "users"
	EntitySettings  = "settings"
	EntityAnalytics = "analytics"
)

// Context is the entity-independent surface of a collection.
type Context interface {
	Entity() string
	Key() string
	Status() collection.Status
	RefreshCache(ctx context.Context) error
	SetOrganization(ctx context.Context, organizationID string, authLoading bool) error
	Start(ctx context.Context)
	Stop()
	Close()
}

// Options configures a Fleet.
type Options struct {
	Store  *cache.Store
	Client graphql.Doer

	// PollInterval and TTL apply to every collection; zero uses the
	// collection and store defaults.
	PollInterval time.Duration
	TTL          time.Duration

	// MissionFilter is the initial missions query filter.
	MissionFilter models.MissionFilter

	Notifier collection.Notifier
}

// Fleet owns the six collections.
type Fleet struct {
	Missions  *Missions
	Drones    *Drones
	Sites     *Sites
	Users     *Users
	Settings  *Settings
	Analytics *Analytics

	store  *cache.Store
	client graphql.Doer

	mu  sync.RWMutex
	org string
}

// New creates the collections. They stay idle until SetOrganization.
func New(opts Options) *Fleet {
	base := baseConfig{
		store:        opts.Store,
		pollInterval: opts.PollInterval,
		ttl:          opts.TTL,
		notifier:     opts.Notifier,
	}
	return &Fleet{
		Missions:  newMissions(opts.Client, base, opts.MissionFilter),
		Drones:    newDrones(opts.Client, base),
		Sites:     newSites(opts.Client, base),
		Users:     newUsers(opts.Client, base),
		Settings:  newSettings(opts.Client, base),
		Analytics: newAnalytics(opts.Client, base),
		store:     opts.Store,
		client:    opts.Client,
	}
}

// Contexts returns the collections in a fixed order.
func (f *Fleet) Contexts() []Context {
	return []Context{f.Missions, f.Drones, f.Sites, f.Users, f.Settings, f.Analytics}
}

// Context returns the collection for entity.
func (f *Fleet) Context(entity string) (Context, bool) {
	for _, c := range f.Contexts() {
		if c.Entity() == entity {
			return c, true
		}
	}
	return nil, false
}

// OrganizationID returns the organization the collections are bound to.
func (f *Fleet) OrganizationID() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.org
}

// SetOrganization passes the auth state to every collection concurrently.
// Read failures of individual collections are joined; each collection keeps
// its own error state.
func (f *Fleet) SetOrganization(ctx context.Context, organizationID string, authLoading bool) error {
	f.mu.Lock()
	if authLoading {
		f.org = ""
	} else {
		f.org = organizationID
	}
	f.mu.Unlock()

	contexts := f.Contexts()
	errs := make([]error, len(contexts))

	var g errgroup.Group
	for i, c := range contexts {
		g.Go(func() error {
			errs[i] = c.SetOrganization(ctx, organizationID, authLoading)
			return nil
		})
	}
	_ = g.Wait()

	err := errors.Join(errs...)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("organization_id", organizationID).Msg("Some collections failed to load")
	}
	return err
}

// Start enables polling on every collection.
func (f *Fleet) Start(ctx context.Context) {
	for _, c := range f.Contexts() {
		c.Start(ctx)
	}
}

// Stop disables polling on every collection.
func (f *Fleet) Stop() {
	for _, c := range f.Contexts() {
		c.Stop()
	}
}

// Close stops every collection and discards in-flight results.
func (f *Fleet) Close() {
	for _, c := range f.Contexts() {
		c.Close()
	}
}

// OrganizationStats returns the organization stats query result through
// the query cache, keyed by query text and variables.
func (f *Fleet) OrganizationStats(ctx context.Context) (models.OrganizationStats, error) {
	org := f.OrganizationID()
	if org == "" {
		return models.OrganizationStats{}, collection.ErrNoOrganization
	}
	res, err := graphql.CachedQuery[organizationStatsResult](ctx, f.client, f.store, graphql.OrganizationStats,
		map[string]any{"organizationId": org}, 0)
	if err != nil {
		return models.OrganizationStats{}, err
	}
	return res.OrganizationStats, nil
}

type organizationStatsResult struct {
	OrganizationStats models.OrganizationStats `json:"organizationStats"`
}

// baseConfig carries the options shared by all collections.
type baseConfig struct {
	store        *cache.Store
	pollInterval time.Duration
	ttl          time.Duration
	notifier     collection.Notifier
}

func configFor[V any](b baseConfig, entity string, fetch collection.FetchFunc[V], invalidates ...string) collection.Config[V] {
	return collection.Config[V]{
		Entity:        entity,
		Store:         b.store,
		Fetch:         fetch,
		Invalidates:   invalidates,
		DependentKeys: dependentKeys,
		PollInterval:  b.pollInterval,
		TTL:           b.ttl,
		Notifier:      b.notifier,
	}
}

// dependentKeys lists the cache keys an invalidation of target deletes.
// Missions are cached per filter, so every filter variant goes.
func dependentKeys(target, org string) []string {
	if target == EntityMissions {
		return missionKeys(org)
	}
	return []string{cache.EntityKey(target, org)}
}

func orgVars(org string) map[string]any {
	return map[string]any{"organizationId": org}
}
