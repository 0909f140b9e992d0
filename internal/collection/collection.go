// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fleetcache/internal/cache"
	"github.com/tomtom215/fleetcache/internal/logging"
	"github.com/tomtom215/fleetcache/internal/metrics"
)

var (
	// ErrNoOrganization is returned by operations issued before an
	// organization is set.
	ErrNoOrganization = errors.New("collection: no organization")

	// ErrStaleOrganization is returned when the organization changed while
	// the operation was in flight. Its result was discarded.
	ErrStaleOrganization = errors.New("collection: organization changed during operation")

	// ErrClosed is returned by operations on a closed collection.
	ErrClosed = errors.New("collection: closed")
)

// Value sources reported in snapshots and fetch metrics.
const (
	SourceCache    = "cache"
	SourceNetwork  = "network"
	SourceFallback = "fallback"
	SourceLocal    = "local"
)

// Notification actions for the non-mutation operations.
const (
	ActionRefetch = "refetch"
	ActionRefresh = "refresh"
)

// FetchFunc loads the collection for one organization from the network.
type FetchFunc[V any] func(ctx context.Context, organizationID string) (V, error)

// ApplyFunc computes the value after a mutation from the current value. It
// must not modify current.
type ApplyFunc[V any] func(current V) (V, error)

// Mutation is one write against the remote API.
type Mutation[V any] struct {
	// Name labels metrics and notifications, e.g. "updateDroneStatus".
	Name string

	// Run performs the remote write and returns how the held value changes.
	// A nil ApplyFunc leaves the value as is.
	Run func(ctx context.Context, organizationID string) (ApplyFunc[V], error)
}

// LocalMutation returns a Mutation that changes the held value without a
// network call.
func LocalMutation[V any](name string, apply ApplyFunc[V]) Mutation[V] {
	return Mutation[V]{
		Name: name,
		Run: func(context.Context, string) (ApplyFunc[V], error) {
			return apply, nil
		},
	}
}

// Config configures a Collection.
type Config[V any] struct {
	// Entity names the collection and prefixes its cache key.
	Entity string

	Store *cache.Store
	Fetch FetchFunc[V]

	// Fallback supplies a value when a read fails and no earlier value is
	// held. Optional.
	Fallback func() V

	// Empty supplies the value held while no organization is set.
	// Optional; the zero V otherwise.
	Empty func() V

	// KeySuffix qualifies the cache key with the query variant currently
	// read, e.g. "?status=COMPLETED". Optional; it must return "" for the
	// unqualified query.
	KeySuffix func() string

	// Invalidates lists entities whose cache entry for the same
	// organization is deleted after every successful mutation.
	Invalidates []string

	// DependentKeys lists every cache key of an Invalidates target for one
	// organization. Optional; EntityKey(target, org) otherwise.
	DependentKeys func(target, organizationID string) []string

	// PollInterval defaults to DefaultPollInterval.
	PollInterval time.Duration

	// TTL of written cache entries; zero uses the store default.
	TTL time.Duration

	// Notifier defaults to LogNotifier.
	Notifier Notifier
}

// Snapshot is a point-in-time view of a Collection.
type Snapshot[V any] struct {
	Entity         string    `json:"entity"`
	OrganizationID string    `json:"organizationId,omitempty"`
	State          State     `json:"state"`
	Value          V         `json:"value"`
	Source         string    `json:"source,omitempty"`
	Err            error     `json:"-"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Loading reports whether a load is in flight.
func (s Snapshot[V]) Loading() bool {
	return s.State == StateLoading
}

// Status is the value-free part of a Snapshot, shared by all collections.
type Status struct {
	Entity         string    `json:"entity"`
	OrganizationID string    `json:"organizationId,omitempty"`
	State          State     `json:"state"`
	Source         string    `json:"source,omitempty"`
	Error          string    `json:"error,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
	Polling        bool      `json:"polling"`
}

// Collection is a cached remote collection for one entity.
//
// Thread Safety: all methods are safe for concurrent use. Network and
// cache calls are made without holding the internal lock.
type Collection[V any] struct {
	cfg    Config[V]
	logger zerolog.Logger
	poller *poller

	mu             sync.Mutex
	org            string
	generation     uint64
	state          State
	value          V
	hasValue       bool
	fingerprint    uint64
	hasFingerprint bool
	source         string
	err            error
	updatedAt      time.Time
	closed         bool

	// pollCtx is the context passed to Start; the poller restarts under it
	// after an organization change.
	pollCtx context.Context
}

// New creates a Collection. It stays Uninitialized until SetOrganization.
func New[V any](cfg Config[V]) *Collection[V] {
	if cfg.Notifier == nil {
		cfg.Notifier = LogNotifier{}
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	c := &Collection[V]{
		cfg:    cfg,
		logger: logging.WithComponent("collection").With().Str("entity", cfg.Entity).Logger(),
	}
	c.value = c.empty()
	c.poller = newPoller(cfg.PollInterval, func(ctx context.Context) { c.Poll(ctx) }, c.logger)
	c.recordState()
	return c
}

// Entity returns the configured entity name.
func (c *Collection[V]) Entity() string {
	return c.cfg.Entity
}

// Key returns the cache key of the current organization, or "" when no
// organization is set.
func (c *Collection[V]) Key() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.org == "" {
		return ""
	}
	return c.keyFor(c.org)
}

func (c *Collection[V]) keyFor(org string) string {
	key := cache.EntityKey(c.cfg.Entity, org)
	if c.cfg.KeySuffix != nil {
		key += c.cfg.KeySuffix()
	}
	return key
}

// Snapshot returns the current state and value.
func (c *Collection[V]) Snapshot() Snapshot[V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Status returns the collection status without its value.
func (c *Collection[V]) Status() Status {
	c.mu.Lock()
	st := Status{
		Entity:         c.cfg.Entity,
		OrganizationID: c.org,
		State:          c.state,
		Source:         c.source,
		UpdatedAt:      c.updatedAt,
	}
	if c.err != nil {
		st.Error = c.err.Error()
	}
	c.mu.Unlock()

	st.Polling = c.poller.isRunning()
	return st
}

// SetOrganization gates the collection on auth. While authLoading is true
// or organizationID is empty the collection is Uninitialized and idle.
// Switching to a new organization discards in-flight work, stops the
// poller, reads the new organization's collection and restarts polling if
// Start was called.
func (c *Collection[V]) SetOrganization(ctx context.Context, organizationID string, authLoading bool) error {
	if authLoading {
		organizationID = ""
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if organizationID == c.org {
		c.mu.Unlock()
		return nil
	}
	previous := c.org
	c.org = organizationID
	c.generation++
	c.resetLocked()
	polling := c.pollCtx != nil
	c.mu.Unlock()

	c.poller.stop()

	if organizationID == "" {
		c.logger.Debug().Str("previous_organization_id", previous).Msg("Organization cleared")
		return nil
	}

	c.logger.Debug().
		Str("organization_id", organizationID).
		Str("previous_organization_id", previous).
		Msg("Organization set")

	_, err := c.Read(ctx)
	if polling {
		c.startPoller()
	}
	if errors.Is(err, ErrStaleOrganization) {
		return nil
	}
	return err
}

// Read returns the collection, from the cache when a live entry exists and
// from the network otherwise. A network result is written through. On
// failure the snapshot is in StateError and still carries the last held
// value, or the fallback when nothing was held.
func (c *Collection[V]) Read(ctx context.Context) (Snapshot[V], error) {
	return c.load(ctx, true)
}

// Refetch reloads the collection from the network, bypassing the cache
// read. Failures are notified.
func (c *Collection[V]) Refetch(ctx context.Context) error {
	_, err := c.load(ctx, false)
	if errors.Is(err, ErrStaleOrganization) {
		return err
	}
	if err != nil {
		c.notify(ctx, ActionRefetch, err)
	}
	return err
}

// RefreshCache reloads the collection on an explicit user request. It
// behaves like Refetch and also notifies success.
func (c *Collection[V]) RefreshCache(ctx context.Context) error {
	_, err := c.load(ctx, false)
	if errors.Is(err, ErrStaleOrganization) {
		return err
	}
	c.notify(ctx, ActionRefresh, err)
	return err
}

func (c *Collection[V]) load(ctx context.Context, useCache bool) (Snapshot[V], error) {
	c.mu.Lock()
	if err := c.usableLocked(); err != nil {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, err
	}
	org, gen := c.org, c.generation
	c.transitionLocked(EventLoad)
	c.mu.Unlock()

	key := c.keyFor(org)

	if useCache {
		var cached V
		if c.cfg.Store.Load(ctx, key, &cached) {
			metrics.RecordFetch(c.cfg.Entity, SourceCache, nil)
			return c.complete(gen, cached, SourceCache)
		}
	}

	v, err := c.cfg.Fetch(ctx, org)
	metrics.RecordFetch(c.cfg.Entity, SourceNetwork, err)
	if err != nil {
		return c.fail(gen, fmt.Errorf("fetch %s: %w", c.cfg.Entity, err))
	}

	snap, err := c.complete(gen, v, SourceNetwork)
	if err != nil {
		return snap, err
	}
	c.writeIfCurrent(ctx, org, key, v)
	return snap, nil
}

func (c *Collection[V]) complete(gen uint64, v V, source string) (Snapshot[V], error) {
	fp, fpErr := cache.Fingerprint(v)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return c.snapshotLocked(), ErrStaleOrganization
	}
	c.setValueLocked(v, fp, fpErr == nil, source)
	c.err = nil
	c.transitionLocked(EventSucceeded)
	return c.snapshotLocked(), nil
}

func (c *Collection[V]) fail(gen uint64, err error) (Snapshot[V], error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return c.snapshotLocked(), ErrStaleOrganization
	}
	c.err = err
	if !c.hasValue && c.cfg.Fallback != nil {
		c.value = c.cfg.Fallback()
		c.source = SourceFallback
		c.hasFingerprint = false
	}
	c.transitionLocked(EventFailed)

	c.logger.Debug().Err(err).Str("organization_id", c.org).Msg("Read failed")
	return c.snapshotLocked(), err
}

// Mutate performs m's remote write, applies the result to the held value
// and writes the new value through. Every Invalidates entry for the
// organization is then deleted from the cache.
//
// The new value is computed from the held value without modifying it and
// swapped in whole. If the write or the apply fails the held value is left
// unchanged.
func (c *Collection[V]) Mutate(ctx context.Context, m Mutation[V]) error {
	c.mu.Lock()
	if err := c.usableLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	org, gen := c.org, c.generation
	previous := c.state
	c.transitionLocked(EventLoad)
	c.mu.Unlock()

	apply, err := m.Run(ctx, org)
	if err != nil {
		return c.mutationFailed(ctx, gen, previous, m.Name, err)
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return ErrStaleOrganization
	}
	next := c.value
	if apply != nil {
		next, err = apply(c.value)
		if err != nil {
			c.mu.Unlock()
			return c.mutationFailed(ctx, gen, previous, m.Name, err)
		}
	}
	fp, fpErr := cache.Fingerprint(next)
	c.setValueLocked(next, fp, fpErr == nil, SourceLocal)
	c.err = nil
	c.transitionLocked(EventSucceeded)
	c.mu.Unlock()

	c.write(ctx, c.keyFor(org), next)
	c.invalidate(ctx, org)

	metrics.RecordMutation(c.cfg.Entity, m.Name, nil)
	c.notifyOrg(ctx, org, m.Name, nil)
	return nil
}

// mutationFailed restores the state held before the mutation started.
// A failed write does not turn a Ready collection into an Error one.
func (c *Collection[V]) mutationFailed(ctx context.Context, gen uint64, previous State, name string, err error) error {
	err = fmt.Errorf("%s %s: %w", c.cfg.Entity, name, err)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return ErrStaleOrganization
	}
	org := c.org
	c.state = previous
	c.recordState()
	c.mu.Unlock()

	metrics.RecordMutation(c.cfg.Entity, name, err)
	c.notifyOrg(ctx, org, name, err)
	return err
}

func (c *Collection[V]) invalidate(ctx context.Context, org string) {
	for _, target := range c.cfg.Invalidates {
		keys := []string{cache.EntityKey(target, org)}
		if c.cfg.DependentKeys != nil {
			keys = c.cfg.DependentKeys(target, org)
		}
		for _, key := range keys {
			c.cfg.Store.Delete(ctx, key)
		}
		metrics.CacheInvalidations.WithLabelValues(c.cfg.Entity, target).Inc()
		c.logger.Debug().Str("target", target).Str("organization_id", org).Msg("Invalidated dependent cache entry")
	}
}

// Poll runs one reconcile tick: it fetches the collection and replaces the
// held value and its cache entry only when the content differs. Errors are
// logged at debug and otherwise ignored. Poll reports whether the value was
// replaced.
func (c *Collection[V]) Poll(ctx context.Context) bool {
	c.mu.Lock()
	if c.usableLocked() != nil {
		c.mu.Unlock()
		return false
	}
	org, gen := c.org, c.generation
	c.mu.Unlock()

	key := c.keyFor(org)
	v, err := c.cfg.Fetch(ctx, org)
	if err != nil {
		c.logger.Debug().Err(err).Str("organization_id", org).Msg("Poll tick failed")
		metrics.PollTicks.WithLabelValues(c.cfg.Entity, "error").Inc()
		return false
	}
	fp, fpErr := cache.Fingerprint(v)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		metrics.PollTicks.WithLabelValues(c.cfg.Entity, "stale").Inc()
		return false
	}
	if fpErr == nil && c.hasValue && c.hasFingerprint && fp == c.fingerprint {
		c.mu.Unlock()
		metrics.PollTicks.WithLabelValues(c.cfg.Entity, "unchanged").Inc()
		return false
	}
	c.setValueLocked(v, fp, fpErr == nil, SourceNetwork)
	c.err = nil
	c.transitionLocked(EventLoad)
	c.transitionLocked(EventSucceeded)
	c.mu.Unlock()

	c.writeIfCurrent(ctx, org, key, v)
	metrics.PollTicks.WithLabelValues(c.cfg.Entity, "changed").Inc()
	c.logger.Debug().Str("organization_id", org).Msg("Poll found changes")
	return true
}

// Start enables background polling. The poller runs while an organization
// is set and is restarted under ctx after each organization change.
// Calling Start again is a no-op.
func (c *Collection[V]) Start(ctx context.Context) {
	c.mu.Lock()
	if c.closed || c.pollCtx != nil {
		c.mu.Unlock()
		return
	}
	c.pollCtx = ctx
	c.mu.Unlock()

	c.startPoller()
}

// Stop disables background polling.
func (c *Collection[V]) Stop() {
	c.mu.Lock()
	c.pollCtx = nil
	c.mu.Unlock()

	c.poller.stop()
}

// Polling reports whether the poller is running.
func (c *Collection[V]) Polling() bool {
	return c.poller.isRunning()
}

// Close stops polling and discards the results of in-flight operations.
func (c *Collection[V]) Close() {
	c.mu.Lock()
	c.closed = true
	c.generation++
	c.pollCtx = nil
	c.mu.Unlock()

	c.poller.stop()
}

func (c *Collection[V]) startPoller() {
	c.mu.Lock()
	ctx := c.pollCtx
	ready := !c.closed && c.org != ""
	c.mu.Unlock()

	if ctx != nil && ready {
		c.poller.start(ctx)
	}
}

// writeIfCurrent writes v under key unless the key variant changed while v
// was fetched; the read that follows such a change writes its own key.
func (c *Collection[V]) writeIfCurrent(ctx context.Context, org, key string, v V) {
	if c.keyFor(org) != key {
		c.logger.Debug().Str("key", key).Msg("Key variant changed during fetch; cache write skipped")
		return
	}
	c.write(ctx, key, v)
}

func (c *Collection[V]) write(ctx context.Context, key string, v V) {
	if err := c.cfg.Store.SetWithTTL(ctx, key, v, c.cfg.TTL); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache collection")
	}
}

func (c *Collection[V]) notify(ctx context.Context, action string, err error) {
	c.mu.Lock()
	org := c.org
	c.mu.Unlock()
	c.notifyOrg(ctx, org, action, err)
}

func (c *Collection[V]) notifyOrg(ctx context.Context, org, action string, err error) {
	c.cfg.Notifier.Notify(ctx, Notification{
		Entity:         c.cfg.Entity,
		OrganizationID: org,
		Action:         action,
		Err:            err,
	})
}

func (c *Collection[V]) usableLocked() error {
	if c.closed {
		return ErrClosed
	}
	if c.org == "" {
		return ErrNoOrganization
	}
	return nil
}

func (c *Collection[V]) resetLocked() {
	c.value = c.empty()
	c.hasValue = false
	c.hasFingerprint = false
	c.fingerprint = 0
	c.source = ""
	c.err = nil
	c.updatedAt = time.Time{}
	c.transitionLocked(EventReset)
}

func (c *Collection[V]) setValueLocked(v V, fp uint64, hasFP bool, source string) {
	c.value = v
	c.hasValue = true
	c.fingerprint = fp
	c.hasFingerprint = hasFP
	c.source = source
	c.updatedAt = time.Now()
}

func (c *Collection[V]) transitionLocked(e Event) {
	c.state = Reduce(c.state, e)
	c.recordState()
}

func (c *Collection[V]) recordState() {
	metrics.EntityState.WithLabelValues(c.cfg.Entity).Set(float64(c.state))
}

func (c *Collection[V]) snapshotLocked() Snapshot[V] {
	return Snapshot[V]{
		Entity:         c.cfg.Entity,
		OrganizationID: c.org,
		State:          c.state,
		Value:          c.value,
		Source:         c.source,
		Err:            c.err,
		UpdatedAt:      c.updatedAt,
	}
}

func (c *Collection[V]) empty() V {
	if c.cfg.Empty != nil {
		return c.cfg.Empty()
	}
	var zero V
	return zero
}
