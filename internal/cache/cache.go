// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/fleetcache/internal/logging"
	"github.com/tomtom215/fleetcache/internal/metrics"
)

// NoTTL is returned by TimeRemaining for keys absent from the memory tier.
const NoTTL time.Duration = -1

// Defaults applied by NewStore for zero Config fields.
const (
	DefaultTTL            = 5 * time.Minute
	DefaultCapacity       = 100
	DefaultPersistTimeout = 250 * time.Millisecond
)

// Config configures a Store.
type Config struct {
	// DefaultTTL applies to Set and to SetWithTTL calls with ttl <= 0.
	DefaultTTL time.Duration

	// Capacity is the memory tier size above which a Set sweeps expired
	// entries. Live entries are never evicted, so the memory tier may hold
	// more than Capacity live entries.
	Capacity int

	// PersistTimeout bounds every persistent tier call. A backend that does
	// not answer in time is treated as a miss.
	PersistTimeout time.Duration

	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// Stats reports entry counts per tier.
type Stats struct {
	MemoryCount     int `json:"memoryCount"`
	PersistentCount int `json:"persistentCount"`
}

// Counters tracks cache effectiveness since the Store was created.
type Counters struct {
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	Promotions int64 `json:"promotions"`
	Evictions  int64 `json:"evictions"`
}

// Store is a two-tier key-value cache with per-entry TTL.
//
// The memory tier is authoritative for the lifetime of the process. The
// persistent tier (a Backend) survives restarts and is best effort: its
// failures degrade to misses and never reach the caller.
//
// Values are stored as their JSON encoding, so whatever is read back from
// either tier decodes the same way.
//
// Thread Safety: all methods are safe for concurrent use. Persistent tier
// calls are made without holding the memory lock.
type Store struct {
	mu     sync.RWMutex
	memory map[string]Entry

	// Persistent reads in flight and the removals they must not undo. A read
	// that started at seq is stale when its key was removed, or the store
	// cleared, at a later seq.
	seq       uint64
	reads     int
	removed   map[string]uint64
	clearedAt uint64

	backend Backend
	cfg     Config
	now     func() time.Time
	logger  zerolog.Logger

	statsMu  sync.Mutex
	counters Counters
}

// NewStore creates a Store on top of backend. A nil backend yields a
// memory-only store.
//
// Example:
//
//	store := cache.NewStore(badgerBackend, cache.Config{DefaultTTL: 5 * time.Minute})
//	_ = store.Set(ctx, cache.EntityKey("drones", orgID), drones)
func NewStore(backend Backend, cfg Config) *Store {
	if backend == nil {
		backend = NopBackend{}
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = DefaultTTL
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = DefaultPersistTimeout
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		memory:  make(map[string]Entry),
		removed: make(map[string]uint64),
		backend: backend,
		cfg:     cfg,
		now:     now,
		logger:  logging.WithComponent("cache").With().Str("backend", backend.Name()).Logger(),
	}
}

// DefaultTTL returns the TTL applied by Set.
func (s *Store) DefaultTTL() time.Duration {
	return s.cfg.DefaultTTL
}

// Set stores value under key with the default TTL. See SetWithTTL.
func (s *Store) Set(ctx context.Context, key string, value any) error {
	return s.SetWithTTL(ctx, key, value, s.cfg.DefaultTTL)
}

// SetWithTTL stores value in both tiers, stamped with the current time.
//
// Behavior:
//   - ttl <= 0 uses the default TTL
//   - overwrites any previous entry for key in both tiers
//   - persistent tier failures are logged and swallowed
//   - when the memory tier grows past Capacity, expired entries are swept
//     from both tiers
//
// The only error returned is a value that cannot be JSON encoded; in that
// case neither tier is touched.
func (s *Store) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.cfg.DefaultTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode value for %s: %w", key, err)
	}

	now := s.now()
	entry := Entry{Key: key, Data: data, StoredAt: now, TTL: ttl}

	s.mu.Lock()
	s.memory[key] = entry
	var swept []string
	if len(s.memory) > s.cfg.Capacity {
		swept = s.sweepLocked(now)
	}
	size := len(s.memory)
	s.mu.Unlock()

	metrics.CacheEntries.Set(float64(size))
	s.persist(ctx, entry)
	for _, k := range swept {
		s.removePersistent(ctx, k)
	}
	return nil
}

// Get returns the encoded value stored under key.
//
// The memory tier is consulted first. An expired memory entry is deleted on
// the spot. On a memory miss the persistent tier is read: a live entry is
// promoted into memory and returned, an expired or undecodable entry is
// removed from the persistent tier and reported absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	now := s.now()

	s.mu.Lock()
	if entry, ok := s.memory[key]; ok {
		if entry.Live(now) {
			s.mu.Unlock()
			s.recordHit(metrics.TierMemory)
			return entry.Data, true
		}
		delete(s.memory, key)
		s.recordEviction("lazy")
	}
	start := s.beginReadLocked()
	s.mu.Unlock()

	entry, ok := s.loadPersistent(ctx, key, now)

	s.mu.Lock()
	stale := s.endReadLocked(key, start)
	if !ok {
		s.mu.Unlock()
		s.recordMiss()
		return nil, false
	}
	if cur, exists := s.memory[key]; exists && cur.Live(now) {
		// A concurrent Set won the race; its value is newer.
		s.mu.Unlock()
		s.recordHit(metrics.TierMemory)
		return cur.Data, true
	}
	if stale {
		// Delete, Clear or a sweep dropped this key while the persistent
		// tier was read.
		s.mu.Unlock()
		s.recordMiss()
		return nil, false
	}
	s.memory[key] = entry
	size := len(s.memory)
	s.mu.Unlock()

	metrics.CacheEntries.Set(float64(size))
	s.recordHit(metrics.TierPersistent)
	s.recordPromotion()
	return entry.Data, true
}

// Load decodes the value stored under key into dst. It reports false on a
// miss or when the stored encoding does not decode into dst.
func (s *Store) Load(ctx context.Context, key string, dst any) bool {
	data, ok := s.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Debug().Err(err).Str("key", key).Msg("Cached value does not decode into target")
		return false
	}
	return true
}

// Exists reports whether Get would return a value.
func (s *Store) Exists(ctx context.Context, key string) bool {
	_, ok := s.Get(ctx, key)
	return ok
}

// Delete removes key from both tiers unconditionally.
func (s *Store) Delete(ctx context.Context, key string) {
	s.mu.Lock()
	delete(s.memory, key)
	s.markRemovedLocked(key)
	size := len(s.memory)
	s.mu.Unlock()

	metrics.CacheEntries.Set(float64(size))
	s.removePersistent(ctx, key)

	// A read that began between the two steps may still hold the old value.
	s.mu.Lock()
	s.markRemovedLocked(key)
	s.mu.Unlock()
}

// SetTTL replaces the TTL of an in-memory entry and restamps it with the
// current time. It returns false when key is not in the memory tier; the
// persistent tier is neither searched nor updated.
func (s *Store) SetTTL(key string, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.memory[key]
	if !ok {
		return false
	}
	entry.TTL = ttl
	entry.StoredAt = s.now()
	s.memory[key] = entry
	return true
}

// TimeRemaining returns how long the in-memory entry for key stays live,
// clamped to zero, or NoTTL if key is not in the memory tier.
func (s *Store) TimeRemaining(key string) time.Duration {
	s.mu.RLock()
	entry, ok := s.memory[key]
	s.mu.RUnlock()
	if !ok {
		return NoTTL
	}
	return entry.Remaining(s.now())
}

// Peek returns the raw memory tier entry for key without checking expiry
// or touching either tier.
func (s *Store) Peek(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.memory[key]
	return entry, ok
}

// Keys returns the live memory tier keys in sorted order.
func (s *Store) Keys() []string {
	now := s.now()
	s.mu.RLock()
	keys := make([]string, 0, len(s.memory))
	for k, e := range s.memory {
		if e.Live(now) {
			keys = append(keys, k)
		}
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Clear drops every key from both tiers.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	evicted := int64(len(s.memory))
	s.memory = make(map[string]Entry)
	s.markClearedLocked()
	s.mu.Unlock()

	s.statsMu.Lock()
	s.counters.Evictions += evicted
	s.statsMu.Unlock()
	metrics.CacheEntries.Set(0)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.PersistTimeout)
	defer cancel()
	if err := s.backend.Clear(ctx); err != nil {
		s.persistentFailure("clear", "", err)
	}

	s.mu.Lock()
	s.markClearedLocked()
	s.mu.Unlock()
}

// Stats returns the entry count of each tier. An unreadable persistent tier
// reports zero entries.
func (s *Store) Stats(ctx context.Context) Stats {
	s.mu.RLock()
	memoryCount := len(s.memory)
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.PersistTimeout)
	defer cancel()
	persistentCount, err := s.backend.Len(ctx)
	if err != nil {
		s.persistentFailure("len", "", err)
		persistentCount = 0
	}
	return Stats{MemoryCount: memoryCount, PersistentCount: persistentCount}
}

// Counters returns a snapshot of the hit/miss counters.
func (s *Store) Counters() Counters {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.counters
}

// HitRate returns hits / (hits + misses) as a percentage.
func (s *Store) HitRate() float64 {
	c := s.Counters()
	total := c.Hits + c.Misses
	if total == 0 {
		return 0.0
	}
	return float64(c.Hits) / float64(total) * 100.0
}

// sweepLocked removes expired memory entries and returns their keys so the
// caller can drop them from the persistent tier. Must be called with mu held.
func (s *Store) sweepLocked(now time.Time) []string {
	var expired []string
	for k, e := range s.memory {
		if !e.Live(now) {
			expired = append(expired, k)
		}
	}
	for _, k := range expired {
		delete(s.memory, k)
		s.markRemovedLocked(k)
	}
	if len(expired) > 0 {
		s.statsMu.Lock()
		s.counters.Evictions += int64(len(expired))
		s.statsMu.Unlock()
		metrics.CacheEvictions.WithLabelValues("sweep").Add(float64(len(expired)))
	}
	return expired
}

// beginReadLocked registers a persistent read and returns its start seq.
// Must be called with mu held.
func (s *Store) beginReadLocked() uint64 {
	s.reads++
	return s.seq
}

// endReadLocked unregisters a persistent read of key and reports whether key
// was removed or the store cleared since start. Must be called with mu held.
func (s *Store) endReadLocked(key string, start uint64) bool {
	stale := s.clearedAt > start || s.removed[key] > start
	s.reads--
	if s.reads == 0 {
		clear(s.removed)
	}
	return stale
}

// markRemovedLocked records a removal of key for the reads in flight. Must be
// called with mu held.
func (s *Store) markRemovedLocked(key string) {
	if s.reads == 0 {
		return
	}
	s.seq++
	s.removed[key] = s.seq
}

// markClearedLocked records a Clear for the reads in flight. Must be called
// with mu held.
func (s *Store) markClearedLocked() {
	if s.reads == 0 {
		return
	}
	s.seq++
	s.clearedAt = s.seq
}

func (s *Store) persist(ctx context.Context, entry Entry) {
	raw, err := encodeEntry(entry)
	if err != nil {
		s.persistentFailure("encode", entry.Key, err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.PersistTimeout)
	defer cancel()
	if err := s.backend.Set(ctx, entry.Key, raw); err != nil {
		s.persistentFailure("set", entry.Key, err)
	}
}

func (s *Store) loadPersistent(ctx context.Context, key string, now time.Time) (Entry, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.PersistTimeout)
	defer cancel()

	raw, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.persistentFailure("get", key, err)
		return Entry{}, false
	}
	if !ok {
		return Entry{}, false
	}

	entry, err := decodeEntry(raw)
	if err != nil {
		s.persistentFailure("decode", key, err)
		s.removePersistentCtx(ctx, key)
		return Entry{}, false
	}
	if !entry.Live(now) {
		s.recordEviction("lazy")
		s.removePersistentCtx(ctx, key)
		return Entry{}, false
	}
	entry.Key = key
	return entry, true
}

func (s *Store) removePersistent(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.PersistTimeout)
	defer cancel()
	s.removePersistentCtx(ctx, key)
}

func (s *Store) removePersistentCtx(ctx context.Context, key string) {
	if err := s.backend.Remove(ctx, key); err != nil {
		s.persistentFailure("remove", key, err)
	}
}

func (s *Store) persistentFailure(op, key string, err error) {
	metrics.PersistentErrors.WithLabelValues(s.backend.Name(), op).Inc()
	event := s.logger.Warn()
	if op == "get" || op == "len" {
		event = s.logger.Debug()
	}
	event.Err(err).Str("operation", op).Str("key", key).Msg("Persistent tier failure ignored")
}

func (s *Store) recordHit(tier string) {
	s.statsMu.Lock()
	s.counters.Hits++
	s.statsMu.Unlock()
	metrics.CacheHits.WithLabelValues(tier).Inc()
}

func (s *Store) recordMiss() {
	s.statsMu.Lock()
	s.counters.Misses++
	s.statsMu.Unlock()
	metrics.CacheMisses.Inc()
}

func (s *Store) recordPromotion() {
	s.statsMu.Lock()
	s.counters.Promotions++
	s.statsMu.Unlock()
	metrics.CachePromotions.Inc()
}

func (s *Store) recordEviction(reason string) {
	s.statsMu.Lock()
	s.counters.Evictions++
	s.statsMu.Unlock()
	metrics.CacheEvictions.WithLabelValues(reason).Inc()
}
