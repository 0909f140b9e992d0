// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
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

// spyBackend is an in-memory Backend that counts calls.
type spyBackend struct {
	mu      sync.Mutex
	data    map[string]string
	gets    int
	sets    int
	removes int
}

func newSpyBackend() *spyBackend {
	return &spyBackend{data: make(map[string]string)}
}

func (b *spyBackend) Name() string { return "spy" }

func (b *spyBackend) Get(_ context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.gets++
	v, ok := b.data[key]
	return v, ok, nil
}

func (b *spyBackend) Set(_ context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sets++
	b.data[key] = value
	return nil
}

func (b *spyBackend) Remove(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removes++
	delete(b.data, key)
	return nil
}

func (b *spyBackend) Clear(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = make(map[string]string)
	return nil
}

func (b *spyBackend) Len(context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data), nil
}

func (b *spyBackend) getCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.gets
}

func (b *spyBackend) has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.data[key]
	return ok
}

func (b *spyBackend) put(key, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
}

// failingBackend fails every call.
type failingBackend struct{}

var errBackendDown = errors.New("backend down")

func (failingBackend) Name() string { return "failing" }
func (failingBackend) Get(context.Context, string) (string, bool, error) {
	return "", false, errBackendDown
}
func (failingBackend) Set(context.Context, string, string) error { return errBackendDown }
func (failingBackend) Remove(context.Context, string) error      { return errBackendDown }
func (failingBackend) Clear(context.Context) error               { return errBackendDown }
func (failingBackend) Len(context.Context) (int, error)          { return 0, errBackendDown }

// blockingBackend reads a key, then parks the Get until release is closed, so
// the caller sees the value as it was before any concurrent write.
type blockingBackend struct {
	*spyBackend
	key     string
	entered chan struct{}
	release chan struct{}
}

func newBlockingBackend(key string) *blockingBackend {
	return &blockingBackend{
		spyBackend: newSpyBackend(),
		key:        key,
		entered:    make(chan struct{}, 1),
		release:    make(chan struct{}),
	}
}

func (b *blockingBackend) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := b.spyBackend.Get(ctx, key)
	if key == b.key {
		select {
		case b.entered <- struct{}{}:
		default:
		}
		<-b.release
	}
	return v, ok, err
}

func newTestStore(backend Backend, clock *fakeClock) *Store {
	return NewStore(backend, Config{DefaultTTL: 5 * time.Minute, Now: clock.Now})
}

func loadString(t *testing.T, s *Store, key string) (string, bool) {
	t.Helper()
	var v string
	ok := s.Load(context.Background(), key, &v)
	return v, ok
}

func TestStoreSetGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		prior func(s *Store, clock *fakeClock)
	}{
		{"absent key", func(*Store, *fakeClock) {}},
		{"existing live key", func(s *Store, _ *fakeClock) {
			_ = s.Set(context.Background(), "k", "old")
		}},
		{"existing expired key", func(s *Store, clock *fakeClock) {
			_ = s.SetWithTTL(context.Background(), "k", "old", time.Second)
			clock.Advance(2 * time.Second)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			clock := newFakeClock()
			s := newTestStore(newSpyBackend(), clock)
			tt.prior(s, clock)

			if err := s.SetWithTTL(context.Background(), "k", "new", time.Minute); err != nil {
				t.Fatalf("SetWithTTL: %v", err)
			}
			got, ok := loadString(t, s, "k")
			if !ok || got != "new" {
				t.Fatalf("Get after Set = (%q, %v), want (\"new\", true)", got, ok)
			}
		})
	}
}

func TestStoreExpiration(t *testing.T) {
	t.Parallel()

	s := NewStore(nil, Config{})
	ctx := context.Background()
	if err := s.SetWithTTL(ctx, "A", "value", 100*time.Millisecond); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}

	if !s.Exists(ctx, "A") {
		t.Fatal("expected A to exist immediately after Set")
	}

	time.Sleep(150 * time.Millisecond)

	if _, ok := s.Get(ctx, "A"); ok {
		t.Error("expected A to be absent after its TTL elapsed")
	}
	if _, ok := s.Peek("A"); ok {
		t.Error("expected expired entry to be removed from memory on access")
	}
}

func TestStoreLiveBoundary(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	s := newTestStore(nil, clock)
	ctx := context.Background()
	_ = s.SetWithTTL(ctx, "k", 1, 100*time.Millisecond)

	clock.Advance(100*time.Millisecond - time.Nanosecond)
	if !s.Exists(ctx, "k") {
		t.Fatal("entry should be live just before ttl")
	}

	clock.Advance(time.Nanosecond)
	if s.Exists(ctx, "k") {
		t.Fatal("entry should be absent once now - storedAt == ttl")
	}
}

func TestStoreTierPromotion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	backend := newSpyBackend()

	// A previous process wrote the entry.
	writer := newTestStore(backend, clock)
	if err := writer.Set(ctx, "drones:org1", []string{"d1", "d2"}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reader := newTestStore(backend, clock)
	clock.Advance(time.Minute)

	var first []string
	if !reader.Load(ctx, "drones:org1", &first) || len(first) != 2 {
		t.Fatalf("expected promotion from persistent tier, got %v", first)
	}
	if backend.getCount() != 1 {
		t.Fatalf("persistent Get calls = %d, want 1", backend.getCount())
	}

	var second []string
	if !reader.Load(ctx, "drones:org1", &second) || len(second) != 2 {
		t.Fatalf("expected memory hit, got %v", second)
	}
	if backend.getCount() != 1 {
		t.Errorf("second Get touched the persistent tier: %d calls", backend.getCount())
	}

	if c := reader.Counters(); c.Promotions != 1 || c.Hits != 2 {
		t.Errorf("counters = %+v, want 1 promotion and 2 hits", c)
	}

	// The promoted entry keeps its original timestamp.
	if rem := reader.TimeRemaining("drones:org1"); rem != 4*time.Minute {
		t.Errorf("TimeRemaining after promotion = %v, want 4m", rem)
	}
}

func TestStorePromotionDuringConcurrentWrites(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		during   func(ctx context.Context, s *Store)
		wantHit  bool
		wantSize int
	}{
		{
			name:     "set of another key",
			during:   func(ctx context.Context, s *Store) { _ = s.Set(ctx, "sites:org1", "s") },
			wantHit:  true,
			wantSize: 2,
		},
		{
			name:     "delete of another key",
			during:   func(ctx context.Context, s *Store) { s.Delete(ctx, "sites:org1") },
			wantHit:  true,
			wantSize: 1,
		},
		{
			name:     "delete of the same key",
			during:   func(ctx context.Context, s *Store) { s.Delete(ctx, "drones:org1") },
			wantHit:  false,
			wantSize: 0,
		},
		{
			name:     "clear",
			during:   func(ctx context.Context, s *Store) { s.Clear(ctx) },
			wantHit:  false,
			wantSize: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			clock := newFakeClock()
			backend := newBlockingBackend("drones:org1")

			// Seed the persistent tier only.
			writer := newTestStore(backend.spyBackend, clock)
			if err := writer.Set(ctx, "drones:org1", "d1"); err != nil {
				t.Fatalf("Set: %v", err)
			}
			s := newTestStore(backend, clock)

			type result struct {
				data []byte
				ok   bool
			}
			done := make(chan result, 1)
			go func() {
				data, ok := s.Get(ctx, "drones:org1")
				done <- result{data, ok}
			}()

			select {
			case <-backend.entered:
			case <-time.After(2 * time.Second):
				t.Fatal("Get never reached the persistent tier")
			}
			tt.during(ctx, s)
			close(backend.release)

			var res result
			select {
			case res = <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("Get did not return")
			}

			if res.ok != tt.wantHit {
				t.Fatalf("Get ok = %v, want %v", res.ok, tt.wantHit)
			}
			if tt.wantHit && string(res.data) != `"d1"` {
				t.Errorf("Get data = %s, want \"d1\"", res.data)
			}
			if got := len(s.Keys()); got != tt.wantSize {
				t.Errorf("memory keys = %d, want %d", got, tt.wantSize)
			}
			if c := s.Counters(); tt.wantHit && c.Promotions != 1 {
				t.Errorf("promotions = %d, want 1", c.Promotions)
			}
		})
	}
}

func TestStoreExpiredPersistentEntryRemoved(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	backend := newSpyBackend()

	writer := newTestStore(backend, clock)
	_ = writer.SetWithTTL(ctx, "sites:org1", "x", time.Second)

	reader := newTestStore(backend, clock)
	clock.Advance(2 * time.Second)

	if reader.Exists(ctx, "sites:org1") {
		t.Fatal("expired persistent entry should be absent")
	}
	if backend.has("sites:org1") {
		t.Error("expired persistent entry should be removed from the backend")
	}
}

func TestStoreCorruptPersistentEntry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := newSpyBackend()
	backend.put("users:org1", "{not json")

	s := newTestStore(backend, newFakeClock())
	if _, ok := s.Get(ctx, "users:org1"); ok {
		t.Fatal("corrupt persistent entry should be treated as absent")
	}
	if backend.has("users:org1") {
		t.Error("corrupt persistent entry should be removed")
	}
}

func TestStoreFailingBackend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	s := newTestStore(failingBackend{}, clock)

	if err := s.SetWithTTL(ctx, "missions:org1", "v", time.Minute); err != nil {
		t.Fatalf("Set must not surface backend errors: %v", err)
	}
	if got, ok := loadString(t, s, "missions:org1"); !ok || got != "v" {
		t.Fatalf("memory tier should still serve the value, got (%q, %v)", got, ok)
	}
	if !s.SetTTL("missions:org1", 2*time.Minute) {
		t.Error("SetTTL should succeed on the memory tier")
	}

	clock.Advance(3 * time.Minute)
	if s.Exists(ctx, "missions:org1") {
		t.Error("TTL semantics must hold with a failing backend")
	}
	if s.Exists(ctx, "never-set") {
		t.Error("unknown key should be absent")
	}

	s.Delete(ctx, "missions:org1")
	s.Clear(ctx)
	if st := s.Stats(ctx); st.PersistentCount != 0 {
		t.Errorf("PersistentCount with failing backend = %d, want 0", st.PersistentCount)
	}
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := newSpyBackend()
	s := newTestStore(backend, newFakeClock())
	_ = s.Set(ctx, "drones:org1", "v")

	s.Delete(ctx, "drones:org1")

	if s.Exists(ctx, "drones:org1") {
		t.Error("deleted key should be absent")
	}
	if backend.has("drones:org1") {
		t.Error("delete should remove the persistent entry")
	}

	// Deleting an unknown key is a no-op.
	s.Delete(ctx, "missing")
}

func TestStoreSetTTLAndTimeRemaining(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	s := newTestStore(newSpyBackend(), clock)

	if s.SetTTL("absent", time.Minute) {
		t.Error("SetTTL on absent key should return false")
	}
	if rem := s.TimeRemaining("absent"); rem != NoTTL {
		t.Errorf("TimeRemaining(absent) = %v, want NoTTL", rem)
	}

	_ = s.SetWithTTL(ctx, "k", "v", time.Minute)
	clock.Advance(40 * time.Second)
	if rem := s.TimeRemaining("k"); rem != 20*time.Second {
		t.Errorf("TimeRemaining = %v, want 20s", rem)
	}

	if !s.SetTTL("k", time.Minute) {
		t.Fatal("SetTTL on present key should return true")
	}
	if rem := s.TimeRemaining("k"); rem != time.Minute {
		t.Errorf("SetTTL should reset the timestamp, remaining = %v", rem)
	}

	clock.Advance(2 * time.Minute)
	if rem := s.TimeRemaining("k"); rem != 0 {
		t.Errorf("TimeRemaining past expiry = %v, want 0", rem)
	}
}

func TestStoreSetTTLIgnoresPersistentTier(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	backend := newSpyBackend()
	_ = newTestStore(backend, clock).Set(ctx, "k", "v")

	s := newTestStore(backend, clock)
	if s.SetTTL("k", time.Hour) {
		t.Error("SetTTL must not search the persistent tier")
	}
}

func TestStoreSweep(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	backend := newSpyBackend()
	s := NewStore(backend, Config{Capacity: 3, Now: clock.Now})

	for i := 0; i < 3; i++ {
		_ = s.SetWithTTL(ctx, fmt.Sprintf("short:%d", i), i, time.Second)
	}
	clock.Advance(2 * time.Second)
	_ = s.SetWithTTL(ctx, "long:0", 0, time.Hour)

	// The fourth entry pushes the memory tier past capacity.
	if st := s.Stats(ctx); st.MemoryCount != 1 {
		t.Fatalf("MemoryCount after sweep = %d, want 1", st.MemoryCount)
	}
	if _, ok := s.Peek("short:0"); ok {
		t.Error("expired entries should be swept once capacity is exceeded")
	}
	if backend.has("short:1") {
		t.Error("swept entries should be removed from the persistent tier")
	}
	if _, ok := s.Peek("long:0"); !ok {
		t.Error("live entry must survive the sweep")
	}
}

func TestStoreSweepKeepsLiveEntriesBeyondCapacity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(nil, Config{Capacity: 2, Now: newFakeClock().Now})
	for i := 0; i < 5; i++ {
		_ = s.Set(ctx, fmt.Sprintf("k%d", i), i)
	}
	if st := s.Stats(ctx); st.MemoryCount != 5 {
		t.Errorf("live entries must not be evicted, MemoryCount = %d", st.MemoryCount)
	}
}

func TestStoreClearAndStats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := newSpyBackend()
	s := newTestStore(backend, newFakeClock())
	_ = s.Set(ctx, "missions:org1", 1)
	_ = s.Set(ctx, "drones:org1", 2)

	if st := s.Stats(ctx); st.MemoryCount != 2 || st.PersistentCount != 2 {
		t.Fatalf("Stats = %+v, want 2/2", st)
	}

	s.Clear(ctx)

	if st := s.Stats(ctx); st.MemoryCount != 0 || st.PersistentCount != 0 {
		t.Errorf("Stats after Clear = %+v, want 0/0", st)
	}
	if s.Exists(ctx, "missions:org1") {
		t.Error("Clear should drop every key")
	}
}

func TestStoreKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := newFakeClock()
	s := newTestStore(nil, clock)
	_ = s.Set(ctx, "users:org1", 1)
	_ = s.Set(ctx, "drones:org1", 1)
	_ = s.SetWithTTL(ctx, "sites:org1", 1, time.Second)
	clock.Advance(2 * time.Second)

	keys := s.Keys()
	if len(keys) != 2 || keys[0] != "drones:org1" || keys[1] != "users:org1" {
		t.Errorf("Keys() = %v, want sorted live keys", keys)
	}
}

func TestStoreHitRate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(nil, newFakeClock())
	if s.HitRate() != 0 {
		t.Errorf("HitRate with no operations = %v", s.HitRate())
	}

	_ = s.Set(ctx, "k", 1)
	s.Get(ctx, "k")
	s.Get(ctx, "k")
	s.Get(ctx, "k")
	s.Get(ctx, "missing")

	if rate := s.HitRate(); rate != 75 {
		t.Errorf("HitRate = %v, want 75", rate)
	}
}

func TestStoreUnencodableValue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := newSpyBackend()
	s := newTestStore(backend, newFakeClock())

	if err := s.Set(ctx, "bad", make(chan int)); err == nil {
		t.Fatal("expected encode error")
	}
	if _, ok := s.Peek("bad"); ok || backend.has("bad") {
		t.Error("failed Set must not touch either tier")
	}
}

func TestStoreLoadTypeMismatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(nil, newFakeClock())
	_ = s.Set(ctx, "k", "text")

	var n int
	if s.Load(ctx, "k", &n) {
		t.Error("Load into the wrong type should report a miss")
	}
}

func TestStoreConcurrency(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore(newSpyBackend(), Config{Capacity: 10})

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", i%20)
				switch i % 4 {
				case 0:
					_ = s.Set(ctx, key, g)
				case 1:
					s.Get(ctx, key)
				case 2:
					s.Delete(ctx, key)
				default:
					s.TimeRemaining(key)
					s.Keys()
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestRemember(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := newTestStore(nil, newFakeClock())
	calls := 0
	fetch := func(context.Context) ([]int, error) {
		calls++
		return []int{1, 2, 3}, nil
	}

	for i := 0; i < 3; i++ {
		v, err := Remember(ctx, s, "gql:a:b", time.Minute, fetch)
		if err != nil || len(v) != 3 {
			t.Fatalf("Remember = (%v, %v)", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}

	_, err := Remember(ctx, s, "gql:c:d", time.Minute, func(context.Context) (int, error) {
		return 0, errBackendDown
	})
	if !errors.Is(err, errBackendDown) {
		t.Errorf("expected fetch error, got %v", err)
	}
	if s.Exists(ctx, "gql:c:d") {
		t.Error("failed fetch must not be cached")
	}
}
