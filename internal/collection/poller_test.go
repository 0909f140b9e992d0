// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package collection

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestPollerTicksUntilStopped(t *testing.T) {
	t.Parallel()

	var ticks atomic.Int32
	p := newPoller(time.Millisecond, func(context.Context) { ticks.Add(1) }, zerolog.Nop())

	p.start(context.Background())
	p.start(context.Background()) // no-op while running
	if !p.isRunning() {
		t.Fatal("poller not running after start")
	}

	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("ticks = %d, want at least 3", ticks.Load())
		}
		time.Sleep(time.Millisecond)
	}

	p.stop()
	if p.isRunning() {
		t.Error("poller running after stop")
	}
	after := ticks.Load()
	time.Sleep(10 * time.Millisecond)
	if got := ticks.Load(); got != after {
		t.Errorf("ticks after stop = %d, want %d", got, after)
	}

	p.stop() // no-op when stopped
}

func TestPollerStopWaitsForInFlightTick(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{}, 1)
	var finished atomic.Bool
	p := newPoller(time.Millisecond, func(ctx context.Context) {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-ctx.Done()
		time.Sleep(5 * time.Millisecond)
		finished.Store(true)
	}, zerolog.Nop())

	p.start(context.Background())
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("tick never ran")
	}

	p.stop()
	if !finished.Load() {
		t.Error("stop returned before the in-flight tick finished")
	}
}

func TestPollerConcurrentStartStop(t *testing.T) {
	t.Parallel()

	var ticks atomic.Int32
	p := newPoller(time.Millisecond, func(context.Context) { ticks.Add(1) }, zerolog.Nop())

	const workers = 8
	const rounds = 200

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if (i+w)%2 == 0 {
					p.start(context.Background())
				} else {
					p.stop()
				}
			}
		}(w)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("concurrent start/stop deadlocked")
	}

	// Whatever state the workers left, a final start/stop cycle still works.
	p.start(context.Background())
	if !p.isRunning() {
		t.Fatal("poller not running after final start")
	}
	p.stop()
	if p.isRunning() {
		t.Error("poller running after final stop")
	}
}
