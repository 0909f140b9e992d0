// Fleetcache - Drone Fleet Dashboard Cache Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetcache

package collection

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultPollInterval is used when Config.PollInterval is zero.
const DefaultPollInterval = 5 * time.Minute

// poller calls tick on a fixed interval until stopped. It does not tick on
// start: the owning collection has just read when it starts polling.
type poller struct {
	interval time.Duration
	tick     func(context.Context)
	logger   zerolog.Logger

	// Each run owns its cancel and done so that a stop waiting on one run
	// never races a start of the next.
	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func newPoller(interval time.Duration, tick func(context.Context), logger zerolog.Logger) *poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &poller{interval: interval, tick: tick, logger: logger}
}

// start begins the loop. Calling start on a running poller is a no-op.
func (p *poller) start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.running = true
	p.cancel = cancel
	p.done = done

	p.logger.Debug().Dur("interval", p.interval).Msg("Starting poller")

	go p.loop(loopCtx, done)
}

// stop cancels the loop, including an in-flight tick, and waits for it.
func (p *poller) stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	cancel()
	<-done
	p.logger.Debug().Msg("Poller stopped")
}

func (p *poller) isRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *poller) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}
