/*
 * Copyright 2026 RingNet Operations.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package poller schedules the console's data feeds. Each feed owns one
// fetch function and at most one in-flight request; ticks that land while
// a fetch is still running are skipped, never queued.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/ringnet/console/pkg/logger"
)

// FetchFunc performs one refresh of a feed. It fetches from the engine and
// applies the result to the store before returning.
type FetchFunc func(ctx context.Context) error

// FeedStatus is a point-in-time snapshot of a feed's health.
type FeedStatus struct {
	Name        string
	Interval    time.Duration
	InFlight    bool
	LastAttempt time.Time
	LastSuccess time.Time
	LastError   error
}

type feed struct {
	name     string
	interval time.Duration
	fetch    FetchFunc
	cancel   context.CancelFunc
	kick     chan struct{}
	done     chan struct{}

	mu          sync.Mutex
	inFlight    bool
	lastAttempt time.Time
	lastSuccess time.Time
	lastError   error
}

// Coordinator runs the registered feeds. Feeds are independent: one feed
// failing or running long never delays another.
type Coordinator struct {
	mu     sync.Mutex
	feeds  map[string]*feed
	clock  Clock
	logger logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewCoordinator creates a Coordinator whose feeds all stop when ctx is
// canceled.
func NewCoordinator(ctx context.Context, log logger.Logger) *Coordinator {
	return newCoordinator(ctx, systemClock{}, log)
}

func newCoordinator(ctx context.Context, clock Clock, log logger.Logger) *Coordinator {
	cctx, cancel := context.WithCancel(ctx)

	return &Coordinator{
		feeds:  make(map[string]*feed),
		clock:  clock,
		logger: log,
		ctx:    cctx,
		cancel: cancel,
	}
}

// Register adds a feed and starts its loop. An interval of zero means
// on-demand only: the feed fetches when kicked via Invalidate, never on a
// timer. Every feed performs one immediate fetch on registration.
func (c *Coordinator) Register(name string, interval time.Duration, fetch FetchFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.feeds[name]; ok {
		return ErrFeedExists
	}

	fctx, cancel := context.WithCancel(c.ctx)
	f := &feed{
		name:     name,
		interval: interval,
		fetch:    fetch,
		cancel:   cancel,
		kick:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	c.feeds[name] = f

	go c.run(fctx, f)

	return nil
}

// Deregister stops a feed and removes it. A fetch already in flight is
// canceled through its context; its result is discarded.
func (c *Coordinator) Deregister(name string) error {
	c.mu.Lock()
	f, ok := c.feeds[name]
	if ok {
		delete(c.feeds, name)
	}
	c.mu.Unlock()

	if !ok {
		return ErrUnknownFeed
	}

	f.cancel()
	<-f.done

	return nil
}

// Invalidate requests an immediate refresh of the named feeds. Unknown
// names are ignored; a feed already mid-fetch absorbs the kick into its
// next cycle rather than stacking requests.
func (c *Coordinator) Invalidate(names ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, name := range names {
		f, ok := c.feeds[name]
		if !ok {
			continue
		}

		select {
		case f.kick <- struct{}{}:
		default:
		}
	}
}

// StopAll stops every feed. Used on session teardown: no feed may issue a
// request once the session is gone.
func (c *Coordinator) StopAll() {
	c.mu.Lock()
	feeds := make([]*feed, 0, len(c.feeds))

	for name, f := range c.feeds {
		feeds = append(feeds, f)
		delete(c.feeds, name)
	}
	c.mu.Unlock()

	for _, f := range feeds {
		f.cancel()
		<-f.done
	}
}

// Status reports every registered feed's health, keyed by name.
func (c *Coordinator) Status() map[string]FeedStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]FeedStatus, len(c.feeds))
	for name, f := range c.feeds {
		out[name] = f.status()
	}

	return out
}

func (c *Coordinator) run(ctx context.Context, f *feed) {
	defer close(f.done)

	var tickCh <-chan time.Time

	if f.interval > 0 {
		ticker := c.clock.Ticker(f.interval)
		defer ticker.Stop()

		tickCh = ticker.Chan()
	}

	c.execute(ctx, f)
	f.drainPending(tickCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-tickCh:
		case <-f.kick:
		}

		c.execute(ctx, f)
		f.drainPending(tickCh)
	}
}

// drainPending drops a tick or kick that landed while a fetch was
// running. Refreshes are skipped, not queued.
func (f *feed) drainPending(tickCh <-chan time.Time) {
	select {
	case <-f.kick:
	default:
	}

	select {
	case <-tickCh:
	default:
	}
}

// execute runs one fetch cycle unless the previous one is still going.
func (c *Coordinator) execute(ctx context.Context, f *feed) {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		c.logger.Debug().Str("feed", f.name).Msg("Skipping refresh, previous fetch still in flight")

		return
	}

	f.inFlight = true
	f.lastAttempt = c.clock.Now()
	f.mu.Unlock()

	err := f.fetch(ctx)

	f.mu.Lock()
	f.inFlight = false

	if err != nil {
		f.lastError = err
	} else {
		f.lastError = nil
		f.lastSuccess = c.clock.Now()
	}
	f.mu.Unlock()

	if err != nil && ctx.Err() == nil {
		c.logger.Warn().Err(err).Str("feed", f.name).Msg("Feed refresh failed")
	}
}

func (f *feed) status() FeedStatus {
	f.mu.Lock()
	defer f.mu.Unlock()

	return FeedStatus{
		Name:        f.name,
		Interval:    f.interval,
		InFlight:    f.inFlight,
		LastAttempt: f.lastAttempt,
		LastSuccess: f.lastSuccess,
		LastError:   f.lastError,
	}
}
