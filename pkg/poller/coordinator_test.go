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

package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringnet/console/pkg/logger"
)

var errFetchBoom = errors.New("fetch boom")

// fakeClock hands out tickers the test fires by hand.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers map[time.Duration]*fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		now:     time.Unix(1700000000, 0),
		tickers: make(map[time.Duration]*fakeTicker),
	}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Ticker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTicker{ch: make(chan time.Time, 1)}
	c.tickers[d] = t

	return t
}

func (c *fakeClock) tick(d time.Duration) {
	c.mu.Lock()
	t := c.tickers[d]
	c.mu.Unlock()

	if t != nil {
		t.ch <- time.Time{}
	}
}

type fakeTicker struct {
	ch chan time.Time
}

func (t *fakeTicker) Chan() <-chan time.Time { return t.ch }
func (*fakeTicker) Stop()                    {}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("condition not met in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRegisterFetchesImmediately(t *testing.T) {
	clock := newFakeClock()
	c := newCoordinator(context.Background(), clock, logger.NewTestLogger())

	defer c.StopAll()

	var calls atomic.Int32

	err := c.Register("nodes", time.Second, func(_ context.Context) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)

	waitFor(t, func() bool { return calls.Load() == 1 })
}

func TestRegisterDuplicate(t *testing.T) {
	c := newCoordinator(context.Background(), newFakeClock(), logger.NewTestLogger())
	defer c.StopAll()

	noop := func(_ context.Context) error { return nil }

	require.NoError(t, c.Register("nodes", time.Second, noop))
	assert.ErrorIs(t, c.Register("nodes", time.Second, noop), ErrFeedExists)
}

func TestTickTriggersFetch(t *testing.T) {
	clock := newFakeClock()
	c := newCoordinator(context.Background(), clock, logger.NewTestLogger())

	defer c.StopAll()

	var calls atomic.Int32

	require.NoError(t, c.Register("nodes", time.Second, func(_ context.Context) error {
		calls.Add(1)
		return nil
	}))

	waitFor(t, func() bool { return calls.Load() == 1 })

	clock.tick(time.Second)
	waitFor(t, func() bool { return calls.Load() == 2 })
}

func TestKicksDuringFetchAreSkipped(t *testing.T) {
	clock := newFakeClock()
	c := newCoordinator(context.Background(), clock, logger.NewTestLogger())

	defer c.StopAll()

	started := make(chan struct{})
	release := make(chan struct{})

	var calls atomic.Int32

	require.NoError(t, c.Register("messages", 0, func(_ context.Context) error {
		calls.Add(1)
		started <- struct{}{}
		<-release

		return nil
	}))

	<-started

	// These land while the first fetch is still running. Skipped, not
	// queued: no follow-up fetch may run on their behalf.
	c.Invalidate("messages")
	c.Invalidate("messages")
	c.Invalidate("messages")

	release <- struct{}{}

	waitFor(t, func() bool { return !c.Status()["messages"].InFlight })
	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 1, calls.Load())

	// A kick arriving after completion still triggers a fetch.
	c.Invalidate("messages")
	<-started
	release <- struct{}{}

	waitFor(t, func() bool { return calls.Load() == 2 })
	waitFor(t, func() bool { return !c.Status()["messages"].InFlight })

	status := c.Status()["messages"]
	assert.False(t, status.InFlight)
	assert.NoError(t, status.LastError)
}

func TestFeedFailureIsolated(t *testing.T) {
	clock := newFakeClock()
	c := newCoordinator(context.Background(), clock, logger.NewTestLogger())

	defer c.StopAll()

	var good atomic.Int32

	require.NoError(t, c.Register("bad", 0, func(_ context.Context) error {
		return errFetchBoom
	}))
	require.NoError(t, c.Register("good", 0, func(_ context.Context) error {
		good.Add(1)
		return nil
	}))

	waitFor(t, func() bool { return good.Load() == 1 })

	c.Invalidate("good")
	waitFor(t, func() bool { return good.Load() == 2 })

	waitFor(t, func() bool {
		return errors.Is(c.Status()["bad"].LastError, errFetchBoom)
	})
	assert.NoError(t, c.Status()["good"].LastError)
}

func TestErrorClearedOnSuccess(t *testing.T) {
	clock := newFakeClock()
	c := newCoordinator(context.Background(), clock, logger.NewTestLogger())

	defer c.StopAll()

	var fail atomic.Bool

	fail.Store(true)

	require.NoError(t, c.Register("nodes", 0, func(_ context.Context) error {
		if fail.Load() {
			return errFetchBoom
		}

		return nil
	}))

	waitFor(t, func() bool {
		return errors.Is(c.Status()["nodes"].LastError, errFetchBoom)
	})

	fail.Store(false)
	c.Invalidate("nodes")

	waitFor(t, func() bool {
		s := c.Status()["nodes"]
		return s.LastError == nil && !s.LastSuccess.IsZero()
	})
}

func TestInvalidateUnknownFeed(t *testing.T) {
	c := newCoordinator(context.Background(), newFakeClock(), logger.NewTestLogger())
	defer c.StopAll()

	// Must not panic or block.
	c.Invalidate("missing")
}

func TestDeregisterCancelsContext(t *testing.T) {
	clock := newFakeClock()
	c := newCoordinator(context.Background(), clock, logger.NewTestLogger())

	defer c.StopAll()

	started := make(chan struct{})
	canceled := make(chan struct{})

	require.NoError(t, c.Register("inbox:node-1", 0, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		close(canceled)

		return ctx.Err()
	}))

	<-started

	done := make(chan error, 1)

	go func() { done <- c.Deregister("inbox:node-1") }()

	select {
	case <-canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight fetch was not canceled")
	}

	require.NoError(t, <-done)
	assert.ErrorIs(t, c.Deregister("inbox:node-1"), ErrUnknownFeed)
}

func TestStopAllStopsEverything(t *testing.T) {
	clock := newFakeClock()
	c := newCoordinator(context.Background(), clock, logger.NewTestLogger())

	var calls atomic.Int32

	require.NoError(t, c.Register("nodes", time.Second, func(_ context.Context) error {
		calls.Add(1)
		return nil
	}))
	require.NoError(t, c.Register("messages", time.Second, func(_ context.Context) error {
		calls.Add(1)
		return nil
	}))

	waitFor(t, func() bool { return calls.Load() == 2 })

	c.StopAll()

	assert.Empty(t, c.Status())

	before := calls.Load()

	clock.tick(time.Second)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, calls.Load())
}
