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

package console

import (
	"context"
	"time"

	"github.com/ringnet/console/pkg/client"
	"github.com/ringnet/console/pkg/dispatch"
	"github.com/ringnet/console/pkg/logger"
	"github.com/ringnet/console/pkg/poller"
	"github.com/ringnet/console/pkg/store"
)

// feedSet binds the HTTP client, the coordinator and the store into the
// named feeds the UI works with. Base feeds live for the whole session;
// per-node feeds follow the view that needs them.
type feedSet struct {
	client      *client.Client
	coordinator *poller.Coordinator
	store       *store.Store
	intervals   FeedIntervals
	logger      logger.Logger
}

func newFeedSet(c *client.Client, coord *poller.Coordinator, st *store.Store, intervals FeedIntervals, log logger.Logger) *feedSet {
	return &feedSet{
		client:      c,
		coordinator: coord,
		store:       st,
		intervals:   intervals,
		logger:      log,
	}
}

// Start registers the base feeds. The user roster is on-demand: it
// refreshes once now and then only when a user mutation invalidates it.
func (f *feedSet) Start() {
	f.register(dispatch.FeedNodes, time.Duration(f.intervals.Nodes), f.fetchNodes)
	f.register(dispatch.FeedMessages, time.Duration(f.intervals.Messages), f.fetchMessages)
	f.register(dispatch.FeedBuffer, time.Duration(f.intervals.Buffer), f.fetchBuffer)
	f.register(dispatch.FeedStats, time.Duration(f.intervals.Stats), f.fetchSystemStats)
	f.register(dispatch.FeedUsers, 0, f.fetchUsers)
}

func (f *feedSet) register(name string, interval time.Duration, fetch poller.FetchFunc) {
	if err := f.coordinator.Register(name, interval, fetch); err != nil {
		f.logger.Warn().Err(err).Str("feed", name).Msg("Feed registration skipped")
	}
}

// OpenNode starts the per-node feeds backing the node detail view. They
// are on-demand: one fetch on registration, then only when an operator
// refresh or a mutation invalidates them.
func (f *feedSet) OpenNode(nodeID string) {
	f.register(dispatch.InboxFeed(nodeID), 0, func(ctx context.Context) error {
		return f.fetchInbox(ctx, nodeID)
	})
	f.register(dispatch.StoreFeed(nodeID), 0, func(ctx context.Context) error {
		return f.fetchNodeStore(ctx, nodeID)
	})
	f.register(dispatch.NodeStatsFeed(nodeID), 0, func(ctx context.Context) error {
		return f.fetchNodeStats(ctx, nodeID)
	})
}

// CloseNode stops the per-node feeds again.
func (f *feedSet) CloseNode(nodeID string) {
	for _, name := range []string{dispatch.InboxFeed(nodeID), dispatch.StoreFeed(nodeID), dispatch.NodeStatsFeed(nodeID)} {
		if err := f.coordinator.Deregister(name); err != nil {
			f.logger.Debug().Err(err).Str("feed", name).Msg("Feed deregistration skipped")
		}
	}
}

// Invalidate passes a refresh request through to the coordinator.
func (f *feedSet) Invalidate(names ...string) {
	f.coordinator.Invalidate(names...)
}

// RefreshHistory is a one-shot fetch: histories are pulled lazily per
// message and never polled.
func (f *feedSet) RefreshHistory(ctx context.Context, messageID string) error {
	entries, err := f.client.GetMessageHistory(ctx, messageID)
	if err != nil {
		return err
	}

	f.store.ApplyHistory(messageID, entries)

	return nil
}

func (f *feedSet) fetchNodes(ctx context.Context) error {
	nodes, err := f.client.GetNodes(ctx)
	if err != nil {
		return err
	}

	f.store.ApplyNodes(nodes)

	return nil
}

func (f *feedSet) fetchMessages(ctx context.Context) error {
	messages, err := f.client.GetMessages(ctx)
	if err != nil {
		return err
	}

	f.store.ApplyMessages(messages)

	return nil
}

func (f *feedSet) fetchBuffer(ctx context.Context) error {
	entries, err := f.client.GetSystemBuffer(ctx)
	if err != nil {
		return err
	}

	f.store.ApplyBuffer(entries)

	return nil
}

func (f *feedSet) fetchSystemStats(ctx context.Context) error {
	stats, err := f.client.GetSystemStatistics(ctx)
	if err != nil {
		return err
	}

	f.store.ApplySystemStats(stats)

	return nil
}

func (f *feedSet) fetchUsers(ctx context.Context) error {
	users, err := f.client.GetUsers(ctx)
	if err != nil {
		return err
	}

	f.store.ApplyUsers(users)

	return nil
}

func (f *feedSet) fetchInbox(ctx context.Context, nodeID string) error {
	messages, err := f.client.GetInbox(ctx, nodeID)
	if err != nil {
		return err
	}

	f.store.ApplyInbox(nodeID, messages)

	return nil
}

func (f *feedSet) fetchNodeStore(ctx context.Context, nodeID string) error {
	messages, err := f.client.GetNodeStore(ctx, nodeID)
	if err != nil {
		return err
	}

	f.store.ApplyNodeStore(nodeID, messages)

	return nil
}

func (f *feedSet) fetchNodeStats(ctx context.Context, nodeID string) error {
	stats, err := f.client.GetNodeStatistics(ctx, nodeID)
	if err != nil {
		return err
	}

	f.store.ApplyNodeStats(nodeID, stats)

	return nil
}
