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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringnet/console/pkg/client"
	"github.com/ringnet/console/pkg/dispatch"
	"github.com/ringnet/console/pkg/logger"
	"github.com/ringnet/console/pkg/poller"
	"github.com/ringnet/console/pkg/store"
)

func newTestFeedSet(t *testing.T) (*feedSet, *poller.Coordinator) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if strings.Contains(r.URL.Path, "statistics") {
			_, _ = w.Write([]byte("{}"))
			return
		}

		_, _ = w.Write([]byte("[]"))
	}))
	t.Cleanup(srv.Close)

	log := logger.NewTestLogger()
	coord := poller.NewCoordinator(context.Background(), log)
	t.Cleanup(coord.StopAll)

	c := client.New(srv.URL, nil, log)

	return newFeedSet(c, coord, store.New(), FeedIntervals{}, log), coord
}

func TestOpenNodeRegistersOnDemandFeeds(t *testing.T) {
	feeds, coord := newTestFeedSet(t)

	feeds.OpenNode("node-1")

	status := coord.Status()
	for _, name := range []string{
		dispatch.InboxFeed("node-1"),
		dispatch.StoreFeed("node-1"),
		dispatch.NodeStatsFeed("node-1"),
	} {
		s, ok := status[name]
		require.True(t, ok, name)

		// Zero interval: these feeds refresh only when invalidated.
		assert.Equal(t, time.Duration(0), s.Interval, name)
	}
}

func TestCloseNodeDeregistersFeeds(t *testing.T) {
	feeds, coord := newTestFeedSet(t)

	feeds.OpenNode("node-1")
	feeds.CloseNode("node-1")

	assert.Empty(t, coord.Status())
}
