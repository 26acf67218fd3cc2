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

package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringnet/console/pkg/models"
)

func testNodes(ids ...string) []models.Node {
	nodes := make([]models.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, models.Node{NodeID: id, Status: models.NodeActive})
	}

	return nodes
}

func TestApplyNodesReplacesWholesale(t *testing.T) {
	s := New()

	s.ApplyNodes(testNodes("a", "b", "c"))
	require.Len(t, s.Nodes(), 3)

	// A node the engine stopped reporting disappears; nothing merges.
	s.ApplyNodes(testNodes("a", "c"))

	nodes := s.Nodes()
	require.Len(t, nodes, 2)
	assert.Equal(t, "a", nodes[0].NodeID)
	assert.Equal(t, "c", nodes[1].NodeID)
}

func TestApplyNodesRecomputesLayoutOnMembershipChange(t *testing.T) {
	s := New()

	s.ApplyNodes(testNodes("a", "b"))
	before := s.Positions()
	require.Len(t, before, 2)

	s.ApplyNodes(testNodes("a", "b", "c"))
	after := s.Positions()
	require.Len(t, after, 3)
	assert.NotEqual(t, before["b"], after["b"])
}

func TestApplyNodesKeepsLayoutOnStatusChange(t *testing.T) {
	s := New()

	s.ApplyNodes(testNodes("a", "b", "c"))
	before := s.Positions()

	// Same membership, different status and neighbors: geometry stays.
	changed := testNodes("a", "b", "c")
	changed[1].Status = models.NodeInactive
	changed[1].LeftNeighbor = "a"
	s.ApplyNodes(changed)

	assert.Equal(t, before, s.Positions())
}

func TestApplyNodesLayoutIgnoresRosterOrder(t *testing.T) {
	s := New()

	s.ApplyNodes(testNodes("a", "b", "c"))
	before := s.Positions()

	s.ApplyNodes(testNodes("c", "a", "b"))

	assert.Equal(t, before, s.Positions())
}

func TestGenerationAdvances(t *testing.T) {
	s := New()

	gen := s.Generation()

	s.ApplyMessages(nil)
	assert.Greater(t, s.Generation(), gen)

	gen = s.Generation()

	s.ApplySystemStats(&models.SystemStatistics{TotalNodes: 1})
	assert.Greater(t, s.Generation(), gen)
}

func TestReadersGetCopies(t *testing.T) {
	s := New()

	s.ApplyNodes(testNodes("a"))

	nodes := s.Nodes()
	nodes[0].NodeID = "mutated"

	assert.Equal(t, "a", s.Nodes()[0].NodeID)

	s.ApplySystemStats(&models.SystemStatistics{TotalNodes: 3})

	stats := s.SystemStats()
	stats.TotalNodes = 99

	assert.Equal(t, 3, s.SystemStats().TotalNodes)
}

func TestPerNodeProjections(t *testing.T) {
	s := New()

	inbox := []models.Message{{MessageID: "m1", SourceNodeID: "b"}}
	stored := []models.Message{{MessageID: "m2"}, {MessageID: "m3"}}

	s.ApplyInbox("a", inbox)
	s.ApplyNodeStore("a", stored)

	assert.Len(t, s.Inbox("a"), 1)
	assert.Len(t, s.NodeStore("a"), 2)
	assert.Empty(t, s.Inbox("b"))

	// Full replace, not append.
	s.ApplyInbox("a", nil)
	assert.Empty(t, s.Inbox("a"))
}

func TestHistoryKeptPerMessage(t *testing.T) {
	s := New()

	now := time.Now()
	s.ApplyHistory("m1", []models.MessageHistoryEntry{
		{Timestamp: now, Status: models.MessageInTransit, NodeID: "a"},
		{Timestamp: now, Status: models.MessageDelivered, NodeID: "b"},
	})

	require.Len(t, s.History("m1"), 2)
	assert.Empty(t, s.History("m2"))
}

func TestNodeByID(t *testing.T) {
	s := New()

	s.ApplyNodes(testNodes("a", "b"))

	node, ok := s.Node("b")
	require.True(t, ok)
	assert.Equal(t, "b", node.NodeID)

	_, ok = s.Node("z")
	assert.False(t, ok)
}

func TestResetDropsEverything(t *testing.T) {
	s := New()

	s.ApplyNodes(testNodes("a"))
	s.ApplyMessages([]models.Message{{MessageID: "m1"}})
	s.ApplyBuffer([]models.SystemBufferEntry{{MessageID: "m1"}})
	s.ApplyUsers([]models.User{{Username: "root"}})
	s.ApplySystemStats(&models.SystemStatistics{TotalNodes: 1})
	s.ApplyNodeStats("a", &models.NodeStatistics{NodeID: "a"})

	gen := s.Generation()

	s.Reset()

	assert.Empty(t, s.Nodes())
	assert.Empty(t, s.Positions())
	assert.Empty(t, s.Messages())
	assert.Empty(t, s.Buffer())
	assert.Empty(t, s.Users())
	assert.Nil(t, s.SystemStats())
	assert.Nil(t, s.NodeStats("a"))
	assert.Greater(t, s.Generation(), gen)
}

func TestConcurrentApplyAndRead(t *testing.T) {
	s := New()

	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()

			for j := 0; j < 100; j++ {
				s.ApplyNodes(testNodes("a", "b", "c"))
				s.ApplyMessages([]models.Message{{MessageID: "m"}})
			}
		}()

		go func() {
			defer wg.Done()

			for j := 0; j < 100; j++ {
				_ = s.Nodes()
				_ = s.Messages()
				_ = s.Positions()
				_ = s.Generation()
			}
		}()
	}

	wg.Wait()

	assert.Len(t, s.Nodes(), 3)
}
