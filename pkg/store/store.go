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

// Package store is the console's single source of truth for engine state.
// Every feed result replaces its section wholesale; readers get copies and
// never observe a partially applied update.
package store

import (
	"sort"
	"sync"

	"github.com/ringnet/console/pkg/layout"
	"github.com/ringnet/console/pkg/models"
)

// Store holds the reconciled view of the network. Zero value is not
// usable; use New.
type Store struct {
	mu         sync.RWMutex
	generation uint64

	nodes     []models.Node
	positions map[string]models.Position

	messages []models.Message
	buffer   []models.SystemBufferEntry
	history  map[string][]models.MessageHistoryEntry

	inboxes    map[string][]models.Message
	nodeStores map[string][]models.Message

	systemStats *models.SystemStatistics
	nodeStats   map[string]*models.NodeStatistics

	users []models.User
}

func New() *Store {
	return &Store{
		positions:  make(map[string]models.Position),
		history:    make(map[string][]models.MessageHistoryEntry),
		inboxes:    make(map[string][]models.Message),
		nodeStores: make(map[string][]models.Message),
		nodeStats:  make(map[string]*models.NodeStatistics),
	}
}

// Generation increments on every applied update. Views compare it to
// decide whether to rebuild derived state.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.generation
}

// ApplyNodes replaces the node roster. Ring positions are recomputed only
// when membership actually changed; status or neighbor churn alone keeps
// the existing geometry.
func (s *Store) ApplyNodes(nodes []models.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := membership(s.nodes)
	s.nodes = append([]models.Node(nil), nodes...)
	after := membership(s.nodes)

	if !sameMembership(before, after) {
		s.positions = layout.Ring(after)
	}

	s.generation++
}

// ApplyMessages replaces the tracked message list.
func (s *Store) ApplyMessages(messages []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = append([]models.Message(nil), messages...)
	s.generation++
}

// ApplyBuffer replaces the system buffer contents.
func (s *Store) ApplyBuffer(entries []models.SystemBufferEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.buffer = append([]models.SystemBufferEntry(nil), entries...)
	s.generation++
}

// ApplyHistory replaces the delivery history for one message.
func (s *Store) ApplyHistory(messageID string, entries []models.MessageHistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[messageID] = append([]models.MessageHistoryEntry(nil), entries...)
	s.generation++
}

// ApplyInbox replaces one node's inbox.
func (s *Store) ApplyInbox(nodeID string, messages []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inboxes[nodeID] = append([]models.Message(nil), messages...)
	s.generation++
}

// ApplyNodeStore replaces one node's delivered-message store.
func (s *Store) ApplyNodeStore(nodeID string, messages []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodeStores[nodeID] = append([]models.Message(nil), messages...)
	s.generation++
}

// ApplySystemStats replaces the system-wide statistics snapshot.
func (s *Store) ApplySystemStats(stats *models.SystemStatistics) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stats == nil {
		s.systemStats = nil
	} else {
		cp := *stats
		s.systemStats = &cp
	}

	s.generation++
}

// ApplyNodeStats replaces one node's statistics snapshot.
func (s *Store) ApplyNodeStats(nodeID string, stats *models.NodeStatistics) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stats == nil {
		delete(s.nodeStats, nodeID)
	} else {
		cp := *stats
		s.nodeStats[nodeID] = &cp
	}

	s.generation++
}

// ApplyUsers replaces the account roster.
func (s *Store) ApplyUsers(users []models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = append([]models.User(nil), users...)
	s.generation++
}

// Reset drops all reconciled state. Called on session teardown so the
// next operator starts from nothing.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = nil
	s.positions = make(map[string]models.Position)
	s.messages = nil
	s.buffer = nil
	s.history = make(map[string][]models.MessageHistoryEntry)
	s.inboxes = make(map[string][]models.Message)
	s.nodeStores = make(map[string][]models.Message)
	s.systemStats = nil
	s.nodeStats = make(map[string]*models.NodeStatistics)
	s.users = nil
	s.generation++
}

// Nodes returns a copy of the node roster.
func (s *Store) Nodes() []models.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.Node(nil), s.nodes...)
}

// Node returns one node by ID.
func (s *Store) Node(nodeID string) (models.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.nodes {
		if s.nodes[i].NodeID == nodeID {
			return s.nodes[i], true
		}
	}

	return models.Node{}, false
}

// Positions returns the current ring geometry, keyed by node ID.
func (s *Store) Positions() map[string]models.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]models.Position, len(s.positions))
	for id, p := range s.positions {
		out[id] = p
	}

	return out
}

// Messages returns a copy of the tracked message list.
func (s *Store) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.Message(nil), s.messages...)
}

// Buffer returns a copy of the system buffer.
func (s *Store) Buffer() []models.SystemBufferEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.SystemBufferEntry(nil), s.buffer...)
}

// History returns the delivery history applied for a message, or nil.
func (s *Store) History(messageID string) []models.MessageHistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.MessageHistoryEntry(nil), s.history[messageID]...)
}

// Inbox returns a copy of one node's inbox.
func (s *Store) Inbox(nodeID string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.Message(nil), s.inboxes[nodeID]...)
}

// NodeStore returns a copy of one node's delivered-message store.
func (s *Store) NodeStore(nodeID string) []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.Message(nil), s.nodeStores[nodeID]...)
}

// SystemStats returns the latest system statistics, or nil before the
// first refresh.
func (s *Store) SystemStats() *models.SystemStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.systemStats == nil {
		return nil
	}

	cp := *s.systemStats
	return &cp
}

// NodeStats returns one node's statistics, or nil.
func (s *Store) NodeStats(nodeID string) *models.NodeStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats, ok := s.nodeStats[nodeID]
	if !ok {
		return nil
	}

	cp := *stats
	return &cp
}

// Users returns a copy of the account roster.
func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.User(nil), s.users...)
}

func membership(nodes []models.Node) []string {
	ids := make([]string, 0, len(nodes))
	for i := range nodes {
		ids = append(ids, nodes[i].NodeID)
	}

	sort.Strings(ids)

	return ids
}

func sameMembership(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
