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

// Package models defines the normalized entities shared by the console's
// feeds, the reconciliation store, and the presentation surfaces. JSON tags
// follow the ring engine's wire format.
package models

import "time"

// NodeStatus is the operational state reported by the engine for a node.
type NodeStatus string

const (
	NodeActive   NodeStatus = "ACTIVE"
	NodeInactive NodeStatus = "INACTIVE"
)

// Direction is the ring edge a message is launched onto at send time.
type Direction string

const (
	DirectionLeft  Direction = "LEFT"
	DirectionRight Direction = "RIGHT"
)

// MessageStatus values are reported by the engine, never computed locally.
type MessageStatus string

const (
	MessageBuffered  MessageStatus = "BUFFERED"
	MessageInTransit MessageStatus = "IN_TRANSIT"
	MessageDelivered MessageStatus = "DELIVERED"
	MessageFailed    MessageStatus = "FAILED"
)

// MaxMessageContentLength bounds message content; enforced locally before
// any request is issued and authoritatively by the engine.
const MaxMessageContentLength = 500

// Node is one member of the ring. Neighbor fields name other nodes by
// identifier; they are references, not ownership.
type Node struct {
	NodeID        string     `json:"nodeId"`
	Status        NodeStatus `json:"status"`
	LeftNeighbor  string     `json:"leftNeighbor"`
	RightNeighbor string     `json:"rightNeighbor"`
	InboxSize     int        `json:"inboxSize"`
}

// Position is a node's derived ring-layout coordinate. Client-side only;
// it never round-trips to the engine.
type Position struct {
	Angle float64
	X     float64
	Y     float64
}

// Message is a directional message travelling the ring. ReceivedAt is set
// only once delivered or archived; Path only on failure or archival.
type Message struct {
	MessageID         string        `json:"messageId"`
	SourceNodeID      string        `json:"sourceNodeId"`
	DestinationNodeID string        `json:"destinationNodeId"`
	Direction         Direction     `json:"direction"`
	Content           string        `json:"content"`
	Status            MessageStatus `json:"status"`
	CreatedAt         time.Time     `json:"timeStampCreated"`
	ReceivedAt        *time.Time    `json:"timeStampReceived,omitempty"`
	Path              string        `json:"path,omitempty"`
}

// MessageHistoryEntry is one row of a message's append-only event log.
// Histories are fetched lazily per message and kept as a separate
// projection; they are never merged into the live Message entity.
type MessageHistoryEntry struct {
	Timestamp time.Time     `json:"timestamp"`
	Status    MessageStatus `json:"status"`
	NodeID    string        `json:"nodeId"`
	Details   string        `json:"details"`
}

// SystemBufferEntry is a message the engine could not route, parked in the
// system-wide failure buffer. Retryable or discardable by an operator.
type SystemBufferEntry struct {
	MessageID    string        `json:"messageId"`
	SenderNode   string        `json:"senderNode"`
	ReceiverNode string        `json:"receiverNode"`
	Direction    Direction     `json:"direction"`
	Content      string        `json:"content"`
	Status       MessageStatus `json:"status"`
	CreatedAt    time.Time     `json:"timeStampCreated"`
	Path         string        `json:"path,omitempty"`
}

// SystemStatistics are read-only aggregate counters, fully replaced on
// every poll.
type SystemStatistics struct {
	TotalNodes        int     `json:"totalNodes"`
	ActiveNodes       int     `json:"activeNodes"`
	MessagesInTransit int     `json:"messagesInTransit"`
	SystemBufferSize  int     `json:"systemBufferSize"`
	TotalMessages     int     `json:"totalMessages"`
	DeliveredMessages int     `json:"deliveredMessages"`
	FailedMessages    int     `json:"failedMessages"`
	AvgDeliveryTimeMs float64 `json:"avgDeliveryTime"`
}

// NodeStatistics describe a single node; identified only by the node they
// describe.
type NodeStatistics struct {
	NodeID              string     `json:"nodeId"`
	Status              NodeStatus `json:"status"`
	MessagesProcessed   int        `json:"messagesProcessed"`
	InboxSize           int        `json:"inboxSize"`
	StoreSize           int        `json:"storeSize"`
	AvgProcessingTimeMs float64    `json:"avgProcessingTime"`
}

// CreateNodeRequest is the body for POST /nodes.
type CreateNodeRequest struct {
	NodeID string     `json:"nodeId"`
	Status NodeStatus `json:"status"`
}

// SendMessageRequest is the body for POST /messages. The engine assigns
// the message ID and decides the initial status.
type SendMessageRequest struct {
	ReceiverNode string    `json:"receiverNode"`
	Content      string    `json:"content"`
	Direction    Direction `json:"direction"`
}
