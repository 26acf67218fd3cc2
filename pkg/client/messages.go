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

package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ringnet/console/pkg/models"
)

// GetMessages returns every message the engine is tracking.
func (c *Client) GetMessages(ctx context.Context) ([]models.Message, error) {
	var messages []models.Message
	if err := c.do(ctx, http.MethodGet, "/messages", nil, nil, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

// SendMessage launches a message onto the ring. The engine assigns the ID
// and decides whether it starts IN_TRANSIT or BUFFERED.
func (c *Client) SendMessage(ctx context.Context, req *models.SendMessageRequest) (*models.Message, error) {
	var msg models.Message
	if err := c.do(ctx, http.MethodPost, "/messages", nil, req, &msg); err != nil {
		return nil, err
	}

	return &msg, nil
}

// GetMessage returns a single message.
func (c *Client) GetMessage(ctx context.Context, messageID string) (*models.Message, error) {
	var msg models.Message
	if err := c.do(ctx, http.MethodGet, "/messages/"+url.PathEscape(messageID), nil, nil, &msg); err != nil {
		return nil, err
	}

	return &msg, nil
}

// GetMessageHistory returns a message's append-only event log.
func (c *Client) GetMessageHistory(ctx context.Context, messageID string) ([]models.MessageHistoryEntry, error) {
	var history []models.MessageHistoryEntry
	if err := c.do(ctx, http.MethodGet, "/messages/"+url.PathEscape(messageID)+"/history", nil, nil, &history); err != nil {
		return nil, err
	}

	return history, nil
}

// RetryMessage re-submits a failed message to the engine.
func (c *Client) RetryMessage(ctx context.Context, messageID string) error {
	return c.do(ctx, http.MethodPost, "/messages/"+url.PathEscape(messageID)+"/retry", nil, nil, nil)
}

// GetInbox lists a node's pending inbox.
func (c *Client) GetInbox(ctx context.Context, nodeID string) ([]models.Message, error) {
	var messages []models.Message
	if err := c.do(ctx, http.MethodGet, "/messages/"+url.PathEscape(nodeID)+"/inbox", nil, nil, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

// GetInboxMessage returns one message from a node's inbox.
func (c *Client) GetInboxMessage(ctx context.Context, nodeID, messageID string) (*models.Message, error) {
	var msg models.Message

	path := "/messages/" + url.PathEscape(nodeID) + "/inbox/" + url.PathEscape(messageID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &msg); err != nil {
		return nil, err
	}

	return &msg, nil
}

// StoreInboxMessage files a message into a node's inbox.
func (c *Client) StoreInboxMessage(ctx context.Context, nodeID, messageID string) error {
	path := "/messages/" + url.PathEscape(nodeID) + "/inbox/" + url.PathEscape(messageID)

	return c.do(ctx, http.MethodPost, path, nil, nil, nil)
}

// GetNodeStore lists a node's archive of processed messages.
func (c *Client) GetNodeStore(ctx context.Context, nodeID string) ([]models.Message, error) {
	var messages []models.Message
	if err := c.do(ctx, http.MethodGet, "/messages/"+url.PathEscape(nodeID)+"/store", nil, nil, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

// GetStoreMessage returns one archived message from a node's store.
func (c *Client) GetStoreMessage(ctx context.Context, nodeID, messageID string) (*models.Message, error) {
	var msg models.Message

	path := "/messages/" + url.PathEscape(nodeID) + "/store/" + url.PathEscape(messageID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &msg); err != nil {
		return nil, err
	}

	return &msg, nil
}

// StoreMessage archives a message into a node's store.
func (c *Client) StoreMessage(ctx context.Context, nodeID, messageID string) error {
	path := "/messages/" + url.PathEscape(nodeID) + "/store/" + url.PathEscape(messageID)

	return c.do(ctx, http.MethodPost, path, nil, nil, nil)
}

// DeleteStoreMessage removes an archived message from a node's store.
func (c *Client) DeleteStoreMessage(ctx context.Context, nodeID, messageID string) error {
	path := "/messages/" + url.PathEscape(nodeID) + "/store/" + url.PathEscape(messageID)

	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// GetSystemBuffer lists every message parked in the system failure buffer.
func (c *Client) GetSystemBuffer(ctx context.Context) ([]models.SystemBufferEntry, error) {
	var entries []models.SystemBufferEntry
	if err := c.do(ctx, http.MethodGet, "/messages/system-buffer", nil, nil, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// GetSystemBufferEntry returns one buffered message.
func (c *Client) GetSystemBufferEntry(ctx context.Context, messageID string) (*models.SystemBufferEntry, error) {
	var entry models.SystemBufferEntry
	if err := c.do(ctx, http.MethodGet, "/messages/system-buffer/"+url.PathEscape(messageID), nil, nil, &entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

// StoreSystemBufferEntry parks a message in the system buffer.
func (c *Client) StoreSystemBufferEntry(ctx context.Context, messageID string, bufferSize int, nodeID string, status models.MessageStatus) error {
	query := url.Values{
		"bufferSize": {strconv.Itoa(bufferSize)},
		"nodeId":     {nodeID},
		"status":     {string(status)},
	}

	return c.do(ctx, http.MethodPost, "/messages/system-buffer/"+url.PathEscape(messageID), query, nil, nil)
}

// UpdateSystemBufferStatus changes a buffered message's status.
func (c *Client) UpdateSystemBufferStatus(ctx context.Context, messageID string, newStatus models.MessageStatus) error {
	query := url.Values{"newStatus": {string(newStatus)}}

	return c.do(ctx, http.MethodPut, "/messages/system-buffer/"+url.PathEscape(messageID)+"/status", query, nil, nil)
}

// DeleteSystemBufferEntry discards a buffered message.
func (c *Client) DeleteSystemBufferEntry(ctx context.Context, messageID string) error {
	return c.do(ctx, http.MethodDelete, "/messages/system-buffer/"+url.PathEscape(messageID), nil, nil, nil)
}
