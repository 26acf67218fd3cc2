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

	"github.com/ringnet/console/pkg/models"
)

// GetNodes returns the engine's full node list.
func (c *Client) GetNodes(ctx context.Context) ([]models.Node, error) {
	var nodes []models.Node
	if err := c.do(ctx, http.MethodGet, "/nodes", nil, nil, &nodes); err != nil {
		return nil, err
	}

	return nodes, nil
}

// GetNode returns a single node.
func (c *Client) GetNode(ctx context.Context, nodeID string) (*models.Node, error) {
	var node models.Node
	if err := c.do(ctx, http.MethodGet, "/nodes/"+url.PathEscape(nodeID), nil, nil, &node); err != nil {
		return nil, err
	}

	return &node, nil
}

// CreateNode asks the engine to add a node to the ring.
func (c *Client) CreateNode(ctx context.Context, req *models.CreateNodeRequest) (*models.Node, error) {
	var node models.Node
	if err := c.do(ctx, http.MethodPost, "/nodes", nil, req, &node); err != nil {
		return nil, err
	}

	return &node, nil
}

// UpdateNodeNeighbors rewires a node's left/right references.
func (c *Client) UpdateNodeNeighbors(ctx context.Context, nodeID, leftNeighborID, rightNeighborID string) error {
	query := url.Values{
		"leftNeighborId":  {leftNeighborID},
		"rightNeighborId": {rightNeighborID},
	}

	return c.do(ctx, http.MethodPut, "/nodes/"+url.PathEscape(nodeID)+"/neighbors", query, nil, nil)
}

// UpdateNodeStatus sets a node ACTIVE or INACTIVE.
func (c *Client) UpdateNodeStatus(ctx context.Context, nodeID string, status models.NodeStatus) error {
	query := url.Values{"status": {string(status)}}

	return c.do(ctx, http.MethodPut, "/nodes/"+url.PathEscape(nodeID)+"/status", query, nil, nil)
}

// DeleteNode removes a node from the ring.
func (c *Client) DeleteNode(ctx context.Context, nodeID string) error {
	return c.do(ctx, http.MethodDelete, "/nodes/"+url.PathEscape(nodeID), nil, nil, nil)
}

// GetNodeStatistics returns one node's aggregate counters.
func (c *Client) GetNodeStatistics(ctx context.Context, nodeID string) (*models.NodeStatistics, error) {
	var stats models.NodeStatistics
	if err := c.do(ctx, http.MethodGet, "/nodes/"+url.PathEscape(nodeID)+"/statistics", nil, nil, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

// GetSystemStatistics returns the system-wide aggregate counters.
func (c *Client) GetSystemStatistics(ctx context.Context) (*models.SystemStatistics, error) {
	var stats models.SystemStatistics
	if err := c.do(ctx, http.MethodGet, "/system/statistics", nil, nil, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}
