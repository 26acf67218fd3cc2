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

// Package dispatch turns operator actions into engine calls. Every action
// is a single request with local validation up front and targeted feed
// invalidation after success; nothing is applied optimistically and
// nothing is retried automatically.
package dispatch

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ringnet/console/pkg/logger"
	"github.com/ringnet/console/pkg/models"
)

// Engine is the slice of the HTTP client the dispatcher drives.
type Engine interface {
	CreateNode(ctx context.Context, req *models.CreateNodeRequest) (*models.Node, error)
	DeleteNode(ctx context.Context, nodeID string) error
	UpdateNodeStatus(ctx context.Context, nodeID string, status models.NodeStatus) error
	UpdateNodeNeighbors(ctx context.Context, nodeID, leftID, rightID string) error

	SendMessage(ctx context.Context, req *models.SendMessageRequest) (*models.Message, error)
	RetryMessage(ctx context.Context, messageID string) error
	DeleteSystemBufferEntry(ctx context.Context, messageID string) error
	DeleteStoreMessage(ctx context.Context, nodeID, messageID string) error

	RegisterUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, username string, user *models.User) error
	DeleteUser(ctx context.Context, username string) error
	ChangePassword(ctx context.Context, username, newPassword string) error
	AssignRole(ctx context.Context, username string, role models.Role) error
}

// Invalidator is the slice of the polling coordinator the dispatcher uses
// to trigger refreshes after a mutation lands.
type Invalidator interface {
	Invalidate(names ...string)
}

// SessionSource gates mutations on an active sign-in. RefreshPassword
// keeps the stored Basic-Auth credential current after a password change;
// implementations ignore usernames other than the signed-in one.
type SessionSource interface {
	Current() *models.User
	RefreshPassword(username, newPassword string)
}

// UserLister reads the reconciled account roster, used for the
// last-administrator check.
type UserLister interface {
	Users() []models.User
}

// Feed names the dispatcher invalidates. They must match the names the
// application registers with the coordinator.
const (
	FeedNodes    = "nodes"
	FeedMessages = "messages"
	FeedBuffer   = "system-buffer"
	FeedStats    = "system-stats"
	FeedUsers    = "users"

	inboxFeedPrefix     = "inbox:"
	storeFeedPrefix     = "store:"
	nodeStatsFeedPrefix = "node-stats:"
)

// InboxFeed returns the feed name for one node's inbox.
func InboxFeed(nodeID string) string {
	return inboxFeedPrefix + nodeID
}

// StoreFeed returns the feed name for one node's delivered-message store.
func StoreFeed(nodeID string) string {
	return storeFeedPrefix + nodeID
}

// NodeStatsFeed returns the feed name for one node's statistics.
func NodeStatsFeed(nodeID string) string {
	return nodeStatsFeedPrefix + nodeID
}

// Dispatcher validates and forwards operator mutations.
type Dispatcher struct {
	engine  Engine
	feeds   Invalidator
	session SessionSource
	users   UserLister
	logger  logger.Logger
}

func New(engine Engine, feeds Invalidator, session SessionSource, users UserLister, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		engine:  engine,
		feeds:   feeds,
		session: session,
		users:   users,
		logger:  log,
	}
}

// CreateNode adds a node to the ring.
func (d *Dispatcher) CreateNode(ctx context.Context, nodeID string, status models.NodeStatus) (*models.Node, error) {
	if err := d.requireSession(); err != nil {
		return nil, err
	}

	if nodeID == "" {
		return nil, ErrEmptyNodeID
	}

	actionID := uuid.New().String()
	d.logger.Info().Str("action_id", actionID).Str("node_id", nodeID).Msg("Creating node")

	node, err := d.engine.CreateNode(ctx, &models.CreateNodeRequest{NodeID: nodeID, Status: status})
	if err != nil {
		return nil, err
	}

	d.feeds.Invalidate(FeedNodes)

	return node, nil
}

// DeleteNode removes a node. Its queued traffic moves to the system
// buffer on the engine side, so the message view refreshes too.
func (d *Dispatcher) DeleteNode(ctx context.Context, nodeID string) error {
	if err := d.requireSession(); err != nil {
		return err
	}

	if nodeID == "" {
		return ErrEmptyNodeID
	}

	actionID := uuid.New().String()
	d.logger.Info().Str("action_id", actionID).Str("node_id", nodeID).Msg("Deleting node")

	if err := d.engine.DeleteNode(ctx, nodeID); err != nil {
		return err
	}

	d.feeds.Invalidate(FeedNodes, FeedMessages)

	return nil
}

// SetNodeStatus flips a node between ACTIVE and INACTIVE.
func (d *Dispatcher) SetNodeStatus(ctx context.Context, nodeID string, status models.NodeStatus) error {
	if err := d.requireSession(); err != nil {
		return err
	}

	if err := d.engine.UpdateNodeStatus(ctx, nodeID, status); err != nil {
		return err
	}

	d.feeds.Invalidate(FeedNodes)

	return nil
}

// SetNodeNeighbors rewires a node's left and right links.
func (d *Dispatcher) SetNodeNeighbors(ctx context.Context, nodeID, leftID, rightID string) error {
	if err := d.requireSession(); err != nil {
		return err
	}

	if err := d.engine.UpdateNodeNeighbors(ctx, nodeID, leftID, rightID); err != nil {
		return err
	}

	d.feeds.Invalidate(FeedNodes)

	return nil
}

// SendMessage validates and submits a new message. Content limits are
// enforced locally so an oversized payload never reaches the wire.
func (d *Dispatcher) SendMessage(ctx context.Context, req *models.SendMessageRequest) (*models.Message, error) {
	if err := d.requireSession(); err != nil {
		return nil, err
	}

	if req.ReceiverNode == "" {
		return nil, ErrMissingReceiver
	}

	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyContent
	}

	if len([]rune(req.Content)) > models.MaxMessageContentLength {
		return nil, ErrContentTooLong
	}

	actionID := uuid.New().String()
	d.logger.Info().
		Str("action_id", actionID).
		Str("destination", req.ReceiverNode).
		Msg("Sending message")

	msg, err := d.engine.SendMessage(ctx, req)
	if err != nil {
		return nil, err
	}

	d.feeds.Invalidate(FeedMessages, InboxFeed(req.ReceiverNode))

	return msg, nil
}

// RetryMessage asks the engine to re-deliver a buffered or failed
// message. One request per operator action, no automatic retry.
func (d *Dispatcher) RetryMessage(ctx context.Context, messageID string) error {
	if err := d.requireSession(); err != nil {
		return err
	}

	if messageID == "" {
		return ErrEmptyMessageID
	}

	if err := d.engine.RetryMessage(ctx, messageID); err != nil {
		return err
	}

	d.feeds.Invalidate(FeedMessages, FeedBuffer)

	return nil
}

// DiscardBufferEntry drops a message from the system buffer.
func (d *Dispatcher) DiscardBufferEntry(ctx context.Context, messageID string) error {
	if err := d.requireSession(); err != nil {
		return err
	}

	if messageID == "" {
		return ErrEmptyMessageID
	}

	if err := d.engine.DeleteSystemBufferEntry(ctx, messageID); err != nil {
		return err
	}

	d.feeds.Invalidate(FeedBuffer)

	return nil
}

// DeleteStoreMessage removes an archived message from a node's
// delivered-message store.
func (d *Dispatcher) DeleteStoreMessage(ctx context.Context, nodeID, messageID string) error {
	if err := d.requireSession(); err != nil {
		return err
	}

	if nodeID == "" {
		return ErrEmptyNodeID
	}

	if messageID == "" {
		return ErrEmptyMessageID
	}

	if err := d.engine.DeleteStoreMessage(ctx, nodeID, messageID); err != nil {
		return err
	}

	d.feeds.Invalidate(StoreFeed(nodeID))

	return nil
}

// CreateUser registers an account.
func (d *Dispatcher) CreateUser(ctx context.Context, user *models.User) error {
	if err := d.requireSession(); err != nil {
		return err
	}

	if user.Username == "" {
		return ErrEmptyUsername
	}

	if err := d.engine.RegisterUser(ctx, user); err != nil {
		return err
	}

	d.feeds.Invalidate(FeedUsers)

	return nil
}

// UpdateUser edits an account's profile. The root account is immutable.
func (d *Dispatcher) UpdateUser(ctx context.Context, username string, user *models.User) error {
	if err := d.requireSession(); err != nil {
		return err
	}

	if username == models.RootUsername {
		return ErrRootImmutable
	}

	if err := d.engine.UpdateUser(ctx, username, user); err != nil {
		return err
	}

	d.feeds.Invalidate(FeedUsers)

	return nil
}

// DeleteUser removes an account. The root account can never be deleted,
// and neither can the last remaining administrator.
func (d *Dispatcher) DeleteUser(ctx context.Context, username string) error {
	if err := d.requireSession(); err != nil {
		return err
	}

	if username == models.RootUsername {
		return ErrRootImmutable
	}

	if d.isLastAdmin(username) {
		return ErrLastAdmin
	}

	if err := d.engine.DeleteUser(ctx, username); err != nil {
		return err
	}

	d.feeds.Invalidate(FeedUsers)

	return nil
}

// ChangePassword sets a new password. Changing a password does not alter
// any roster or traffic state, so no feed refreshes; a self change must
// update the stored credential or every following request would carry the
// old secret and 401 the session away.
func (d *Dispatcher) ChangePassword(ctx context.Context, username, newPassword string) error {
	if err := d.requireSession(); err != nil {
		return err
	}

	if newPassword == "" {
		return ErrEmptyPassword
	}

	if err := d.engine.ChangePassword(ctx, username, newPassword); err != nil {
		return err
	}

	d.session.RefreshPassword(username, newPassword)

	return nil
}

// AssignRole changes an account's role. Demoting root or the last
// administrator is refused locally.
func (d *Dispatcher) AssignRole(ctx context.Context, username string, role models.Role) error {
	if err := d.requireSession(); err != nil {
		return err
	}

	if username == models.RootUsername {
		return ErrRootImmutable
	}

	if role != models.RoleAdmin && d.isLastAdmin(username) {
		return ErrLastAdmin
	}

	if err := d.engine.AssignRole(ctx, username, role); err != nil {
		return err
	}

	d.feeds.Invalidate(FeedUsers)

	return nil
}

func (d *Dispatcher) requireSession() error {
	if d.session.Current() == nil {
		return ErrNoSession
	}

	return nil
}

// isLastAdmin reports whether username is an ADMIN and no other ADMIN
// exists in the reconciled roster.
func (d *Dispatcher) isLastAdmin(username string) bool {
	var isAdmin bool
	var admins int

	for _, u := range d.users.Users() {
		if u.Role != models.RoleAdmin {
			continue
		}

		admins++

		if u.Username == username {
			isAdmin = true
		}
	}

	return isAdmin && admins == 1
}
