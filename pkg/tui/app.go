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

// Package tui renders the operator console. All views read reconciled
// state from the store and never talk to the engine directly; mutations
// go through the dispatcher and the screen catches up on the next
// refresh.
package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ringnet/console/pkg/dispatch"
	"github.com/ringnet/console/pkg/logger"
	"github.com/ringnet/console/pkg/models"
	"github.com/ringnet/console/pkg/store"
)

const (
	renderTick     = 500 * time.Millisecond
	actionTimeout  = 15 * time.Second
	statusLifetime = 5 * time.Second
)

// Session is the slice of the session manager the console needs.
type Session interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Current() *models.User
}

// Feeds controls which data streams are live. The base set follows the
// session; per-node streams follow the view that shows them.
type Feeds interface {
	Start()
	OpenNode(nodeID string)
	CloseNode(nodeID string)
	Invalidate(names ...string)
	RefreshHistory(ctx context.Context, messageID string) error
}

type view int

const (
	viewLogin view = iota
	viewRing
	viewSend
	viewTracking
	viewInbox
	viewBuffer
	viewStats
	viewUsers
)

var viewTabs = []struct {
	v     view
	key   string
	label string
}{
	{viewRing, "1", "Ring"},
	{viewSend, "2", "Send"},
	{viewTracking, "3", "Tracking"},
	{viewInbox, "4", "Nodes"},
	{viewBuffer, "5", "Buffer"},
	{viewStats, "6", "Stats"},
	{viewUsers, "7", "Users"},
}

type tickMsg time.Time

// actionMsg carries the outcome of a dispatched mutation back into the
// update loop.
type actionMsg struct {
	note string
	err  error
}

// Model is the root bubbletea model.
type Model struct {
	session Session
	feeds   Feeds
	store   *store.Store
	actions *dispatch.Dispatcher
	logger  logger.Logger
	styles  styles

	view   view
	width  int
	height int

	status   string
	statusOK bool
	statusAt time.Time

	login    loginView
	ring     ringView
	send     sendView
	tracking trackingView
	inbox    inboxView
	buffer   bufferView
	users    usersView
}

// New builds the root model. If the session manager restored a valid
// identity the console opens on the ring view, otherwise on login.
func New(sess Session, feeds Feeds, st *store.Store, actions *dispatch.Dispatcher, log logger.Logger) *Model {
	m := &Model{
		session: sess,
		feeds:   feeds,
		store:   st,
		actions: actions,
		logger:  log,
		styles:  newStyles(),
		view:    viewLogin,
	}

	m.login = newLoginView()
	m.send = newSendView()
	m.tracking = newTrackingView()
	m.inbox = newInboxView()
	m.buffer = newBufferView()
	m.users = newUsersView()

	if sess.Current() != nil {
		m.view = viewRing
		feeds.Start()
	}

	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(scheduleTick(), m.login.init())
}

func scheduleTick() tea.Cmd {
	return tea.Tick(renderTick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		return m, nil
	case tickMsg:
		return m.handleTick()
	case actionMsg:
		m.setStatus(msg)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActive(msg)
}

// handleTick drives the render loop. It is also where a torn-down
// session is noticed: the 401 path clears the manager from a fetch
// goroutine, and the next tick lands the operator back on login.
func (m *Model) handleTick() (tea.Model, tea.Cmd) {
	if m.view != viewLogin && m.session.Current() == nil {
		m.toLogin("Session ended. Sign in again.")
	}

	if m.status != "" && time.Since(m.statusAt) > statusLifetime {
		m.status = ""
	}

	return m, scheduleTick()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.view == viewLogin {
		return m.updateActive(msg)
	}

	// Tab switching only when no text field owns the keyboard.
	if !m.typing() {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "L":
			return m, m.logoutCmd()
		}

		for _, t := range viewTabs {
			if msg.String() == t.key {
				return m, m.switchView(t.v)
			}
		}
	}

	return m.updateActive(msg)
}

func (m *Model) switchView(v view) tea.Cmd {
	if v == m.view {
		return nil
	}

	// The inbox view holds per-node feeds open; leaving it drops them.
	if m.view == viewInbox {
		m.inbox.close(m.feeds)
	}

	m.view = v

	switch v {
	case viewInbox:
		return m.inbox.open(m)
	case viewSend:
		return m.send.focus()
	case viewUsers:
		return m.users.enter(m)
	case viewLogin, viewRing, viewTracking, viewBuffer, viewStats:
	}

	return nil
}

func (m *Model) typing() bool {
	switch m.view {
	case viewSend:
		return m.send.typing()
	case viewInbox:
		return m.inbox.typing()
	case viewUsers:
		return m.users.typing()
	case viewLogin, viewRing, viewTracking, viewBuffer, viewStats:
		return false
	}

	return false
}

func (m *Model) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.view {
	case viewLogin:
		cmd = m.login.update(m, msg)
	case viewRing:
		cmd = m.ring.update(m, msg)
	case viewSend:
		cmd = m.send.update(m, msg)
	case viewTracking:
		cmd = m.tracking.update(m, msg)
	case viewInbox:
		cmd = m.inbox.update(m, msg)
	case viewBuffer:
		cmd = m.buffer.update(m, msg)
	case viewStats:
	case viewUsers:
		cmd = m.users.update(m, msg)
	}

	return m, cmd
}

func (m *Model) View() string {
	var b strings.Builder

	if m.view == viewLogin {
		b.WriteString(m.login.render(m))
	} else {
		b.WriteString(m.renderHeader())
		b.WriteString("\n")

		switch m.view {
		case viewRing:
			b.WriteString(m.ring.render(m))
		case viewSend:
			b.WriteString(m.send.render(m))
		case viewTracking:
			b.WriteString(m.tracking.render(m))
		case viewInbox:
			b.WriteString(m.inbox.render(m))
		case viewBuffer:
			b.WriteString(m.buffer.render(m))
		case viewStats:
			b.WriteString(renderStats(m))
		case viewUsers:
			b.WriteString(m.users.render(m))
		case viewLogin:
		}
	}

	if m.status != "" {
		style := m.styles.errText
		if m.statusOK {
			style = m.styles.success
		}

		b.WriteString("\n" + style.Render(m.status))
	}

	return m.styles.app.Render(b.String())
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(viewTabs)+1)
	parts = append(parts, m.styles.title.Render("RingNet Console"))

	for _, t := range viewTabs {
		style := m.styles.tab
		if t.v == m.view {
			style = m.styles.tabOn
		}

		parts = append(parts, style.Render(t.key+":"+t.label))
	}

	if u := m.session.Current(); u != nil {
		parts = append(parts, m.styles.dim.Render(u.Username+" ("+string(u.Role)+")"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, "  "))
}

// toLogin drops back to the sign-in form with a notice.
func (m *Model) toLogin(note string) {
	if m.view == viewInbox {
		m.inbox.close(m.feeds)
	}

	m.view = viewLogin
	m.login = newLoginView()
	m.status = note
	m.statusOK = false
	m.statusAt = time.Now()
}

func (m *Model) setStatus(msg actionMsg) {
	m.statusAt = time.Now()

	if msg.err != nil {
		m.status = msg.err.Error()
		m.statusOK = false

		return
	}

	m.status = msg.note
	m.statusOK = msg.note != ""
}

func (m *Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		if err := m.session.Logout(ctx); err != nil {
			m.logger.Warn().Err(err).Msg("Logout request failed")
		}

		return actionMsg{note: "Signed out."}
	}
}

// action wraps a dispatcher call as a bubbletea command.
func (m *Model) action(note string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			return actionMsg{err: err}
		}

		return actionMsg{note: note}
	}
}

// Run starts the program in the alternate screen.
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()

	return err
}
