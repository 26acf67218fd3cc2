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

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ringnet/console/pkg/dispatch"
	"github.com/ringnet/console/pkg/models"
)

// inboxView shows one node's inbox and delivered-message store. Opening a
// node starts its per-node feeds; leaving the view or switching node
// stops them. The feeds are on-demand, so the view re-fetches only on an
// explicit refresh.
type inboxView struct {
	nodeIdx   int
	openNode  string
	search    textinput.Model
	searching bool
	storeIdx  int
}

func newInboxView() inboxView {
	search := textinput.New()
	search.Placeholder = "Filter by content or sender"
	search.Width = 40

	return inboxView{search: search}
}

func (v *inboxView) typing() bool {
	return v.searching
}

// open starts the per-node feeds for the currently selected node.
func (v *inboxView) open(m *Model) tea.Cmd {
	nodes := m.store.Nodes()
	if len(nodes) == 0 {
		return nil
	}

	if v.nodeIdx >= len(nodes) {
		v.nodeIdx = 0
	}

	v.openNode = nodes[v.nodeIdx].NodeID
	v.storeIdx = 0
	m.feeds.OpenNode(v.openNode)

	return nil
}

// close stops whatever per-node feeds this view holds open.
func (v *inboxView) close(feeds Feeds) {
	if v.openNode != "" {
		feeds.CloseNode(v.openNode)
		v.openNode = ""
	}
}

func (v *inboxView) update(m *Model, msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if v.searching {
		switch key.Type {
		case tea.KeyEsc, tea.KeyEnter:
			v.searching = false
			v.search.Blur()

			return nil
		default:
			var cmd tea.Cmd
			v.search, cmd = v.search.Update(msg)

			return cmd
		}
	}

	switch key.String() {
	case "left", "h":
		return v.selectNode(m, -1)
	case "right", "l":
		return v.selectNode(m, 1)
	case "up", "k":
		if v.storeIdx > 0 {
			v.storeIdx--
		}
	case "down", "j":
		v.storeIdx++
	case "x":
		return v.deleteStored(m)
	case "r":
		if v.openNode != "" {
			m.feeds.Invalidate(
				dispatch.InboxFeed(v.openNode),
				dispatch.StoreFeed(v.openNode),
				dispatch.NodeStatsFeed(v.openNode),
			)
		}
	case "/":
		v.searching = true
		v.search.Focus()

		return textinput.Blink
	}

	return nil
}

// selectNode moves to another node, swapping the open feeds over.
func (v *inboxView) selectNode(m *Model, delta int) tea.Cmd {
	nodes := m.store.Nodes()
	if len(nodes) == 0 {
		return nil
	}

	v.close(m.feeds)
	v.nodeIdx = (v.nodeIdx + delta + len(nodes)) % len(nodes)

	return v.open(m)
}

// deleteStored removes the selected archived message from the node's
// store.
func (v *inboxView) deleteStored(m *Model) tea.Cmd {
	stored := v.storedMessages(m)
	if len(stored) == 0 {
		m.setStatus(actionMsg{err: errNoMessageSelected})
		return nil
	}

	nodeID := v.openNode
	messageID := stored[v.clampStoreIdx(len(stored))].MessageID

	return m.action("Stored message deleted.", func(ctx context.Context) error {
		return m.actions.DeleteStoreMessage(ctx, nodeID, messageID)
	})
}

func (v *inboxView) storedMessages(m *Model) []models.Message {
	filter := strings.ToLower(strings.TrimSpace(v.search.Value()))
	return filterMessages(m.store.NodeStore(v.openNode), filter)
}

func (v *inboxView) clampStoreIdx(length int) int {
	if v.storeIdx >= length {
		v.storeIdx = length - 1
	}

	if v.storeIdx < 0 {
		v.storeIdx = 0
	}

	return v.storeIdx
}

func (v *inboxView) render(m *Model) string {
	s := m.styles

	if v.openNode == "" {
		return s.panel.Render(s.dim.Render("No nodes in the ring."))
	}

	filter := strings.ToLower(strings.TrimSpace(v.search.Value()))
	inbox := filterMessages(m.store.Inbox(v.openNode), filter)
	stored := v.storedMessages(m)

	selected := -1
	if len(stored) > 0 {
		selected = v.clampStoreIdx(len(stored))
	}

	left := v.renderList(&s, "Inbox", inbox, -1)
	right := v.renderList(&s, "Store", stored, selected)

	header := s.title.Render("Node "+v.openNode) + "  " +
		s.dim.Render(fmt.Sprintf("inbox %d / stored %d", len(inbox), len(stored)))

	parts := []string{header}

	if v.searching || filter != "" {
		parts = append(parts, s.label.Render("Search: ")+v.search.View())
	}

	parts = append(parts,
		lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right),
		s.help.Render("←/→ switch node | ↑/↓ select stored | x delete stored | r refresh | / search"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v *inboxView) renderList(s *styles, title string, messages []models.Message, selected int) string {
	lines := []string{s.label.Render(title)}

	if len(messages) == 0 {
		lines = append(lines, s.dim.Render("(empty)"))
	}

	for i := range messages {
		msg := messages[i]
		line := fmt.Sprintf("%-10s %-10s %s",
			msg.SourceNodeID,
			string(msg.Status),
			truncate(msg.Content, 24),
		)

		if i == selected {
			line = "> " + line
		} else {
			line = "  " + line
		}

		lines = append(lines, statusStyle(s, msg.Status).Render(line))
	}

	return s.panel.Render(strings.Join(lines, "\n"))
}

func filterMessages(messages []models.Message, filter string) []models.Message {
	if filter == "" {
		return messages
	}

	out := make([]models.Message, 0, len(messages))

	for i := range messages {
		msg := messages[i]
		if strings.Contains(strings.ToLower(msg.Content), filter) ||
			strings.Contains(strings.ToLower(msg.SourceNodeID), filter) {
			out = append(out, msg)
		}
	}

	return out
}
