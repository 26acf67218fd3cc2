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

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ringnet/console/pkg/models"
)

const trackingTableHeight = 14

// trackingView lists every tracked message with lazy per-message history.
type trackingView struct {
	table       table.Model
	showHistory bool
	historyID   string
	lastGen     uint64
}

func newTrackingView() trackingView {
	columns := []table.Column{
		{Title: "ID", Width: 12},
		{Title: "From", Width: 10},
		{Title: "To", Width: 10},
		{Title: "Dir", Width: 5},
		{Title: "Status", Width: 10},
		{Title: "Content", Width: 28},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(trackingTableHeight),
		table.WithFocused(true),
	)

	styleTable(&t)

	return trackingView{table: t}
}

func styleTable(t *table.Model) {
	s := table.DefaultStyles()
	s.Header = s.Header.
		Foreground(lipgloss.Color(draculaPurple)).
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(draculaComment)).
		BorderBottom(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(draculaForeground)).
		Background(lipgloss.Color(draculaComment)).
		Bold(false)
	t.SetStyles(s)
}

// historyMsg delivers a refreshed delivery log for one message.
type historyMsg struct {
	messageID string
	err       error
}

func (v *trackingView) update(m *Model, msg tea.Msg) tea.Cmd {
	if h, ok := msg.(historyMsg); ok {
		if h.err != nil {
			m.setStatus(actionMsg{err: h.err})
			return nil
		}

		v.showHistory = true
		v.historyID = h.messageID

		return nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	v.refreshRows(m)

	switch key.String() {
	case "enter":
		return v.fetchHistory(m)
	case "r":
		if id := v.selectedID(); id != "" {
			return m.action("Retry requested.", func(ctx context.Context) error {
				return m.actions.RetryMessage(ctx, id)
			})
		}
	case "c":
		if id := v.selectedID(); id != "" {
			if err := clipboard.WriteAll(id); err != nil {
				m.setStatus(actionMsg{err: err})
			} else {
				m.setStatus(actionMsg{note: "Message ID copied."})
			}
		}

		return nil
	case "esc":
		v.showHistory = false
		return nil
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)

	return cmd
}

func (v *trackingView) selectedID() string {
	row := v.table.SelectedRow()
	if row == nil {
		return ""
	}

	return row[0]
}

func (v *trackingView) fetchHistory(m *Model) tea.Cmd {
	id := v.selectedID()
	if id == "" {
		m.setStatus(actionMsg{err: errNoMessageSelected})
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		err := m.feeds.RefreshHistory(ctx, id)

		return historyMsg{messageID: id, err: err}
	}
}

func (v *trackingView) refreshRows(m *Model) {
	gen := m.store.Generation()
	if gen == v.lastGen {
		return
	}

	v.lastGen = gen

	messages := m.store.Messages()
	rows := make([]table.Row, 0, len(messages))

	for i := range messages {
		msg := messages[i]
		rows = append(rows, table.Row{
			msg.MessageID,
			msg.SourceNodeID,
			msg.DestinationNodeID,
			string(msg.Direction),
			string(msg.Status),
			truncate(msg.Content, 28),
		})
	}

	v.table.SetRows(rows)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	return string(runes[:max-1]) + "…"
}

func (v *trackingView) render(m *Model) string {
	v.refreshRows(m)

	s := m.styles
	parts := []string{
		s.title.Render("Message Tracking"),
		v.table.View(),
	}

	if v.showHistory && v.historyID != "" {
		parts = append(parts, v.renderHistory(m))
	}

	parts = append(parts, s.help.Render("↑/↓ select | Enter history | r retry | c copy ID | Esc close history"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v *trackingView) renderHistory(m *Model) string {
	s := m.styles
	entries := m.store.History(v.historyID)

	lines := []string{s.label.Render("History for " + v.historyID)}

	if len(entries) == 0 {
		lines = append(lines, s.dim.Render("No history recorded."))
	}

	for _, e := range entries {
		line := fmt.Sprintf("%s  %-12s %-10s %s",
			e.Timestamp.Format("15:04:05"),
			string(e.Status),
			e.NodeID,
			e.Details,
		)
		lines = append(lines, statusStyle(&s, e.Status).Render(line))
	}

	return s.panel.Render(strings.Join(lines, "\n"))
}

func statusStyle(s *styles, status models.MessageStatus) lipgloss.Style {
	switch status {
	case models.MessageDelivered:
		return s.success
	case models.MessageFailed:
		return s.errText
	case models.MessageBuffered:
		return s.hint
	case models.MessageInTransit:
		return s.label
	}

	return s.dim
}
