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

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const bufferTableHeight = 14

// bufferView lists undeliverable messages parked in the system buffer.
type bufferView struct {
	table   table.Model
	lastGen uint64
}

func newBufferView() bufferView {
	columns := []table.Column{
		{Title: "ID", Width: 12},
		{Title: "Sender", Width: 10},
		{Title: "Receiver", Width: 10},
		{Title: "Status", Width: 10},
		{Title: "Created", Width: 9},
		{Title: "Content", Width: 24},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(bufferTableHeight),
		table.WithFocused(true),
	)

	styleTable(&t)

	return bufferView{table: t}
}

func (v *bufferView) update(m *Model, msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	v.refreshRows(m)

	switch key.String() {
	case "r":
		if id := v.selectedID(); id != "" {
			return m.action("Retry requested.", func(ctx context.Context) error {
				return m.actions.RetryMessage(ctx, id)
			})
		}
	case "x":
		if id := v.selectedID(); id != "" {
			return m.action("Buffer entry discarded.", func(ctx context.Context) error {
				return m.actions.DiscardBufferEntry(ctx, id)
			})
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)

	return cmd
}

func (v *bufferView) selectedID() string {
	row := v.table.SelectedRow()
	if row == nil {
		return ""
	}

	return row[0]
}

func (v *bufferView) refreshRows(m *Model) {
	gen := m.store.Generation()
	if gen == v.lastGen {
		return
	}

	v.lastGen = gen

	entries := m.store.Buffer()
	rows := make([]table.Row, 0, len(entries))

	for i := range entries {
		e := entries[i]
		rows = append(rows, table.Row{
			e.MessageID,
			e.SenderNode,
			e.ReceiverNode,
			string(e.Status),
			e.CreatedAt.Format("15:04:05"),
			truncate(e.Content, 24),
		})
	}

	v.table.SetRows(rows)
}

func (v *bufferView) render(m *Model) string {
	v.refreshRows(m)

	s := m.styles

	return lipgloss.JoinVertical(lipgloss.Left,
		s.title.Render("System Buffer"),
		v.table.View(),
		s.help.Render("↑/↓ select | r retry delivery | x discard"),
	)
}
