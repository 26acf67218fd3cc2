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
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ringnet/console/pkg/layout"
	"github.com/ringnet/console/pkg/models"
)

const (
	ringGridWidth  = 64
	ringGridHeight = 22
	// Terminal cells are roughly twice as tall as wide.
	ringAspect = 0.5
)

// ringView draws the network graph. The geometry comes straight from the
// store's reconciled positions; the view only projects it onto the
// character grid.
type ringView struct {
	selected int
}

func (v *ringView) update(m *Model, msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	nodes := m.store.Nodes()

	switch key.String() {
	case "left", "h":
		if len(nodes) > 0 {
			v.selected = (v.selected - 1 + len(nodes)) % len(nodes)
		}
	case "right", "l":
		if len(nodes) > 0 {
			v.selected = (v.selected + 1) % len(nodes)
		}
	case "a":
		if node, ok := v.current(nodes); ok {
			return m.action("Node activated.", func(ctx context.Context) error {
				return m.actions.SetNodeStatus(ctx, node.NodeID, models.NodeActive)
			})
		}
	case "d":
		if node, ok := v.current(nodes); ok {
			return m.action("Node deactivated.", func(ctx context.Context) error {
				return m.actions.SetNodeStatus(ctx, node.NodeID, models.NodeInactive)
			})
		}
	case "n":
		nodeID := nextNodeID(nodes)

		return m.action("Node created.", func(ctx context.Context) error {
			_, err := m.actions.CreateNode(ctx, nodeID, models.NodeActive)
			return err
		})
	case "x":
		if node, ok := v.current(nodes); ok {
			return m.action("Node deleted.", func(ctx context.Context) error {
				return m.actions.DeleteNode(ctx, node.NodeID)
			})
		}
	}

	return nil
}

func (v *ringView) current(nodes []models.Node) (models.Node, bool) {
	if len(nodes) == 0 {
		return models.Node{}, false
	}

	if v.selected >= len(nodes) {
		v.selected = len(nodes) - 1
	}

	return nodes[v.selected], true
}

// nextNodeID picks the first free "node-N" identifier.
func nextNodeID(nodes []models.Node) string {
	taken := make(map[string]bool, len(nodes))
	for i := range nodes {
		taken[nodes[i].NodeID] = true
	}

	for i := 1; ; i++ {
		id := fmt.Sprintf("node-%d", i)
		if !taken[id] {
			return id
		}
	}
}

func (v *ringView) render(m *Model) string {
	nodes := m.store.Nodes()
	positions := m.store.Positions()
	s := m.styles

	if len(nodes) == 0 {
		return s.panel.Render(s.dim.Render("No nodes in the ring. Press n to create one."))
	}

	selected, _ := v.current(nodes)
	grid := renderRingGrid(nodes, positions, selected.NodeID, &s)

	detail := v.renderDetail(m, selected)
	help := s.help.Render("←/→ select | a activate | d deactivate | n new node | x delete | q quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, s.panel.Render(grid), " ", detail),
		help,
	)
}

// renderRingGrid projects the ring geometry onto a fixed character grid.
func renderRingGrid(nodes []models.Node, positions map[string]models.Position, selectedID string, s *styles) string {
	type cell struct {
		text  string
		style lipgloss.Style
	}

	cells := make(map[[2]int]cell)

	for i := range nodes {
		node := nodes[i]

		pos, ok := positions[node.NodeID]
		if !ok {
			continue
		}

		col := int((pos.X/layout.DefaultRadius + 1) / 2 * float64(ringGridWidth-12))
		row := int((pos.Y*ringAspect/layout.DefaultRadius + ringAspect) / (2 * ringAspect) * float64(ringGridHeight-1))

		style := s.active
		if node.Status == models.NodeInactive {
			style = s.inactive
		}

		label := node.NodeID
		if node.NodeID == selectedID {
			label = "[" + label + "]"
			style = style.Bold(true)
		}

		if node.InboxSize > 0 {
			label += fmt.Sprintf("(%d)", node.InboxSize)
		}

		cells[[2]int{row, col}] = cell{text: label, style: style}
	}

	var b strings.Builder

	for row := 0; row < ringGridHeight; row++ {
		line := make([]byte, ringGridWidth)
		for i := range line {
			line[i] = ' '
		}

		type placed struct {
			col  int
			cell cell
		}

		var inRow []placed

		for key, c := range cells {
			if key[0] == row {
				inRow = append(inRow, placed{col: key[1], cell: c})
			}
		}

		sort.Slice(inRow, func(i, j int) bool { return inRow[i].col < inRow[j].col })

		var rendered strings.Builder

		cursor := 0
		for _, p := range inRow {
			if p.col > cursor {
				rendered.WriteString(string(line[cursor:p.col]))
				cursor = p.col
			}

			rendered.WriteString(p.cell.style.Render(p.cell.text))
			cursor += len(p.cell.text)
		}

		if cursor < ringGridWidth {
			rendered.WriteString(string(line[cursor:]))
		}

		b.WriteString(rendered.String())

		if row < ringGridHeight-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (v *ringView) renderDetail(m *Model, node models.Node) string {
	s := m.styles

	status := s.active.Render(string(node.Status))
	if node.Status == models.NodeInactive {
		status = s.inactive.Render(string(node.Status))
	}

	lines := []string{
		s.label.Render("Node ") + s.title.Render(node.NodeID),
		"Status: " + status,
		"Left:   " + node.LeftNeighbor,
		"Right:  " + node.RightNeighbor,
		fmt.Sprintf("Inbox:  %d", node.InboxSize),
	}

	if stats := m.store.NodeStats(node.NodeID); stats != nil {
		lines = append(lines,
			"",
			s.label.Render("Statistics"),
			fmt.Sprintf("Processed: %d", stats.MessagesProcessed),
			fmt.Sprintf("Stored:    %d", stats.StoreSize),
			fmt.Sprintf("Avg time:  %.1fms", stats.AvgProcessingTimeMs),
		)
	}

	return s.panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
