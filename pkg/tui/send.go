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

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ringnet/console/pkg/models"
)

const (
	sendFocusDest = iota
	sendFocusDirection
	sendFocusContent
	sendFocusCount
)

// sendView composes a new message. The receiver cycles through the
// reconciled roster; content is validated locally before dispatch.
type sendView struct {
	content   textinput.Model
	focused   int
	destIdx   int
	direction models.Direction
}

func newSendView() sendView {
	content := textinput.New()
	content.Placeholder = "Message content"
	content.Width = 60
	content.CharLimit = models.MaxMessageContentLength + 1

	return sendView{
		content:   content,
		direction: models.DirectionRight,
	}
}

func (v *sendView) focus() tea.Cmd {
	v.focused = sendFocusDest
	v.content.Blur()

	return nil
}

func (v *sendView) typing() bool {
	return v.focused == sendFocusContent
}

// messageSentMsg confirms a successful send so the form can reset.
type messageSentMsg struct{}

func (v *sendView) update(m *Model, msg tea.Msg) tea.Cmd {
	if _, ok := msg.(messageSentMsg); ok {
		v.content.SetValue("")
		m.setStatus(actionMsg{note: "Message sent."})

		return nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	nodes := m.store.Nodes()

	switch key.Type {
	case tea.KeyTab, tea.KeyDown:
		v.advance(1)
		return textinput.Blink
	case tea.KeyShiftTab, tea.KeyUp:
		v.advance(-1)
		return textinput.Blink
	case tea.KeyEnter:
		return v.submit(m, nodes)
	case tea.KeyEsc:
		v.focused = sendFocusDest
		v.content.Blur()

		return nil
	default:
	}

	switch v.focused {
	case sendFocusDest:
		v.destIdx = cycleIndex(v.destIdx, len(nodes), key.String())
	case sendFocusDirection:
		if key.String() == "left" || key.String() == "right" || key.String() == " " {
			if v.direction == models.DirectionRight {
				v.direction = models.DirectionLeft
			} else {
				v.direction = models.DirectionRight
			}
		}
	case sendFocusContent:
		var cmd tea.Cmd
		v.content, cmd = v.content.Update(msg)

		return cmd
	}

	return nil
}

func cycleIndex(current, length int, key string) int {
	if length == 0 {
		return 0
	}

	switch key {
	case "left":
		return (current - 1 + length) % length
	case "right", " ":
		return (current + 1) % length
	}

	return current % length
}

func (v *sendView) advance(delta int) {
	v.content.Blur()
	v.focused = (v.focused + delta + sendFocusCount) % sendFocusCount

	if v.focused == sendFocusContent {
		v.content.Focus()
	}
}

func (v *sendView) submit(m *Model, nodes []models.Node) tea.Cmd {
	if v.focused != sendFocusContent {
		v.advance(1)
		return textinput.Blink
	}

	if len(nodes) == 0 {
		m.setStatus(actionMsg{err: errNoNodeSelected})
		return nil
	}

	req := &models.SendMessageRequest{
		ReceiverNode: nodes[v.destIdx%len(nodes)].NodeID,
		Content:      v.content.Value(),
		Direction:    v.direction,
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		if _, err := m.actions.SendMessage(ctx, req); err != nil {
			return actionMsg{err: err}
		}

		return messageSentMsg{}
	}
}

func (v *sendView) render(m *Model) string {
	s := m.styles
	nodes := m.store.Nodes()

	destID := "-"
	if len(nodes) > 0 {
		destID = nodes[v.destIdx%len(nodes)].NodeID
	}

	used := len([]rune(v.content.Value()))
	count := fmt.Sprintf("%d/%d", used, models.MaxMessageContentLength)

	countStyle := s.dim
	if used > models.MaxMessageContentLength {
		countStyle = s.errText
	}

	lines := []string{
		s.title.Render("Send Message"),
		"",
		v.field(s, sendFocusDest, "To:        "+destID),
		v.field(s, sendFocusDirection, "Direction: "+string(v.direction)),
		"",
		s.label.Render("Content ") + countStyle.Render(count),
		v.content.View(),
		"",
		s.help.Render("Tab → next field | ←/→ change value | Enter → send | Esc → leave field"),
	}

	return s.panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (v *sendView) field(s styles, idx int, text string) string {
	if v.focused == idx {
		return s.tabOn.Render("> " + text)
	}

	return "  " + text
}
