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
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// renderStats shows the system-wide counters. The panel is read-only and
// keeps whatever snapshot the last successful poll produced.
func renderStats(m *Model) string {
	s := m.styles
	stats := m.store.SystemStats()

	if stats == nil {
		return s.panel.Render(s.dim.Render("Waiting for first statistics poll..."))
	}

	network := s.panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		s.label.Render("Network"),
		fmt.Sprintf("Total nodes:   %d", stats.TotalNodes),
		fmt.Sprintf("Active nodes:  %d", stats.ActiveNodes),
		fmt.Sprintf("Buffer size:   %d", stats.SystemBufferSize),
	))

	traffic := s.panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		s.label.Render("Traffic"),
		fmt.Sprintf("Total:      %d", stats.TotalMessages),
		fmt.Sprintf("In transit: %d", stats.MessagesInTransit),
		s.success.Render(fmt.Sprintf("Delivered:  %d", stats.DeliveredMessages)),
		s.errText.Render(fmt.Sprintf("Failed:     %d", stats.FailedMessages)),
		fmt.Sprintf("Avg delivery: %.1fms", stats.AvgDeliveryTimeMs),
	))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.title.Render("System Statistics"),
		lipgloss.JoinHorizontal(lipgloss.Top, network, " ", traffic),
	)
}
