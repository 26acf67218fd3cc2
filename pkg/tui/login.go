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
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	loginFocusUsername = 0
	loginFocusPassword = 1
)

// loginDoneMsg reports a finished sign-in attempt.
type loginDoneMsg struct {
	err error
}

type loginView struct {
	username textinput.Model
	password textinput.Model
	focused  int
	busy     bool
}

func newLoginView() loginView {
	user := textinput.New()
	user.Placeholder = "Username"
	user.Width = 32
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "Password"
	pass.Width = 32
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	return loginView{username: user, password: pass}
}

func (v *loginView) init() tea.Cmd {
	return textinput.Blink
}

func (v *loginView) update(m *Model, msg tea.Msg) tea.Cmd {
	if done, ok := msg.(loginDoneMsg); ok {
		v.busy = false

		if done.err != nil {
			m.setStatus(actionMsg{err: done.err})
			return nil
		}

		m.status = ""
		m.view = viewRing
		m.feeds.Start()

		return nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			return tea.Quit
		case tea.KeyTab, tea.KeyDown, tea.KeyUp:
			v.toggleFocus()
			return textinput.Blink
		case tea.KeyEnter:
			if v.focused == loginFocusUsername {
				v.toggleFocus()
				return textinput.Blink
			}

			return v.submit(m)
		default:
		}
	}

	var cmd tea.Cmd

	if v.focused == loginFocusUsername {
		v.username, cmd = v.username.Update(msg)
	} else {
		v.password, cmd = v.password.Update(msg)
	}

	return cmd
}

func (v *loginView) toggleFocus() {
	if v.focused == loginFocusUsername {
		v.username.Blur()
		v.password.Focus()
		v.focused = loginFocusPassword

		return
	}

	v.password.Blur()
	v.username.Focus()
	v.focused = loginFocusUsername
}

func (v *loginView) submit(m *Model) tea.Cmd {
	username := strings.TrimSpace(v.username.Value())
	password := v.password.Value()

	if username == "" || password == "" {
		m.setStatus(actionMsg{err: errCredentialsRequired})
		return nil
	}

	v.busy = true

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		_, err := m.session.Login(ctx, username, password)

		return loginDoneMsg{err: err}
	}
}

func (v *loginView) render(m *Model) string {
	s := m.styles

	lines := []string{
		s.title.Render("RingNet Console"),
		"",
		s.label.Render("Username"),
		v.username.View(),
		"",
		s.label.Render("Password"),
		v.password.View(),
		"",
	}

	if v.busy {
		lines = append(lines, s.hint.Render("Signing in..."))
	} else {
		lines = append(lines, s.help.Render("Enter → sign in | Tab → switch field | Esc → quit"))
	}

	return s.panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
