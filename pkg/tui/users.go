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

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ringnet/console/pkg/dispatch"
	"github.com/ringnet/console/pkg/models"
)

const usersTableHeight = 10

const (
	userFormUsername = iota
	userFormPassword
	userFormFirstName
	userFormLastName
	userFormEmail
	userFormFields
)

type userMode int

const (
	userModeList userMode = iota
	userModeCreate
	userModeEdit
	userModePassword
)

// usersView is the administration surface: account roster plus forms for
// creating, editing, and changing passwords. Only administrators get
// here; operators see a notice.
type usersView struct {
	table   table.Model
	lastGen uint64
	mode    userMode
	target  string
	inputs  []textinput.Model
	focused int
}

func newUsersView() usersView {
	columns := []table.Column{
		{Title: "Username", Width: 14},
		{Title: "Name", Width: 20},
		{Title: "Email", Width: 24},
		{Title: "Role", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(usersTableHeight),
		table.WithFocused(true),
	)

	styleTable(&t)

	inputs := make([]textinput.Model, userFormFields)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 30
	}

	inputs[userFormUsername].Placeholder = "Username"
	inputs[userFormPassword].Placeholder = "Password"
	inputs[userFormPassword].EchoMode = textinput.EchoPassword
	inputs[userFormPassword].EchoCharacter = '•'
	inputs[userFormFirstName].Placeholder = "First name"
	inputs[userFormLastName].Placeholder = "Last name"
	inputs[userFormEmail].Placeholder = "Email"

	return usersView{table: t, inputs: inputs}
}

func (v *usersView) typing() bool {
	return v.mode != userModeList
}

func (v *usersView) enter(m *Model) tea.Cmd {
	m.feeds.Invalidate(dispatch.FeedUsers)
	return nil
}

// fieldRange returns the first and last form field the active mode uses.
func (v *usersView) fieldRange() (first, last int) {
	switch v.mode {
	case userModeEdit:
		return userFormFirstName, userFormEmail
	case userModePassword:
		return userFormPassword, userFormPassword
	case userModeList, userModeCreate:
	}

	return userFormUsername, userFormEmail
}

func (v *usersView) update(m *Model, msg tea.Msg) tea.Cmd {
	if !v.isAdmin(m) {
		return nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if v.mode != userModeList {
		return v.updateForm(m, key, msg)
	}

	v.refreshRows(m)

	switch key.String() {
	case "n":
		return v.openForm(userModeCreate, "")
	case "e":
		if username := v.selectedUsername(); username != "" {
			cmd := v.openForm(userModeEdit, username)
			v.prefillProfile(m, username)

			return cmd
		}
	case "c":
		if username := v.selectedUsername(); username != "" {
			return v.openForm(userModePassword, username)
		}
	case "x":
		if username := v.selectedUsername(); username != "" {
			return m.action("User deleted.", func(ctx context.Context) error {
				return m.actions.DeleteUser(ctx, username)
			})
		}
	case "p":
		if username := v.selectedUsername(); username != "" {
			return v.promote(m, username, models.RoleAdmin)
		}
	case "o":
		if username := v.selectedUsername(); username != "" {
			return v.promote(m, username, models.RoleOperator)
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)

	return cmd
}

func (v *usersView) openForm(mode userMode, target string) tea.Cmd {
	v.mode = mode
	v.target = target
	first, _ := v.fieldRange()
	v.focused = first
	v.inputs[v.focused].Focus()

	return textinput.Blink
}

// prefillProfile seeds the edit form from the reconciled roster so the
// operator edits current values rather than blanks.
func (v *usersView) prefillProfile(m *Model, username string) {
	for _, u := range m.store.Users() {
		if u.Username != username {
			continue
		}

		v.inputs[userFormFirstName].SetValue(u.FirstName)
		v.inputs[userFormLastName].SetValue(u.LastName)
		v.inputs[userFormEmail].SetValue(u.Email)

		return
	}
}

func (v *usersView) promote(m *Model, username string, role models.Role) tea.Cmd {
	return m.action("Role updated.", func(ctx context.Context) error {
		return m.actions.AssignRole(ctx, username, role)
	})
}

func (v *usersView) updateForm(m *Model, key tea.KeyMsg, msg tea.Msg) tea.Cmd {
	switch key.Type {
	case tea.KeyEsc:
		v.resetForm()
		return nil
	case tea.KeyTab, tea.KeyDown:
		v.moveFocus(1)
		return textinput.Blink
	case tea.KeyShiftTab, tea.KeyUp:
		v.moveFocus(-1)
		return textinput.Blink
	case tea.KeyEnter:
		if _, last := v.fieldRange(); v.focused < last {
			v.moveFocus(1)
			return textinput.Blink
		}

		return v.submit(m)
	default:
	}

	var cmd tea.Cmd
	v.inputs[v.focused], cmd = v.inputs[v.focused].Update(msg)

	return cmd
}

func (v *usersView) moveFocus(delta int) {
	first, last := v.fieldRange()
	span := last - first + 1

	v.inputs[v.focused].Blur()
	v.focused = first + (v.focused-first+delta+span)%span
	v.inputs[v.focused].Focus()
}

func (v *usersView) submit(m *Model) tea.Cmd {
	mode, target := v.mode, v.target

	switch mode {
	case userModeCreate:
		user := &models.User{
			Username:  strings.TrimSpace(v.inputs[userFormUsername].Value()),
			Password:  v.inputs[userFormPassword].Value(),
			FirstName: strings.TrimSpace(v.inputs[userFormFirstName].Value()),
			LastName:  strings.TrimSpace(v.inputs[userFormLastName].Value()),
			Email:     strings.TrimSpace(v.inputs[userFormEmail].Value()),
			Role:      models.RoleOperator,
		}

		v.resetForm()

		return m.action("User created.", func(ctx context.Context) error {
			return m.actions.CreateUser(ctx, user)
		})
	case userModeEdit:
		user := &models.User{
			Username:  target,
			FirstName: strings.TrimSpace(v.inputs[userFormFirstName].Value()),
			LastName:  strings.TrimSpace(v.inputs[userFormLastName].Value()),
			Email:     strings.TrimSpace(v.inputs[userFormEmail].Value()),
			Role:      v.roleOf(m, target),
		}

		v.resetForm()

		return m.action("User updated.", func(ctx context.Context) error {
			return m.actions.UpdateUser(ctx, target, user)
		})
	case userModePassword:
		newPassword := v.inputs[userFormPassword].Value()

		v.resetForm()

		return m.action("Password changed.", func(ctx context.Context) error {
			return m.actions.ChangePassword(ctx, target, newPassword)
		})
	case userModeList:
	}

	return nil
}

// roleOf looks up a user's current role so a profile edit never demotes
// anyone as a side effect.
func (v *usersView) roleOf(m *Model, username string) models.Role {
	for _, u := range m.store.Users() {
		if u.Username == username {
			return u.Role
		}
	}

	return models.RoleOperator
}

func (v *usersView) resetForm() {
	v.mode = userModeList
	v.target = ""

	for i := range v.inputs {
		v.inputs[i].SetValue("")
		v.inputs[i].Blur()
	}
}

func (v *usersView) selectedUsername() string {
	row := v.table.SelectedRow()
	if row == nil {
		return ""
	}

	return row[0]
}

func (v *usersView) isAdmin(m *Model) bool {
	u := m.session.Current()
	return u != nil && u.Role == models.RoleAdmin
}

func (v *usersView) refreshRows(m *Model) {
	gen := m.store.Generation()
	if gen == v.lastGen {
		return
	}

	v.lastGen = gen

	users := m.store.Users()
	rows := make([]table.Row, 0, len(users))

	for i := range users {
		u := users[i]
		rows = append(rows, table.Row{
			u.Username,
			strings.TrimSpace(u.FirstName + " " + u.LastName),
			u.Email,
			string(u.Role),
		})
	}

	v.table.SetRows(rows)
}

func (v *usersView) render(m *Model) string {
	s := m.styles

	if !v.isAdmin(m) {
		return s.panel.Render(s.hint.Render("User administration requires the ADMIN role."))
	}

	v.refreshRows(m)

	parts := []string{
		s.title.Render("User Administration"),
		v.table.View(),
	}

	if v.mode != userModeList {
		parts = append(parts, v.renderForm(&s))
	}

	parts = append(parts, s.help.Render("n new | e edit | c password | x delete | p make admin | o make operator"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v *usersView) renderForm(s *styles) string {
	var title, submitHint string

	switch v.mode {
	case userModeCreate:
		title = "New User"
		submitHint = "create"
	case userModeEdit:
		title = "Edit " + v.target
		submitHint = "save"
	case userModePassword:
		title = "New password for " + v.target
		submitHint = "change"
	case userModeList:
	}

	lines := []string{s.label.Render(title)}

	first, last := v.fieldRange()
	for i := first; i <= last; i++ {
		lines = append(lines, v.inputs[i].View())
	}

	lines = append(lines, s.help.Render("Enter → next / "+submitHint+" | Esc → cancel"))

	return s.panel.Render(strings.Join(lines, "\n"))
}
