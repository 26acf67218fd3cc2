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

// Package session holds the console's single authenticated identity. It
// supplies the Basic-Auth credential for every outbound call and tears the
// whole session down on any authorization failure.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ringnet/console/pkg/logger"
	"github.com/ringnet/console/pkg/models"
)

const recordFilePerms = 0o600

var (
	ErrNoSession      = errors.New("no active session")
	errEngineNotBound = errors.New("session manager has no engine bound")
)

// Engine is the slice of the HTTP client the session needs.
type Engine interface {
	Login(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	VerifySession(ctx context.Context) (bool, error)
	GetProfile(ctx context.Context, username string) (*models.User, error)
}

// record is the durable session state: exactly what the Basic-Auth header
// is framed from, plus the last known role.
type record struct {
	Username string      `json:"username"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// Manager holds at most one authenticated identity at a time.
type Manager struct {
	mu      sync.RWMutex
	current *record
	path    string
	engine  Engine
	logger  logger.Logger
	onClear []func()
}

// NewManager creates a Manager persisting its record at path. A previously
// persisted record is restored if present; its validity is only known
// after VerifyStartup.
func NewManager(path string, log logger.Logger) *Manager {
	m := &Manager{path: path, logger: log}
	m.restore()

	return m
}

// Bind attaches the HTTP client after construction. The client needs the
// manager as its credential source, so wiring is two-phase.
func (m *Manager) Bind(engine Engine) {
	m.engine = engine
}

// OnClear registers a teardown hook fired whenever the session is cleared
// (logout or authorization failure). Hooks run outside the manager's lock.
func (m *Manager) OnClear(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onClear = append(m.onClear, fn)
}

// Credentials implements client.CredentialSource.
func (m *Manager) Credentials() (username, password string, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return "", "", false
	}

	return m.current.Username, m.current.Password, true
}

// RefreshPassword replaces the stored credential after a successful
// password change, so the next request does not authenticate with the
// old secret. Usernames other than the signed-in one are ignored.
func (m *Manager) RefreshPassword(username, newPassword string) {
	m.mu.Lock()

	if m.current == nil || m.current.Username != username {
		m.mu.Unlock()
		return
	}

	r := &record{Username: username, Password: newPassword, Role: m.current.Role}
	m.current = r
	m.mu.Unlock()

	m.persist(r)
}

// Current returns the signed-in user, or nil.
func (m *Manager) Current() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil
	}

	return &models.User{
		Username: m.current.Username,
		Role:     m.current.Role,
	}
}

// Login authenticates against the engine. The role is provisionally
// OPERATOR until the profile fetch returns the authoritative one; if the
// profile fetch fails the login fails and the session is cleared rather
// than keeping a possibly wrong role.
func (m *Manager) Login(ctx context.Context, username, password string) (*models.User, error) {
	if m.engine == nil {
		return nil, errEngineNotBound
	}

	m.set(&record{Username: username, Password: password, Role: models.RoleOperator})

	if err := m.engine.Login(ctx, username, password); err != nil {
		m.Clear()
		return nil, err
	}

	profile, err := m.engine.GetProfile(ctx, username)
	if err != nil {
		m.Clear()
		return nil, fmt.Errorf("login succeeded but profile fetch failed: %w", err)
	}

	m.set(&record{Username: username, Password: password, Role: profile.Role})

	if m.logger != nil {
		m.logger.Info().Str("username", username).Str("role", string(profile.Role)).Msg("Operator signed in")
	}

	return m.Current(), nil
}

// Logout posts the logout and clears the identity regardless of the
// call's outcome.
func (m *Manager) Logout(ctx context.Context) error {
	var err error

	if m.engine != nil && m.Current() != nil {
		err = m.engine.Logout(ctx)
	}

	m.Clear()

	return err
}

// VerifyStartup eagerly checks session validity once at application
// start. Any failure is equivalent to no session.
func (m *Manager) VerifyStartup(ctx context.Context) bool {
	if m.engine == nil || m.Current() == nil {
		return false
	}

	valid, err := m.engine.VerifySession(ctx)
	if err != nil || !valid {
		m.Clear()
		return false
	}

	return true
}

// HandleUnauthorized implements client.UnauthorizedHandler: a 401 from
// any feed or mutation unconditionally ends the session.
func (m *Manager) HandleUnauthorized() {
	m.Clear()
}

// Clear drops the identity, removes the durable record, and fires the
// teardown hooks.
func (m *Manager) Clear() {
	m.mu.Lock()

	wasActive := m.current != nil
	m.current = nil
	hooks := append([]func(){}, m.onClear...)

	m.mu.Unlock()

	if m.path != "" {
		_ = os.Remove(m.path)
	}

	if !wasActive {
		return
	}

	for _, fn := range hooks {
		fn()
	}
}

func (m *Manager) set(r *record) {
	m.mu.Lock()
	m.current = r
	m.mu.Unlock()

	m.persist(r)
}

func (m *Manager) persist(r *record) {
	if m.path == "" {
		return
	}

	data, err := json.Marshal(r)
	if err != nil {
		return
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		if m.logger != nil {
			m.logger.Warn().Err(err).Msg("Failed to create session directory")
		}

		return
	}

	if err := os.WriteFile(m.path, data, recordFilePerms); err != nil && m.logger != nil {
		m.logger.Warn().Err(err).Msg("Failed to persist session record")
	}
}

func (m *Manager) restore() {
	if m.path == "" {
		return
	}

	data, err := os.ReadFile(m.path)
	if err != nil {
		return
	}

	var r record
	if err := json.Unmarshal(data, &r); err != nil || r.Username == "" {
		_ = os.Remove(m.path)
		return
	}

	m.current = &r
}
