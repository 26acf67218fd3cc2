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

package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ringnet/console/pkg/logger"
	"github.com/ringnet/console/pkg/models"
)

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Login(ctx context.Context, username, password string) error {
	return m.Called(ctx, username, password).Error(0)
}

func (m *mockEngine) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockEngine) VerifySession(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *mockEngine) GetProfile(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.User), args.Error(1)
}

func sessionPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.json")
}

func TestLoginFetchesAuthoritativeRole(t *testing.T) {
	engine := &mockEngine{}
	m := NewManager(sessionPath(t), logger.NewTestLogger())
	m.Bind(engine)

	engine.On("Login", mock.Anything, "root", "pw").Return(nil)
	engine.On("GetProfile", mock.Anything, "root").
		Return(&models.User{Username: "root", Role: models.RoleAdmin}, nil)

	// During the login call the provisional record must already supply
	// credentials, otherwise the profile fetch itself cannot
	// authenticate.
	user, err := m.Login(context.Background(), "root", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	username, password, ok := m.Credentials()
	require.True(t, ok)
	assert.Equal(t, "root", username)
	assert.Equal(t, "pw", password)
}

func TestLoginFailureClearsSession(t *testing.T) {
	engine := &mockEngine{}
	m := NewManager(sessionPath(t), logger.NewTestLogger())
	m.Bind(engine)

	engine.On("Login", mock.Anything, "root", "bad").Return(assert.AnError)

	_, err := m.Login(context.Background(), "root", "bad")
	require.Error(t, err)

	assert.Nil(t, m.Current())

	_, _, ok := m.Credentials()
	assert.False(t, ok)
}

func TestLoginProfileFailureClearsSession(t *testing.T) {
	engine := &mockEngine{}
	m := NewManager(sessionPath(t), logger.NewTestLogger())
	m.Bind(engine)

	engine.On("Login", mock.Anything, "op", "pw").Return(nil)
	engine.On("GetProfile", mock.Anything, "op").Return(nil, assert.AnError)

	_, err := m.Login(context.Background(), "op", "pw")
	require.Error(t, err)
	assert.Nil(t, m.Current())
}

func TestPersistAndRestore(t *testing.T) {
	path := sessionPath(t)

	engine := &mockEngine{}
	m := NewManager(path, logger.NewTestLogger())
	m.Bind(engine)

	engine.On("Login", mock.Anything, "root", "pw").Return(nil)
	engine.On("GetProfile", mock.Anything, "root").
		Return(&models.User{Username: "root", Role: models.RoleAdmin}, nil)

	_, err := m.Login(context.Background(), "root", "pw")
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A new manager picks the record back up.
	restored := NewManager(path, logger.NewTestLogger())

	user := restored.Current()
	require.NotNil(t, user)
	assert.Equal(t, "root", user.Username)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestRefreshPasswordUpdatesCredentialAndRecord(t *testing.T) {
	path := sessionPath(t)

	engine := &mockEngine{}
	m := NewManager(path, logger.NewTestLogger())
	m.Bind(engine)

	engine.On("Login", mock.Anything, "root", "pw").Return(nil)
	engine.On("GetProfile", mock.Anything, "root").
		Return(&models.User{Username: "root", Role: models.RoleAdmin}, nil)

	_, err := m.Login(context.Background(), "root", "pw")
	require.NoError(t, err)

	m.RefreshPassword("root", "rotated")

	username, password, ok := m.Credentials()
	require.True(t, ok)
	assert.Equal(t, "root", username)
	assert.Equal(t, "rotated", password)

	// Role survives the credential swap.
	user := m.Current()
	require.NotNil(t, user)
	assert.Equal(t, models.RoleAdmin, user.Role)

	// The durable record carries the new secret too.
	restored := NewManager(path, logger.NewTestLogger())

	_, password, ok = restored.Credentials()
	require.True(t, ok)
	assert.Equal(t, "rotated", password)
}

func TestRefreshPasswordIgnoresOtherUsers(t *testing.T) {
	engine := &mockEngine{}
	m := NewManager(sessionPath(t), logger.NewTestLogger())
	m.Bind(engine)

	engine.On("Login", mock.Anything, "root", "pw").Return(nil)
	engine.On("GetProfile", mock.Anything, "root").
		Return(&models.User{Username: "root", Role: models.RoleAdmin}, nil)

	_, err := m.Login(context.Background(), "root", "pw")
	require.NoError(t, err)

	// Changing another account's password must not touch our credential.
	m.RefreshPassword("alice", "elsewhere")

	_, password, ok := m.Credentials()
	require.True(t, ok)
	assert.Equal(t, "pw", password)
}

func TestVerifyStartupInvalidClears(t *testing.T) {
	path := sessionPath(t)

	engine := &mockEngine{}
	m := NewManager(path, logger.NewTestLogger())
	m.Bind(engine)

	engine.On("Login", mock.Anything, "root", "pw").Return(nil)
	engine.On("GetProfile", mock.Anything, "root").
		Return(&models.User{Username: "root", Role: models.RoleAdmin}, nil)
	engine.On("VerifySession", mock.Anything).Return(false, nil)

	_, err := m.Login(context.Background(), "root", "pw")
	require.NoError(t, err)

	assert.False(t, m.VerifyStartup(context.Background()))
	assert.Nil(t, m.Current())

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestHandleUnauthorizedFiresHooksOnce(t *testing.T) {
	engine := &mockEngine{}
	m := NewManager(sessionPath(t), logger.NewTestLogger())
	m.Bind(engine)

	engine.On("Login", mock.Anything, "root", "pw").Return(nil)
	engine.On("GetProfile", mock.Anything, "root").
		Return(&models.User{Username: "root", Role: models.RoleAdmin}, nil)

	cleared := 0

	m.OnClear(func() { cleared++ })

	_, err := m.Login(context.Background(), "root", "pw")
	require.NoError(t, err)

	m.HandleUnauthorized()
	assert.Nil(t, m.Current())
	assert.Equal(t, 1, cleared)

	// Already cleared; hooks must not fire again.
	m.HandleUnauthorized()
	assert.Equal(t, 1, cleared)
}

func TestLogoutClearsEvenOnEngineError(t *testing.T) {
	engine := &mockEngine{}
	m := NewManager(sessionPath(t), logger.NewTestLogger())
	m.Bind(engine)

	engine.On("Login", mock.Anything, "root", "pw").Return(nil)
	engine.On("GetProfile", mock.Anything, "root").
		Return(&models.User{Username: "root", Role: models.RoleAdmin}, nil)
	engine.On("Logout", mock.Anything).Return(assert.AnError)

	_, err := m.Login(context.Background(), "root", "pw")
	require.NoError(t, err)

	err = m.Logout(context.Background())
	assert.Error(t, err)
	assert.Nil(t, m.Current())
}

func TestLoginWithoutEngine(t *testing.T) {
	m := NewManager(sessionPath(t), logger.NewTestLogger())

	_, err := m.Login(context.Background(), "root", "pw")
	assert.ErrorIs(t, err, errEngineNotBound)
}

func TestRestoreIgnoresCorruptRecord(t *testing.T) {
	path := sessionPath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	m := NewManager(path, logger.NewTestLogger())
	assert.Nil(t, m.Current())

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
