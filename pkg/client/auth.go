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

package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/ringnet/console/pkg/models"
)

const (
	loginSuccessBody = "Login successful"
	tokenValidBody   = "Token is valid"
)

var errLoginRejected = errors.New("login rejected by engine")

// Login authenticates a username/password pair. The engine answers with a
// plain success string rather than a token; the credential itself is the
// session.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := &models.LoginRequest{Username: username, UserPassword: password}

	text, err := c.doText(ctx, http.MethodPost, "/auth/login", nil, body)
	if err != nil {
		return err
	}

	if text != loginSuccessBody {
		return errLoginRejected
	}

	return nil
}

// Logout tells the engine to drop the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.doText(ctx, http.MethodPost, "/auth/logout", nil, nil)
	return err
}

// VerifySession checks whether the stored credential is still accepted.
func (c *Client) VerifySession(ctx context.Context) (bool, error) {
	text, err := c.doText(ctx, http.MethodGet, "/auth/verify", nil, nil)
	if err != nil {
		return false, err
	}

	return text == tokenValidBody, nil
}

// GetProfile returns a user's server-side profile, including the
// authoritative role.
func (c *Client) GetProfile(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/auth/"+url.PathEscape(username)+"/profile", nil, nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUsers lists all accounts (admin surface).
func (c *Client) GetUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/auth/users", nil, nil, &users); err != nil {
		return nil, err
	}

	return users, nil
}

// RegisterUser creates an account.
func (c *Client) RegisterUser(ctx context.Context, user *models.User) error {
	return c.do(ctx, http.MethodPost, "/auth/register", nil, user, nil)
}

// UpdateUser updates an account's profile fields.
func (c *Client) UpdateUser(ctx context.Context, username string, user *models.User) error {
	return c.do(ctx, http.MethodPut, "/auth/"+url.PathEscape(username), nil, user, nil)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, username string) error {
	return c.do(ctx, http.MethodDelete, "/auth/"+url.PathEscape(username), nil, nil, nil)
}

// ChangePassword sets a new password for an account.
func (c *Client) ChangePassword(ctx context.Context, username, newPassword string) error {
	query := url.Values{"newPassword": {newPassword}}

	return c.do(ctx, http.MethodPut, "/auth/"+url.PathEscape(username)+"/change-password", query, nil, nil)
}

// AssignRole changes an account's role.
func (c *Client) AssignRole(ctx context.Context, username string, role models.Role) error {
	query := url.Values{"role": {string(role)}}

	return c.do(ctx, http.MethodPut, "/auth/"+url.PathEscape(username)+"/role", query, nil, nil)
}
