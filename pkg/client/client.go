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

// Package client talks to the ring engine's HTTP surface. Every request is
// decorated with the current session credential; an authorization failure
// on any call is reported to the registered handler before the error is
// returned to the caller.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ringnet/console/pkg/logger"
)

const defaultRequestTimeout = 10 * time.Second

// CredentialSource supplies the Basic-Auth pair for outbound requests.
// Requests proceed unauthenticated when ok is false.
type CredentialSource interface {
	Credentials() (username, password string, ok bool)
}

// UnauthorizedHandler is invoked once per 401 response, before the error
// propagates to the caller.
type UnauthorizedHandler interface {
	HandleUnauthorized()
}

// Client is the HTTP client for the ring engine.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	creds          CredentialSource
	onUnauthorized UnauthorizedHandler
	logger         logger.Logger
}

// New creates a Client. creds may be nil for a credential-less client;
// handler may be nil if no session teardown is wanted.
func New(baseURL string, creds CredentialSource, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		creds:      creds,
		logger:     log,
	}
}

// SetUnauthorizedHandler registers the session-wide 401 handler. Set once
// at wiring time, before any request is issued.
func (c *Client) SetUnauthorizedHandler(h UnauthorizedHandler) {
	c.onUnauthorized = h
}

// do executes one request and decodes a JSON response into out when out is
// non-nil. Query parameters ride on the URL; body, when non-nil, is sent
// as JSON.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	data, err := c.doRaw(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	if out == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}

	return nil
}

// doText executes one request and returns the response body as trimmed
// text. The engine answers several auth endpoints with plain strings.
func (c *Client) doText(ctx context.Context, method, path string, query url.Values, body interface{}) (string, error) {
	data, err := c.doRaw(ctx, method, path, query, body)
	if err != nil {
		return "", err
	}

	return strings.Trim(strings.TrimSpace(string(data)), `"`), nil
}

func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s request: %w", method, path, err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}

	req.Header.Set("Content-Type", "application/json")

	if c.creds != nil {
		if username, password, ok := c.creds.Credentials(); ok {
			req.SetBasicAuth(username, password)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s response: %w", ErrTransport, method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.logger != nil {
			c.logger.Warn().Str("method", method).Str("path", path).Msg("Authorization failure, clearing session")
		}

		if c.onUnauthorized != nil {
			c.onUnauthorized.HandleUnauthorized()
		}

		return nil, ErrUnauthorized
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(data)),
		}
	}

	return data, nil
}
