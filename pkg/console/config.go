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

// Package console wires the client, session, store, coordinator,
// dispatcher and terminal UI into one application.
package console

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/ringnet/console/pkg/logger"
	"github.com/ringnet/console/pkg/models"
)

const defaultFeedInterval = 5 * time.Second

var errNoEngineURL = errors.New("engine_url is required")

// Config is the console configuration, loaded from JSON or environment.
type Config struct {
	EngineURL   string         `json:"engine_url"`
	SessionFile string         `json:"session_file,omitempty"`
	Logging     *logger.Config `json:"logging,omitempty"`
	Feeds       FeedIntervals  `json:"feeds,omitempty"`
}

// FeedIntervals override the periodic feeds' polling cadence. Zero means
// the default. Per-node feeds and the user roster have no interval: they
// fetch on view entry and on invalidation only.
type FeedIntervals struct {
	Nodes    models.Duration `json:"nodes,omitempty"`
	Messages models.Duration `json:"messages,omitempty"`
	Buffer   models.Duration `json:"buffer,omitempty"`
	Stats    models.Duration `json:"stats,omitempty"`
}

// Validate implements config.Validator. It also fills defaults so the
// rest of the application never sees a zero interval.
func (c *Config) Validate() error {
	if c.EngineURL == "" {
		return errNoEngineURL
	}

	if c.SessionFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}

		c.SessionFile = filepath.Join(home, ".ringnet", "session.json")
	}

	fillInterval(&c.Feeds.Nodes)
	fillInterval(&c.Feeds.Messages)
	fillInterval(&c.Feeds.Buffer)
	fillInterval(&c.Feeds.Stats)

	return nil
}

func fillInterval(d *models.Duration) {
	if time.Duration(*d) <= 0 {
		*d = models.Duration(defaultFeedInterval)
	}
}
