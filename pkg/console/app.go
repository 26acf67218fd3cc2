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

package console

import (
	"context"

	"github.com/ringnet/console/pkg/client"
	"github.com/ringnet/console/pkg/dispatch"
	"github.com/ringnet/console/pkg/logger"
	"github.com/ringnet/console/pkg/poller"
	"github.com/ringnet/console/pkg/session"
	"github.com/ringnet/console/pkg/store"
	"github.com/ringnet/console/pkg/tui"
)

// App owns the wired-up console components.
type App struct {
	config      *Config
	logger      logger.Logger
	session     *session.Manager
	store       *store.Store
	coordinator *poller.Coordinator
	feeds       *feedSet
	dispatcher  *dispatch.Dispatcher
}

// New wires everything together. The session manager doubles as the
// client's credential source and its 401 handler, so construction is
// two-phase.
func New(ctx context.Context, cfg *Config, log logger.Logger) *App {
	sess := session.NewManager(cfg.SessionFile, log.WithComponent("session"))

	httpClient := client.New(cfg.EngineURL, sess, log.WithComponent("client"))
	httpClient.SetUnauthorizedHandler(sess)
	sess.Bind(httpClient)

	st := store.New()
	coordinator := poller.NewCoordinator(ctx, log.WithComponent("poller"))
	feeds := newFeedSet(httpClient, coordinator, st, cfg.Feeds, log.WithComponent("feeds"))
	dispatcher := dispatch.New(httpClient, coordinator, sess, st, log.WithComponent("dispatch"))

	// Teardown runs async: a 401 clears the session from inside a feed
	// goroutine, and StopAll must not wait on the goroutine it was
	// called from.
	sess.OnClear(func() {
		go func() {
			coordinator.StopAll()
			st.Reset()
		}()
	})

	return &App{
		config:      cfg,
		logger:      log,
		session:     sess,
		store:       st,
		coordinator: coordinator,
		feeds:       feeds,
		dispatcher:  dispatcher,
	}
}

// Run checks any restored session, then hands the terminal to the UI.
func (a *App) Run(ctx context.Context) error {
	if a.session.Current() != nil && !a.session.VerifyStartup(ctx) {
		a.logger.Info().Msg("Persisted session no longer valid")
	}

	model := tui.New(a.session, a.feeds, a.store, a.dispatcher, a.logger.WithComponent("tui"))

	defer a.coordinator.StopAll()

	return tui.Run(model)
}
