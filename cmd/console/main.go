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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ringnet/console/pkg/config"
	"github.com/ringnet/console/pkg/console"
	"github.com/ringnet/console/pkg/logger"
)

var errFailedToLoadConfig = fmt.Errorf("failed to load config")

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", defaultConfigPath(), "Path to console config file")
	engineURL := flag.String("engine-url", "", "Engine base URL (overrides config)")
	flag.Parse()

	ctx := context.Background()

	cfgLoader := config.NewConfig(nil)

	var cfg console.Config

	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		// The console can run on flags alone; a missing config file is
		// only fatal when no engine URL was given either.
		if *engineURL == "" {
			return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
		}

		cfg = console.Config{}
	}

	if *engineURL != "" {
		cfg.EngineURL = *engineURL
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logConfig := cfg.Logging
	if logConfig == nil {
		// The TUI owns stdout; logs go to stderr unless redirected.
		logConfig = &logger.Config{
			Level:  "info",
			Output: "stderr",
		}
	}

	consoleLogger, err := logger.New(logConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app := console.New(ctx, &cfg, consoleLogger)

	return app.Run(ctx)
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "console.json"
	}

	return home + "/.ringnet/console.json"
}
