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

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ringnet/console/pkg/logger"
	"github.com/ringnet/console/pkg/models"
)

var errInvalidTestConfig = errors.New("invalid test config")

type testConfig struct {
	EngineURL string          `json:"engine_url"`
	Debug     bool            `json:"debug"`
	Interval  models.Duration `json:"interval"`
	Logging   *logger.Config  `json:"logging"`

	valid bool
}

func (c *testConfig) Validate() error {
	if !c.valid && c.EngineURL == "" {
		return errInvalidTestConfig
	}

	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestFileLoader(t *testing.T) {
	path := writeConfig(t, `{
		"engine_url": "http://localhost:8080/api",
		"debug": true,
		"interval": "5s",
		"logging": {"level": "debug"}
	}`)

	var cfg testConfig

	loader := NewFileLoader(logger.NewTestLogger())
	require.NoError(t, loader.Load(context.Background(), path, &cfg))

	assert.Equal(t, "http://localhost:8080/api", cfg.EngineURL)
	assert.True(t, cfg.Debug)
	assert.Equal(t, models.Duration(5*time.Second), cfg.Interval)
	require.NotNil(t, cfg.Logging)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestFileLoaderMissingFile(t *testing.T) {
	var cfg testConfig

	loader := NewFileLoader(logger.NewTestLogger())
	err := loader.Load(context.Background(), "/nonexistent/config.json", &cfg)
	assert.Error(t, err)
}

func TestLoadAndValidateRunsValidator(t *testing.T) {
	path := writeConfig(t, `{}`)

	c := NewConfig(logger.NewTestLogger())

	var cfg testConfig

	err := c.LoadAndValidate(context.Background(), path, &cfg)
	assert.ErrorIs(t, err, errInvalidTestConfig)
}

func TestEnvLoaderSimpleFields(t *testing.T) {
	t.Setenv("RINGNET_ENGINE_URL", "http://engine:9000/api")
	t.Setenv("RINGNET_DEBUG", "true")
	t.Setenv("RINGNET_INTERVAL", "10s")

	var cfg testConfig

	loader := NewEnvLoader(logger.NewTestLogger(), "RINGNET_")
	require.NoError(t, loader.Load(context.Background(), "", &cfg))

	assert.Equal(t, "http://engine:9000/api", cfg.EngineURL)
	assert.True(t, cfg.Debug)
	assert.Equal(t, models.Duration(10*time.Second), cfg.Interval)
}

func TestEnvLoaderNestedStruct(t *testing.T) {
	t.Setenv("RINGNET_LOGGING_LEVEL", "warn")

	var cfg testConfig

	loader := NewEnvLoader(logger.NewTestLogger(), "RINGNET_")
	require.NoError(t, loader.Load(context.Background(), "", &cfg))

	require.NotNil(t, cfg.Logging)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestEnvLoaderConfigJSONWins(t *testing.T) {
	t.Setenv("RINGNET_CONFIG_JSON", `{"engine_url":"http://json-wins/api"}`)
	t.Setenv("RINGNET_ENGINE_URL", "http://ignored/api")

	var cfg testConfig

	loader := NewEnvLoader(logger.NewTestLogger(), "RINGNET_")
	require.NoError(t, loader.Load(context.Background(), "", &cfg))

	assert.Equal(t, "http://json-wins/api", cfg.EngineURL)
}

func TestEnvLoaderRejectsNonPointer(t *testing.T) {
	loader := NewEnvLoader(logger.NewTestLogger(), "RINGNET_")

	err := loader.Load(context.Background(), "", testConfig{})
	assert.ErrorIs(t, err, errDstMustBeNonNilPointer)

	var s string

	err = loader.Load(context.Background(), "", &s)
	assert.ErrorIs(t, err, errDstMustBePointerToStruct)
}

func TestConfigSourceSwitch(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("RINGNET_ENGINE_URL", "http://from-env/api")

	c := NewConfig(logger.NewTestLogger())

	var cfg testConfig

	cfg.valid = true
	require.NoError(t, c.LoadAndValidate(context.Background(), "ignored.json", &cfg))
	assert.Equal(t, "http://from-env/api", cfg.EngineURL)
}
