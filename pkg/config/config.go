/*
 * Copyright 2025 Carver Automation Corporation.
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

// Package config loads dipstick configuration from a JSON file or from the
// environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/carverauto/dipstick/pkg/logger"
)

var (
	errInvalidConfigSource = errors.New("invalid DIPSTICK_CONFIG_SOURCE value")
)

const (
	configSourceFile = "file"
	configSourceEnv  = "env"

	// EnvPrefix prefixes every environment variable read by the env loader.
	EnvPrefix = "DIPSTICK_"
	// SourceEnvVar selects the configuration source.
	SourceEnvVar = EnvPrefix + "CONFIG_SOURCE"
)

// Config holds the configuration loading dependencies.
type Config struct {
	fileLoader ConfigLoader
	envLoader  ConfigLoader
	logger     logger.Logger
}

// NewConfig initializes a Config with the file and environment loaders.
// A nil logger discards loader diagnostics.
func NewConfig(log logger.Logger) *Config {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Config{
		fileLoader: &FileConfigLoader{},
		envLoader:  NewEnvConfigLoader(log, EnvPrefix),
		logger:     log,
	}
}

// ValidateConfig validates a configuration if it implements Validator.
func ValidateConfig(cfg interface{}) error {
	v, ok := cfg.(Validator)
	if !ok {
		return nil
	}

	return v.Validate()
}

// LoadAndValidate loads cfg from the selected source and validates it. cfg
// should already hold defaults: with the file source and an empty path
// nothing is loaded and the defaults are validated as they are.
func (c *Config) LoadAndValidate(ctx context.Context, path string, cfg interface{}) error {
	loader, err := c.selectLoader(path)
	if err != nil {
		return err
	}

	if loader != nil {
		if err := loader.Load(ctx, path, cfg); err != nil {
			return err
		}
	}

	return ValidateConfig(cfg)
}

func (c *Config) selectLoader(path string) (ConfigLoader, error) {
	source := strings.ToLower(os.Getenv(SourceEnvVar))

	switch source {
	case configSourceEnv:
		c.logger.Debug().Str("prefix", EnvPrefix).Msg("Loading configuration from environment")

		return c.envLoader, nil
	case configSourceFile, "":
		if path == "" {
			c.logger.Debug().Msg("No configuration file given, using defaults")

			return nil, nil
		}

		c.logger.Debug().Str("path", path).Msg("Loading configuration file")

		return c.fileLoader, nil
	default:
		return nil, fmt.Errorf("%w: %s (expected '%s' or '%s')",
			errInvalidConfigSource, source, configSourceFile, configSourceEnv)
	}
}
