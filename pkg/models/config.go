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

// Package models holds the application configuration types.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/carverauto/dipstick/pkg/logger"
)

// Output formats accepted by Config.Output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

var (
	errInvalidDuration       = errors.New("invalid duration")
	errLoggingConfigRequired = errors.New("logging configuration is required")
	errInvalidOutputFormat   = errors.New("invalid output format")
	errNegativeTimeout       = errors.New("timeout must be non-negative")
)

// Duration is a time.Duration that unmarshals from "30s" or from nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config is the dipstick configuration.
type Config struct {
	Logging *logger.Config `json:"logging"`
	// Output is the default format for the list command.
	Output string `json:"output"`
	// Timeout bounds one inventory run. Zero means no deadline.
	Timeout Duration `json:"timeout"`
	// HostInfo enables the host header in table output.
	HostInfo bool `json:"host_info"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Logging:  logger.DefaultConfig(),
		Output:   OutputTable,
		HostInfo: true,
	}
}

// Validate implements config.Validator.
func (c *Config) Validate() error {
	if c.Logging == nil {
		return errLoggingConfigRequired
	}

	switch c.Output {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("%w: %q (expected %q or %q)", errInvalidOutputFormat, c.Output, OutputTable, OutputJSON)
	}

	if c.Timeout < 0 {
		return errNegativeTimeout
	}

	return nil
}
