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

// Package logger provides JSON structured logging using zerolog
package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrInvalidOutput = errors.New("invalid log output")

	mu           sync.Mutex
	globalLogger zerolog.Logger
	globalCloser io.Closer
)

func init() {
	globalLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	zerolog.TimeFieldFormat = time.RFC3339
}

// ParseLevel resolves the effective level. Debug wins over Level.
func ParseLevel(config *Config) (zerolog.Level, error) {
	if config.Debug {
		return zerolog.DebugLevel, nil
	}

	if config.Level == "" {
		return zerolog.InfoLevel, nil
	}

	level, err := zerolog.ParseLevel(config.Level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", config.Level, err)
	}

	return level, nil
}

// OpenOutput returns the writer selected by config. The closer is nil unless
// a log file was opened.
func OpenOutput(config *Config) (io.Writer, io.Closer, error) {
	if config.File != "" {
		f, err := os.OpenFile(config.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}

		return f, f, nil
	}

	switch config.Output {
	case "", OutputStderr:
		return os.Stderr, nil, nil
	case OutputStdout:
		return os.Stdout, nil, nil
	case OutputDiscard:
		return io.Discard, nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidOutput, config.Output)
	}
}

// Init replaces the global logger, and zerolog's log.Logger, with one built
// from config. A log file opened by a previous Init is closed.
func Init(config *Config) error {
	if config == nil {
		config = DefaultConfig()
	}

	level, err := ParseLevel(config)
	if err != nil {
		return err
	}

	output, closer, err := OpenOutput(config)
	if err != nil {
		return err
	}

	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	mu.Lock()
	defer mu.Unlock()

	if globalCloser != nil {
		_ = globalCloser.Close()
	}

	globalCloser = closer
	globalLogger = zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()

	log.Logger = globalLogger

	return nil
}

// Shutdown closes the log file opened by Init, if any, and falls back to stderr.
func Shutdown() error {
	mu.Lock()
	defer mu.Unlock()

	if globalCloser == nil {
		return nil
	}

	err := globalCloser.Close()
	globalCloser = nil
	globalLogger = zerolog.New(os.Stderr).Level(globalLogger.GetLevel()).With().Timestamp().Logger()
	log.Logger = globalLogger

	return err
}

// GetLogger returns a copy of the global logger.
func GetLogger() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	return globalLogger
}

// WithComponent returns the global logger tagged with component.
func WithComponent(component string) zerolog.Logger {
	return GetLogger().With().Str("component", component).Logger()
}
