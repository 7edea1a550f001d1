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

package lifecycle

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/carverauto/dipstick/pkg/logger"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLogLines(t *testing.T, path string) []map[string]interface{} {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)

	defer func() { _ = f.Close() }()

	var lines []map[string]interface{}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))

		lines = append(lines, entry)
	}

	return lines
}

func TestCreateComponentLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "component.log")

	require.NoError(t, InitializeLogger(&logger.Config{Level: "debug", File: path}))

	l := CreateComponentLogger("tui")
	l.Debug().Str("view", "list").Msg("switched view")
	l.Trace().Msg("below level")

	require.NoError(t, ShutdownLogger())

	lines := readLogLines(t, path)
	require.Len(t, lines, 1)
	assert.Equal(t, "tui", lines[0]["component"])
	assert.Equal(t, "list", lines[0]["view"])
	assert.Equal(t, "debug", lines[0]["level"])
}

func TestInitializeLogger_SetsZerologGlobal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global.log")

	require.NoError(t, InitializeLogger(&logger.Config{Level: "info", File: path}))

	zlog.Info().Msg("from package log")
	zlog.Debug().Msg("below level")

	require.NoError(t, ShutdownLogger())

	lines := readLogLines(t, path)
	require.Len(t, lines, 1)
	assert.Equal(t, "from package log", lines[0]["message"])
}

func TestInitializeLogger_Discard(t *testing.T) {
	require.NoError(t, InitializeLogger(&logger.Config{Level: "error", Output: logger.OutputDiscard}))
	assert.Equal(t, zerolog.ErrorLevel, logger.GetLogger().GetLevel())
	assert.NoError(t, ShutdownLogger())
}

func TestInitializeLogger_Invalid(t *testing.T) {
	assert.Error(t, InitializeLogger(&logger.Config{Output: "printer"}))
	assert.Error(t, InitializeLogger(&logger.Config{Level: "loud", Output: logger.OutputDiscard}))
}

func TestLoggerImpl_SetDebug(t *testing.T) {
	require.NoError(t, InitializeLogger(&logger.Config{Level: "warn", Output: logger.OutputDiscard}))

	l := CreateComponentLogger("cli")
	assert.Equal(t, zerolog.WarnLevel, l.logger.GetLevel())

	l.SetDebug(true)
	assert.Equal(t, zerolog.DebugLevel, l.logger.GetLevel())

	l.SetDebug(false)
	assert.Equal(t, zerolog.InfoLevel, l.logger.GetLevel())
}
