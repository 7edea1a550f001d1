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

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Help(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, run([]string{"-help"}, &out))
	assert.Contains(t, out.String(), "dipstick list")
}

func TestRun_Version(t *testing.T) {
	t.Setenv("DIPSTICK_CONFIG_SOURCE", "")
	t.Setenv("LOG_OUTPUT", "discard")

	var out bytes.Buffer

	require.NoError(t, run([]string{"version"}, &out))
	assert.Equal(t, "dipstick dev\n", out.String())
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("DIPSTICK_CONFIG_SOURCE", "")

	path := filepath.Join(t.TempDir(), "dipstick.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"output":"csv"}`), 0o600))

	err := run([]string{"list", "-config", path}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading configuration")
}

func TestRun_UnknownCommand(t *testing.T) {
	assert.Error(t, run([]string{"switch"}, &bytes.Buffer{}))
}

func TestRun_LogsToConfiguredFile(t *testing.T) {
	t.Setenv("DIPSTICK_CONFIG_SOURCE", "")

	dir := t.TempDir()
	logPath := filepath.Join(dir, "dipstick.log")
	cfgPath := filepath.Join(dir, "dipstick.json")

	doc := fmt.Sprintf(`{"logging":{"level":"debug","file":%q}}`, logPath)
	require.NoError(t, os.WriteFile(cfgPath, []byte(doc), 0o600))

	var out bytes.Buffer

	require.NoError(t, run([]string{"version", "-config", cfgPath}, &out))
	assert.Equal(t, "dipstick dev\n", out.String())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.SplitN(data, []byte("\n"), 2)[0], &entry))
	assert.Equal(t, "dipstick", entry["component"])
	assert.Equal(t, "Starting dipstick", entry["message"])
	assert.Equal(t, "version", entry["command"])
}
