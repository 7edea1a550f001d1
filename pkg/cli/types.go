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

package cli

// CmdConfig holds parsed command-line configuration.
type CmdConfig struct {
	Help       bool
	SubCmd     string
	ConfigFile string
	Output     string
	Generation string
	Args       []string
}

// Interactive reports whether the bare command should open the browser. An
// explicit -output selects the one-shot listing instead.
func (c *CmdConfig) Interactive(terminal bool) bool {
	return terminal && c.SubCmd == "" && c.Output == ""
}

// Subcommand names.
const (
	cmdList    = "list"
	cmdShow    = "show"
	cmdCurrent = "current"
	cmdVersion = "version"
)

// Output formats for show and current.
const (
	outputText  = "text"
	outputTable = "table"
	outputJSON  = "json"
)
