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

import (
	"fmt"
	"io"
)

// ShowHelp writes the usage message to w.
func ShowHelp(w io.Writer) {
	fmt.Fprint(w, `dipstick: browse NixOS system generations
Usage:
  dipstick [options]
  dipstick list [options]
  dipstick show [options] <generation>
  dipstick current [options]
  dipstick version

Commands:
  (default)   Interactive browser when stdout is a terminal and -output is
              not given, list output otherwise
  list        List every generation reported by nixos-rebuild
  show        Show the details of one generation
  current     Show the details of the generation the system is using
  version     Print the dipstick version

Options:
  -config string   path to a JSON configuration file
  -output string   list: table or json; show/current: text or json
  -help            show this help message

Environment:
  DIPSTICK_CONFIG_SOURCE   file (default) or env
  DIPSTICK_*               configuration fields when the source is env,
                           e.g. DIPSTICK_OUTPUT=json, DIPSTICK_TIMEOUT=30s
  LOG_LEVEL, LOG_OUTPUT, LOG_FILE, DEBUG

Examples:
  dipstick                       # launches the browser
  dipstick -output json          # same as dipstick list -output json
  dipstick list -output json
  dipstick show 142
  dipstick current -output json
`)
}
