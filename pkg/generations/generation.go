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

// Package generations retrieves and decodes the NixOS system generation
// inventory reported by nixos-rebuild.
package generations

import "strconv"

// Generation describes one system snapshot as reported by
// `nixos-rebuild list-generations --json`.
type Generation struct {
	ID                    uint64   `json:"generation"`
	Date                  string   `json:"date"`
	SystemVersion         string   `json:"nixosVersion"`
	KernelVersion         string   `json:"kernelVersion"`
	ConfigurationRevision string   `json:"configurationRevision"`
	Specializations       []string `json:"specialisations"`
	Current               bool     `json:"current"`
}

// Title returns the display name of the generation, e.g. "Generation 42".
func (g Generation) Title() string {
	return "Generation " + strconv.FormatUint(g.ID, 10)
}

// Clone returns a copy that shares no memory with g.
func (g Generation) Clone() Generation {
	out := g

	if g.Specializations != nil {
		out.Specializations = append(make([]string, 0, len(g.Specializations)), g.Specializations...)
	}

	return out
}

// Current returns the generation flagged as active on the host, if any.
func Current(gens []Generation) (Generation, bool) {
	for i := range gens {
		if gens[i].Current {
			return gens[i].Clone(), true
		}
	}

	return Generation{}, false
}

// Find returns the first generation with the given id.
func Find(gens []Generation, id uint64) (Generation, bool) {
	for i := range gens {
		if gens[i].ID == id {
			return gens[i].Clone(), true
		}
	}

	return Generation{}, false
}
