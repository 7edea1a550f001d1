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

//go:generate mockgen -destination=mock_generations.go -package=generations github.com/carverauto/dipstick/pkg/generations CommandRunner,Fetcher,Lister

package generations

import "context"

// Command is an executable invocation with its arguments.
type Command struct {
	Name string
	Args []string
}

// CommandResult holds what a finished process produced.
// ExitCode is -1 when the process did not exit normally (e.g. it was killed).
type CommandResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the process exited with status zero.
func (r *CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandRunner runs a command to completion and captures its output.
// A non-nil error means the process could not be started at all.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command) (*CommandResult, error)
}

// Fetcher returns the raw generation inventory.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Lister returns the decoded generation inventory in the order the tool
// reported it.
type Lister interface {
	List(ctx context.Context) ([]Generation, error)
}
