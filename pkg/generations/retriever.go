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

package generations

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"unicode/utf8"
)

const (
	inventoryCommand = "nixos-rebuild"
	maxStderrLength  = 512
)

//nolint:gochecknoglobals // fixed invocation, not configurable
var inventoryArgs = []string{"list-generations", "--json"}

// Retriever runs the generation inventory command and returns its stdout.
type Retriever struct {
	runner CommandRunner
	cmd    Command
}

// NewRetriever returns a Retriever for `nixos-rebuild list-generations --json`.
func NewRetriever() *Retriever {
	return &Retriever{
		runner: execRunner{},
		cmd: Command{
			Name: inventoryCommand,
			Args: append([]string(nil), inventoryArgs...),
		},
	}
}

// Fetch runs the inventory command once and blocks until it exits.
// Output of a failed process is discarded.
func (r *Retriever) Fetch(ctx context.Context) ([]byte, error) {
	res, err := r.runner.Run(ctx, r.cmd)
	if err != nil {
		return nil, &RetrievalError{
			Kind:     KindLaunchFailed,
			Command:  r.commandLine(),
			ExitCode: -1,
			Err:      err,
		}
	}

	if !res.Success() {
		return nil, &RetrievalError{
			Kind:     KindProcessFailed,
			Command:  r.commandLine(),
			ExitCode: res.ExitCode,
			Stderr:   trimStderr(res.Stderr),
			Err:      ctx.Err(),
		}
	}

	return res.Stdout, nil
}

func (r *Retriever) commandLine() string {
	return strings.Join(append([]string{r.cmd.Name}, r.cmd.Args...), " ")
}

// trimStderr bounds stderr for error messages. The cut never splits a
// multi-byte character.
func trimStderr(stderr []byte) string {
	s := strings.TrimSpace(string(stderr))
	if len(s) <= maxStderrLength {
		return s
	}

	cut := maxStderrLength
	for cut > maxStderrLength-utf8.UTFMax && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut] + "..."
}

// execRunner runs commands with os/exec. Stdin is left unset (the null
// device); the working directory and environment are inherited.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, c Command) (*CommandResult, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	err := cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}

		return &CommandResult{
			Stdout:   stdout.Bytes(),
			Stderr:   stderr.Bytes(),
			ExitCode: exitErr.ExitCode(),
		}, nil
	}

	return &CommandResult{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: 0,
	}, nil
}
