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
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var inventoryInvocation = Command{
	Name: "nixos-rebuild",
	Args: []string{"list-generations", "--json"},
}

func TestNewRetriever_FixedCommand(t *testing.T) {
	r := NewRetriever()

	assert.Equal(t, inventoryInvocation, r.cmd)
	assert.Equal(t, "nixos-rebuild list-generations --json", r.commandLine())
}

func TestRetriever_Fetch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := NewMockCommandRunner(ctrl)
	r := NewRetriever()
	r.runner = runner

	runner.EXPECT().
		Run(gomock.Any(), inventoryInvocation).
		Return(&CommandResult{Stdout: []byte(scenarioDocument), Stderr: []byte("warning: noise"), ExitCode: 0}, nil).
		Times(1)

	data, err := r.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, scenarioDocument, string(data))
}

func TestRetriever_FetchLaunchFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := NewMockCommandRunner(ctrl)
	r := NewRetriever()
	r.runner = runner

	cause := &exec.Error{Name: "nixos-rebuild", Err: exec.ErrNotFound}
	runner.EXPECT().Run(gomock.Any(), inventoryInvocation).Return(nil, cause)

	data, err := r.Fetch(context.Background())
	require.Error(t, err)
	assert.Nil(t, data)

	assert.True(t, errors.Is(err, ErrLaunchFailed))
	assert.True(t, errors.Is(err, exec.ErrNotFound), "OS cause must be preserved")
	assert.Equal(t, KindLaunchFailed, KindOf(err))

	var rerr *RetrievalError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "nixos-rebuild list-generations --json", rerr.Command)
}

func TestRetriever_FetchProcessFailedDiscardsOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	runner := NewMockCommandRunner(ctrl)
	r := NewRetriever()
	r.runner = runner

	runner.EXPECT().Run(gomock.Any(), inventoryInvocation).Return(&CommandResult{
		Stdout:   []byte(scenarioDocument),
		Stderr:   []byte("error: permission denied\n"),
		ExitCode: 1,
	}, nil)

	data, err := r.Fetch(context.Background())
	require.Error(t, err)
	assert.Nil(t, data)
	assert.True(t, errors.Is(err, ErrProcessFailed))
	assert.False(t, errors.Is(err, ErrLaunchFailed))

	var rerr *RetrievalError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 1, rerr.ExitCode)
	assert.Equal(t, "error: permission denied", rerr.Stderr)
	assert.Contains(t, err.Error(), "exit status 1")
}

func TestTrimStderr(t *testing.T) {
	long := strings.Repeat("x", maxStderrLength+10)

	assert.Equal(t, "", trimStderr(nil))
	assert.Equal(t, "boom", trimStderr([]byte("  boom\n")))
	assert.Equal(t, strings.Repeat("x", maxStderrLength)+"...", trimStderr([]byte(long)))
}

func TestTrimStderr_KeepsCharactersWhole(t *testing.T) {
	for pad := maxStderrLength - 3; pad <= maxStderrLength; pad++ {
		in := strings.Repeat("x", pad) + "é€😀" + strings.Repeat("y", 20)

		out := trimStderr([]byte(in))
		assert.True(t, utf8.ValidString(out), "pad %d", pad)
		assert.True(t, strings.HasSuffix(out, "..."), "pad %d", pad)
		assert.LessOrEqual(t, len(out), maxStderrLength+len("..."), "pad %d", pad)
	}

	out := trimStderr([]byte(strings.Repeat("x", maxStderrLength-1) + "é"))
	assert.Equal(t, strings.Repeat("x", maxStderrLength-1)+"...", out)
}

func requireShell(t *testing.T) {
	t.Helper()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func shellRetriever(script string) *Retriever {
	return &Retriever{
		runner: execRunner{},
		cmd:    Command{Name: "sh", Args: []string{"-c", script}},
	}
}

func TestRetriever_RealProcessSuccess(t *testing.T) {
	requireShell(t)

	r := shellRetriever(`printf '%s' '[{"generation":1}]'; echo "building..." >&2`)

	data, err := r.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `[{"generation":1}]`, string(data))
}

func TestRetriever_RealProcessExitOne(t *testing.T) {
	requireShell(t)

	r := shellRetriever(`printf '%s' '[]'; echo "not root" >&2; exit 1`)

	data, err := r.Fetch(context.Background())
	require.Error(t, err)
	assert.Nil(t, data)
	assert.Equal(t, KindProcessFailed, KindOf(err))

	var rerr *RetrievalError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 1, rerr.ExitCode)
	assert.Equal(t, "not root", rerr.Stderr)
}

func TestRetriever_RealProcessMissingBinary(t *testing.T) {
	r := &Retriever{
		runner: execRunner{},
		cmd:    Command{Name: "dipstick-test-no-such-binary", Args: []string{"list-generations", "--json"}},
	}

	data, err := r.Fetch(context.Background())
	require.Error(t, err)
	assert.Nil(t, data)
	assert.Equal(t, KindLaunchFailed, KindOf(err))
	assert.True(t, errors.Is(err, exec.ErrNotFound))
}

func TestRetriever_CallerDeadline(t *testing.T) {
	requireShell(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	r := shellRetriever(`printf '[]'; exec sleep 5`)

	data, err := r.Fetch(ctx)
	require.Error(t, err)
	assert.Nil(t, data)
	assert.Equal(t, KindProcessFailed, KindOf(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
