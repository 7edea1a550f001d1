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
	"context"
	"errors"
	"testing"

	"github.com/carverauto/dipstick/pkg/generations"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}

	_, ok := cmd().(tea.QuitMsg)

	return ok
}

// loadedBrowser returns a browser that has completed its single inventory run.
func loadedBrowser(t *testing.T, gens []generations.Generation, err error, opts ...BrowserOption) *Browser {
	t.Helper()

	b := NewBrowser(context.Background(), newMockLister(t, gens, err), opts...)
	require.NotNil(t, b.Init())
	assert.Contains(t, b.View(), "Listing generations")

	msg := b.load()()
	require.IsType(t, listedMsg{}, msg)

	b.Update(msg)

	return b
}

func TestBrowser_ListsGenerations(t *testing.T) {
	b := loadedBrowser(t, testGenerations(), nil)

	assert.Equal(t, stateList, b.state)

	view := b.View()
	assert.Contains(t, view, "Dipstick")
	assert.Contains(t, view, "Generation 141")
	assert.Contains(t, view, "Generation 142 (current)")

	_, cmd := b.Update(spinner.TickMsg{})
	assert.Nil(t, cmd, "spinner stops once loaded")
}

func TestBrowser_OpenDetailPassesCopy(t *testing.T) {
	var received []generations.Generation

	b := loadedBrowser(t, testGenerations(), nil, WithSelectHandler(func(g generations.Generation) {
		received = append(received, g)
	}))

	b.Update(tea.KeyMsg{Type: tea.KeyDown})
	b.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, stateDetail, b.state)
	require.Len(t, received, 1)
	assert.Equal(t, uint64(142), received[0].ID)

	received[0].Specializations[0] = "mutated"
	assert.Equal(t, "gaming", b.selected.Specializations[0])

	view := b.View()
	assert.Contains(t, view, "Generation 142")
	assert.Contains(t, view, "Linux kernel version:")
	assert.Contains(t, view, "6.6.32")
	assert.Contains(t, view, "gaming, on-the-go")
}

func TestBrowser_BackAndQuit(t *testing.T) {
	b := loadedBrowser(t, testGenerations(), nil)

	b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, stateDetail, b.state)

	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, isQuit(cmd))
	assert.Equal(t, stateList, b.state)

	b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	b.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, stateList, b.state)

	_, cmd = b.Update(keyRunes("q"))
	assert.True(t, isQuit(cmd))
}

func TestBrowser_CopyRevision(t *testing.T) {
	b := loadedBrowser(t, testGenerations(), nil)

	var copied []string

	b.canCopy = true
	b.copyText = func(s string) error {
		copied = append(copied, s)
		return nil
	}

	b.Update(tea.KeyMsg{Type: tea.KeyDown})
	b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	b.Update(keyRunes("c"))

	assert.Equal(t, []string{"9f1c0e2d7ab4"}, copied)
	assert.Equal(t, "Copied revision to clipboard", b.copyMessage)
	assert.Contains(t, b.View(), "Copied revision to clipboard")
}

func TestBrowser_CopySummaryWithoutRevision(t *testing.T) {
	b := loadedBrowser(t, testGenerations(), nil)

	var copied string

	b.canCopy = true
	b.copyText = func(s string) error {
		copied = s
		return nil
	}

	b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	b.Update(keyRunes("c"))

	assert.Equal(t, summary(testGenerations()[0]), copied)
	assert.Equal(t, "Copied summary to clipboard", b.copyMessage)
}

func TestBrowser_CopyFailures(t *testing.T) {
	b := loadedBrowser(t, testGenerations(), nil)

	b.Update(tea.KeyMsg{Type: tea.KeyEnter})

	b.canCopy = false
	b.Update(keyRunes("c"))
	assert.Equal(t, "Clipboard is not available", b.copyMessage)

	b.canCopy = true
	b.copyText = func(string) error { return errors.New("no display") }
	b.Update(keyRunes("c"))
	assert.Equal(t, "Failed to copy to clipboard", b.copyMessage)
}

func TestBrowser_PipelineError(t *testing.T) {
	pipelineErr := &generations.DecodeError{
		Kind:  generations.KindStructure,
		Index: 0,
		Field: "kernelVersion",
		Msg:   "missing required field",
	}

	b := loadedBrowser(t, nil, pipelineErr)

	assert.Equal(t, stateError, b.state)
	assert.Same(t, pipelineErr, b.Err())

	view := b.View()
	assert.Contains(t, view, "Error:")
	assert.Contains(t, view, "Press any key to quit")

	_, cmd := b.Update(keyRunes("x"))
	assert.True(t, isQuit(cmd))
}

func TestBrowser_LoadingKeys(t *testing.T) {
	b := NewBrowser(context.Background(), nil)

	_, cmd := b.Update(keyRunes("x"))
	assert.False(t, isQuit(cmd))

	_, cmd = b.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, isQuit(cmd))
}

func TestBrowser_WindowResize(t *testing.T) {
	b := loadedBrowser(t, testGenerations(), nil)

	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	frameX, _ := b.styles.app.GetFrameSize()
	assert.Equal(t, 120-frameX, b.list.Width())
}

func TestBrowser_NilListerReportsError(t *testing.T) {
	b := NewBrowser(context.Background(), nil)

	b.Update(b.load()())

	assert.ErrorIs(t, b.Err(), errListerNotConfigured)
}
