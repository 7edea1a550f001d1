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
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/carverauto/dipstick/pkg/generations"
	"github.com/carverauto/dipstick/pkg/logger"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	appTitle      = "Dipstick"
	defaultWidth  = 80
	defaultHeight = 24
	titleLines    = 2
)

type browserState int

const (
	stateLoading browserState = iota
	stateList
	stateDetail
	stateError
)

type keyMap struct {
	open, back, copy, quit, forceQuit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		open:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		back:      key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		copy:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy revision")),
		quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		forceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// generationItem adapts a Generation to list.Item.
type generationItem struct {
	gen generations.Generation
}

func (i generationItem) Title() string {
	if i.gen.Current {
		return i.gen.Title() + " (current)"
	}

	return i.gen.Title()
}

func (i generationItem) Description() string { return i.gen.Date }
func (i generationItem) FilterValue() string { return i.gen.Title() + " " + i.gen.Date }

type listedMsg struct {
	gens []generations.Generation
	err  error
}

// Browser is the interactive generation browser: a home list of generations
// and a detail page per generation.
type Browser struct {
	ctx     context.Context
	lister  generations.Lister
	timeout time.Duration
	logger  logger.Logger

	state       browserState
	spinner     spinner.Model
	list        list.Model
	selected    generations.Generation
	err         error
	copyMessage string
	canCopy     bool
	copyText    func(string) error
	onSelect    func(generations.Generation)
	keys        keyMap
	styles      styles
}

// BrowserOption configures a Browser.
type BrowserOption func(*Browser)

// WithSelectHandler registers fn to receive a copy of each opened generation.
func WithSelectHandler(fn func(generations.Generation)) BrowserOption {
	return func(b *Browser) {
		b.onSelect = fn
	}
}

// WithBrowserTimeout bounds the inventory run. Zero disables the deadline.
func WithBrowserTimeout(d time.Duration) BrowserOption {
	return func(b *Browser) {
		b.timeout = d
	}
}

// WithBrowserLogger sets the logger used for diagnostics.
func WithBrowserLogger(log logger.Logger) BrowserOption {
	return func(b *Browser) {
		b.logger = log
	}
}

// NewBrowser creates a browser that lists generations once from lister.
func NewBrowser(ctx context.Context, lister generations.Lister, opts ...BrowserOption) *Browser {
	st := newStyles()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(draculaPink))),
	)

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Generations"
	l.Styles.Title = lipgloss.NewStyle().
		Foreground(lipgloss.Color(draculaPurple)).
		Bold(true)
	l.SetStatusBarItemName("generation", "generations")
	l.SetFilteringEnabled(true)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	b := &Browser{
		ctx:      ctx,
		lister:   lister,
		logger:   logger.NewTestLogger(),
		state:    stateLoading,
		spinner:  sp,
		list:     l,
		canCopy:  !clipboard.Unsupported,
		copyText: clipboard.WriteAll,
		keys:     newKeyMap(),
		styles:   st,
	}

	for _, opt := range opts {
		opt(b)
	}

	b.setSize(defaultWidth, defaultHeight)

	return b
}

// Err returns the pipeline error shown by the browser, if any.
func (b *Browser) Err() error {
	return b.err
}

func (b *Browser) Init() tea.Cmd {
	return tea.Batch(b.spinner.Tick, b.load())
}

func (b *Browser) load() tea.Cmd {
	ctx, lister, timeout, log := b.ctx, b.lister, b.timeout, b.logger

	return func() tea.Msg {
		gens, err := listGenerations(ctx, lister, timeout, log)

		return listedMsg{gens: gens, err: err}
	}
}

func (b *Browser) setSize(width, height int) {
	frameX, frameY := b.styles.app.GetFrameSize()
	b.list.SetSize(max(width-frameX, 0), max(height-frameY-titleLines, 0))
}

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.setSize(msg.Width, msg.Height)

		return b, nil
	case listedMsg:
		return b.handleListed(msg)
	case spinner.TickMsg:
		if b.state != stateLoading {
			return b, nil
		}

		var cmd tea.Cmd
		b.spinner, cmd = b.spinner.Update(msg)

		return b, cmd
	case tea.KeyMsg:
		return b.handleKeyMsg(msg)
	}

	return b.updateList(msg)
}

func (b *Browser) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if b.state != stateList {
		return b, nil
	}

	var cmd tea.Cmd
	b.list, cmd = b.list.Update(msg)

	return b, cmd
}

func (b *Browser) handleListed(msg listedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		b.err = msg.err
		b.state = stateError

		return b, nil
	}

	items := make([]list.Item, 0, len(msg.gens))
	for _, g := range msg.gens {
		items = append(items, generationItem{gen: g})
	}

	b.state = stateList

	return b, b.list.SetItems(items)
}

func (b *Browser) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, b.keys.forceQuit) {
		return b, tea.Quit
	}

	switch b.state {
	case stateLoading:
		if key.Matches(msg, b.keys.quit) {
			return b, tea.Quit
		}

		return b, nil
	case stateError:
		return b, tea.Quit
	case stateDetail:
		return b.handleDetailKey(msg)
	case stateList:
		return b.handleListKey(msg)
	default:
		return b, nil
	}
}

func (b *Browser) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if b.list.FilterState() == list.Filtering {
		return b.updateList(msg)
	}

	switch {
	case key.Matches(msg, b.keys.quit):
		return b, tea.Quit
	case key.Matches(msg, b.keys.open):
		return b.open()
	default:
		return b.updateList(msg)
	}
}

func (b *Browser) open() (tea.Model, tea.Cmd) {
	item, ok := b.list.SelectedItem().(generationItem)
	if !ok {
		return b, nil
	}

	b.selected = item.gen.Clone()
	b.copyMessage = ""
	b.state = stateDetail

	b.logger.Debug().Uint64("generation", b.selected.ID).Msg("Opened generation")

	if b.onSelect != nil {
		b.onSelect(b.selected.Clone())
	}

	return b, nil
}

func (b *Browser) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.back):
		b.state = stateList
		b.copyMessage = ""
	case key.Matches(msg, b.keys.quit):
		return b, tea.Quit
	case key.Matches(msg, b.keys.copy):
		b.copySelected()
	}

	return b, nil
}

func (b *Browser) copySelected() {
	text, what := b.selected.ConfigurationRevision, "revision"
	if text == "" {
		text, what = summary(b.selected), "summary"
	}

	switch {
	case !b.canCopy:
		b.copyMessage = "Clipboard is not available"
	case b.copyText(text) != nil:
		b.copyMessage = "Failed to copy to clipboard"
	default:
		b.copyMessage = fmt.Sprintf("Copied %s to clipboard", what)
	}
}

func (b *Browser) View() string {
	var content strings.Builder

	content.WriteString(b.styles.title.Render(appTitle))
	content.WriteString("\n\n")

	switch b.state {
	case stateLoading:
		content.WriteString(b.spinner.View())
		content.WriteString(" Listing generations...")
	case stateError:
		content.WriteString(b.renderError())
	case stateList:
		content.WriteString(b.list.View())
	case stateDetail:
		content.WriteString(b.renderDetail())
	}

	return b.styles.app.Render(content.String())
}

func (b *Browser) renderError() string {
	lines := []string{b.styles.error.Render(fmt.Sprintf("Error: %v", b.err))}

	if hint := Hint(b.err); hint != "" {
		lines = append(lines, "", b.styles.hint.Render(hint))
	}

	lines = append(lines, "", b.styles.help.Render("Press any key to quit"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (b *Browser) renderDetail() string {
	fields := detailFields(b.selected)
	width := labelWidth(fields)

	lines := make([]string, 0, len(fields)+5)
	lines = append(lines, b.styles.label.Bold(true).Render(b.selected.Title()), "")

	for _, f := range fields {
		label := b.styles.label.Render(fmt.Sprintf("%-*s", width, f.label+":"))

		valueStyle := b.styles.value
		if f.label == "Current" && b.selected.Current {
			valueStyle = b.styles.current
		}

		lines = append(lines, label+" "+valueStyle.Render(f.value))
	}

	lines = append(lines, "")

	if b.copyMessage != "" {
		messageStyle := b.styles.success
		if !strings.HasPrefix(b.copyMessage, "Copied") {
			messageStyle = b.styles.error
		}

		lines = append(lines, messageStyle.Render(b.copyMessage))
	}

	help := []string{b.keys.back.Help().Key + " back", b.keys.quit.Help().Key + " quit"}
	if b.canCopy {
		help = append([]string{b.keys.copy.Help().Key + " " + b.keys.copy.Help().Desc}, help...)
	}

	lines = append(lines, b.styles.help.Render(strings.Join(help, " • ")))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RunTUI runs the browser on the terminal until the user quits. The pipeline
// error shown by the browser, if any, is returned.
func RunTUI(ctx context.Context, b *Browser) error {
	p := tea.NewProgram(b, tea.WithAltScreen(), tea.WithContext(ctx))

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running generation browser: %w", err)
	}

	if fb, ok := final.(*Browser); ok && fb.Err() != nil {
		return fb.Err()
	}

	return nil
}
