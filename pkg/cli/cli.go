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

// Package cli implements the dipstick command line: flag parsing, the
// list/show/current commands and the interactive generation browser.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/carverauto/dipstick/pkg/generations"
	"github.com/carverauto/dipstick/pkg/hostinfo"
	"github.com/carverauto/dipstick/pkg/logger"
	"github.com/carverauto/dipstick/pkg/version"
)

func newFlagSet(name string, cfg *CmdConfig, withOutput bool) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.ConfigFile, "config", "", "path to a JSON configuration file")
	fs.BoolVar(&cfg.Help, "help", false, "show help message")

	if withOutput {
		fs.StringVar(&cfg.Output, "output", "", "output format")
	}

	return fs
}

// parseFlagSet parses args, turning -h/-help into cfg.Help.
func parseFlagSet(fs *flag.FlagSet, args []string, cfg *CmdConfig) error {
	err := fs.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		cfg.Help = true

		return nil
	}

	if err != nil {
		return fmt.Errorf("parsing %s flags: %w", fs.Name(), err)
	}

	return nil
}

// RootHandler handles flags when no subcommand is given.
type RootHandler struct{}

// Parse processes the command-line arguments of the bare command.
func (RootHandler) Parse(args []string, cfg *CmdConfig) error {
	fs := newFlagSet("dipstick", cfg, true)

	if err := parseFlagSet(fs, args, cfg); err != nil {
		return err
	}

	cfg.Args = fs.Args()

	if len(cfg.Args) > 0 && !cfg.Help {
		return fmt.Errorf("%w: %s", errUnexpectedArguments, strings.Join(cfg.Args, " "))
	}

	return nil
}

// ListHandler handles flags for the list subcommand.
type ListHandler struct{}

// Parse processes the command-line arguments for the list subcommand.
func (ListHandler) Parse(args []string, cfg *CmdConfig) error {
	fs := newFlagSet(cmdList, cfg, true)

	if err := parseFlagSet(fs, args, cfg); err != nil {
		return err
	}

	cfg.Args = fs.Args()

	if len(cfg.Args) > 0 && !cfg.Help {
		return fmt.Errorf("%w: %s", errUnexpectedArguments, strings.Join(cfg.Args, " "))
	}

	return nil
}

// ShowHandler handles flags for the show subcommand. Flags may appear before
// or after the generation number.
type ShowHandler struct{}

// Parse processes the command-line arguments for the show subcommand.
func (ShowHandler) Parse(args []string, cfg *CmdConfig) error {
	fs := newFlagSet(cmdShow, cfg, true)

	if err := parseFlagSet(fs, args, cfg); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) > 0 {
		cfg.Generation = rest[0]

		if err := parseFlagSet(fs, rest[1:], cfg); err != nil {
			return err
		}

		rest = fs.Args()
	}

	cfg.Args = rest

	if cfg.Help {
		return nil
	}

	if cfg.Generation == "" {
		return errGenerationRequired
	}

	if len(rest) > 0 {
		return fmt.Errorf("%w: %s", errUnexpectedArguments, strings.Join(rest, " "))
	}

	return nil
}

// CurrentHandler handles flags for the current subcommand.
type CurrentHandler struct{}

// Parse processes the command-line arguments for the current subcommand.
func (CurrentHandler) Parse(args []string, cfg *CmdConfig) error {
	fs := newFlagSet(cmdCurrent, cfg, true)

	if err := parseFlagSet(fs, args, cfg); err != nil {
		return err
	}

	cfg.Args = fs.Args()

	if len(cfg.Args) > 0 && !cfg.Help {
		return fmt.Errorf("%w: %s", errUnexpectedArguments, strings.Join(cfg.Args, " "))
	}

	return nil
}

// VersionHandler handles flags for the version subcommand.
type VersionHandler struct{}

// Parse processes the command-line arguments for the version subcommand.
func (VersionHandler) Parse(args []string, cfg *CmdConfig) error {
	fs := newFlagSet(cmdVersion, cfg, false)

	return parseFlagSet(fs, args, cfg)
}

// ParseFlags parses the process arguments, without the program name.
func ParseFlags(args []string) (*CmdConfig, error) {
	cfg := &CmdConfig{}

	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cfg.SubCmd = args[0]
		args = args[1:]
	}

	subcommands := map[string]SubcommandHandler{
		"":         RootHandler{},
		cmdList:    ListHandler{},
		cmdShow:    ShowHandler{},
		cmdCurrent: CurrentHandler{},
		cmdVersion: VersionHandler{},
	}

	handler, exists := subcommands[cfg.SubCmd]
	if !exists {
		return cfg, fmt.Errorf("%w %q", errUnknownCommand, cfg.SubCmd)
	}

	if err := handler.Parse(args, cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Runner executes the non-interactive commands.
type Runner struct {
	lister        generations.Lister
	host          HostInfoProvider
	logger        logger.Logger
	out           io.Writer
	timeout       time.Duration
	defaultFormat string
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithHostInfo enables the host header of the list table.
func WithHostInfo(host HostInfoProvider) RunnerOption {
	return func(r *Runner) {
		r.host = host
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(log logger.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = log
	}
}

// WithStdout redirects command output.
func WithStdout(w io.Writer) RunnerOption {
	return func(r *Runner) {
		r.out = w
	}
}

// WithTimeout bounds each inventory run. Zero disables the deadline.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithDefaultFormat sets the list format used when -output is not given.
func WithDefaultFormat(format string) RunnerOption {
	return func(r *Runner) {
		r.defaultFormat = format
	}
}

// NewRunner creates a Runner reading generations from lister.
func NewRunner(lister generations.Lister, opts ...RunnerOption) *Runner {
	r := &Runner{
		lister:        lister,
		logger:        logger.NewTestLogger(),
		out:           os.Stdout,
		defaultFormat: outputTable,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run dispatches the parsed command. The bare command lists generations.
func (r *Runner) Run(ctx context.Context, cfg *CmdConfig) error {
	switch cfg.SubCmd {
	case cmdShow:
		return r.RunShow(ctx, cfg.Generation, cfg.Output)
	case cmdCurrent:
		return r.RunCurrent(ctx, cfg.Output)
	case cmdVersion:
		return r.RunVersion()
	case cmdList, "":
		return r.RunList(ctx, cfg.Output)
	default:
		return fmt.Errorf("%w %q", errUnknownCommand, cfg.SubCmd)
	}
}

// RunList prints every generation as a table or as JSON.
func (r *Runner) RunList(ctx context.Context, format string) error {
	if format == "" {
		format = r.defaultFormat
	}

	if format != outputTable && format != outputJSON {
		return fmt.Errorf("%w: %q (expected %s or %s)", errInvalidOutputFormat, format, outputTable, outputJSON)
	}

	gens, err := r.list(ctx)
	if err != nil {
		return err
	}

	if format == outputJSON {
		return RenderJSON(r.out, gens)
	}

	return RenderTable(r.out, gens, r.hostInfo(ctx))
}

// RunShow prints the detail page of one generation.
func (r *Runner) RunShow(ctx context.Context, generation, format string) error {
	if generation == "" {
		return errGenerationRequired
	}

	id, err := strconv.ParseUint(strings.TrimSpace(generation), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", errInvalidGeneration, generation)
	}

	format, err = detailFormat(format)
	if err != nil {
		return err
	}

	gens, err := r.list(ctx)
	if err != nil {
		return err
	}

	g, ok := generations.Find(gens, id)
	if !ok {
		return fmt.Errorf("%w: %d", errGenerationNotFound, id)
	}

	return r.renderDetail(g, format)
}

// RunCurrent prints the detail page of the generation marked current.
func (r *Runner) RunCurrent(ctx context.Context, format string) error {
	format, err := detailFormat(format)
	if err != nil {
		return err
	}

	gens, err := r.list(ctx)
	if err != nil {
		return err
	}

	g, ok := generations.Current(gens)
	if !ok {
		return errNoCurrentGeneration
	}

	return r.renderDetail(g, format)
}

// RunVersion prints the build version.
func (r *Runner) RunVersion() error {
	_, err := fmt.Fprintf(r.out, "dipstick %s\n", version.GetFullVersion())

	return err
}

func detailFormat(format string) (string, error) {
	switch format {
	case "":
		return outputText, nil
	case outputText, outputJSON:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q (expected %s or %s)", errInvalidOutputFormat, format, outputText, outputJSON)
	}
}

func (r *Runner) renderDetail(g generations.Generation, format string) error {
	if format == outputJSON {
		return RenderJSON(r.out, g)
	}

	return RenderDetail(r.out, g)
}

func (r *Runner) list(ctx context.Context) ([]generations.Generation, error) {
	return listGenerations(ctx, r.lister, r.timeout, r.logger)
}

func (r *Runner) hostInfo(ctx context.Context) *hostinfo.Info {
	if r.host == nil {
		return nil
	}

	info, err := r.host.Collect(ctx)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Host information unavailable")

		return nil
	}

	return info
}

// listGenerations runs the inventory pipeline once under the optional timeout.
func listGenerations(
	ctx context.Context, lister generations.Lister, timeout time.Duration, log logger.Logger,
) ([]generations.Generation, error) {
	if lister == nil {
		return nil, errListerNotConfigured
	}

	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()

	gens, err := lister.List(ctx)
	if err != nil {
		log.Debug().
			Err(err).
			Str("kind", generations.KindOf(err).String()).
			Dur("elapsed", time.Since(start)).
			Msg("Generation inventory failed")

		return nil, err
	}

	log.Debug().
		Int("count", len(gens)).
		Dur("elapsed", time.Since(start)).
		Msg("Generation inventory listed")

	return gens, nil
}
