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

// Package main is the dipstick binary: a browser for NixOS system generations.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carverauto/dipstick/pkg/cli"
	"github.com/carverauto/dipstick/pkg/config"
	"github.com/carverauto/dipstick/pkg/generations"
	"github.com/carverauto/dipstick/pkg/hostinfo"
	"github.com/carverauto/dipstick/pkg/lifecycle"
	"github.com/carverauto/dipstick/pkg/logger"
	"github.com/carverauto/dipstick/pkg/models"
	"golang.org/x/term"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		if hint := cli.Hint(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}

		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	cmdCfg, err := cli.ParseFlags(args)
	if err != nil {
		return err
	}

	if cmdCfg.Help {
		cli.ShowHelp(stdout)

		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := models.DefaultConfig()
	if err := config.NewConfig(nil).LoadAndValidate(ctx, cmdCfg.ConfigFile, cfg); err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	interactive := cmdCfg.Interactive(term.IsTerminal(int(os.Stdout.Fd())))

	// The browser owns the terminal; logs go to a file or nowhere.
	if interactive && cfg.Logging.File == "" {
		cfg.Logging.Output = logger.OutputDiscard
	}

	if err := lifecycle.InitializeLogger(cfg.Logging); err != nil {
		return err
	}

	defer func() { _ = lifecycle.ShutdownLogger() }()

	log := lifecycle.CreateComponentLogger("dipstick")

	source := generations.NewSource(nil)
	timeout := time.Duration(cfg.Timeout)

	log.Debug().
		Str("command", cmdCfg.SubCmd).
		Bool("interactive", interactive).
		Dur("timeout", timeout).
		Msg("Starting dipstick")

	if interactive {
		browser := cli.NewBrowser(ctx, source,
			cli.WithBrowserTimeout(timeout),
			cli.WithBrowserLogger(log),
		)

		return cli.RunTUI(ctx, browser)
	}

	opts := []cli.RunnerOption{
		cli.WithStdout(stdout),
		cli.WithLogger(log),
		cli.WithTimeout(timeout),
		cli.WithDefaultFormat(cfg.Output),
	}

	if cfg.HostInfo {
		opts = append(opts, cli.WithHostInfo(hostinfo.NewCollector()))
	}

	err = cli.NewRunner(source, opts...).Run(ctx, cmdCfg)
	if errors.Is(err, context.Canceled) {
		log.Debug().Msg("Interrupted")
	}

	return err
}
