// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopfront/themesync/cmd/themesync/cli"
	"github.com/shopfront/themesync/cmd/themesync/commands"
	themecmd "github.com/shopfront/themesync/cmd/themesync/theme"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output return an ExitError
		// with the desired exit code.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		report(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := cli.NewCommandLogger(slog.LevelWarn)
	return commands.Root(themecmd.StandardStreams()).Execute(ctx, os.Args[1:], logger)
}

// report prints err and, when its category has one, a hint.
func report(w io.Writer, err error) {
	fmt.Fprintf(w, "error: %v\n", err)
	var toolErr *cli.ToolError
	if errors.As(cli.Classify(err), &toolErr) {
		if hint := toolErr.Hint(); hint != "" {
			fmt.Fprintf(w, "hint: %s\n", hint)
		}
	}
}
