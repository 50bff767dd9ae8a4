// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete themesync command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopfront/themesync/cmd/themesync/cli"
	themecmd "github.com/shopfront/themesync/cmd/themesync/theme"
	"github.com/shopfront/themesync/lib/version"
)

// Root builds and returns the themesync command tree talking to the
// user on streams.
func Root(streams themecmd.Streams) *cli.Command {
	return &cli.Command{
		Name: "themesync",
		Description: `themesync: keep a local theme directory in step with a shop.

Clone a shop's theme, edit it locally, and push, pull, sync or watch
changes against the shop's development theme before publishing it.`,
		Subcommands: []*cli.Command{
			themecmd.Command(streams),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
					fmt.Fprintf(streams.Out, "themesync %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Clone a shop's theme and start editing",
				Command:     "themesync theme clone --shop acme",
			},
			{
				Description: "Push local edits to the development theme",
				Command:     "themesync theme push",
			},
			{
				Description: "Make the development theme public",
				Command:     "themesync theme publish",
			},
		},
	}
}
