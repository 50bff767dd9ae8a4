// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"io"
	"os"

	"github.com/shopfront/themesync/cmd/themesync/cli"
)

// Streams are the terminal streams the commands talk to the user on.
type Streams struct {
	In  io.Reader
	Out io.Writer
}

// StandardStreams returns stdin and stdout.
func StandardStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout}
}

// Command returns the "theme" command group.
func Command(streams Streams) *cli.Command {
	return &cli.Command{
		Name:    "theme",
		Summary: "Synchronize a local theme directory with a shop",
		Description: `Synchronize a local theme directory with a shop's themes.

Commands work on the shop's development theme when it has one, creating
it on request, and on the public theme with --public. Writing to a
public theme asks for confirmation unless --public was given.`,
		Subcommands: []*cli.Command{
			cloneCommand(streams),
			pullCommand(streams),
			pushCommand(streams),
			syncCommand(streams),
			compareCommand(streams),
			watchCommand(streams),
			publishCommand(streams),
			openCommand(streams),
			pairCommand(streams),
			devCommand(streams),
		},
		Examples: []cli.Example{
			{
				Description: "Clone a shop's theme into ./acme",
				Command:     "themesync theme clone --shop acme",
			},
			{
				Description: "Upload local changes as they happen",
				Command:     "themesync theme watch",
			},
			{
				Description: "Show what differs without changing anything",
				Command:     "themesync theme compare --json",
			},
		},
	}
}
