// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopfront/themesync/cmd/themesync/cli"
	themecmd "github.com/shopfront/themesync/cmd/themesync/theme"
)

// walkCommands visits every command in the tree with its path.
func walkCommands(command *cli.Command, path []string, visit func(*cli.Command, []string)) {
	current := append(append([]string(nil), path...), command.Name)
	visit(command, current)
	for _, sub := range command.Subcommands {
		walkCommands(sub, current, visit)
	}
}

func TestCommandTreeIsDocumented(t *testing.T) {
	root := Root(themecmd.Streams{In: strings.NewReader(""), Out: &bytes.Buffer{}})
	walkCommands(root, nil, func(command *cli.Command, path []string) {
		if len(path) > 1 && command.Summary == "" {
			t.Errorf("%s: missing Summary", strings.Join(path, " "))
		}
		if command.Flags != nil {
			// Building the flag set panics on malformed params tags.
			command.Flags()
		}
	})
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	root := Root(themecmd.Streams{In: strings.NewReader(""), Out: &out})
	if err := root.Execute(context.Background(), []string{"version"}, slog.Default()); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "themesync ") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestHelpListsThemeCommands(t *testing.T) {
	var out bytes.Buffer
	root := Root(themecmd.Streams{In: strings.NewReader(""), Out: &out})
	root.Output = &out
	if err := root.Execute(context.Background(), []string{"theme", "--help"}, slog.Default()); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"clone", "pull", "push", "sync", "compare", "watch", "publish", "open", "pair", "dev"} {
		if !strings.Contains(out.String(), "  "+name) {
			t.Errorf("help does not list %s:\n%s", name, out.String())
		}
	}
}
