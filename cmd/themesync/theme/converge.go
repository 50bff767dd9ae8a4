// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/shopfront/themesync/cmd/themesync/cli"
	"github.com/shopfront/themesync/lib/prompt"
)

type transferParams struct {
	dirParams
	publicParams
	Delete bool `json:"-" flag:"delete" desc:"remove files on the receiving side that the other side no longer has" default:"true"`
}

type syncParams struct {
	dirParams
	publicParams
}

func pullCommand(streams Streams) *cli.Command {
	var params transferParams

	return &cli.Command{
		Name:    "pull",
		Summary: "Pull remote changes into the theme directory",
		Description: `Make the theme directory match the remote theme. Files changed
remotely are shown as a diff and applied on confirmation; files only
present locally are removed unless --delete=false.`,
		Usage: "themesync theme pull [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("pull", &params)
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			s, err := openSession(ctx, params.globalParams, streams, sessionOptions{command: "theme/pull"})
			if err != nil {
				return err
			}
			p, err := s.selectPair(ctx, params.dirParams, params.Public)
			if err != nil {
				return err
			}
			if err := s.workflows.Pull(ctx, p.local, p.remote, params.Delete); err != nil {
				return finish(err)
			}
			s.prompt.Say(fmt.Sprintf("Done! Preview this theme at %s", p.remote.PreviewURL()), prompt.Cyan)
			return nil
		},
	}
}

func pushCommand(streams Streams) *cli.Command {
	var params transferParams

	return &cli.Command{
		Name:    "push",
		Summary: "Push the theme directory to the remote theme",
		Description: `Make the remote theme match the theme directory. Files changed
locally are shown as a diff and uploaded on confirmation; files only
present remotely are removed unless --delete=false.`,
		Usage: "themesync theme push [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("push", &params)
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			s, err := openSession(ctx, params.globalParams, streams, sessionOptions{
				command:           "theme/push",
				skipPublicWarning: params.Public,
			})
			if err != nil {
				return err
			}
			p, err := s.selectPair(ctx, params.dirParams, params.Public)
			if err != nil {
				return err
			}
			if err := s.workflows.Push(ctx, p.local, p.remote, params.Delete); err != nil {
				return finish(err)
			}
			s.prompt.Say(fmt.Sprintf("Done! View updated version at %s", p.remote.PreviewURL()), prompt.Cyan)
			return nil
		},
	}
}

func syncCommand(streams Streams) *cli.Command {
	var params syncParams

	return &cli.Command{
		Name:    "sync",
		Summary: "Exchange changes between the directory and the remote theme",
		Description: `Bring both sides up to date without deleting anything: each changed
file is copied from the side holding the newer copy, and files present
on only one side are copied to the other.`,
		Usage: "themesync theme sync [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("sync", &params)
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			s, err := openSession(ctx, params.globalParams, streams, sessionOptions{
				command:           "theme/sync",
				skipPublicWarning: params.Public,
			})
			if err != nil {
				return err
			}
			p, err := s.selectPair(ctx, params.dirParams, params.Public)
			if err != nil {
				return err
			}
			if err := s.workflows.Sync(ctx, p.local, p.remote); err != nil {
				return finish(err)
			}
			s.prompt.Say(fmt.Sprintf("Synced! Preview this theme at %s", p.remote.PreviewURL()), prompt.Cyan)
			return nil
		},
	}
}
