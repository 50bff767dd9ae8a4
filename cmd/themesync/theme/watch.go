// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/pflag"

	"github.com/shopfront/themesync/cmd/themesync/cli"
	"github.com/shopfront/themesync/lib/prompt"
	"github.com/shopfront/themesync/lib/themediff"
	"github.com/shopfront/themesync/lib/watch"
)

type watchParams struct {
	dirParams
	publicParams
	Debounce time.Duration `json:"-" flag:"debounce" desc:"quiet period that ends a burst of file changes" default:"50ms"`
}

func watchCommand(streams Streams) *cli.Command {
	var params watchParams

	return &cli.Command{
		Name:    "watch",
		Summary: "Upload changes to the remote theme as files are saved",
		Description: `Watch the theme directory and apply every change to the remote theme:
saved and created files are uploaded, deleted files are removed. When
the two sides differ at startup, offers to sync them first.

Runs until interrupted.`,
		Usage: "themesync theme watch [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("watch", &params)
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			s, err := openSession(ctx, params.globalParams, streams, sessionOptions{
				command:           "theme/watch",
				skipPublicWarning: params.Public,
			})
			if err != nil {
				return err
			}
			p, err := s.selectPair(ctx, params.dirParams, params.Public)
			if err != nil {
				return err
			}

			differ, err := themediff.New(p.local, p.remote, false).Any(ctx)
			if err != nil {
				return err
			}
			if differ && s.prompt.YesOrNo("There are differences between the remote theme and your local copy. Sync now?", true) {
				if err := s.workflows.Sync(ctx, p.local, p.remote); err != nil {
					return finish(err)
				}
				s.prompt.Say("Synced!", prompt.Cyan)
			}

			notifier := watch.NewInotify(p.local.Path(), watch.Options{
				Debounce: params.Debounce,
				Logger:   s.logger,
			})
			return finish(s.workflows.Watch(ctx, p.local.Path(), p.remote, notifier))
		},
	}
}
