// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/shopfront/themesync/cmd/themesync/cli"
	"github.com/shopfront/themesync/lib/prompt"
	"github.com/shopfront/themesync/lib/remotetheme"
	"github.com/shopfront/themesync/lib/theme"
	"github.com/shopfront/themesync/lib/themediff"
)

// backupPrefix names the directory a public theme is saved to before
// it is replaced.
const backupPrefix = "public-theme-backup-"

type publishParams struct {
	dirParams
}

func publishCommand(streams Streams) *cli.Command {
	var params publishParams

	return &cli.Command{
		Name:    "publish",
		Summary: "Make the development theme the shop's public theme",
		Description: `Replace the shop's public theme with its development theme. Local
changes are pushed to the development theme first, and the current
public theme can be saved into the directory before it is replaced.`,
		Usage: "themesync theme publish [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("publish", &params)
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			s, err := openSession(ctx, params.globalParams, streams, sessionOptions{command: "theme/publish"})
			if err != nil {
				return err
			}
			p, err := s.selectPair(ctx, params.dirParams, false)
			if err != nil {
				return err
			}
			if !p.remote.IsDev() {
				s.prompt.Say("You don't seem to have a development theme set up, so there's nothing to publish.", prompt.Red)
				s.prompt.Say("To push your local changes directly to your public theme, run the push or sync commands.", prompt.Red)
				return nil
			}

			public, err := s.remoteTheme(ctx, p.shop, true)
			if err != nil {
				return err
			}
			differ, err := themediff.New(p.remote, public, false).Any(ctx)
			if err != nil {
				return err
			}
			if !differ && !s.prompt.YesOrNo("Your public and development themes seem to be in sync (no differences). Publish anyway?", false) {
				s.prompt.Say("Nothing published.", prompt.Plain)
				return nil
			}

			if s.prompt.YesOrNo("Would you like to make a local copy of your current public theme before publishing?", differ) {
				if err := s.backup(ctx, p, public); err != nil {
					return finish(err)
				}
			}

			if err := s.workflows.Publish(ctx, p.local, p.remote); err != nil {
				return finish(err)
			}
			if preview := p.remote.PreviewURL(); preview != "" {
				s.prompt.Say(fmt.Sprintf("Your public theme is now live at %s", preview), prompt.Cyan)
			}
			return nil
		},
	}
}

// backup pulls the public theme into a timestamped directory inside the
// theme directory.
func (s *session) backup(ctx context.Context, p *pair, public *remotetheme.Theme) error {
	dir := filepath.Join(p.local.Path(), fmt.Sprintf("%s%d", backupPrefix, time.Now().Unix()))
	backup := theme.NewLocal(dir)

	s.prompt.Notice(fmt.Sprintf("Backing up your public theme into %s", s.prompt.Highlight(dir)))
	if err := s.workflows.Pull(ctx, backup, public, true); err != nil {
		return err
	}
	if err := backup.WriteSubdomain(p.subdomain()); err != nil {
		return err
	}
	s.prompt.Say(fmt.Sprintf("Done! Existing public theme was saved to %s", filepath.Base(dir)), prompt.Cyan)
	return nil
}
