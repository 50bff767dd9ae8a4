// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/browser"
	"github.com/spf13/pflag"

	"github.com/shopfront/themesync/cmd/themesync/cli"
	"github.com/shopfront/themesync/lib/prompt"
)

// openURL hands a URL to the desktop's browser. Tests replace it.
var openURL = browser.OpenURL

type openParams struct {
	dirParams
	publicParams
}

func openCommand(streams Streams) *cli.Command {
	var params openParams

	return &cli.Command{
		Name:    "open",
		Summary: "Open the theme's preview in a browser",
		Description: `Open the preview page of the shop's development theme, or of its
public theme with --public, in the default browser.`,
		Usage: "themesync theme open [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("open", &params)
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			s, err := openSession(ctx, params.globalParams, streams, sessionOptions{
				command:           "theme/open",
				skipPublicWarning: params.Public,
			})
			if err != nil {
				return err
			}
			p, err := s.selectPair(ctx, params.dirParams, params.Public)
			if err != nil {
				return finish(err)
			}
			preview := p.remote.PreviewURL()
			if preview == "" {
				return cli.NotFound("theme %s of shop %s has no preview URL", p.remote.Name(), p.subdomain())
			}
			if err := openURL(preview); err != nil {
				return fmt.Errorf("opening %s: %w", preview, err)
			}
			s.prompt.Say(fmt.Sprintf("Opened %s", preview), prompt.Plain)
			return nil
		},
	}
}
