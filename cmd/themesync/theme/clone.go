// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/shopfront/themesync/cmd/themesync/cli"
	"github.com/shopfront/themesync/lib/theme"
)

type cloneParams struct {
	globalParams
	publicParams
	Shop string `json:"-" flag:"shop,s" desc:"shop subdomain (default: the first shop the token can access)"`
}

func cloneCommand(streams Streams) *cli.Command {
	var params cloneParams

	return &cli.Command{
		Name:    "clone",
		Summary: "Clone a shop's theme into a new directory",
		Description: `Download every template and asset of a shop's theme into [dir],
which defaults to the shop subdomain, and pair the directory with the
shop. The directory must not already hold a theme.`,
		Usage: "themesync theme clone [dir] [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("clone", &params)
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 1 {
				return cli.Validation("usage: themesync theme clone [dir]")
			}
			s, err := openSession(ctx, params.globalParams, streams, sessionOptions{
				command:           "theme/clone",
				skipPublicWarning: params.Public,
			})
			if err != nil {
				return err
			}

			shop, err := s.findShop(ctx, nil, params.Shop)
			if err != nil {
				return err
			}
			subdomain := shop.String("subdomain")

			dir := subdomain
			if len(args) == 1 {
				dir = args[0]
			}
			absolute, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving %s: %w", dir, err)
			}
			local := theme.NewLocal(absolute)
			if local.Exists() {
				return cli.Validation("directory already holds a theme: %s", absolute)
			}

			remote, err := s.remoteTheme(ctx, shop, params.Public)
			if err != nil {
				return err
			}

			s.prompt.Notice(fmt.Sprintf("Cloning theme files into %s", absolute))
			if err := s.workflows.Pull(ctx, local, remote, true); err != nil {
				return finish(err)
			}
			return local.WriteSubdomain(subdomain)
		},
	}
}
