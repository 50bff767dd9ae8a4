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

type pairParams struct {
	dirParams
}

func pairCommand(streams Streams) *cli.Command {
	var params pairParams

	return &cli.Command{
		Name:    "pair",
		Summary: "Pair the theme directory with a shop",
		Description: `Record which shop the theme directory belongs to, so later commands
need no --shop flag.`,
		Usage: "themesync theme pair --shop <subdomain> [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("pair", &params)
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			if params.Shop == "" {
				return cli.Validation("--shop is required")
			}
			local, err := openLocal(params.Dir)
			if err != nil {
				return err
			}
			s, err := openSession(ctx, params.globalParams, streams, sessionOptions{command: "theme/pair"})
			if err != nil {
				return err
			}
			shop, err := s.selector.FindShop(ctx, params.Shop)
			if err != nil {
				return err
			}
			subdomain := shop.String("subdomain")
			if err := local.WriteSubdomain(subdomain); err != nil {
				return err
			}
			s.prompt.Say(fmt.Sprintf("Directory %s paired with shop %s", local.Path(), subdomain), prompt.Green)
			return nil
		},
	}
}

type devParams struct {
	dirParams
}

func devCommand(streams Streams) *cli.Command {
	var params devParams

	return &cli.Command{
		Name:    "dev",
		Summary: "Create a development theme for the paired shop",
		Description: `Create a development copy of the shop's public theme. Afterwards
push, sync and watch change the development theme, which publish
later makes public.`,
		Usage: "themesync theme dev [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("dev", &params)
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			local, err := openLocal(params.Dir)
			if err != nil {
				return err
			}
			s, err := openSession(ctx, params.globalParams, streams, sessionOptions{command: "theme/dev"})
			if err != nil {
				return err
			}
			shop, err := s.findShop(ctx, local, params.Shop)
			if err != nil {
				return err
			}
			exists, err := s.selector.HasDevTheme(ctx, shop)
			if err != nil {
				return err
			}
			if exists {
				s.prompt.Say("You already have a development theme set up!", prompt.Red)
				return &cli.ExitError{Code: 1}
			}

			if _, err := s.selector.CreateDevTheme(ctx, shop); err != nil {
				return err
			}
			s.prompt.Say("Success! You're now working on a development copy of your theme.", prompt.Plain)
			s.prompt.Say("Any changes you push or sync won't appear on your public website, but on the development version.", prompt.Plain)
			s.prompt.Say("Once you're ready to merge your changes back, run the publish command.", prompt.Plain)
			return nil
		},
	}
}
