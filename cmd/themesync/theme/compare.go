// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"context"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/shopfront/themesync/cmd/themesync/cli"
	"github.com/shopfront/themesync/lib/workflow"
)

type compareParams struct {
	cli.JSONOutput
	dirParams
}

// compareResult is one remote theme's entry in the --json output.
type compareResult struct {
	Role    string `json:"role"`
	Name    string `json:"name"`
	Changed bool   `json:"changed"`
	*workflow.CompareReport
}

func compareCommand(streams Streams) *cli.Command {
	var params compareParams

	return &cli.Command{
		Name:    "compare",
		Summary: "Show how the directory differs from the remote themes",
		Description: `Report the differences between the theme directory and the shop's
development theme, then its public theme. Nothing is changed on either
side.`,
		Usage: "themesync theme compare [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("compare", &params)
		},
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument %q", args[0])
			}
			s, err := openSession(ctx, params.globalParams, streams, sessionOptions{
				command: "theme/compare",
				quiet:   params.OutputJSON,
			})
			if err != nil {
				return err
			}
			p, err := s.selectPair(ctx, params.dirParams, false)
			if err != nil {
				return err
			}

			var results []compareResult
			report, err := s.workflows.Compare(ctx, p.local, p.remote)
			if err != nil {
				return err
			}
			results = append(results, newCompareResult(p.remote.IsDev(), p.remote.Name(), report))

			if p.remote.IsDev() {
				public, err := s.remoteTheme(ctx, p.shop, true)
				if err != nil {
					return err
				}
				report, err := s.workflows.Compare(ctx, p.local, public)
				if err != nil {
					return err
				}
				results = append(results, newCompareResult(false, public.Name(), report))
			}

			if done, err := params.EmitJSON(streams.Out, results); done {
				return err
			}
			return nil
		},
	}
}

func newCompareResult(dev bool, name string, report *workflow.CompareReport) compareResult {
	role := "public"
	if dev {
		role = "development"
	}
	return compareResult{Role: role, Name: name, Changed: report.Changed(), CompareReport: report}
}
