// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/shopfront/themesync/cmd/themesync/cli"
	"github.com/shopfront/themesync/lib/config"
	"github.com/shopfront/themesync/lib/hypermedia"
	"github.com/shopfront/themesync/lib/prompt"
	"github.com/shopfront/themesync/lib/remotetheme"
	"github.com/shopfront/themesync/lib/theme"
	"github.com/shopfront/themesync/lib/version"
	"github.com/shopfront/themesync/lib/workflow"
)

// globalParams are accepted by every theme command.
type globalParams struct {
	ConfigPath string `json:"-" flag:"config" desc:"configuration file (default: $THEMESYNC_CONFIG, then ~/.config/themesync/config.yaml)"`
	Yes        bool   `json:"-" flag:"yes,y"  desc:"answer every question with its default"`
}

// dirParams select an existing theme directory and, optionally, the
// shop it belongs to.
type dirParams struct {
	globalParams
	Shop string `json:"-" flag:"shop,s" desc:"shop subdomain (default: the shop the directory is paired with)"`
	Dir  string `json:"-" flag:"dir"    desc:"theme directory" default:"."`
}

// publicParams select the public theme over the development theme.
type publicParams struct {
	Public bool `json:"-" flag:"public,p" desc:"use the public theme even if a development theme exists"`
}

// session holds what every command needs once configuration is loaded
// and the API root has been fetched.
type session struct {
	logger    *slog.Logger
	prompt    prompt.Prompt
	selector  *remotetheme.Selector
	workflows *workflow.Workflows
}

// sessionOptions tune a session for one command.
type sessionOptions struct {
	command           string
	skipPublicWarning bool

	// quiet answers every question with its default and prints
	// nothing, leaving the output stream to machine-readable results.
	quiet bool
}

func openSession(ctx context.Context, params globalParams, streams Streams, options sessionOptions) (*session, error) {
	var (
		cfg *config.Config
		err error
	)
	if params.ConfigPath != "" {
		cfg, err = config.LoadFile(params.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	token, err := cfg.AccessToken()
	if err != nil {
		if errors.Is(err, config.ErrNoAccessToken) {
			return nil, cli.Validation("%w", err)
		}
		return nil, err
	}

	logger := cli.NewCommandLogger(cfg.Level()).With("command", options.command)

	terminal := prompt.NewTerminal(streams.In, streams.Out)
	var p prompt.Prompt = terminal
	switch {
	case options.quiet:
		p = prompt.Null{}
	case params.Yes:
		p = defaultAnswers{Terminal: terminal}
	}

	client, err := hypermedia.NewClient(hypermedia.ClientConfig{
		RootURL:   cfg.APIRoot,
		Token:     token,
		UserAgent: version.UserAgent(),
		HTTPClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	root, err := client.Root(ctx)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", cfg.APIRoot, err)
	}

	fetcher := remotetheme.NewFetcher(remotetheme.FetchConfig{
		Timeout:             cfg.Fetch.Timeout,
		Attempts:            cfg.Fetch.Attempts,
		InsecureTLSFallback: cfg.Fetch.InsecureTLSFallback,
		Logger:              logger,
	})

	return &session{
		logger: logger,
		prompt: p,
		selector: &remotetheme.Selector{
			Root:    root,
			Fetcher: fetcher,
			Prompt:  p,
			Logger:  logger,
		},
		workflows: workflow.New(workflow.Config{
			Prompt:            p,
			Concurrency:       cfg.Concurrency,
			SkipPublicWarning: options.skipPublicWarning,
			Logger:            logger,
		}),
	}, nil
}

// defaultAnswers prints like the terminal prompt but never reads an
// answer.
type defaultAnswers struct {
	*prompt.Terminal
}

func (defaultAnswers) YesOrNo(_ string, defaultAnswer bool) bool { return defaultAnswer }

// openLocal returns the theme in dir, which must already hold one.
func openLocal(dir string) (*theme.Local, error) {
	absolute, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", dir, err)
	}
	local := theme.NewLocal(absolute)
	if !local.Exists() {
		return nil, cli.NotFound("%s doesn't look like a theme directory (no layout.html)", absolute)
	}
	return local, nil
}

// pair is a local theme together with the remote theme it syncs with.
type pair struct {
	local  *theme.Local
	remote *remotetheme.Theme
	shop   *hypermedia.Entity
}

func (p *pair) subdomain() string {
	return p.shop.String("subdomain")
}

// findShop resolves the shop named by flag, falling back to the
// subdomain local is paired with, then to the first accessible shop.
func (s *session) findShop(ctx context.Context, local *theme.Local, flag string) (*hypermedia.Entity, error) {
	subdomain := flag
	if subdomain == "" && local != nil {
		paired, err := local.Subdomain()
		if err != nil {
			return nil, err
		}
		subdomain = paired
	}
	return s.selector.FindShop(ctx, subdomain)
}

// remoteTheme resolves the shop's public or development theme and
// tells the user which one is in use.
func (s *session) remoteTheme(ctx context.Context, shop *hypermedia.Entity, public bool) (*remotetheme.Theme, error) {
	subdomain := shop.String("subdomain")
	if public {
		s.prompt.Say(fmt.Sprintf("Working on public theme of shop %s", subdomain), prompt.Red)
	} else {
		s.prompt.Say(fmt.Sprintf("Working on development theme of shop %s", subdomain), prompt.Green)
	}
	remote, err := s.selector.RemoteTheme(ctx, shop, public)
	if err != nil {
		return nil, err
	}
	if preview := remote.PreviewURL(); preview != "" {
		s.prompt.Say(fmt.Sprintf("Preview this theme at %s", preview), prompt.Magenta)
	}
	return remote, nil
}

// selectPair opens the theme directory of params and the remote theme
// it is paired with.
func (s *session) selectPair(ctx context.Context, params dirParams, public bool) (*pair, error) {
	local, err := openLocal(params.Dir)
	if err != nil {
		return nil, err
	}
	shop, err := s.findShop(ctx, local, params.Shop)
	if err != nil {
		return nil, err
	}
	remote, err := s.remoteTheme(ctx, shop, public)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("selected theme pair", "dir", local.Path(), "shop", shop.String("subdomain"), "theme", remote.Name())
	return &pair{local: local, remote: remote, shop: shop}, nil
}

// finish turns a declined confirmation into a clean exit.
func finish(err error) error {
	if errors.Is(err, workflow.ErrDeclined) {
		return nil
	}
	return err
}
