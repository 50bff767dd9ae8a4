// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package remotetheme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopfront/themesync/lib/hypermedia"
	"github.com/shopfront/themesync/lib/prompt"
)

// Selection errors.
var (
	ErrNoShops        = errors.New("no shops are accessible with these credentials")
	ErrShopNotFound   = errors.New("shop not found")
	ErrNoDevTheme     = errors.New("shop has no development theme")
	ErrNotDevelopment = errors.New("theme is not a development theme")
)

// Selector resolves shops and their themes from the API root.
type Selector struct {
	Root    *hypermedia.Entity
	Fetcher *Fetcher

	// Prompt confirms creating a missing development theme. Nil creates
	// it without asking.
	Prompt prompt.Prompt

	Logger *slog.Logger
}

func (s *Selector) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// FindShop returns the shop with subdomain, or the first accessible shop
// when subdomain is empty.
func (s *Selector) FindShop(ctx context.Context, subdomain string) (*hypermedia.Entity, error) {
	if subdomain != "" && s.Root.Can("all_shops") {
		found, err := s.Root.Follow(ctx, "all_shops", map[string]string{"subdomains": subdomain})
		if err != nil {
			return nil, fmt.Errorf("searching shops: %w", err)
		}
		if shop := matchShop(found.Embedded("items"), subdomain); shop != nil {
			return shop, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrShopNotFound, subdomain)
	}

	shops, err := s.Root.Follow(ctx, "shops", nil)
	if err != nil {
		return nil, fmt.Errorf("listing shops: %w", err)
	}
	items := shops.Embedded("items")
	if subdomain == "" {
		if len(items) == 0 {
			return nil, ErrNoShops
		}
		return items[0], nil
	}
	if shop := matchShop(items, subdomain); shop != nil {
		return shop, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrShopNotFound, subdomain)
}

func matchShop(shops []*hypermedia.Entity, subdomain string) *hypermedia.Entity {
	for _, shop := range shops {
		if shop.String("subdomain") == subdomain {
			return shop
		}
	}
	return nil
}

// RemoteTheme returns the shop's public theme when production is set,
// and its development theme otherwise, offering to create the latter
// when it does not exist.
func (s *Selector) RemoteTheme(ctx context.Context, shop *hypermedia.Entity, production bool) (*Theme, error) {
	if production {
		entity, err := shop.Follow(ctx, "theme", nil)
		if err != nil {
			return nil, fmt.Errorf("fetching public theme: %w", err)
		}
		return New(entity, s.Fetcher, s.Logger), nil
	}

	themes, err := shop.Follow(ctx, "themes", nil)
	if err != nil {
		return nil, fmt.Errorf("listing themes: %w", err)
	}
	if themes.Can("dev_theme") {
		entity, err := themes.Follow(ctx, "dev_theme", nil)
		if err != nil {
			return nil, fmt.Errorf("fetching development theme: %w", err)
		}
		return New(entity, s.Fetcher, s.Logger), nil
	}
	if !themes.Can("create_dev_theme") {
		return nil, ErrNoDevTheme
	}
	if s.Prompt != nil && !s.Prompt.YesOrNo("This shop has no development theme. Create one from the public theme?", true) {
		return nil, ErrNoDevTheme
	}
	return s.createDevTheme(ctx, themes)
}

// HasDevTheme reports whether the shop already has a development theme.
func (s *Selector) HasDevTheme(ctx context.Context, shop *hypermedia.Entity) (bool, error) {
	themes, err := shop.Follow(ctx, "themes", nil)
	if err != nil {
		return false, fmt.Errorf("listing themes: %w", err)
	}
	return themes.Can("dev_theme"), nil
}

// CreateDevTheme creates a development theme copied from the shop's
// public theme.
func (s *Selector) CreateDevTheme(ctx context.Context, shop *hypermedia.Entity) (*Theme, error) {
	themes, err := shop.Follow(ctx, "themes", nil)
	if err != nil {
		return nil, fmt.Errorf("listing themes: %w", err)
	}
	if !themes.Can("create_dev_theme") {
		return nil, fmt.Errorf("shop %s cannot create a development theme", shop.String("subdomain"))
	}
	return s.createDevTheme(ctx, themes)
}

func (s *Selector) createDevTheme(ctx context.Context, themes *hypermedia.Entity) (*Theme, error) {
	entity, err := themes.Run(ctx, "create_dev_theme", nil, map[string]string{})
	if err != nil {
		return nil, fmt.Errorf("creating development theme: %w", err)
	}
	s.logger().Info("created development theme", "name", entity.String("name"))
	return New(entity, s.Fetcher, s.Logger), nil
}
