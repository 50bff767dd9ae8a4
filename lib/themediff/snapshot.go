// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package themediff

import (
	"context"
	"fmt"

	"github.com/shopfront/themesync/lib/theme"
)

// snapshot is one point-in-time listing of a theme.
type snapshot struct {
	templates []theme.Template
	assets    []theme.Asset
}

func load(ctx context.Context, t theme.Theme) (*snapshot, error) {
	templates, err := t.Templates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	assets, err := t.Assets(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	return &snapshot{templates: templates, assets: assets}, nil
}

func templatesByName(templates []theme.Template) map[string]theme.Template {
	index := make(map[string]theme.Template, len(templates))
	for _, template := range templates {
		index[template.FileName] = template
	}
	return index
}

func assetsByName(assets []theme.Asset) map[string]theme.Asset {
	index := make(map[string]theme.Asset, len(assets))
	for _, asset := range assets {
		index[asset.FileName] = asset
	}
	return index
}
