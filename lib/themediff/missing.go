// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package themediff

import (
	"context"
	"fmt"

	"github.com/shopfront/themesync/lib/theme"
)

// MissingItems lists the items of source whose names are absent from
// target. Content is not compared.
type MissingItems struct {
	Templates []theme.Template `json:"templates"`
	Assets    []theme.Asset    `json:"assets"`
}

// Empty reports whether nothing is missing.
func (m *MissingItems) Empty() bool {
	return len(m.Templates) == 0 && len(m.Assets) == 0
}

// Missing returns the items of source missing from target, computed
// independently for templates and assets.
func Missing(ctx context.Context, source, target theme.Theme) (*MissingItems, error) {
	sourceItems, err := load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	targetItems, err := load(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("reading target: %w", err)
	}
	return missing(sourceItems, targetItems), nil
}

func missing(source, target *snapshot) *MissingItems {
	result := &MissingItems{}

	targetTemplates := templatesByName(target.templates)
	for _, template := range source.templates {
		if _, ok := targetTemplates[template.FileName]; !ok {
			result.Templates = append(result.Templates, template)
		}
	}

	targetAssets := assetsByName(target.assets)
	for _, asset := range source.assets {
		if _, ok := targetAssets[asset.FileName]; !ok {
			result.Assets = append(result.Assets, asset)
		}
	}

	return result
}
