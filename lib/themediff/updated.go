// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package themediff

import (
	"context"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/shopfront/themesync/lib/theme"
)

// UpdatedTemplate is a template whose source copy should replace the
// target copy. Diff is a unified diff from the target body to the
// source body.
type UpdatedTemplate struct {
	theme.Template
	Diff string `json:"diff"`
}

// UpdatedTheme lists the items to copy from source to target because
// they changed.
type UpdatedTheme struct {
	Templates []UpdatedTemplate `json:"templates"`
	Assets    []theme.Asset     `json:"assets"`
}

// Empty reports whether nothing was updated.
func (u *UpdatedTheme) Empty() bool {
	return len(u.Templates) == 0 && len(u.Assets) == 0
}

// Updated compares source against target. An item present in both is
// included iff its content differs and either the source copy is
// strictly newer or forceUpdate is set. Items follow source order.
func Updated(ctx context.Context, source, target theme.Theme, forceUpdate bool) (*UpdatedTheme, error) {
	sourceItems, err := load(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	targetItems, err := load(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("reading target: %w", err)
	}
	return updated(sourceItems, targetItems, forceUpdate), nil
}

func updated(source, target *snapshot, forceUpdate bool) *UpdatedTheme {
	result := &UpdatedTheme{}

	targetTemplates := templatesByName(target.templates)
	for _, sourceTemplate := range source.templates {
		targetTemplate, ok := targetTemplates[sourceTemplate.FileName]
		if !ok || theme.TemplatesEqual(sourceTemplate, targetTemplate) {
			continue
		}
		if !forceUpdate && !sourceTemplate.UpdatedOn.After(targetTemplate.UpdatedOn) {
			continue
		}
		result.Templates = append(result.Templates, UpdatedTemplate{
			Template: sourceTemplate,
			Diff:     UnifiedDiff(targetTemplate.Body, sourceTemplate.Body),
		})
	}

	targetAssets := assetsByName(target.assets)
	for _, sourceAsset := range source.assets {
		targetAsset, ok := targetAssets[sourceAsset.FileName]
		if !ok || theme.AssetsEqual(sourceAsset, targetAsset) {
			continue
		}
		if !forceUpdate && !sourceAsset.UpdatedOn.After(targetAsset.UpdatedOn) {
			continue
		}
		result.Assets = append(result.Assets, sourceAsset)
	}

	return result
}

// UnifiedDiff returns a unified diff turning from into to, with one line
// of context and no file header. Line endings are normalized first so
// CRLF/LF differences never show up as changes.
func UnifiedDiff(from, to string) string {
	diff := difflib.UnifiedDiff{
		A:       splitLines(theme.NormalizeLineEndings(from)),
		B:       splitLines(theme.NormalizeLineEndings(to)),
		Context: 1,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		// Writes go to a strings.Builder and cannot fail.
		return ""
	}
	return text
}

// noNewline marks a final line that has no newline, the way git does.
const noNewline = "\n\\ No newline at end of file\n"

// splitLines splits text after each newline. A final line without a
// newline carries the noNewline marker, so adding or dropping only the
// trailing newline still shows as a change.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	} else {
		lines[len(lines)-1] += noNewline
	}
	return lines
}
