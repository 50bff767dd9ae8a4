// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"path"
	"strings"
)

// Kind distinguishes the two item collections of a theme.
type Kind string

const (
	KindTemplate Kind = "template"
	KindAsset    Kind = "asset"
)

// AssetsDir is the subdirectory holding binary assets.
const AssetsDir = "assets"

// SectionsDir is the subdirectory holding section templates.
const SectionsDir = "sections"

// ConfigFile is the theme's root configuration template.
const ConfigFile = "theme.yml"

// templateExtensions lists the page, style, script and structured-config
// extensions recognized as templates.
var templateExtensions = []string{".html", ".liquid", ".css", ".js", ".json"}

// TemplatePatterns are the glob patterns, relative to the theme root,
// matching template files.
func TemplatePatterns() []string {
	patterns := make([]string, 0, 2*len(templateExtensions)+1)
	for _, extension := range templateExtensions {
		patterns = append(patterns, "*"+extension)
	}
	for _, extension := range templateExtensions {
		patterns = append(patterns, path.Join(SectionsDir, "*"+extension))
	}
	return append(patterns, ConfigFile)
}

// AssetPatterns are the glob patterns, relative to the theme root,
// matching asset files.
func AssetPatterns() []string {
	return []string{path.Join(AssetsDir, "*")}
}

// ClassifyPath maps a slash-separated path relative to the theme root to
// the item it represents. The returned name is the item's file name
// within its collection. ok is false for paths that are not theme items
// (hidden files, state files, unrecognized extensions, nested dirs).
func ClassifyPath(relative string) (kind Kind, fileName string, ok bool) {
	relative = strings.TrimPrefix(path.Clean("/"+relative), "/")
	if relative == "" || relative == "." {
		return "", "", false
	}
	if strings.HasPrefix(path.Base(relative), ".") {
		return "", "", false
	}

	if rest, found := strings.CutPrefix(relative, AssetsDir+"/"); found {
		if rest == "" || strings.Contains(rest, "/") {
			return "", "", false
		}
		return KindAsset, rest, true
	}

	for _, pattern := range TemplatePatterns() {
		if matched, _ := path.Match(pattern, relative); matched {
			return KindTemplate, relative, true
		}
	}
	return "", "", false
}
