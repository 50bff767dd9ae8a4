// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Local is a [Theme] stored in a directory. Template and asset listings
// are memoized until the next mutation or [Local.Reload].
type Local struct {
	filesystem billy.Filesystem

	mu              sync.Mutex
	templates       []Template
	templatesLoaded bool
	assets          []Asset
	assetsLoaded    bool
}

// NewLocal returns a local theme rooted at dir. The directory is created
// on the first write.
func NewLocal(dir string) *Local {
	return NewLocalFS(osfs.New(dir))
}

// NewLocalFS returns a local theme over an existing billy filesystem.
func NewLocalFS(filesystem billy.Filesystem) *Local {
	return &Local{filesystem: filesystem}
}

// Path returns the theme's root directory.
func (l *Local) Path() string {
	return l.filesystem.Root()
}

// Exists reports whether the theme directory contains a layout template,
// the file every theme must have.
func (l *Local) Exists() bool {
	_, err := l.filesystem.Stat("layout.html")
	return err == nil
}

func (l *Local) Reload(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.templatesLoaded = false
	l.assetsLoaded = false
	return nil
}

func (l *Local) Templates(context.Context) ([]Template, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.templatesLoaded {
		return l.templates, nil
	}

	paths, err := l.paths(TemplatePatterns())
	if err != nil {
		return nil, err
	}
	templates := make([]Template, 0, len(paths))
	for _, name := range paths {
		if kind, _, ok := ClassifyPath(name); !ok || kind != KindTemplate {
			continue
		}
		info, err := l.filesystem.Stat(name)
		if err != nil {
			return nil, fmt.Errorf("stat template %s: %w", name, err)
		}
		if info.IsDir() {
			continue
		}
		body, err := l.readFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", name, err)
		}
		templates = append(templates, Template{
			FileName:  name,
			Body:      string(body),
			UpdatedOn: info.ModTime().UTC(),
		})
	}

	l.templates = templates
	l.templatesLoaded = true
	return templates, nil
}

func (l *Local) Assets(context.Context) ([]Asset, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.assetsLoaded {
		return l.assets, nil
	}

	paths, err := l.paths(AssetPatterns())
	if err != nil {
		return nil, err
	}
	assets := make([]Asset, 0, len(paths))
	for _, name := range paths {
		kind, fileName, ok := ClassifyPath(name)
		if !ok || kind != KindAsset {
			continue
		}
		info, err := l.filesystem.Stat(name)
		if err != nil {
			return nil, fmt.Errorf("stat asset %s: %w", name, err)
		}
		if info.IsDir() {
			continue
		}
		data, err := l.readFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading asset %s: %w", name, err)
		}
		assets = append(assets, Asset{
			FileName:  fileName,
			UpdatedOn: info.ModTime().UTC(),
			Digest:    Digest(data),
			FileSize:  info.Size(),
			Open:      l.opener(name),
		})
	}

	l.assets = assets
	l.assetsLoaded = true
	return assets, nil
}

// AddTemplate writes body to the template file. Line endings are
// normalized to LF, unless the file already exists with CRLF endings, in
// which case CRLF is kept.
func (l *Local) AddTemplate(_ context.Context, fileName, body string) error {
	if _, err := itemPath(KindTemplate, fileName); err != nil {
		return err
	}
	body = NormalizeLineEndings(body)
	existing, err := l.readFile(fileName)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading template %s: %w", fileName, err)
	}
	if strings.Contains(string(existing), "\r\n") {
		body = strings.ReplaceAll(body, "\n", "\r\n")
	}

	if err := l.writeFile(fileName, strings.NewReader(body)); err != nil {
		return fmt.Errorf("writing template %s: %w", fileName, err)
	}
	l.invalidate(KindTemplate)
	return nil
}

func (l *Local) RemoveTemplate(_ context.Context, fileName string) (bool, error) {
	if _, err := itemPath(KindTemplate, fileName); err != nil {
		return false, err
	}
	removed, err := l.remove(fileName)
	if err != nil {
		return false, fmt.Errorf("removing template %s: %w", fileName, err)
	}
	if removed {
		l.invalidate(KindTemplate)
	}
	return removed, nil
}

func (l *Local) AddAsset(_ context.Context, fileName string, content io.Reader) error {
	name, err := itemPath(KindAsset, fileName)
	if err != nil {
		return err
	}
	if err := l.writeFile(name, content); err != nil {
		return fmt.Errorf("writing asset %s: %w", fileName, err)
	}
	l.invalidate(KindAsset)
	return nil
}

func (l *Local) RemoveAsset(_ context.Context, fileName string) (bool, error) {
	name, err := itemPath(KindAsset, fileName)
	if err != nil {
		return false, err
	}
	removed, err := l.remove(name)
	if err != nil {
		return false, fmt.Errorf("removing asset %s: %w", fileName, err)
	}
	if removed {
		l.invalidate(KindAsset)
	}
	return removed, nil
}

// itemPath returns the file holding the named item, rejecting names
// that would land outside the item's place in the layout, such as
// "../layout.html" for an asset.
func itemPath(kind Kind, fileName string) (string, error) {
	name := fileName
	if kind == KindAsset {
		name = path.Join(AssetsDir, fileName)
	}
	if got, gotName, ok := ClassifyPath(name); !ok || got != kind || gotName != fileName {
		return "", &ValidationError{
			FileName: fileName,
			Fields:   []FieldError{{Field: "file_name", Messages: []string{"is not a valid " + string(kind) + " name"}}},
		}
	}
	return name, nil
}

func (l *Local) invalidate(kind Kind) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch kind {
	case KindTemplate:
		l.templatesLoaded = false
	case KindAsset:
		l.assetsLoaded = false
	}
}

// paths returns the sorted, de-duplicated matches of patterns.
func (l *Local) paths(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var matches []string
	for _, pattern := range patterns {
		found, err := util.Glob(l.filesystem, pattern)
		if err != nil {
			return nil, fmt.Errorf("matching %s: %w", pattern, err)
		}
		for _, match := range found {
			match = strings.ReplaceAll(match, string(os.PathSeparator), "/")
			if !seen[match] {
				seen[match] = true
				matches = append(matches, match)
			}
		}
	}
	sort.Strings(matches)
	return matches, nil
}

func (l *Local) opener(name string) func(context.Context) (io.ReadCloser, error) {
	return func(context.Context) (io.ReadCloser, error) {
		return l.filesystem.Open(name)
	}
}

func (l *Local) readFile(name string) ([]byte, error) {
	file, err := l.filesystem.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func (l *Local) writeFile(name string, content io.Reader) error {
	if dir := path.Dir(name); dir != "." {
		if err := l.filesystem.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := l.filesystem.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, content); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (l *Local) remove(name string) (bool, error) {
	if _, err := l.filesystem.Stat(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := l.filesystem.Remove(name); err != nil {
		return false, err
	}
	return true, nil
}
