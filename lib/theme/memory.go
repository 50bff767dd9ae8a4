// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"
)

// Memory is an in-memory [Theme]. Adding an item whose name already
// exists replaces it in place; new names are appended, so listings keep
// first-insertion order.
type Memory struct {
	// Now stamps items added through the Theme interface. Defaults to
	// time.Now.
	Now func() time.Time

	mu        sync.Mutex
	templates []Template
	assets    []Asset
}

// NewMemory returns an empty in-memory theme.
func NewMemory() *Memory {
	return &Memory{Now: time.Now}
}

func (m *Memory) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

func (m *Memory) Templates(context.Context) ([]Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.templates), nil
}

func (m *Memory) Assets(context.Context) ([]Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.assets), nil
}

func (m *Memory) AddTemplate(_ context.Context, fileName, body string) error {
	m.PutTemplate(Template{FileName: fileName, Body: body, UpdatedOn: m.now()})
	return nil
}

// AddTemplateAt adds or replaces a template with an explicit timestamp.
func (m *Memory) AddTemplateAt(fileName, body string, updatedOn time.Time) {
	m.PutTemplate(Template{FileName: fileName, Body: body, UpdatedOn: updatedOn})
}

// PutTemplate upserts template by file name.
func (m *Memory) PutTemplate(template Template) {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := slices.IndexFunc(m.templates, func(t Template) bool { return t.FileName == template.FileName })
	if index >= 0 {
		m.templates[index] = template
		return
	}
	m.templates = append(m.templates, template)
}

func (m *Memory) RemoveTemplate(_ context.Context, fileName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := slices.IndexFunc(m.templates, func(t Template) bool { return t.FileName == fileName })
	if index < 0 {
		return false, nil
	}
	m.templates = slices.Delete(m.templates, index, index+1)
	return true, nil
}

func (m *Memory) AddAsset(_ context.Context, fileName string, content io.Reader) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return fmt.Errorf("reading asset %s: %w", fileName, err)
	}
	m.AddAssetAt(fileName, data, m.now())
	return nil
}

// AddAssetAt adds or replaces an asset with an explicit timestamp. The
// digest and size are derived from data.
func (m *Memory) AddAssetAt(fileName string, data []byte, updatedOn time.Time) {
	m.PutAsset(Asset{
		FileName:  fileName,
		UpdatedOn: updatedOn,
		Digest:    Digest(data),
		FileSize:  int64(len(data)),
		Open:      BytesOpener(data),
	})
}

// PutAsset upserts asset by file name as given, which lets tests model
// stores that report no digest.
func (m *Memory) PutAsset(asset Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := slices.IndexFunc(m.assets, func(a Asset) bool { return a.FileName == asset.FileName })
	if index >= 0 {
		m.assets[index] = asset
		return
	}
	m.assets = append(m.assets, asset)
}

func (m *Memory) RemoveAsset(_ context.Context, fileName string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	index := slices.IndexFunc(m.assets, func(a Asset) bool { return a.FileName == fileName })
	if index < 0 {
		return false, nil
	}
	m.assets = slices.Delete(m.assets, index, index+1)
	return true, nil
}

// Reload is a no-op: the in-memory collections are the source of truth.
func (m *Memory) Reload(context.Context) error { return nil }

// TemplateNames returns the template file names in listing order.
func (m *Memory) TemplateNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.templates))
	for i, template := range m.templates {
		names[i] = template.FileName
	}
	return names
}

// AssetNames returns the asset file names in listing order.
func (m *Memory) AssetNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.assets))
	for i, asset := range m.assets {
		names[i] = asset.FileName
	}
	return names
}
