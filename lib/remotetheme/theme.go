// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package remotetheme

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/shopfront/themesync/lib/hypermedia"
	"github.com/shopfront/themesync/lib/theme"
)

// Relation names of the theme resource.
const (
	RelCreateTemplate = "create_template"
	RelCreateAsset    = "create_theme_asset"
	RelDeleteTemplate = "delete_template"
	RelDeleteAsset    = "delete_theme_asset"
	RelPublish        = "publish_theme"
	RelPreview        = "theme_preview"
	RelFile           = "file"
)

// Theme is a theme stored on the platform.
type Theme struct {
	fetcher *Fetcher
	logger  *slog.Logger

	mu        sync.Mutex
	entity    *hypermedia.Entity
	loaded    bool
	templates []templateItem
	assets    []assetItem
}

type templateItem struct {
	template theme.Template
	entity   *hypermedia.Entity
}

type assetItem struct {
	asset  theme.Asset
	entity *hypermedia.Entity
}

// New wraps a theme entity. A nil logger uses slog.Default().
func New(entity *hypermedia.Entity, fetcher *Fetcher, logger *slog.Logger) *Theme {
	if logger == nil {
		logger = slog.Default()
	}
	if fetcher == nil {
		fetcher = NewFetcher(FetchConfig{Logger: logger})
	}
	return &Theme{entity: entity, fetcher: fetcher, logger: logger}
}

// Name returns the theme's display name.
func (t *Theme) Name() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entity.String("name")
}

// IsDev reports whether this is a development theme, which is the only
// kind that can be published.
func (t *Theme) IsDev() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entity.Can(RelPublish)
}

// PreviewURL returns the storefront address rendering this theme, or "".
func (t *Theme) PreviewURL() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entity.Href(RelPreview, nil)
}

// Publish makes this development theme the shop's public theme. When
// deleteDev is false the previous public theme is kept as the new
// development theme. Afterwards the Theme wraps the published theme.
func (t *Theme) Publish(ctx context.Context, deleteDev bool) error {
	t.mu.Lock()
	entity := t.entity
	t.mu.Unlock()

	published, err := entity.Run(ctx, RelPublish, nil, map[string]bool{"delete_dev_theme": deleteDev})
	if err != nil {
		if errors.Is(err, hypermedia.ErrNoLink) {
			return fmt.Errorf("%w: %s", ErrNotDevelopment, entity.String("name"))
		}
		return classify("publish", entity.String("name"), err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entity = published
	t.loaded = false
	return nil
}

func (t *Theme) Reload(ctx context.Context) error {
	t.mu.Lock()
	entity := t.entity
	t.mu.Unlock()

	fresh, err := entity.Reload(ctx)
	if err != nil {
		return classify("reload", entity.String("name"), err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.entity = fresh
	t.loaded = false
	return nil
}

func (t *Theme) Templates(context.Context) ([]theme.Template, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loadLocked()
	templates := make([]theme.Template, len(t.templates))
	for i, item := range t.templates {
		templates[i] = item.template
	}
	return templates, nil
}

func (t *Theme) Assets(context.Context) ([]theme.Asset, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loadLocked()
	assets := make([]theme.Asset, len(t.assets))
	for i, item := range t.assets {
		assets[i] = item.asset
	}
	return assets, nil
}

// AddTemplate creates or replaces a template. When the template is
// already known its last updated_on is sent along, and the platform
// rejects the write if its copy changed since.
func (t *Theme) AddTemplate(ctx context.Context, fileName, body string) error {
	t.mu.Lock()
	t.loadLocked()
	entity := t.entity
	request := map[string]string{"file_name": fileName, "body": body}
	if index := t.templateIndexLocked(fileName); index >= 0 {
		if updatedOn := t.templates[index].template.UpdatedOn; !updatedOn.IsZero() {
			request["last_updated_on"] = updatedOn.Format(time.RFC3339Nano)
		}
	}
	t.mu.Unlock()

	created, err := entity.Run(ctx, RelCreateTemplate, nil, request)
	if err != nil {
		return classify("upload template", fileName, err)
	}

	item := t.templateFrom(created)
	if item.template.FileName == "" {
		item.template = theme.Template{FileName: fileName, Body: body}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if index := t.templateIndexLocked(fileName); index >= 0 {
		t.templates[index] = item
	} else {
		t.templates = append(t.templates, item)
	}
	return nil
}

func (t *Theme) RemoveTemplate(ctx context.Context, fileName string) (bool, error) {
	t.mu.Lock()
	t.loadLocked()
	index := t.templateIndexLocked(fileName)
	var item *hypermedia.Entity
	if index >= 0 {
		item = t.templates[index].entity
	}
	t.mu.Unlock()

	if item == nil {
		return false, nil
	}
	if !item.Can(RelDeleteTemplate) {
		t.logger.Warn("platform does not allow deleting template", "file_name", fileName)
		return false, nil
	}
	if _, err := item.Follow(ctx, RelDeleteTemplate, nil); err != nil {
		return false, classify("delete template", fileName, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if index := t.templateIndexLocked(fileName); index >= 0 {
		t.templates = slices.Delete(t.templates, index, index+1)
	}
	return true, nil
}

// AddAsset uploads content, base64-encoded, creating or replacing the
// asset.
func (t *Theme) AddAsset(ctx context.Context, fileName string, content io.Reader) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return fmt.Errorf("reading asset %s: %w", fileName, err)
	}

	t.mu.Lock()
	entity := t.entity
	t.mu.Unlock()

	created, err := entity.Run(ctx, RelCreateAsset, nil, map[string]string{
		"file_name": fileName,
		"data":      base64.StdEncoding.EncodeToString(data),
	})
	if err != nil {
		return classify("upload asset", fileName, err)
	}

	item := t.assetFrom(created)
	if item.asset.FileName == "" {
		item.asset.FileName = fileName
	}
	if item.asset.Digest == "" {
		item.asset.Digest = theme.Digest(data)
		item.asset.FileSize = int64(len(data))
	}
	if item.asset.Open == nil {
		item.asset.Open = theme.BytesOpener(data)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.loadLocked()
	if index := t.assetIndexLocked(fileName); index >= 0 {
		t.assets[index] = item
	} else {
		t.assets = append(t.assets, item)
	}
	return nil
}

func (t *Theme) RemoveAsset(ctx context.Context, fileName string) (bool, error) {
	t.mu.Lock()
	t.loadLocked()
	index := t.assetIndexLocked(fileName)
	var item *hypermedia.Entity
	if index >= 0 {
		item = t.assets[index].entity
	}
	t.mu.Unlock()

	if item == nil {
		return false, nil
	}
	if !item.Can(RelDeleteAsset) {
		t.logger.Warn("platform does not allow deleting asset", "file_name", fileName)
		return false, nil
	}
	if _, err := item.Follow(ctx, RelDeleteAsset, nil); err != nil {
		return false, classify("delete asset", fileName, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if index := t.assetIndexLocked(fileName); index >= 0 {
		t.assets = slices.Delete(t.assets, index, index+1)
	}
	return true, nil
}

func (t *Theme) loadLocked() {
	if t.loaded {
		return
	}
	t.templates = t.templates[:0]
	for _, entity := range t.entity.Embedded("templates") {
		t.templates = append(t.templates, t.templateFrom(entity))
	}
	t.assets = t.assets[:0]
	for _, entity := range t.entity.Embedded("assets") {
		t.assets = append(t.assets, t.assetFrom(entity))
	}
	t.loaded = true
}

func (t *Theme) templateFrom(entity *hypermedia.Entity) templateItem {
	return templateItem{
		template: theme.Template{
			FileName:  entity.String("file_name"),
			Body:      entity.String("body"),
			UpdatedOn: entity.Time("updated_on"),
		},
		entity: entity,
	}
}

func (t *Theme) assetFrom(entity *hypermedia.Entity) assetItem {
	asset := theme.Asset{
		FileName:  entity.String("file_name"),
		UpdatedOn: entity.Time("updated_on"),
		Digest:    entity.String("digest"),
		FileSize:  entity.Int("file_size"),
	}
	if href := entity.Href(RelFile, nil); href != "" {
		asset.Open = t.fetcher.Open(href)
	}
	return assetItem{asset: asset, entity: entity}
}

func (t *Theme) templateIndexLocked(fileName string) int {
	return slices.IndexFunc(t.templates, func(item templateItem) bool { return item.template.FileName == fileName })
}

func (t *Theme) assetIndexLocked(fileName string) int {
	return slices.IndexFunc(t.assets, func(item assetItem) bool { return item.asset.FileName == fileName })
}

// classify maps a failed request onto the theme error taxonomy.
func classify(operation, fileName string, err error) error {
	var apiErr *hypermedia.Error
	if !errors.As(err, &apiErr) {
		return &theme.ServerError{Operation: operation, FileName: fileName, Err: err}
	}
	if apiErr.StatusCode == http.StatusConflict || apiErr.HasField("last_updated_on") {
		return &theme.ConflictError{FileName: fileName, Err: err}
	}
	if len(apiErr.Fields) > 0 && apiErr.StatusCode < http.StatusInternalServerError {
		fields := make([]theme.FieldError, len(apiErr.Fields))
		for i, field := range apiErr.Fields {
			fields[i] = theme.FieldError{Field: field.Field, Messages: field.Messages}
		}
		return &theme.ValidationError{FileName: fileName, Fields: fields}
	}
	return &theme.ServerError{Operation: operation, FileName: fileName, StatusCode: apiErr.StatusCode, Err: err}
}
