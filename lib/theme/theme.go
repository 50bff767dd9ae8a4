// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"
)

// Theme is the capability set shared by the local, remote and in-memory
// copies of a theme.
//
// Remove methods return false (and no error) when the item does not
// exist or the backing store does not allow deleting it. Implementations
// must tolerate concurrent AddAsset/RemoveAsset calls for distinct file
// names; concurrent calls for the same name are never issued.
type Theme interface {
	Templates(ctx context.Context) ([]Template, error)
	Assets(ctx context.Context) ([]Asset, error)
	AddTemplate(ctx context.Context, fileName, body string) error
	RemoveTemplate(ctx context.Context, fileName string) (bool, error)
	AddAsset(ctx context.Context, fileName string, content io.Reader) error
	RemoveAsset(ctx context.Context, fileName string) (bool, error)

	// Reload drops any memoized listing so the next read observes
	// changes made outside this instance.
	Reload(ctx context.Context) error
}

// Template is a named text source file.
type Template struct {
	// FileName is the path relative to the theme root, e.g.
	// "layout.html" or "sections/header.html". Unique within a theme.
	FileName  string    `json:"file_name"`
	Body      string    `json:"body"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Asset is a named binary file. Content is fetched lazily through Open.
type Asset struct {
	// FileName is the asset's name within the assets/ subtree.
	FileName  string    `json:"file_name"`
	UpdatedOn time.Time `json:"updated_on"`

	// Digest is the lowercase hex MD5 of the content, or "" when the
	// backing store does not report one.
	Digest string `json:"digest,omitempty"`

	// FileSize is the content length in bytes, or 0 when unknown.
	FileSize int64 `json:"file_size,omitempty"`

	// Open returns a reader over the asset content. The caller closes it.
	Open func(ctx context.Context) (io.ReadCloser, error) `json:"-"`
}

// ReadAll opens the asset and returns its full content.
func (a Asset) ReadAll(ctx context.Context) ([]byte, error) {
	if a.Open == nil {
		return nil, fmt.Errorf("asset %s: no content source", a.FileName)
	}
	reader, err := a.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("asset %s: %w", a.FileName, err)
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("asset %s: reading content: %w", a.FileName, err)
	}
	return data, nil
}

// BytesOpener returns an Open function serving a fixed byte slice.
func BytesOpener(data []byte) func(context.Context) (io.ReadCloser, error) {
	return func(context.Context) (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
}

// Digest returns the content digest in the platform's format: the
// lowercase hex encoding of the MD5 sum.
func Digest(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// NormalizeLineEndings converts CRLF and lone CR line endings to LF.
func NormalizeLineEndings(text string) string {
	if !strings.ContainsRune(text, '\r') {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// TemplatesEqual reports whether two templates carry the same content,
// ignoring line-ending style. Timestamps are not considered.
func TemplatesEqual(a, b Template) bool {
	return NormalizeLineEndings(a.Body) == NormalizeLineEndings(b.Body)
}

// AssetsEqual reports whether two assets carry the same content. When
// both report a digest the digests decide; otherwise the timestamps do.
// Sizes are ignored: the CDN may re-encode remote assets.
func AssetsEqual(a, b Asset) bool {
	if a.Digest != "" && b.Digest != "" {
		return strings.EqualFold(a.Digest, b.Digest)
	}
	return a.UpdatedOn.Equal(b.UpdatedOn)
}
