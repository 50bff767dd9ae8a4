// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package theme

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// FieldError is one field-level rejection reported by the platform.
type FieldError struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

func (f FieldError) String() string {
	if len(f.Messages) == 0 {
		return f.Field
	}
	return f.Field + " " + strings.Join(f.Messages, ", ")
}

// ValidationError reports that a single item was rejected (unsupported
// content type, oversized payload, invalid name). Workflows skip the item
// and continue.
type ValidationError struct {
	FileName string
	Fields   []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, field := range e.Fields {
		parts[i] = field.String()
	}
	return fmt.Sprintf("%s was rejected: %s", e.FileName, strings.Join(parts, "; "))
}

// ConflictError reports that the remote copy of an item changed since
// it was last read, so writing it would silently discard someone else's
// update. Workflows abort on it.
type ConflictError struct {
	FileName string
	Err      error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s was changed remotely since it was last read (run sync first): %v", e.FileName, e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// ServerError reports an unexpected response: a 5xx status, a malformed
// body, or a rejection that carries no field detail. Workflows abort on
// it, leaving already-applied changes in place.
type ServerError struct {
	Operation  string
	FileName   string
	StatusCode int
	Err        error
}

func (e *ServerError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: server responded %d: %v", e.Operation, e.FileName, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Operation, e.FileName, e.Err)
}

func (e *ServerError) Unwrap() error { return e.Err }

// NameClashError reports asset names that differ only by case. Such
// names collide on case-insensitive filesystems and on the platform, so
// asset-mutating workflows refuse to start.
type NameClashError struct {
	// Clashes holds one group of clashing names per lowercased key,
	// sorted for stable output.
	Clashes [][]string
}

func (e *NameClashError) Error() string {
	groups := make([]string, len(e.Clashes))
	for i, group := range e.Clashes {
		groups[i] = strings.Join(group, ", ")
	}
	return "asset name clash between files: " + strings.Join(groups, "; ")
}

// CheckAssetNameClashes returns a *NameClashError when two assets of the
// theme share a file name under case-insensitive comparison.
func CheckAssetNameClashes(ctx context.Context, t Theme) error {
	assets, err := t.Assets(ctx)
	if err != nil {
		return fmt.Errorf("listing assets: %w", err)
	}

	groups := make(map[string][]string)
	for _, asset := range assets {
		key := strings.ToLower(asset.FileName)
		groups[key] = append(groups[key], asset.FileName)
	}

	var clashes [][]string
	for _, names := range groups {
		if len(names) > 1 {
			sort.Strings(names)
			clashes = append(clashes, names)
		}
	}
	if len(clashes) == 0 {
		return nil
	}
	sort.Slice(clashes, func(i, j int) bool { return clashes[i][0] < clashes[j][0] })
	return &NameClashError{Clashes: clashes}
}
