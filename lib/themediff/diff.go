// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package themediff

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopfront/themesync/lib/theme"
)

// Diff exposes the four views of a source/target comparison. Both
// themes are listed once, on first use, and every view is computed from
// that snapshot and cached. Build one Diff per workflow run.
type Diff struct {
	source      theme.Theme
	target      theme.Theme
	forceUpdate bool

	mu              sync.Mutex
	sourceItems     *snapshot
	targetItems     *snapshot
	updatedInSource *UpdatedTheme
	updatedInTarget *UpdatedTheme
	missingInTarget *MissingItems
	missingInSource *MissingItems
}

// New returns a Diff of source against target. forceUpdate disables the
// recency check of both updated views.
func New(source, target theme.Theme, forceUpdate bool) *Diff {
	return &Diff{source: source, target: target, forceUpdate: forceUpdate}
}

// snapshots lists both themes on first use. Callers hold d.mu.
func (d *Diff) snapshots(ctx context.Context) error {
	if d.sourceItems != nil {
		return nil
	}
	sourceItems, err := load(ctx, d.source)
	if err != nil {
		return fmt.Errorf("reading source: %w", err)
	}
	targetItems, err := load(ctx, d.target)
	if err != nil {
		return fmt.Errorf("reading target: %w", err)
	}
	d.sourceItems, d.targetItems = sourceItems, targetItems
	return nil
}

// UpdatedInSource lists items changed in the source that should be
// copied into the target.
func (d *Diff) UpdatedInSource(ctx context.Context) (*UpdatedTheme, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.updatedInSource == nil {
		if err := d.snapshots(ctx); err != nil {
			return nil, err
		}
		d.updatedInSource = updated(d.sourceItems, d.targetItems, d.forceUpdate)
	}
	return d.updatedInSource, nil
}

// UpdatedInTarget lists items changed in the target that should be
// copied into the source.
func (d *Diff) UpdatedInTarget(ctx context.Context) (*UpdatedTheme, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.updatedInTarget == nil {
		if err := d.snapshots(ctx); err != nil {
			return nil, err
		}
		d.updatedInTarget = updated(d.targetItems, d.sourceItems, d.forceUpdate)
	}
	return d.updatedInTarget, nil
}

// MissingInTarget lists items present in the source only.
func (d *Diff) MissingInTarget(ctx context.Context) (*MissingItems, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.missingInTarget == nil {
		if err := d.snapshots(ctx); err != nil {
			return nil, err
		}
		d.missingInTarget = missing(d.sourceItems, d.targetItems)
	}
	return d.missingInTarget, nil
}

// MissingInSource lists items present in the target only.
func (d *Diff) MissingInSource(ctx context.Context) (*MissingItems, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.missingInSource == nil {
		if err := d.snapshots(ctx); err != nil {
			return nil, err
		}
		d.missingInSource = missing(d.targetItems, d.sourceItems)
	}
	return d.missingInSource, nil
}

// Views computes all four views at once.
func (d *Diff) Views(ctx context.Context) (*Views, error) {
	var views Views
	var err error
	if views.UpdatedInSource, err = d.UpdatedInSource(ctx); err != nil {
		return nil, err
	}
	if views.UpdatedInTarget, err = d.UpdatedInTarget(ctx); err != nil {
		return nil, err
	}
	if views.MissingInTarget, err = d.MissingInTarget(ctx); err != nil {
		return nil, err
	}
	if views.MissingInSource, err = d.MissingInSource(ctx); err != nil {
		return nil, err
	}
	return &views, nil
}

// Any reports whether at least one view is non-empty.
func (d *Diff) Any(ctx context.Context) (bool, error) {
	views, err := d.Views(ctx)
	if err != nil {
		return false, err
	}
	return views.Any(), nil
}

// Views is the materialized form of a Diff.
type Views struct {
	UpdatedInSource *UpdatedTheme `json:"updated_in_source"`
	UpdatedInTarget *UpdatedTheme `json:"updated_in_target"`
	MissingInTarget *MissingItems `json:"missing_in_target"`
	MissingInSource *MissingItems `json:"missing_in_source"`
}

// Any reports whether at least one view is non-empty.
func (v *Views) Any() bool {
	return !v.UpdatedInSource.Empty() || !v.UpdatedInTarget.Empty() ||
		!v.MissingInTarget.Empty() || !v.MissingInSource.Empty()
}
