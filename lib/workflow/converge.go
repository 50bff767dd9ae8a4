// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/shopfront/themesync/lib/prompt"
	"github.com/shopfront/themesync/lib/theme"
	"github.com/shopfront/themesync/lib/themediff"
)

// Pull converges local toward remote. Items changed on remote are
// offered one by one, items only on remote are copied, and items only
// on local are removed when remove is set.
func (w *Workflows) Pull(ctx context.Context, local, remote theme.Theme, remove bool) error {
	if err := w.checkNameClashes(ctx, local); err != nil {
		return err
	}
	diff := themediff.New(local, remote, true)

	updated, err := diff.UpdatedInTarget(ctx)
	if err != nil {
		return err
	}
	w.prompt.Notice("Updating local templates...")
	if err := w.updateTemplates(ctx, updated.Templates, "remote", "local", local); err != nil {
		return err
	}
	if err := w.updateAssets(ctx, updated.Assets, "remote", "local", local); err != nil {
		return err
	}

	if remove {
		extra, err := diff.MissingInTarget(ctx)
		if err != nil {
			return err
		}
		w.prompt.Notice("Removing local files that were removed on remote...")
		if err := w.removeAll(ctx, extra.Templates, extra.Assets, local, "local"); err != nil {
			return err
		}
	} else {
		w.prompt.Notice("Not removing local files that were removed on remote.")
	}

	missing, err := diff.MissingInSource(ctx)
	if err != nil {
		return err
	}
	w.prompt.Notice("Pulling missing files from remote...")
	if err := w.copyTemplates(ctx, missing.Templates, local, "remote"); err != nil {
		return err
	}
	return w.copyAssets(ctx, missing.Assets, local, "remote")
}

// Push converges remote toward local: the mirror image of Pull.
func (w *Workflows) Push(ctx context.Context, local, remote theme.Theme, remove bool) error {
	if err := w.confirmPublic(remote); err != nil {
		return err
	}
	return w.push(ctx, local, remote, remove)
}

func (w *Workflows) push(ctx context.Context, local, remote theme.Theme, remove bool) error {
	if err := w.checkNameClashes(ctx, local); err != nil {
		return err
	}
	diff := themediff.New(local, remote, true)

	updated, err := diff.UpdatedInSource(ctx)
	if err != nil {
		return err
	}
	w.prompt.Notice("Updating remote templates...")
	if err := w.updateTemplates(ctx, updated.Templates, "local", "remote", remote); err != nil {
		return err
	}
	if err := w.updateAssets(ctx, updated.Assets, "local", "remote", remote); err != nil {
		return err
	}

	if remove {
		extra, err := diff.MissingInSource(ctx)
		if err != nil {
			return err
		}
		w.prompt.Notice("Removing remote files that were removed locally...")
		if err := w.removeAll(ctx, extra.Templates, extra.Assets, remote, "remote"); err != nil {
			return err
		}
	} else {
		w.prompt.Notice("Not removing remote files that were removed locally.")
	}

	missing, err := diff.MissingInTarget(ctx)
	if err != nil {
		return err
	}
	w.prompt.Notice("Pushing files that are missing in remote...")
	if err := w.copyTemplates(ctx, missing.Templates, remote, "local"); err != nil {
		return err
	}
	return w.copyAssets(ctx, missing.Assets, remote, "local")
}

// Sync converges both sides toward each other. Only items strictly
// newer on one side replace the other side's copy, and nothing is ever
// deleted, so running Sync twice in a row changes nothing the second
// time.
func (w *Workflows) Sync(ctx context.Context, local, remote theme.Theme) error {
	if err := w.confirmPublic(remote); err != nil {
		return err
	}
	if err := w.checkNameClashes(ctx, local); err != nil {
		return err
	}
	diff := themediff.New(local, remote, false)
	views, err := diff.Views(ctx)
	if err != nil {
		return err
	}
	w.prompt.Notice("Syncing local copy with remote...")

	w.prompt.Notice("Updating local templates...")
	if err := w.updateTemplates(ctx, views.UpdatedInTarget.Templates, "remote", "local", local); err != nil {
		return err
	}
	if err := w.updateAssets(ctx, views.UpdatedInTarget.Assets, "remote", "local", local); err != nil {
		return err
	}

	w.prompt.Notice("Updating remote templates...")
	if err := w.updateTemplates(ctx, views.UpdatedInSource.Templates, "local", "remote", remote); err != nil {
		return err
	}
	if err := w.updateAssets(ctx, views.UpdatedInSource.Assets, "local", "remote", remote); err != nil {
		return err
	}

	w.prompt.Notice("Downloading missing local templates & assets...")
	if err := w.copyTemplates(ctx, views.MissingInSource.Templates, local, "remote"); err != nil {
		return err
	}
	if err := w.copyAssets(ctx, views.MissingInSource.Assets, local, "remote"); err != nil {
		return err
	}

	w.prompt.Notice("Uploading missing remote templates & assets...")
	if err := w.copyTemplates(ctx, views.MissingInTarget.Templates, remote, "local"); err != nil {
		return err
	}
	return w.copyAssets(ctx, views.MissingInTarget.Assets, remote, "local")
}

// updateTemplates shows each template's diff and writes it to target
// when the user agrees.
func (w *Workflows) updateTemplates(ctx context.Context, templates []themediff.UpdatedTemplate, from, to string, target theme.Theme) error {
	for _, template := range templates {
		w.prompt.Say("---------", prompt.Plain)
		w.prompt.Say(fmt.Sprintf("%s %s was modified at %s:", from, w.prompt.Highlight(template.FileName),
			template.UpdatedOn.Local().Format(time.DateTime)), prompt.Plain)
		w.prompt.Say("---------", prompt.Plain)
		prompt.ShowDiff(w.prompt, template.Diff)

		if !w.prompt.YesOrNo(fmt.Sprintf("Update %s %s?", to, template.FileName), true) {
			continue
		}
		if err := target.AddTemplate(ctx, template.FileName, template.Body); err != nil {
			if err := w.itemError(template.FileName, err); err != nil {
				return err
			}
			continue
		}
		w.logger.Debug("template updated", "file_name", template.FileName, "target", to)
	}
	return nil
}

// updateAssets asks about every changed asset first, then copies the
// accepted ones in parallel.
func (w *Workflows) updateAssets(ctx context.Context, assets []theme.Asset, from, to string, target theme.Theme) error {
	var accepted []theme.Asset
	for _, asset := range assets {
		question := fmt.Sprintf("Asset %s changed on %s. Overwrite %s copy?", w.prompt.Highlight(asset.FileName), from, to)
		if w.prompt.YesOrNo(question, true) {
			accepted = append(accepted, asset)
		}
	}
	return w.copyAssets(ctx, accepted, target, from)
}
