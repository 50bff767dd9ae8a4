// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/shopfront/themesync/lib/prompt"
	"github.com/shopfront/themesync/lib/theme"
	"github.com/shopfront/themesync/lib/workerpool"
)

// ErrDeclined is returned when the user answers no to a question the
// workflow cannot continue without. It is not a failure.
var ErrDeclined = errors.New("declined")

// ErrNotDevelopment is returned by Publish for a remote theme that is
// already public.
var ErrNotDevelopment = errors.New("only a development theme can be published")

// Config configures Workflows.
type Config struct {
	// Prompt defaults to prompt.Null.
	Prompt prompt.Prompt

	// Concurrency bounds parallel asset transfers. Defaults to
	// workerpool.DefaultSize.
	Concurrency int

	// SkipPublicWarning suppresses the confirmation asked before
	// writing to a public theme.
	SkipPublicWarning bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Workflows runs the synchronization operations.
type Workflows struct {
	prompt            prompt.Prompt
	concurrency       int
	skipPublicWarning bool
	logger            *slog.Logger
}

// New returns Workflows configured by config.
func New(config Config) *Workflows {
	if config.Prompt == nil {
		config.Prompt = prompt.Null{}
	}
	if config.Concurrency <= 0 {
		config.Concurrency = workerpool.DefaultSize
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Workflows{
		prompt:            config.Prompt,
		concurrency:       config.Concurrency,
		skipPublicWarning: config.SkipPublicWarning,
		logger:            config.Logger,
	}
}

// developer is implemented by remote themes that know whether they are
// a shop's development copy.
type developer interface {
	IsDev() bool
}

// confirmPublic asks before a workflow writes to a public theme.
func (w *Workflows) confirmPublic(remote theme.Theme) error {
	dev, ok := remote.(developer)
	if !ok || dev.IsDev() || w.skipPublicWarning {
		return nil
	}
	if w.prompt.YesOrNo("You're pushing changes directly to your public theme. Are you sure?", true) {
		return nil
	}
	w.prompt.Say("Ok, sure. You can skip the above warning prompt by passing a `--public` flag.", prompt.Plain)
	return ErrDeclined
}

// checkNameClashes refuses to run when local asset names collide
// case-insensitively.
func (w *Workflows) checkNameClashes(ctx context.Context, local theme.Theme) error {
	err := theme.CheckAssetNameClashes(ctx, local)
	var clash *theme.NameClashError
	if errors.As(err, &clash) {
		for _, group := range clash.Clashes {
			w.prompt.Say(fmt.Sprintf(" --> Name clash between files: %v", group), prompt.Red)
		}
		w.prompt.Say("Please ensure there are no name clashes before continuing.", prompt.Plain)
	}
	return err
}

// itemError classifies an error raised while applying one item and
// returns nil when the workflow should carry on.
func (w *Workflows) itemError(fileName string, err error) error {
	var validation *theme.ValidationError
	if errors.As(err, &validation) {
		w.prompt.Say(fmt.Sprintf("Skipping %s: %v", fileName, validation), prompt.Red)
		w.logger.Debug("item rejected", "file_name", fileName, "error", err)
		return nil
	}
	var conflict *theme.ConflictError
	if errors.As(err, &conflict) {
		w.prompt.Say(fmt.Sprintf("%s was changed remotely. Please run sync first.", fileName), prompt.Red)
		return err
	}
	return err
}

// copyAssets copies assets into target through a worker pool. After
// the first fatal error remaining jobs are skipped; the error is
// returned once the pool drains.
func (w *Workflows) copyAssets(ctx context.Context, assets []theme.Asset, target theme.Theme, label string) error {
	if len(assets) == 0 {
		return nil
	}
	pool := workerpool.New(w.concurrency)
	var aborted atomic.Bool
	for _, asset := range assets {
		pool.Schedule(func(ctx context.Context) error {
			if aborted.Load() {
				return nil
			}
			if err := copyAsset(ctx, asset, target); err != nil {
				if err := w.itemError(asset.FileName, err); err != nil {
					aborted.Store(true)
					return err
				}
				return nil
			}
			w.prompt.Say(fmt.Sprintf("Copied %s asset %s", label, asset.FileName), prompt.Plain)
			return nil
		})
	}
	return pool.Start(ctx)
}

func copyAsset(ctx context.Context, asset theme.Asset, target theme.Theme) error {
	if asset.Open == nil {
		return fmt.Errorf("asset %s: no content source", asset.FileName)
	}
	content, err := asset.Open(ctx)
	if err != nil {
		return fmt.Errorf("asset %s: %w", asset.FileName, err)
	}
	defer content.Close()
	return target.AddAsset(ctx, asset.FileName, content)
}

func (w *Workflows) copyTemplates(ctx context.Context, templates []theme.Template, target theme.Theme, label string) error {
	for _, template := range templates {
		if err := target.AddTemplate(ctx, template.FileName, template.Body); err != nil {
			if err := w.itemError(template.FileName, err); err != nil {
				return err
			}
			continue
		}
		w.prompt.Say(fmt.Sprintf("Copied %s template %s", label, template.FileName), prompt.Plain)
	}
	return nil
}

// removeAll removes every listed item from target. Items the target
// refuses to delete are reported and kept.
func (w *Workflows) removeAll(ctx context.Context, templates []theme.Template, assets []theme.Asset, target theme.Theme, label string) error {
	for _, template := range templates {
		removed, err := target.RemoveTemplate(ctx, template.FileName)
		if err := w.removed(template.FileName, label, removed, err); err != nil {
			return err
		}
	}
	for _, asset := range assets {
		removed, err := target.RemoveAsset(ctx, asset.FileName)
		if err := w.removed(asset.FileName, label, removed, err); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workflows) removed(fileName, label string, removed bool, err error) error {
	if err != nil {
		return w.itemError(fileName, err)
	}
	if removed {
		w.prompt.Say(fmt.Sprintf("Removed %s %s", label, fileName), prompt.Plain)
	} else {
		w.prompt.Say(fmt.Sprintf("Could not remove %s %s", label, fileName), prompt.Yellow)
	}
	return nil
}
