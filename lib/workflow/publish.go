// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package workflow

import (
	"context"
	"fmt"

	"github.com/shopfront/themesync/lib/prompt"
	"github.com/shopfront/themesync/lib/theme"
	"github.com/shopfront/themesync/lib/themediff"
)

// Publishable is a remote theme that can replace the shop's public
// theme.
type Publishable interface {
	theme.Theme
	IsDev() bool
	Publish(ctx context.Context, deleteDev bool) error
}

// Publish makes the development theme remote the shop's public theme.
// When local and remote differ the user must agree to push local first;
// declining aborts with ErrDeclined.
func (w *Workflows) Publish(ctx context.Context, local theme.Theme, remote Publishable) error {
	if !remote.IsDev() {
		return ErrNotDevelopment
	}

	changed, err := themediff.New(local, remote, true).Any(ctx)
	if err != nil {
		return err
	}
	if changed {
		if !w.prompt.YesOrNo("Your local copy differs from the development theme. Push local changes before publishing?", true) {
			w.prompt.Say("Not publishing: local changes must be pushed first.", prompt.Yellow)
			return ErrDeclined
		}
		w.prompt.Notice("Pushing local changes to development theme...")
		if err := w.push(ctx, local, remote, true); err != nil {
			return err
		}
	}

	keep := w.prompt.YesOrNo("Do you want to keep your old public theme as your dev theme?", false)
	w.prompt.Notice("Publishing development theme...")
	if err := remote.Publish(ctx, !keep); err != nil {
		return fmt.Errorf("publishing: %w", err)
	}
	w.prompt.Say("Published.", prompt.Yellow)
	return nil
}
