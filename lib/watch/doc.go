// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

// Package watch reports file changes in a theme directory.
//
// [Inotify] watches the theme root and its sections/ and assets/
// subdirectories (theme files never live deeper) and delivers changes
// to a handler as [Batch] values: absolute paths grouped into modified,
// added and removed. Events arriving within the debounce window of each
// other are coalesced into one batch, so an editor's write-then-rename
// save shows up once. Batches are delivered one at a time from the
// notifier's goroutine.
package watch
