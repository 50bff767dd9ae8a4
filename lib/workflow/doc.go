// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

// Package workflow converges a local theme and a remote theme.
//
// Each workflow builds one [themediff.Diff] over the (local, remote)
// pair, walks its views, confirms items through a [prompt.Prompt], and
// applies the changes through the [theme.Theme] contract. Asset copies
// are batched through a [workerpool.Pool]; confirmations never happen
// inside a pool job.
//
// Item errors are classified the same way everywhere:
//
//   - [theme.ValidationError]: the item is skipped with a message and the
//     workflow continues.
//   - [theme.ConflictError]: the workflow aborts and asks the user to run
//     sync first.
//   - anything else: the workflow aborts. Changes already applied stay.
//
// A declined confirmation skips the item and is not an error.
package workflow
