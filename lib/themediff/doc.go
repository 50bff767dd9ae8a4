// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

// Package themediff compares two themes.
//
// [Updated] finds items present on both sides whose content differs and
// whose source copy is newer (or all differing items when forced).
// [Missing] is the name-set difference per item type. [Diff] composes
// both directions of each into four views computed from one snapshot
// of the two themes, so a workflow sees a consistent picture even while
// it mutates either side.
package themediff
