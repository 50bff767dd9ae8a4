// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

// Package theme implements the themesync theme subcommands. Each
// command resolves a local theme directory and a remote theme of the
// paired shop, then runs one of the lib/workflow operations over the
// pair.
//
// Directories are paired with a shop by a .state file written by clone
// and pair. Commands other than clone require the directory to hold a
// layout.html.
package theme
