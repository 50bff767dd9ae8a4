// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for themesync.
//
// The central type is [Command], a named subcommand with optional nested
// [Command.Subcommands], a [pflag.FlagSet] factory, and a Run function.
// The tree is assembled in cmd/themesync/commands and dispatched via
// [Command.Execute], which handles flag parsing, subcommand routing, and
// help output with examples.
//
// Flags are usually declared as tagged struct fields and bound with
// [FlagsFromParams]. When a user types an unknown subcommand or flag,
// the closest known name within an edit distance of 3 is suggested.
//
// Errors returned by commands can carry an [ErrorCategory] through
// [ToolError]; [Classify] derives the category from the library error
// taxonomy so main can print one consistent message.
package cli
