// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

// Package theme defines the data model shared by every copy of a shop
// theme and the [Theme] contract that the diff engine and the sync
// workflows are written against.
//
// A theme is two independently keyed collections: [Template] items (text
// sources such as layouts, stylesheets and scripts) and [Asset] items
// (binary files under the assets/ subtree). Three implementations exist:
//
//   - [Local]: a directory on disk, accessed through a billy filesystem.
//     Listings are memoized and rebuilt after any mutation or an explicit
//     Reload.
//   - [Memory]: an ordered in-memory collection used to drive the diff
//     engine and workflows deterministically in tests.
//   - the remote theme in lib/remotetheme, backed by the platform's
//     hypermedia API.
//
// Equality across copies follows two rules. Templates compare by body
// after line-ending normalization ([TemplatesEqual]). Assets compare by
// content digest when both sides carry one, and by timestamp otherwise
// ([AssetsEqual]); file size is never used on its own because the
// platform's CDN re-encodes binary assets.
//
// Errors returned by theme mutations are classified by the types in
// errors.go: a [ValidationError] rejects one item, a [ConflictError]
// signals a lost update, a [ServerError] aborts the whole operation, and
// a [NameClashError] is a precondition failure raised before any change.
package theme
