// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

// Package remotetheme implements [theme.Theme] over the platform's
// hypermedia API.
//
// A [Theme] wraps one theme entity. Listings come from the entity's
// embedded templates and assets and are kept current locally after
// each write; [Theme.Reload] fetches a fresh representation. Template
// writes carry the last known updated_on of the file as an
// optimistic-concurrency token, and a stale token surfaces as
// *theme.ConflictError. Other rejections are classified into
// *theme.ValidationError (field errors) or *theme.ServerError.
//
// Asset content is downloaded lazily by a [Fetcher], which bounds every
// connect and read with a timeout, retries timeouts a fixed number of
// times, and decodes zstd or gzip responses. When configured to, it
// retries a request that failed TLS verification once without
// verification, logging a warning.
//
// [Selector] resolves the shop and theme a command should work on.
package remotetheme
