// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

// Package platformtest is an in-process stand-in for the e-commerce
// platform's hypermedia API, for tests.
//
// A [Platform] holds shops, each with a production theme and an
// optional development theme, and serves them over HTTP with the same
// relation names, optimistic-concurrency checks, and field-error shapes
// as the real API. Tests seed and inspect themes directly through
// [Theme] and steer failure paths with [Platform.RejectTemplate],
// [Platform.RejectAssetExtension], [Platform.Undeletable] and
// [Platform.FailNext].
package platformtest
