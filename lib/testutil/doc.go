// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds shared test helpers.
//
// [RequireReceive], [RequireNoReceive] and [RequireClosed] wrap the
// select-with-timeout pattern used by tests of asynchronous components
// (the watch notifier, the watch workflow) so individual tests do not
// repeat it. [WriteFile] creates a file and its parent directories.
//
// All helpers call t.Fatalf on failure.
package testutil
