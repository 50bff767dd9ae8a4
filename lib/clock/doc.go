// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock is an injectable time source.
//
// [Real] reads the time package. [Fake] stands still until it is moved,
// which lets tests produce deterministic timestamps: the fake platform
// stamps every write with its clock, and the file watcher measures its
// debounce window with one.
package clock
