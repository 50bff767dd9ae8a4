// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports the themesync build version.
//
// Release builds set the variables via -ldflags:
//
//	go build -ldflags "-X github.com/shopfront/themesync/lib/version.Version=1.2.0" ./cmd/themesync
//
// Otherwise the VCS revision recorded by the Go toolchain is used.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the semantic version.
	Version = "0.1.0-dev"

	// GitCommit is the short git SHA of the build, when injected.
	GitCommit = ""
)

// Commit returns the build's revision: GitCommit when injected, else the
// toolchain's vcs.revision (shortened, with a -dirty suffix for modified
// trees), else "unknown".
func Commit() string {
	if GitCommit != "" {
		return GitCommit
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	var revision, modified string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		}
	}
	if revision == "" {
		return "unknown"
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if modified == "true" {
		revision += "-dirty"
	}
	return revision
}

// Info returns "version (commit)".
func Info() string {
	return fmt.Sprintf("%s (%s)", Version, Commit())
}

// Full adds the Go version and platform to Info.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// UserAgent is sent with every API request.
func UserAgent() string {
	return "themesync/" + Version
}
