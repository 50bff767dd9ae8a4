// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for themesync.
//
// Configuration is loaded from one file, chosen in order:
//
//   - the --config flag (via [LoadFile]),
//   - the THEMESYNC_CONFIG environment variable (via [Load]),
//   - ~/.config/themesync/config.yaml when it exists.
//
// When none applies [Load] returns [Default]. Values missing from the
// file keep their defaults.
//
// ${HOME} and ${VAR:-default} patterns are expanded in
// access_token_file after loading. The access token itself never lives
// in the file: [Config.AccessToken] reads THEMESYNC_ACCESS_TOKEN or the
// token file.
package config
