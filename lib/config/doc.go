// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for the list viewer.
//
// Configuration is loaded from a single file specified by either the
// BUREAU_LISTVIEW_CONFIG environment variable (via [Load]) or a
// --config flag (via [LoadFile]). There is no ~/.config discovery and
// no automatic file search; a caller with neither uses [Default].
//
// Files are YAML unless they end in .json or .jsonc, which are parsed
// as JSON with comments. Loaded values merge over [Default], so a file
// only states what it changes. ${HOME} and ${VAR:-default} patterns
// are expanded in path fields after loading.
//
// Key exports:
//
//   - [Config] -- master struct with Transcript, List, Models, Sessions, Log
//   - [Default] -- returns a Config with working defaults
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- reports every problem at once
//
// This package depends on no other Bureau packages.
package config
