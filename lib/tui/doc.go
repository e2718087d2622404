// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides shared terminal user interface pieces for
// Bureau's list surfaces: the color theme, scrollbar geometry with a
// per-instance render cache, fzf-backed fuzzy matching for picker
// filters, and a heat tracker that marks recently changed rows until
// they cool.
//
// The list engine (lib/listview) and the viewer application
// (lib/viewerui) import this package for a consistent look. Each
// surface owns its own data and rendering.
package tui
