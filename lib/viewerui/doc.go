// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package viewerui is the interactive terminal viewer built on the
// listview engine. It hosts four tabs, each a listview.Model:
//
//   - Transcript: a followed conversation transcript in scroll mode,
//     pinned to the newest line and grouped by turn. v switches to
//     turn selection; f re-pins to the end.
//   - Models: a wrap-around picker over the configured model catalog
//     with a fuzzy filter. Enter makes the highlighted model active.
//   - Sessions: a lazily materialized list of sessions grouped by day.
//   - Settings: the effective configuration plus live state, including
//     the picker's highlighted model read through its SelectionHandle.
//
// Background log records reach the status bar through [TUILogHandler]
// and fade after a few seconds. Transcript changes arrive as
// [TranscriptUpdateMsg] values sent by the caller's watcher; appended
// turns carry a gutter marker until they cool.
package viewerui
