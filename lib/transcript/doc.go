// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transcript loads conversation transcripts for the list
// viewer and follows them as they grow.
//
// A transcript is a JSONL file: one [Entry] per line, each carrying the
// turn it belongs to, the speaker's role, and the message text.
// [Expand] flattens entries into display [Line]s, one per text line,
// with an ungrouped separator row before every turn so a list grouped
// by [Line.GroupKey] can reveal the separator together with the turn.
// Archived transcripts compressed with zstd (.zst) or lz4 (.lz4) are
// read transparently.
//
// [Watch] follows a transcript file with inotify on its parent
// directory and reports appended entries (or a full reset when the
// file was rewritten) through a callback. Records are compared by
// BLAKE3 digest, so a watcher holds one fixed-size digest per record
// rather than the record bytes.
package transcript
