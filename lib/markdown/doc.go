// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package markdown renders markdown message bodies as terminal rows
// for the transcript list.
//
// [Lines] parses with goldmark (GFM extensions) and walks the AST
// directly, accumulating inline content per block and wrapping it to
// [Options.Width] with ANSI-aware breaking. Fenced code blocks are
// highlighted with chroma using the formatter that matches the output
// color profile. The result is one string per row, ready to become
// one list item each.
package markdown
