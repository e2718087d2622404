// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcript

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/zeebo/blake3"
)

// Entry is one message in a transcript file.
type Entry struct {
	// Turn identifies the conversation turn. Consecutive entries with
	// the same turn (a prompt, tool calls, the reply) form one group.
	Turn string `json:"turn"`

	// Role is user, assistant, or tool.
	Role string `json:"role"`

	// Text is the message body. Embedded newlines become separate
	// display lines.
	Text string `json:"text"`
}

// Line is one display row of an expanded transcript.
type Line struct {
	Turn string
	Role string
	Text string

	// Separator marks the blank row inserted before each turn.
	Separator bool

	// Lead marks the first row of an entry, where the role label is
	// drawn.
	Lead bool
}

// GroupKey returns the turn a line belongs to. Separator rows are
// ungrouped so they act as leading padding for the turn below them.
func (line Line) GroupKey() string {
	if line.Separator {
		return ""
	}
	return line.Turn
}

// maxLineSize bounds a single JSONL record. Tool output can be large.
const maxLineSize = 1024 * 1024

// snapshot is a parsed transcript file with a digest of each record
// kept for change detection.
type snapshot struct {
	entries []Entry
	digests []Digest
}

// Digest identifies the exact bytes of one transcript record.
type Digest [32]byte

func digestRecord(record []byte) Digest {
	return Digest(blake3.Sum256(record))
}

// Read parses the transcript file at path. Archived transcripts ending
// in .zst or .lz4 are decompressed while reading.
func Read(path string) ([]Entry, error) {
	current, err := readSnapshot(path)
	if err != nil {
		return nil, err
	}
	return current.entries, nil
}

func readSnapshot(path string) (snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return snapshot{}, fmt.Errorf("open transcript: %w", err)
	}
	defer file.Close()

	reader, closeReader, err := decompressor(path, file)
	if err != nil {
		return snapshot{}, err
	}
	defer closeReader()

	var result snapshot
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return snapshot{}, fmt.Errorf("transcript line %d: %w", lineNumber, err)
		}
		if entry.Turn == "" {
			return snapshot{}, fmt.Errorf("transcript line %d: missing turn field", lineNumber)
		}

		result.entries = append(result.entries, entry)
		result.digests = append(result.digests, digestRecord(line))
	}
	if err := scanner.Err(); err != nil {
		return snapshot{}, fmt.Errorf("read transcript: %w", err)
	}
	return result, nil
}

// decompressor wraps file in the decoder its extension names. Plain
// transcripts are returned unchanged.
func decompressor(path string, file io.Reader) (io.Reader, func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		decoder, err := zstd.NewReader(file)
		if err != nil {
			return nil, nil, fmt.Errorf("open zstd transcript: %w", err)
		}
		return decoder, decoder.Close, nil
	case ".lz4":
		return lz4.NewReader(file), func() {}, nil
	default:
		return file, func() {}, nil
	}
}

// Expand flattens entries into display lines. A separator row precedes
// every turn; each entry contributes one row per line of its text
// (at least one row, even for empty text).
func Expand(entries []Entry) []Line {
	return expandAfter("", entries)
}

// ExpandAppended expands entries that follow an already expanded
// transcript whose last turn was previousTurn. No separator is
// inserted when the first appended entry continues that turn.
func ExpandAppended(previousTurn string, entries []Entry) []Line {
	return expandAfter(previousTurn, entries)
}

func expandAfter(previousTurn string, entries []Entry) []Line {
	var lines []Line
	for _, entry := range entries {
		if entry.Turn != previousTurn {
			lines = append(lines, Line{Turn: entry.Turn, Separator: true})
			previousTurn = entry.Turn
		}
		for index, text := range strings.Split(entry.Text, "\n") {
			lines = append(lines, Line{
				Turn: entry.Turn,
				Role: entry.Role,
				Text: text,
				Lead: index == 0,
			})
		}
	}
	return lines
}
