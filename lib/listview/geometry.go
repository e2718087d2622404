// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listview

import (
	"os"

	"golang.org/x/term"
)

// DefaultTerminalHeight is the fallback terminal height used when the
// terminal cannot be queried and no resize has been observed.
const DefaultTerminalHeight = 24

// TerminalSizer reports the controlling terminal's dimensions. ok is
// false when the size is unavailable (output is not a terminal).
type TerminalSizer interface {
	TerminalSize() (width, height int, ok bool)
}

// FileTerminal queries the terminal attached to a file descriptor via
// golang.org/x/term.
type FileTerminal struct {
	File *os.File
}

// StdoutTerminal queries the terminal attached to standard output.
func StdoutTerminal() FileTerminal { return FileTerminal{File: os.Stdout} }

// TerminalSize implements TerminalSizer.
func (terminal FileTerminal) TerminalSize() (int, int, bool) {
	if terminal.File == nil {
		return 0, 0, false
	}
	width, height, err := term.GetSize(int(terminal.File.Fd()))
	if err != nil || height <= 0 {
		return 0, 0, false
	}
	return width, height, true
}

// HeightResolver computes how many rows the list may draw. Precedence:
//
//  1. FixedHeight, when positive.
//  2. The measured container height minus HeightAdjustment, once a
//     measurement has been delivered through Measure.
//  3. The terminal height minus ReservedLines. The terminal height is
//     the last observed resize, else a query through Terminal, else
//     DefaultTerminalHeight.
//
// The result is always at least 1. Resolve is cheap and idempotent;
// the engine calls it at the start of every update and every render so
// the height is never stale.
type HeightResolver struct {
	FixedHeight      int
	HeightAdjustment int
	ReservedLines    int
	Terminal         TerminalSizer

	measured       int
	hasMeasurement bool
	terminalHeight int
}

// Measure records the container's measured height. The measurement
// replaces the terminal fallback from then on; a non-positive value
// withdraws it.
func (resolver *HeightResolver) Measure(height int) {
	if height <= 0 {
		resolver.measured = 0
		resolver.hasMeasurement = false
		return
	}
	resolver.measured = height
	resolver.hasMeasurement = true
}

// ObserveTerminal records a terminal resize.
func (resolver *HeightResolver) ObserveTerminal(height int) {
	if height > 0 {
		resolver.terminalHeight = height
	}
}

// HasMeasurement reports whether a container measurement is in effect.
func (resolver *HeightResolver) HasMeasurement() bool { return resolver.hasMeasurement }

// Resolve returns the visible height in rows.
func (resolver *HeightResolver) Resolve() int {
	var height int
	switch {
	case resolver.FixedHeight > 0:
		height = resolver.FixedHeight
	case resolver.hasMeasurement:
		height = resolver.measured - resolver.HeightAdjustment
	default:
		height = resolver.terminalRows() - resolver.ReservedLines
	}
	if height < 1 {
		return 1
	}
	return height
}

func (resolver *HeightResolver) terminalRows() int {
	if resolver.terminalHeight > 0 {
		return resolver.terminalHeight
	}
	if resolver.Terminal != nil {
		if _, height, ok := resolver.Terminal.TerminalSize(); ok {
			return height
		}
	}
	return DefaultTerminalHeight
}
