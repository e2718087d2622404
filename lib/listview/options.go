// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listview

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/listview/lib/clock"
	"github.com/bureau-foundation/listview/lib/tui"
)

// SelectionMode selects how the list consumes navigation.
type SelectionMode int

const (
	// ModeItem selects discrete items (or groups). Navigation moves
	// the selection and the viewport follows it.
	ModeItem SelectionMode = iota

	// ModeScroll scrolls rows without any selection. Renderers always
	// see rows as unselected.
	ModeScroll
)

// String returns "item" or "scroll".
func (mode SelectionMode) String() string {
	if mode == ModeScroll {
		return "scroll"
	}
	return "item"
}

// RenderFunc draws one visible row. isSelected is true for every row
// of the selected item or group; selectedIndex is the selected index,
// or -1 when nothing is selected. Only the first line of the result is
// used, so each item occupies exactly one row.
type RenderFunc[T any] func(item T, index int, isSelected bool, selectedIndex int) string

// ItemFunc receives an item and its index. Returned commands are
// passed back to the bubbletea runtime from Update.
type ItemFunc[T any] func(item T, index int) tea.Cmd

// Options configures a list. The zero value is a focused-off item-mode
// list with no grouping, terminal-derived height, and a plain
// renderer.
type Options[T any] struct {
	// SelectionMode is ModeItem or ModeScroll.
	SelectionMode SelectionMode

	// GroupBy derives a group key from an item (eager sources only).
	// GroupByIndex derives it from an index and is the only grouping
	// lazy sources use. When both are set on an eager source,
	// GroupByIndex wins. An empty key marks an ungrouped item.
	GroupBy      func(item T) string
	GroupByIndex func(index int) string

	// GroupPaddingBefore is the number of rows above a group revealed
	// together with it (e.g. a separator row).
	GroupPaddingBefore int

	// EnableWrapAround wraps item navigation past either end. Group
	// navigation always saturates.
	EnableWrapAround bool

	// ScrollToEnd pins scroll mode to the bottom as items arrive and
	// starts item mode on the last item.
	ScrollToEnd bool

	// FixedHeight, when positive, overrides every other height source.
	FixedHeight int

	// HeightAdjustment is subtracted from the measured container
	// height (borders, headers inside the container).
	HeightAdjustment int

	// ReservedLines is subtracted from the terminal height when no
	// container measurement is available.
	ReservedLines int

	// Focused gates input consumption.
	Focused bool

	Render      RenderFunc[T]
	RenderEmpty func() string

	// OnSelect fires when the user commits the selected item. OnFocus
	// fires once per settled selection change. Both apply only in
	// item mode over an eager source.
	OnSelect ItemFunc[T]
	OnFocus  ItemFunc[T]

	// Handle, when set, receives the live selected index.
	Handle *SelectionHandle

	// Keys overrides DefaultKeyMap.
	Keys *KeyMap

	// Clock drives wheel acceleration. Defaults to clock.Real().
	Clock clock.Clock

	// Terminal is queried for the fallback height. Defaults to the
	// terminal on standard output.
	Terminal TerminalSizer

	// Theme overrides tui.DefaultTheme for the scrollbar.
	Theme *tui.Theme

	// HideScrollbar disables the scrollbar column.
	HideScrollbar bool

	// Logger receives debug records about mode transitions and
	// selection reconciliation. Defaults to discarding.
	Logger *slog.Logger
}
