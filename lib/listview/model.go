// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listview

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/listview/lib/clock"
	"github.com/bureau-foundation/listview/lib/tui"
)

// Model is a virtualized list over a Source. It renders only the
// visible window, so sequences of any length cost the same per frame.
//
// Every Update and View runs in three stages: geometry is re-resolved,
// at most one input transition is applied, and derived state is
// settled (offset clamped, selection clamped or restored to its
// group, selection revealed, handle published, focus notified).
//
// Model is not safe for concurrent use; drive it from the bubbletea
// update loop. Use a SelectionHandle to read the selection elsewhere.
type Model[T any] struct {
	source  Source[T]
	options Options[T]
	mode    SelectionMode
	focused bool
	keys    KeyMap

	geometry    HeightResolver
	viewport    Viewport
	accelerator *Accelerator
	scrollbar   *tui.ScrollbarRenderer
	logger      *slog.Logger

	width      int
	sizedWidth bool

	// selected is -1 when nothing is selected. trackedKey is the group
	// key of the selection, used to follow the group across mutations.
	selected   int
	trackedKey string

	// notified is the index most recently reported through OnFocus.
	notified int

	initCmd tea.Cmd
}

// New creates a list over source.
func New[T any](source Source[T], options Options[T]) *Model[T] {
	keys := DefaultKeyMap
	if options.Keys != nil {
		keys = *options.Keys
	}
	timeSource := options.Clock
	if timeSource == nil {
		timeSource = clock.Real()
	}
	terminal := options.Terminal
	if terminal == nil {
		terminal = StdoutTerminal()
	}
	theme := tui.DefaultTheme
	if options.Theme != nil {
		theme = *options.Theme
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	model := &Model[T]{
		source:  source,
		options: options,
		mode:    options.SelectionMode,
		focused: options.Focused,
		keys:    keys,
		geometry: HeightResolver{
			FixedHeight:      options.FixedHeight,
			HeightAdjustment: options.HeightAdjustment,
			ReservedLines:    options.ReservedLines,
			Terminal:         terminal,
		},
		accelerator: NewAccelerator(timeSource),
		scrollbar:   tui.NewScrollbarRenderer(theme),
		logger:      logger,
		selected:    -1,
		notified:    -1,
	}
	model.viewport = NewViewport(source.Len(), model.geometry.Resolve(), model.sticky())
	if model.mode == ModeItem {
		model.selectInitial()
	}
	model.initCmd = model.settle()
	return model
}

// Init returns the focus notification for the initial selection, if
// any.
func (model *Model[T]) Init() tea.Cmd {
	cmd := model.initCmd
	model.initCmd = nil
	return cmd
}

// Update handles resize and, while focused, keyboard and mouse input.
// Commands from OnSelect and OnFocus are returned for the runtime.
func (model *Model[T]) Update(msg tea.Msg) tea.Cmd {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		model.geometry.ObserveTerminal(size.Height)
		if !model.sizedWidth {
			model.width = size.Width
		}
		return model.settle()
	}
	if !model.focused {
		return nil
	}

	input := Route(msg, model.keys)
	if input.Kind == InputNone {
		return nil
	}

	model.refreshGeometry()
	cmd := model.apply(input)
	return tea.Batch(cmd, model.settle())
}

func (model *Model[T]) apply(input Input) tea.Cmd {
	if model.mode == ModeScroll {
		switch input.Kind {
		case InputStep:
			model.viewport.ScrollBy(input.Direction)
		case InputPage:
			model.viewport.ScrollBy(input.Direction * model.viewport.Height())
		case InputHalfPage:
			model.viewport.ScrollBy(input.Direction * max(1, model.viewport.Height()/2))
		case InputHome:
			model.viewport.Home()
		case InputEnd:
			model.viewport.End()
		case InputWheel:
			model.viewport.ScrollBy(input.Direction * model.accelerator.Accelerate())
		}
		return nil
	}

	if model.selected < 0 {
		return nil
	}
	switch input.Kind {
	case InputStep, InputWheel:
		model.navigate(input.Direction)
	case InputPage:
		model.page(input.Direction * model.viewport.Height())
	case InputHalfPage:
		model.page(input.Direction * max(1, model.viewport.Height()/2))
	case InputHome:
		model.selectIndex(0)
	case InputEnd:
		model.selectIndex(model.source.Len() - 1)
	case InputCommit:
		if model.options.OnSelect == nil {
			return nil
		}
		if item, ok := model.source.At(model.selected); ok {
			return model.options.OnSelect(item, model.selected)
		}
	}
	return nil
}

// View renders the visible rows followed by the scrollbar column.
// An empty list renders the RenderEmpty output.
func (model *Model[T]) View() string {
	model.refreshGeometry()

	count := model.source.Len()
	if count == 0 {
		if model.options.RenderEmpty != nil {
			return model.options.RenderEmpty()
		}
		return ""
	}

	height := model.viewport.Height()
	var scrollbar tui.ScrollbarGeometry
	if !model.options.HideScrollbar {
		scrollbar = tui.ComputeScrollbar(height, count, height, model.viewport.Offset())
	}
	contentWidth := model.width
	if scrollbar.Visible && contentWidth > 0 {
		contentWidth--
	}

	selectedIndex, selectedStart, selectedEnd := -1, -1, -1
	if model.mode == ModeItem && model.selected >= 0 {
		selectedIndex = model.selected
		selectedStart, selectedEnd = model.groups().Bounds(model.selected)
	}

	render := model.options.Render
	if render == nil {
		render = defaultRender[T]
	}

	start, end := model.viewport.Window()
	rows := make([]string, 0, height)
	for position, item := range model.source.Slice(start, end) {
		index := start + position
		selected := index >= selectedStart && index <= selectedEnd
		rows = append(rows, fitRow(render(item, index, selected, selectedIndex), contentWidth))
	}
	for len(rows) < height {
		rows = append(rows, fitRow("", contentWidth))
	}

	body := strings.Join(rows, "\n")
	if !scrollbar.Visible {
		return body
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, body, model.scrollbar.Render(scrollbar))
}

// fitRow keeps the first line of row and, when width is known,
// truncates or pads it to exactly width cells.
func fitRow(row string, width int) string {
	if newline := strings.IndexByte(row, '\n'); newline >= 0 {
		row = row[:newline]
	}
	if width <= 0 {
		return row
	}
	row = ansi.Truncate(row, width, "…")
	if padding := width - ansi.StringWidth(row); padding > 0 {
		row += strings.Repeat(" ", padding)
	}
	return row
}

func defaultRender[T any](item T, _ int, isSelected bool, _ int) string {
	if isSelected {
		return "> " + fmt.Sprint(item)
	}
	return "  " + fmt.Sprint(item)
}

// SetSize delivers the container's measured size. The height replaces
// the terminal fallback (minus HeightAdjustment); the width bounds
// each row.
func (model *Model[T]) SetSize(width, height int) tea.Cmd {
	model.width = width
	model.sizedWidth = true
	model.geometry.Measure(height)
	return model.settle()
}

// SetItems replaces the list with an eager slice.
func (model *Model[T]) SetItems(items []T) tea.Cmd {
	return model.SetSource(Eager(items))
}

// SetSource replaces the data. In item mode over an eager grouped
// source, the selection follows its group to the group's first
// surviving member; otherwise it is clamped into the new range.
func (model *Model[T]) SetSource(source Source[T]) tea.Cmd {
	model.source = source
	model.refreshGeometry()
	model.reconcileSelection()
	return model.settle()
}

// Source returns the current data source.
func (model *Model[T]) Source() Source[T] { return model.source }

// SetSelectionMode switches between item and scroll mode. Entering
// item mode selects the last item (or the first row of the last group)
// when ScrollToEnd is set, else the first visible row. Entering scroll
// mode drops the selection and keeps the offset.
func (model *Model[T]) SetSelectionMode(mode SelectionMode) tea.Cmd {
	if mode == model.mode {
		return nil
	}
	previous := model.mode
	model.mode = mode
	model.refreshGeometry()

	switch mode {
	case ModeItem:
		if model.source.Len() > 0 {
			if model.options.ScrollToEnd {
				model.selectIndex(model.source.Len() - 1)
			} else {
				model.selectIndex(model.viewport.Offset())
			}
		}
	case ModeScroll:
		model.selected = -1
		model.notified = -1
		// Recompute the stick-to-end flag from where the selection
		// left the window.
		model.viewport.ScrollTo(model.viewport.Offset())
	}

	model.logger.Debug("list selection mode changed",
		"from", previous.String(),
		"to", mode.String(),
		"selected", model.selected,
		"offset", model.viewport.Offset(),
	)
	return model.settle()
}

// SelectionMode returns the current mode.
func (model *Model[T]) SelectionMode() SelectionMode { return model.mode }

// SetFocused enables or disables input consumption.
func (model *Model[T]) SetFocused(focused bool) { model.focused = focused }

// Focused reports whether the list consumes input.
func (model *Model[T]) Focused() bool { return model.focused }

// KeyMap returns the active key bindings.
func (model *Model[T]) KeyMap() KeyMap { return model.keys }

// ScrollTo, ScrollBy, PageUp, PageDown, Home and End move the window
// as user scrolls. In item mode the window follows the selection, so
// they only have a lasting effect in scroll mode.

// ScrollTo moves the window so offset is the first visible row.
func (model *Model[T]) ScrollTo(offset int) {
	model.refreshGeometry()
	model.viewport.ScrollTo(offset)
	model.settle()
}

// ScrollBy moves the window by delta rows.
func (model *Model[T]) ScrollBy(delta int) {
	model.refreshGeometry()
	model.viewport.ScrollBy(delta)
	model.settle()
}

// PageUp moves the window up one visible height.
func (model *Model[T]) PageUp() { model.ScrollBy(-model.VisibleHeight()) }

// PageDown moves the window down one visible height.
func (model *Model[T]) PageDown() { model.ScrollBy(model.VisibleHeight()) }

// Home moves the window to the first row.
func (model *Model[T]) Home() { model.ScrollTo(0) }

// End moves the window to the last row.
func (model *Model[T]) End() {
	model.refreshGeometry()
	model.viewport.End()
	model.settle()
}

// JumpToEnd programmatically pins the list to its end: scroll mode
// re-arms stick-to-end, item mode selects the last item or group.
func (model *Model[T]) JumpToEnd() tea.Cmd {
	model.refreshGeometry()
	if model.mode == ModeScroll {
		model.viewport.JumpToEnd()
	} else if model.source.Len() > 0 {
		model.selectIndex(model.source.Len() - 1)
	}
	return model.settle()
}

// Navigate moves the selection one step in direction (negative for up).
// With grouping the step is one group and saturates at the ends;
// without it the step is one item and wraps when EnableWrapAround is
// set. Navigate is a no-op in scroll mode.
func (model *Model[T]) Navigate(direction int) tea.Cmd {
	if model.mode != ModeItem || model.selected < 0 || direction == 0 {
		return nil
	}
	model.refreshGeometry()
	model.navigate(direction)
	return model.settle()
}

// JumpTo selects index, clamped into range and resolved to the start
// of its group. A no-op in scroll mode.
func (model *Model[T]) JumpTo(index int) tea.Cmd {
	if model.mode != ModeItem || model.source.Len() == 0 {
		return nil
	}
	model.refreshGeometry()
	model.selectIndex(index)
	return model.settle()
}

func (model *Model[T]) navigate(direction int) {
	groups := model.groups()
	if groups.Enabled() {
		model.selectIndex(groups.NextGroupIndex(model.selected, direction))
		return
	}

	count := model.source.Len()
	step := 1
	if direction < 0 {
		step = -1
	}
	target := model.selected + step
	switch {
	case target < 0 && model.options.EnableWrapAround:
		target = count - 1
	case target >= count && model.options.EnableWrapAround:
		target = 0
	}
	model.selectIndex(target)
}

// page moves the selection by delta rows. A target inside the current
// group resolves back to the group start, so a group taller than the
// jump advances to the adjacent group instead.
func (model *Model[T]) page(delta int) {
	previous := model.selected
	model.selectIndex(previous + delta)
	if model.selected == previous {
		model.selectIndex(model.groups().NextGroupIndex(previous, delta))
	}
}

// Selected returns the selected index. ok is false in scroll mode or
// when the list is empty.
func (model *Model[T]) Selected() (index int, ok bool) {
	if model.selected < 0 {
		return -1, false
	}
	return model.selected, true
}

// SelectedItem returns the selected item of an eager source.
func (model *Model[T]) SelectedItem() (T, bool) {
	if model.selected < 0 {
		var zero T
		return zero, false
	}
	return model.source.At(model.selected)
}

// Offset returns the first visible row.
func (model *Model[T]) Offset() int { return model.viewport.Offset() }

// VisibleHeight returns the resolved height in rows.
func (model *Model[T]) VisibleHeight() int { return model.viewport.Height() }

// VisibleRange returns the visible index range [start, end).
func (model *Model[T]) VisibleRange() (start, end int) { return model.viewport.Window() }

// Len returns the number of items.
func (model *Model[T]) Len() int { return model.source.Len() }

// UserScrolledAway reports whether stick-to-end is suspended because
// the user scrolled off the bottom.
func (model *Model[T]) UserScrolledAway() bool { return model.viewport.UserScrolledAway() }

// AtBottom reports whether the last row is visible.
func (model *Model[T]) AtBottom() bool { return model.viewport.AtBottom() }

// GroupIDOf returns the group key of the item at index.
func (model *Model[T]) GroupIDOf(index int) (string, bool) { return model.groups().GroupIDOf(index) }

// RangeOfGroup returns the padded index range of the group containing
// index.
func (model *Model[T]) RangeOfGroup(index int) (start, end int) {
	return model.groups().RangeOfGroup(index)
}

// NextGroupIndex returns the first index of the adjacent group.
func (model *Model[T]) NextGroupIndex(from, direction int) int {
	return model.groups().NextGroupIndex(from, direction)
}

// ScrollbarCacheLen returns the number of memoized scrollbar columns.
func (model *Model[T]) ScrollbarCacheLen() int { return model.scrollbar.Cache().Len() }

func (model *Model[T]) sticky() bool {
	return model.options.ScrollToEnd && model.mode == ModeScroll
}

func (model *Model[T]) groups() GroupResolver {
	return GroupResolver{
		Key:           model.keyFunc(),
		Count:         model.source.Len(),
		PaddingBefore: model.options.GroupPaddingBefore,
	}
}

func (model *Model[T]) keyFunc() KeyFunc {
	if model.options.GroupByIndex != nil {
		return model.options.GroupByIndex
	}
	if model.options.GroupBy == nil || model.source.IsLazy() {
		return nil
	}
	items := model.source.items
	groupBy := model.options.GroupBy
	return func(index int) string { return groupBy(items[index]) }
}

func (model *Model[T]) refreshGeometry() {
	model.viewport.StickToEnd = model.sticky()
	model.viewport.Resize(model.source.Len(), model.geometry.Resolve())
}

func (model *Model[T]) selectInitial() {
	if model.source.Len() == 0 {
		return
	}
	if model.options.ScrollToEnd {
		model.selectIndex(model.source.Len() - 1)
	} else {
		model.selectIndex(0)
	}
}

// selectIndex clamps index, resolves it to its group start, records
// the group key, and reveals the selection.
func (model *Model[T]) selectIndex(index int) {
	count := model.source.Len()
	if count == 0 {
		model.selected = -1
		return
	}
	groups := model.groups()
	index = max(0, min(index, count-1))
	if groups.Enabled() {
		index = groups.GroupStart(index)
	}
	model.selected = index
	model.trackedKey, _ = groups.GroupIDOf(index)
	model.revealSelection()
}

func (model *Model[T]) revealSelection() {
	if model.selected < 0 {
		return
	}
	start, end := model.groups().RangeOfGroup(model.selected)
	model.viewport.Reveal(start, end)
	if !model.viewport.Contains(model.selected) {
		model.viewport.Reveal(model.selected, model.selected)
	}
}

// reconcileSelection re-resolves the selection after the source
// changed.
func (model *Model[T]) reconcileSelection() {
	if model.mode != ModeItem {
		return
	}
	count := model.source.Len()
	if count == 0 {
		model.selected = -1
		model.notified = -1
		return
	}
	if model.selected < 0 {
		model.selectInitial()
		return
	}

	groups := model.groups()
	if groups.Enabled() && !model.source.IsLazy() && model.trackedKey != "" {
		if index, ok := groups.FirstIndexOf(model.trackedKey); ok {
			if index != model.selected {
				model.logger.Debug("list selection followed group",
					"group", model.trackedKey,
					"from", model.selected,
					"to", index,
				)
			}
			model.selectIndex(index)
			return
		}
	}
	model.selectIndex(model.selected)
}

// settle finishes an update: offsets and selection are clamped, the
// selection is revealed, the handle is published, and OnFocus fires
// if the selection changed.
func (model *Model[T]) settle() tea.Cmd {
	model.refreshGeometry()

	if model.mode == ModeItem {
		count := model.source.Len()
		switch {
		case count == 0:
			model.selected = -1
		case model.selected < 0:
			model.selectInitial()
		case model.selected >= count:
			model.selectIndex(count - 1)
		default:
			model.revealSelection()
		}
	}

	if model.options.Handle != nil {
		model.options.Handle.store(model.selected)
	}
	return model.notifyFocus()
}

func (model *Model[T]) notifyFocus() tea.Cmd {
	if model.mode != ModeItem || model.source.IsLazy() || model.selected < 0 {
		return nil
	}
	if model.selected == model.notified {
		return nil
	}
	model.notified = model.selected
	if model.options.OnFocus == nil {
		return nil
	}
	item, ok := model.source.At(model.selected)
	if !ok {
		return nil
	}
	return model.options.OnFocus(item, model.selected)
}
