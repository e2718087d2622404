// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listview

// Viewport is the scroll-offset state machine: the window
// [offset, offset+height) over a sequence of count rows.
//
// Every operation clamps the offset into [0, MaxOffset()], so calls
// at the boundaries are idempotent and the offset is never negative.
//
// With StickToEnd set, Resize keeps the window pinned to the bottom as
// rows arrive, until a user scroll moves more than one row off it. The
// pin resumes once a user scroll returns to within one row of the
// bottom.
type Viewport struct {
	StickToEnd bool

	offset           int
	height           int
	count            int
	userScrolledAway bool
}

// NewViewport returns a viewport of the given height over count rows.
// A sticky viewport starts at the bottom.
func NewViewport(count, height int, stickToEnd bool) Viewport {
	viewport := Viewport{StickToEnd: stickToEnd, height: max(1, height), count: max(0, count)}
	if stickToEnd {
		viewport.offset = viewport.MaxOffset()
	}
	return viewport
}

// Offset returns the index of the first visible row.
func (viewport *Viewport) Offset() int { return viewport.offset }

// Height returns the number of visible rows.
func (viewport *Viewport) Height() int { return viewport.height }

// Count returns the sequence length the viewport was last sized for.
func (viewport *Viewport) Count() int { return viewport.count }

// MaxOffset returns max(0, count-height).
func (viewport *Viewport) MaxOffset() int {
	return max(0, viewport.count-viewport.height)
}

// Window returns the visible index range [start, end), intersected
// with [0, count).
func (viewport *Viewport) Window() (start, end int) {
	start = viewport.offset
	end = min(viewport.offset+viewport.height, viewport.count)
	if end < start {
		end = start
	}
	return start, end
}

// AtBottom reports whether the last row is visible.
func (viewport *Viewport) AtBottom() bool {
	return viewport.offset >= viewport.MaxOffset()
}

// UserScrolledAway reports whether the user has scrolled off the
// bottom, suspending the stick-to-end pin.
func (viewport *Viewport) UserScrolledAway() bool { return viewport.userScrolledAway }

// Resize updates the sequence length and visible height. When rows
// arrive or the height changes, a sticky viewport the user has not
// scrolled away from follows the bottom. Every other resize only
// clamps, so a one-row scroll near the bottom is kept.
func (viewport *Viewport) Resize(count, height int) {
	count, height = max(0, count), max(1, height)
	changed := count > viewport.count || height != viewport.height
	viewport.count = count
	viewport.height = height
	if changed && viewport.StickToEnd && !viewport.userScrolledAway {
		viewport.offset = viewport.MaxOffset()
		return
	}
	viewport.offset = viewport.clamp(viewport.offset)
}

// ScrollTo moves the window to offset as a user scroll.
func (viewport *Viewport) ScrollTo(offset int) {
	viewport.offset = viewport.clamp(offset)
	viewport.userScrolledAway = viewport.MaxOffset()-viewport.offset > 1
}

// ScrollBy moves the window by delta rows as a user scroll.
func (viewport *Viewport) ScrollBy(delta int) { viewport.ScrollTo(viewport.offset + delta) }

// PageUp scrolls up by one visible height.
func (viewport *Viewport) PageUp() { viewport.ScrollBy(-viewport.height) }

// PageDown scrolls down by one visible height.
func (viewport *Viewport) PageDown() { viewport.ScrollBy(viewport.height) }

// HalfPageUp scrolls up by half the visible height (at least one row).
func (viewport *Viewport) HalfPageUp() { viewport.ScrollBy(-max(1, viewport.height/2)) }

// HalfPageDown scrolls down by half the visible height (at least one row).
func (viewport *Viewport) HalfPageDown() { viewport.ScrollBy(max(1, viewport.height/2)) }

// Home scrolls to the first row.
func (viewport *Viewport) Home() { viewport.ScrollTo(0) }

// End scrolls to the last row.
func (viewport *Viewport) End() { viewport.ScrollTo(viewport.MaxOffset()) }

// JumpToEnd pins the window to the bottom programmatically and
// re-arms the stick-to-end policy.
func (viewport *Viewport) JumpToEnd() {
	viewport.offset = viewport.MaxOffset()
	viewport.userScrolledAway = false
}

// Reveal moves the window the minimum distance needed to show rows
// [start, end]. When the range is taller than the viewport its start
// is shown. Reveal is not a user scroll: it leaves the stick-to-end
// flag alone.
func (viewport *Viewport) Reveal(start, end int) {
	offset := viewport.offset
	if end >= offset+viewport.height {
		offset = end - viewport.height + 1
	}
	if start < offset {
		offset = start
	}
	viewport.offset = viewport.clamp(offset)
}

// Contains reports whether index is inside the visible window.
func (viewport *Viewport) Contains(index int) bool {
	start, end := viewport.Window()
	return index >= start && index < end
}

func (viewport *Viewport) clamp(offset int) int {
	return max(0, min(offset, viewport.MaxOffset()))
}
