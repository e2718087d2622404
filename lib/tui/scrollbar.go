// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultScrollbarCacheSize bounds the number of rendered columns a
// ScrollbarCache retains.
const DefaultScrollbarCacheSize = 1000

// ScrollbarGeometry is the thumb placement within a track of
// TrackHeight rows. A zero value (Visible false) means no scrollbar is
// drawn.
type ScrollbarGeometry struct {
	Visible       bool
	TrackHeight   int
	ThumbPosition int
	ThumbHeight   int
}

// ComputeScrollbar places the thumb for a list of totalItems rows with
// visibleHeight rows on screen starting at scrollOffset.
//
// The thumb height is max(1, floor(visibleHeight/totalItems * track))
// and the thumb position is floor(scrollOffset/totalItems * track).
// Both use integer arithmetic so the same inputs always produce the
// same cache key. When everything fits on screen the scrollbar is
// suppressed.
func ComputeScrollbar(trackHeight, totalItems, visibleHeight, scrollOffset int) ScrollbarGeometry {
	if trackHeight <= 0 || totalItems <= visibleHeight || totalItems <= 0 {
		return ScrollbarGeometry{}
	}

	thumbHeight := visibleHeight * trackHeight / totalItems
	if thumbHeight < 1 {
		thumbHeight = 1
	}
	if thumbHeight > trackHeight {
		thumbHeight = trackHeight
	}

	if scrollOffset < 0 {
		scrollOffset = 0
	}
	thumbPosition := scrollOffset * trackHeight / totalItems
	if thumbPosition+thumbHeight > trackHeight {
		thumbPosition = trackHeight - thumbHeight
	}

	return ScrollbarGeometry{
		Visible:       true,
		TrackHeight:   trackHeight,
		ThumbPosition: thumbPosition,
		ThumbHeight:   thumbHeight,
	}
}

type scrollbarKey struct {
	trackHeight   int
	thumbPosition int
	thumbHeight   int
}

// ScrollbarCache memoizes rendered scrollbar columns keyed by their
// geometry. Eviction is first-in first-out: once the cache holds
// capacity entries, inserting a new key drops the oldest inserted one
// regardless of how recently it was read.
//
// A cache belongs to a single list instance and is not safe for
// concurrent use.
type ScrollbarCache struct {
	capacity int
	entries  map[scrollbarKey]string
	order    []scrollbarKey
}

// NewScrollbarCache creates a cache holding at most capacity entries.
// A non-positive capacity selects DefaultScrollbarCacheSize.
func NewScrollbarCache(capacity int) *ScrollbarCache {
	if capacity <= 0 {
		capacity = DefaultScrollbarCacheSize
	}
	return &ScrollbarCache{
		capacity: capacity,
		entries:  make(map[scrollbarKey]string),
	}
}

// Get returns the cached column for geometry, if present.
func (cache *ScrollbarCache) Get(geometry ScrollbarGeometry) (string, bool) {
	rendered, ok := cache.entries[keyOf(geometry)]
	return rendered, ok
}

// Put stores a rendered column, evicting the oldest entry when full.
func (cache *ScrollbarCache) Put(geometry ScrollbarGeometry, rendered string) {
	key := keyOf(geometry)
	if _, exists := cache.entries[key]; exists {
		cache.entries[key] = rendered
		return
	}
	if len(cache.order) >= cache.capacity {
		oldest := cache.order[0]
		cache.order = cache.order[1:]
		delete(cache.entries, oldest)
	}
	cache.entries[key] = rendered
	cache.order = append(cache.order, key)
}

// Len returns the number of cached columns.
func (cache *ScrollbarCache) Len() int { return len(cache.entries) }

func keyOf(geometry ScrollbarGeometry) scrollbarKey {
	return scrollbarKey{
		trackHeight:   geometry.TrackHeight,
		thumbPosition: geometry.ThumbPosition,
		thumbHeight:   geometry.ThumbHeight,
	}
}

// ScrollbarRenderer draws single-column scrollbars in a fixed style
// and memoizes the output in its own cache.
type ScrollbarRenderer struct {
	trackStyle lipgloss.Style
	thumbStyle lipgloss.Style
	cache      *ScrollbarCache
}

// NewScrollbarRenderer creates a renderer using the theme's scrollbar
// colors and a cache of DefaultScrollbarCacheSize entries.
func NewScrollbarRenderer(theme Theme) *ScrollbarRenderer {
	return &ScrollbarRenderer{
		trackStyle: lipgloss.NewStyle().Foreground(theme.ScrollbarTrack),
		thumbStyle: lipgloss.NewStyle().Foreground(theme.ScrollbarThumb),
		cache:      NewScrollbarCache(DefaultScrollbarCacheSize),
	}
}

// Render returns the scrollbar column for geometry, one glyph per line,
// or "" when the geometry is not visible.
func (renderer *ScrollbarRenderer) Render(geometry ScrollbarGeometry) string {
	if !geometry.Visible {
		return ""
	}
	if rendered, ok := renderer.cache.Get(geometry); ok {
		return rendered
	}

	lines := make([]string, geometry.TrackHeight)
	for index := range lines {
		if index >= geometry.ThumbPosition && index < geometry.ThumbPosition+geometry.ThumbHeight {
			lines[index] = renderer.thumbStyle.Render("┃")
		} else {
			lines[index] = renderer.trackStyle.Render("│")
		}
	}
	rendered := strings.Join(lines, "\n")
	renderer.cache.Put(geometry, rendered)
	return rendered
}

// Cache exposes the renderer's cache for inspection.
func (renderer *ScrollbarRenderer) Cache() *ScrollbarCache { return renderer.cache }
