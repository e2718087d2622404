// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listview

// KeyFunc returns the group key of the item at index. An empty key
// marks the item as ungrouped.
type KeyFunc func(index int) string

// GroupResolver answers group questions about a sequence of Count
// items whose keys come from Key. Groups are maximal runs of adjacent
// items sharing a non-empty key.
//
// A nil Key disables grouping: every item is its own group, ranges
// are single items, and NextGroupIndex steps one item at a time.
// Ungrouped items behave the same way inside a grouped sequence.
type GroupResolver struct {
	Key           KeyFunc
	Count         int
	PaddingBefore int
}

// Enabled reports whether a key function is configured.
func (resolver GroupResolver) Enabled() bool { return resolver.Key != nil }

// GroupIDOf returns the key of the item at index. ok is false when
// grouping is disabled, the index is out of range, or the item is
// ungrouped.
func (resolver GroupResolver) GroupIDOf(index int) (key string, ok bool) {
	if resolver.Key == nil || index < 0 || index >= resolver.Count {
		return "", false
	}
	key = resolver.Key(index)
	return key, key != ""
}

// Bounds returns the first and last index of the group containing
// index, without padding. Out-of-range indices are clamped first.
func (resolver GroupResolver) Bounds(index int) (start, end int) {
	if resolver.Count <= 0 {
		return 0, 0
	}
	index = max(0, min(index, resolver.Count-1))
	key, ok := resolver.GroupIDOf(index)
	if !ok {
		return index, index
	}
	start, end = index, index
	for start > 0 && resolver.Key(start-1) == key {
		start--
	}
	for end < resolver.Count-1 && resolver.Key(end+1) == key {
		end++
	}
	return start, end
}

// RangeOfGroup returns the index range [start, end] of the group
// containing index, with start extended backwards by PaddingBefore
// rows (clamped at 0) so leading separators are revealed with the
// group. Ungrouped items get no padding.
func (resolver GroupResolver) RangeOfGroup(index int) (start, end int) {
	start, end = resolver.Bounds(index)
	if _, ok := resolver.GroupIDOf(start); ok {
		start = max(0, start-resolver.PaddingBefore)
	}
	return start, end
}

// GroupStart returns the first index of the group containing index.
func (resolver GroupResolver) GroupStart(index int) int {
	start, _ := resolver.Bounds(index)
	return start
}

// NextGroupIndex returns the first index of the group adjacent to the
// one containing from, in direction (negative for up, positive for
// down). At the first or last group it saturates, returning the first
// index of the current group; it never wraps.
func (resolver GroupResolver) NextGroupIndex(from, direction int) int {
	if resolver.Count <= 0 {
		return 0
	}
	start, end := resolver.Bounds(from)
	switch {
	case direction > 0:
		if end+1 >= resolver.Count {
			return start
		}
		return resolver.GroupStart(end + 1)
	case direction < 0:
		if start == 0 {
			return start
		}
		return resolver.GroupStart(start - 1)
	default:
		return start
	}
}

// FirstIndexOf returns the first index whose key equals key, scanning
// the whole sequence.
func (resolver GroupResolver) FirstIndexOf(key string) (int, bool) {
	if resolver.Key == nil || key == "" {
		return 0, false
	}
	for index := 0; index < resolver.Count; index++ {
		if resolver.Key(index) == key {
			return index, true
		}
	}
	return 0, false
}
