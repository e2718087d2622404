// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listview

// FetchFunc materializes items[start:end) of a lazy source. The engine
// guarantees 0 <= start < end <= count on every call. The returned
// slice should hold end-start items; a shorter slice renders fewer
// rows.
type FetchFunc[T any] func(start, end int) []T

// Source is the list's data: either an eager slice already in memory
// or a lazy count plus a fetch function. The variant is fixed when the
// Source is constructed with Eager or Lazy; a zero Source is an empty
// eager list.
//
// Lazy results are never cached. Every render fetches exactly the
// visible window again.
type Source[T any] struct {
	lazy  bool
	items []T
	count int
	fetch FetchFunc[T]
}

// Eager wraps an in-memory slice. The slice is referenced, not copied.
func Eager[T any](items []T) Source[T] {
	return Source[T]{items: items}
}

// Lazy describes count items materialized on demand by fetch. A
// negative count is treated as zero, and a nil fetch yields no rows.
func Lazy[T any](count int, fetch FetchFunc[T]) Source[T] {
	if count < 0 {
		count = 0
	}
	return Source[T]{lazy: true, count: count, fetch: fetch}
}

// Len returns the number of items. It is the single source of truth
// for every bound the engine enforces.
func (source Source[T]) Len() int {
	if source.lazy {
		return source.count
	}
	return len(source.items)
}

// IsLazy reports whether the source materializes items on demand.
func (source Source[T]) IsLazy() bool { return source.lazy }

// Slice returns items[start:end) clamped to [0, Len()). An empty or
// inverted range returns nil without calling fetch.
func (source Source[T]) Slice(start, end int) []T {
	count := source.Len()
	if start < 0 {
		start = 0
	}
	if end > count {
		end = count
	}
	if start >= end {
		return nil
	}
	if !source.lazy {
		return source.items[start:end]
	}
	if source.fetch == nil {
		return nil
	}
	items := source.fetch(start, end)
	if len(items) > end-start {
		items = items[:end-start]
	}
	return items
}

// At returns the item at index for eager sources. Lazy sources report
// false: item-level callbacks (select, focus) only apply to data the
// caller already holds.
func (source Source[T]) At(index int) (T, bool) {
	var zero T
	if source.lazy || index < 0 || index >= len(source.items) {
		return zero, false
	}
	return source.items[index], true
}
