// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listview

import "sync/atomic"

// SelectionHandle publishes a list's selected index so other
// components can read it outside the render cycle. The list writes it
// after every settled update; readers may be on any goroutine.
type SelectionHandle struct {
	index atomic.Int64
}

// NewSelectionHandle returns a handle reporting no selection.
func NewSelectionHandle() *SelectionHandle {
	handle := &SelectionHandle{}
	handle.index.Store(-1)
	return handle
}

// Index returns the live selected index. ok is false when nothing is
// selected: the list is empty or in scroll mode.
func (handle *SelectionHandle) Index() (index int, ok bool) {
	value := handle.index.Load()
	if value < 0 {
		return -1, false
	}
	return int(value), true
}

func (handle *SelectionHandle) store(index int) {
	handle.index.Store(int64(index))
}
