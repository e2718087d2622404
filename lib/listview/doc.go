// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package listview implements a virtualized list viewport and
// selection engine for bubbletea programs. It underlies every
// scrollable list surface in the viewer: conversation transcripts,
// model and session pickers, settings lists.
//
// A [Model] reconciles a logical sequence of items (a [Source], eager
// or lazy) with a resizable window ([HeightResolver], [Viewport]) and
// one of two interaction modes:
//
//   - [ModeScroll]: rows scroll freely with no selection. With
//     ScrollToEnd the view sticks to the bottom as items are appended
//     until the user scrolls away, and re-sticks when they return.
//   - [ModeItem]: a discrete selection moves item by item, or group by
//     group when a group key is configured ([GroupResolver]). The
//     selection is always kept on screen and follows its group across
//     mutations of eager data.
//
// Input arrives as keyboard bindings ([KeyMap]), structured or raw
// mouse wheel reports ([Route], [DecodeRawWheel]), and programmatic
// calls such as [Model.JumpToEnd]. Wheel bursts in scroll mode are
// accelerated by an [Accelerator].
//
// The engine never fetches, transforms, or caches item content. The
// caller supplies data plus a [RenderFunc]; only the visible window is
// materialized and rendered.
//
// Data flow:
//
//	[Source: Eager(items) | Lazy(count, fetch)]
//	        |
//	    [Model] <- tea.Msg (keys, wheel, resize)
//	        |  geometry -> transition -> settle
//	  [View: rows + scrollbar]
package listview
