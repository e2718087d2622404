// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for testability.
//
// The list engine's scroll accelerator reads Now to measure the gap
// between wheel events, and the transcript watcher debounces file
// events with AfterFunc. In production, Real() provides the standard
// library behavior. In tests, Fake() provides a clock that moves only
// when Advance or Set is called:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	accelerator := listview.NewAccelerator(c)
//	accelerator.Accelerate()           // 1
//	c.Advance(50 * time.Millisecond)
//	accelerator.Accelerate()           // 2
package clock
