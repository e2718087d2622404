// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock initialized to the given time. Time stands
// still until Advance or Set is called.
//
// FakeClock is safe for concurrent use by multiple goroutines.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// FakeClock is a deterministic Clock for testing. AfterFunc callbacks
// are invoked synchronously during Advance in deadline order. Do not
// call Advance from within an AfterFunc callback.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	pending []*fakeCallback
}

type fakeCallback struct {
	deadline time.Time
	callback func()
	stopped  bool
	fired    bool
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// AfterFunc registers f to run once the clock has advanced by d. A
// non-positive duration runs f synchronously before returning.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		f()
		return &Timer{stopFunc: func() bool { return false }}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	pending := &fakeCallback{deadline: c.current.Add(d), callback: f}
	c.pending = append(c.pending, pending)

	return &Timer{
		stopFunc: func() bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			if pending.stopped || pending.fired {
				return false
			}
			pending.stopped = true
			return true
		},
	}
}

// Advance moves the clock forward by d and fires every callback whose
// deadline falls at or before the new time.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	target := c.current
	c.mu.Unlock()

	c.fireExpired(target)
}

// Set jumps the clock to an absolute time. Moving backwards is allowed
// and never fires callbacks.
func (c *FakeClock) Set(now time.Time) {
	c.mu.Lock()
	c.current = now
	c.mu.Unlock()

	c.fireExpired(now)
}

// PendingCount returns the number of callbacks that have neither fired
// nor been stopped.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, pending := range c.pending {
		if !pending.stopped && !pending.fired {
			count++
		}
	}
	return count
}

func (c *FakeClock) fireExpired(target time.Time) {
	c.mu.Lock()
	var toFire, remaining []*fakeCallback
	for _, pending := range c.pending {
		switch {
		case pending.stopped:
		case !pending.deadline.After(target):
			pending.fired = true
			toFire = append(toFire, pending)
		default:
			remaining = append(remaining, pending)
		}
	}
	c.pending = remaining
	c.mu.Unlock()

	sort.SliceStable(toFire, func(i, j int) bool {
		return toFire[i].deadline.Before(toFire[j].deadline)
	})
	for _, pending := range toFire {
		pending.callback()
	}
}
