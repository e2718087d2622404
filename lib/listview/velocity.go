// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listview

import (
	"time"

	"github.com/bureau-foundation/listview/lib/clock"
)

const (
	// AccelerationWindow is the longest gap between wheel events that
	// still counts as a continuous burst.
	AccelerationWindow = 150 * time.Millisecond

	// MaxVelocity caps the rows moved per wheel event.
	MaxVelocity = 5
)

// Accelerator turns bursts of wheel events into growing scroll steps.
// Each event arriving within AccelerationWindow of the previous one
// increases the step by one up to MaxVelocity; a slower event resets
// it to 1. There is no timer: decay is only evaluated when the next
// event arrives.
type Accelerator struct {
	clock     clock.Clock
	lastEvent time.Time
	velocity  int
}

// NewAccelerator creates an accelerator reading time from clock.
func NewAccelerator(clock clock.Clock) *Accelerator {
	return &Accelerator{clock: clock}
}

// Accelerate records a wheel event at the clock's current time and
// returns the step to apply.
func (accelerator *Accelerator) Accelerate() int {
	return accelerator.AccelerateAt(accelerator.clock.Now())
}

// AccelerateAt records a wheel event at now and returns the step to
// apply.
func (accelerator *Accelerator) AccelerateAt(now time.Time) int {
	if !accelerator.lastEvent.IsZero() && now.Sub(accelerator.lastEvent) < AccelerationWindow {
		accelerator.velocity = min(accelerator.velocity+1, MaxVelocity)
	} else {
		accelerator.velocity = 1
	}
	accelerator.lastEvent = now
	return accelerator.velocity
}

// Velocity returns the most recent step without recording an event.
func (accelerator *Accelerator) Velocity() int { return accelerator.velocity }
