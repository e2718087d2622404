// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeatDecayDuration is how long a row stays marked after a change.
const HeatDecayDuration = 3 * time.Second

// HeatTickInterval is the re-render interval while any key is hot.
const HeatTickInterval = 250 * time.Millisecond

// HeatKind distinguishes the change that lit a key.
type HeatKind int

const (
	// HeatAppended marks content added to the end of a list.
	HeatAppended HeatKind = iota
	// HeatRewritten marks content that replaced what was there.
	HeatRewritten
)

type heatEntry struct {
	lit  time.Time
	kind HeatKind
}

// HeatTracker remembers when keys last changed so renderers can mark
// recent changes. Heat is 1.0 when a key is lit and falls linearly to
// 0.0 over [HeatDecayDuration]. The zero value is not usable; call
// [NewHeatTracker].
type HeatTracker struct {
	entries map[string]heatEntry
}

func NewHeatTracker() *HeatTracker {
	return &HeatTracker{entries: make(map[string]heatEntry)}
}

// Light marks key as changed at now, restarting its decay.
func (tracker *HeatTracker) Light(key string, kind HeatKind, now time.Time) {
	tracker.entries[key] = heatEntry{lit: now, kind: kind}
}

// Heat returns the intensity of key at now, 0.0 when it is cold.
func (tracker *HeatTracker) Heat(key string, now time.Time) float64 {
	entry, exists := tracker.entries[key]
	if !exists {
		return 0
	}
	elapsed := now.Sub(entry.lit)
	if elapsed < 0 || elapsed >= HeatDecayDuration {
		return 0
	}
	return 1 - float64(elapsed)/float64(HeatDecayDuration)
}

// Kind returns how key was last lit.
func (tracker *HeatTracker) Kind(key string) HeatKind {
	return tracker.entries[key].kind
}

// Clear forgets every key.
func (tracker *HeatTracker) Clear() {
	clear(tracker.entries)
}

// HasHot reports whether any key is still hot at now. Cold keys are
// dropped as a side effect, so the caller's tick loop stops once the
// last one decays.
func (tracker *HeatTracker) HasHot(now time.Time) bool {
	hot := false
	for key, entry := range tracker.entries {
		if now.Sub(entry.lit) < HeatDecayDuration {
			hot = true
			continue
		}
		delete(tracker.entries, key)
	}
	return hot
}

// HeatColor picks the accent for a hot key: the full accent for the
// first half of the decay, the faded one after.
func (theme Theme) HeatColor(kind HeatKind, heat float64) lipgloss.Color {
	accent, faded := theme.HotAppended, theme.HotAppendedFaded
	if kind == HeatRewritten {
		accent, faded = theme.HotRewritten, theme.HotRewrittenFaded
	}
	if heat > 0.5 {
		return accent
	}
	return faded
}
