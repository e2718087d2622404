// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package listview

import "testing"

type fakeTerminal struct {
	height int
	ok     bool
	calls  int
}

func (terminal *fakeTerminal) TerminalSize() (int, int, bool) {
	terminal.calls++
	return 80, terminal.height, terminal.ok
}

func TestHeightResolverPrecedence(t *testing.T) {
	terminal := &fakeTerminal{height: 40, ok: true}
	resolver := HeightResolver{ReservedLines: 4, HeightAdjustment: 2, Terminal: terminal}

	if got := resolver.Resolve(); got != 36 {
		t.Fatalf("terminal fallback = %d, want 36", got)
	}

	resolver.Measure(20)
	if got := resolver.Resolve(); got != 18 {
		t.Fatalf("measured = %d, want 18", got)
	}
	if !resolver.HasMeasurement() {
		t.Fatal("HasMeasurement() = false after Measure")
	}

	resolver.FixedHeight = 7
	if got := resolver.Resolve(); got != 7 {
		t.Fatalf("fixed = %d, want 7", got)
	}

	resolver.FixedHeight = 0
	resolver.Measure(0)
	if got := resolver.Resolve(); got != 36 {
		t.Fatalf("after withdrawing measurement = %d, want 36", got)
	}
}

func TestHeightResolverObservedResizeBeatsQuery(t *testing.T) {
	terminal := &fakeTerminal{height: 40, ok: true}
	resolver := HeightResolver{Terminal: terminal}
	resolver.ObserveTerminal(50)
	if got := resolver.Resolve(); got != 50 {
		t.Fatalf("Resolve() = %d, want 50", got)
	}
	if terminal.calls != 0 {
		t.Fatalf("terminal queried %d times despite an observed resize", terminal.calls)
	}

	// A zero-height resize is ignored; the last known height stays.
	resolver.ObserveTerminal(0)
	if got := resolver.Resolve(); got != 50 {
		t.Fatalf("Resolve() after zero resize = %d, want 50", got)
	}
}

func TestHeightResolverDefaultWhenTerminalUnavailable(t *testing.T) {
	resolver := HeightResolver{ReservedLines: 4, Terminal: &fakeTerminal{ok: false}}
	if got := resolver.Resolve(); got != DefaultTerminalHeight-4 {
		t.Fatalf("Resolve() = %d, want %d", got, DefaultTerminalHeight-4)
	}

	resolver = HeightResolver{}
	if got := resolver.Resolve(); got != DefaultTerminalHeight {
		t.Fatalf("Resolve() with no terminal = %d, want %d", got, DefaultTerminalHeight)
	}
}

func TestHeightResolverNeverBelowOne(t *testing.T) {
	tests := []struct {
		name     string
		resolver HeightResolver
	}{
		{"reserved exceeds terminal", HeightResolver{ReservedLines: 100}},
		{"adjustment exceeds measurement", func() HeightResolver {
			resolver := HeightResolver{HeightAdjustment: 5}
			resolver.Measure(3)
			return resolver
		}()},
		{"negative fixed ignored", HeightResolver{FixedHeight: -3, ReservedLines: 30}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.resolver.Resolve(); got != 1 {
				t.Fatalf("Resolve() = %d, want 1", got)
			}
		})
	}
}

func TestFileTerminalWithoutFile(t *testing.T) {
	if _, _, ok := (FileTerminal{}).TerminalSize(); ok {
		t.Fatal("FileTerminal with nil file should report unavailable")
	}
}
