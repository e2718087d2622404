// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewerui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the viewer's own key bindings. List movement is
// handled by each tab's listview.Model with listview.DefaultKeyMap.
type KeyMap struct {
	// Tab switching.
	TabTranscript key.Binding
	TabModels     key.Binding
	TabSessions   key.Binding
	TabSettings   key.Binding
	NextTab       key.Binding

	// Transcript.
	ToggleMode key.Binding // Switch between scrolling and turn selection.
	Follow     key.Binding // Jump to the newest line and keep following.

	// Model picker filter.
	FilterActivate key.Binding
	FilterClear    key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in binding set.
var DefaultKeyMap = KeyMap{
	TabTranscript: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "transcript"),
	),
	TabModels: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "models"),
	),
	TabSessions: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "sessions"),
	),
	TabSettings: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "settings"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next tab"),
	),
	ToggleMode: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "select turns"),
	),
	Follow: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "follow"),
	),
	FilterActivate: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	FilterClear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "clear filter"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
