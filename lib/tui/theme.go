// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for Bureau's list surfaces. All
// colors use lipgloss ANSI 256-color codes for broad terminal
// compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row (or every row of the selected group).
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Transcript roles.
	UserText      lipgloss.Color
	AssistantText lipgloss.Color
	ToolText      lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	ActiveTab        lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Scrollbar glyph colors.
	ScrollbarTrack lipgloss.Color
	ScrollbarThumb lipgloss.Color

	// Fuzzy match highlighting.
	MatchForeground lipgloss.Color

	// Change markers: full and faded accents for appended and
	// rewritten rows.
	HotAppended       lipgloss.Color
	HotAppendedFaded  lipgloss.Color
	HotRewritten      lipgloss.Color
	HotRewrittenFaded lipgloss.Color

	// Status bar record colors by level.
	StatusInfo  lipgloss.Color
	StatusWarn  lipgloss.Color
	StatusError lipgloss.Color
}

// RoleColor returns the color for a transcript role. Unknown roles
// render in FaintText.
func (theme Theme) RoleColor(role string) lipgloss.Color {
	switch role {
	case "user":
		return theme.UserText
	case "assistant":
		return theme.AssistantText
	case "tool":
		return theme.ToolText
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	UserText:      lipgloss.Color("114"), // green
	AssistantText: lipgloss.Color("252"),
	ToolText:      lipgloss.Color("141"), // light purple

	HeaderForeground: lipgloss.Color("255"),
	ActiveTab:        lipgloss.Color("220"), // amber
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	ScrollbarTrack: lipgloss.Color("240"),
	ScrollbarThumb: lipgloss.Color("220"),

	MatchForeground: lipgloss.Color("75"), // blue

	HotAppended:       lipgloss.Color("214"), // orange
	HotAppendedFaded:  lipgloss.Color("136"),
	HotRewritten:      lipgloss.Color("203"), // salmon
	HotRewrittenFaded: lipgloss.Color("131"),

	StatusInfo:  lipgloss.Color("245"),
	StatusWarn:  lipgloss.Color("220"),
	StatusError: lipgloss.Color("196"),
}
