// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewerui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
)

// statusMsg puts a line in the status bar until it fades. Log records
// and user-facing notices both arrive this way.
type statusMsg struct {
	Text  string
	Level slog.Level
}

// statusFadeMsg clears the status bar if it still shows the line with
// the given sequence number.
type statusFadeMsg struct {
	sequence int
}

// Sender delivers messages into a running bubbletea program.
// *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// TUILogHandler is a slog.Handler that shows records in the viewer's
// status bar. Records below the configured level are dropped, and so
// is everything before SetProgram is called: writing to stderr would
// corrupt the alt-screen display.
//
// Handlers derived through WithAttrs and WithGroup share the program
// pointer, so one SetProgram call reaches all of them.
type TUILogHandler struct {
	level   slog.Leveler
	program *atomic.Pointer[Sender]

	// prefix holds the formatted handler-level attributes. group is
	// the dotted group path applied to record attributes.
	prefix []string
	group  string
}

// NewTUILogHandler creates a handler delivering records at or above
// level.
func NewTUILogHandler(level slog.Leveler) *TUILogHandler {
	return &TUILogHandler{
		level:   level,
		program: &atomic.Pointer[Sender]{},
	}
}

// SetProgram sets the destination for status messages. Safe to call
// from any goroutine.
func (handler *TUILogHandler) SetProgram(program Sender) {
	handler.program.Store(&program)
}

// Enabled implements slog.Handler.
func (handler *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level.Level()
}

// Handle formats the record as "message (key=value, ...)" and sends it
// to the program.
func (handler *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	program := handler.program.Load()
	if program == nil {
		return nil
	}

	parts := append([]string(nil), handler.prefix...)
	record.Attrs(func(attr slog.Attr) bool {
		parts = appendAttr(parts, handler.group, attr)
		return true
	})

	text := record.Message
	if len(parts) > 0 {
		text += " (" + strings.Join(parts, ", ") + ")"
	}
	(*program).Send(statusMsg{Text: text, Level: record.Level})
	return nil
}

// WithAttrs implements slog.Handler.
func (handler *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *handler
	derived.prefix = append([]string(nil), handler.prefix...)
	for _, attr := range attrs {
		derived.prefix = appendAttr(derived.prefix, handler.group, attr)
	}
	return &derived
}

// WithGroup implements slog.Handler.
func (handler *TUILogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	derived := *handler
	derived.group = qualify(handler.group, name)
	return &derived
}

// appendAttr formats attr as key=value under group, flattening nested
// groups into dotted keys.
func appendAttr(parts []string, group string, attr slog.Attr) []string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return parts
	}
	if attr.Value.Kind() == slog.KindGroup {
		nested := group
		if attr.Key != "" {
			nested = qualify(group, attr.Key)
		}
		for _, member := range attr.Value.Group() {
			parts = appendAttr(parts, nested, member)
		}
		return parts
	}
	return append(parts, fmt.Sprintf("%s=%s", qualify(group, attr.Key), attr.Value))
}

func qualify(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}
