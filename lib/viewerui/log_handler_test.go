// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewerui

import (
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type recordingSender struct {
	messages []tea.Msg
}

func (sender *recordingSender) Send(msg tea.Msg) {
	sender.messages = append(sender.messages, msg)
}

func TestTUILogHandlerDropsBeforeProgram(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelInfo)
	slog.New(handler).Warn("too early")

	sender := &recordingSender{}
	handler.SetProgram(sender)
	if len(sender.messages) != 0 {
		t.Fatalf("records before SetProgram were delivered: %v", sender.messages)
	}
}

func TestTUILogHandlerLevelFilter(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelWarn)
	sender := &recordingSender{}
	handler.SetProgram(sender)
	logger := slog.New(handler)

	logger.Info("ignored")
	logger.Error("watch failed", "path", "/tmp/t.jsonl")

	if len(sender.messages) != 1 {
		t.Fatalf("delivered %d messages, want 1", len(sender.messages))
	}
	status := sender.messages[0].(statusMsg)
	if status.Text != "watch failed (path=/tmp/t.jsonl)" {
		t.Errorf("text = %q", status.Text)
	}
	if status.Level != slog.LevelError {
		t.Errorf("level = %v, want ERROR", status.Level)
	}
}

func TestTUILogHandlerAttrsAndGroups(t *testing.T) {
	handler := NewTUILogHandler(slog.LevelDebug)
	sender := &recordingSender{}
	logger := slog.New(handler).With("list", "transcript").WithGroup("reload")

	// SetProgram on the root reaches derived handlers.
	handler.SetProgram(sender)
	logger.Info("appended", "entries", 3, slog.Group("file", "size", 42))

	if len(sender.messages) != 1 {
		t.Fatalf("delivered %d messages, want 1", len(sender.messages))
	}
	want := "appended (list=transcript, reload.entries=3, reload.file.size=42)"
	if text := sender.messages[0].(statusMsg).Text; text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}
