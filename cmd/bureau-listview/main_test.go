// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/listview/lib/config"
)

func TestCommandErrorExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *commandError
		want int
	}{
		{"validation", validation("bad flag"), 2},
		{"not found", notFound("missing %s", "file"), 3},
		{"internal", internal("terminal gone"), 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.err.ExitCode(); got != test.want {
				t.Errorf("ExitCode() = %d, want %d", got, test.want)
			}
		})
	}
}

func TestCommandErrorUnwrapsAndHints(t *testing.T) {
	cause := errors.New("permission denied")
	err := validation("cannot open log file: %w", cause).WithHint("Pick a writable path.")

	if !errors.Is(err, cause) {
		t.Error("commandError should unwrap to its cause")
	}
	wrapped := fmt.Errorf("startup: %w", err)
	var commandErr *commandError
	if !errors.As(wrapped, &commandErr) {
		t.Fatal("errors.As should find the commandError through wrapping")
	}
	if commandErr.Hint != "Pick a writable path." {
		t.Errorf("Hint = %q", commandErr.Hint)
	}
	if err.Error() != "cannot open log file: permission denied" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	directory := t.TempDir()
	flagPath := filepath.Join(directory, "flag.yaml")
	envPath := filepath.Join(directory, "env.yaml")
	if err := os.WriteFile(flagPath, []byte("sessions:\n  count: 11\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(envPath, []byte("sessions:\n  count: 22\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("flag wins over environment", func(t *testing.T) {
		t.Setenv(config.EnvironmentVariable, envPath)
		cfg, err := loadConfig(flagPath)
		if err != nil {
			t.Fatalf("loadConfig: %v", err)
		}
		if cfg.Sessions.Count != 11 {
			t.Errorf("sessions.count = %d, want 11", cfg.Sessions.Count)
		}
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(config.EnvironmentVariable, envPath)
		cfg, err := loadConfig("")
		if err != nil {
			t.Fatalf("loadConfig: %v", err)
		}
		if cfg.Sessions.Count != 22 {
			t.Errorf("sessions.count = %d, want 22", cfg.Sessions.Count)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv(config.EnvironmentVariable, "")
		cfg, err := loadConfig("")
		if err != nil {
			t.Fatalf("loadConfig: %v", err)
		}
		if cfg.Sessions.Count != config.Default().Sessions.Count {
			t.Errorf("sessions.count = %d, want the default", cfg.Sessions.Count)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadConfig(filepath.Join(directory, "absent.yaml"))
		var commandErr *commandError
		if !errors.As(err, &commandErr) || commandErr.ExitCode() != 3 {
			t.Fatalf("expected a not-found error, got %v", err)
		}
		if commandErr.Hint == "" {
			t.Error("missing config should carry a hint")
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		badPath := filepath.Join(directory, "bad.json")
		if err := os.WriteFile(badPath, []byte(`{"list": [}`), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := loadConfig(badPath)
		var commandErr *commandError
		if !errors.As(err, &commandErr) || commandErr.ExitCode() != 2 {
			t.Fatalf("expected a validation error, got %v", err)
		}
	})
}

func TestParseFlagsAndApply(t *testing.T) {
	parsed, err := parseFlags([]string{"--transcript", "session.jsonl", "--sessions", "0", "--fixed-height", "8"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	cfg := config.Default()
	applyFlags(cfg, parsed)

	if cfg.Transcript.Path != "session.jsonl" {
		t.Errorf("transcript.path = %q", cfg.Transcript.Path)
	}
	if cfg.Sessions.Count != 0 {
		t.Errorf("an explicit --sessions 0 should apply, got %d", cfg.Sessions.Count)
	}
	if cfg.List.FixedHeight != 8 {
		t.Errorf("list.fixed_height = %d, want 8", cfg.List.FixedHeight)
	}
}

func TestParseFlagsLeavesUnsetValues(t *testing.T) {
	parsed, err := parseFlags(nil)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	cfg := config.Default()
	applyFlags(cfg, parsed)
	if cfg.Sessions.Count != config.Default().Sessions.Count {
		t.Errorf("unset --sessions changed sessions.count to %d", cfg.Sessions.Count)
	}
}

func TestParseFlagsRejectsArguments(t *testing.T) {
	_, err := parseFlags([]string{"session.jsonl"})
	var commandErr *commandError
	if !errors.As(err, &commandErr) || commandErr.ExitCode() != 2 {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if !strings.Contains(commandErr.Hint, "--transcript") {
		t.Errorf("hint should point at --transcript, got %q", commandErr.Hint)
	}

	if _, err := parseFlags([]string{"--no-such-flag"}); err == nil {
		t.Error("expected an error for an unknown flag")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", 0, true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			level, err := parseLevel(test.name)
			if test.wantErr {
				if err == nil {
					t.Errorf("expected an error for %q", test.name)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseLevel(%q): %v", test.name, err)
			}
			if level != test.want {
				t.Errorf("parseLevel(%q) = %v, want %v", test.name, level, test.want)
			}
		})
	}
}

func TestFanoutHandlerRespectsEachLevel(t *testing.T) {
	var verbose, quiet bytes.Buffer
	logger := slog.New(fanoutHandler{
		slog.NewJSONHandler(&verbose, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}).With("list", "transcript")

	logger.Debug("appended")
	logger.Warn("reload failed")

	if got := strings.Count(verbose.String(), "\n"); got != 2 {
		t.Errorf("debug handler got %d records, want 2:\n%s", got, verbose.String())
	}
	if got := strings.Count(quiet.String(), "\n"); got != 1 {
		t.Errorf("warn handler got %d records, want 1:\n%s", got, quiet.String())
	}
	if !strings.Contains(quiet.String(), `"list":"transcript"`) {
		t.Errorf("attrs should reach every handler: %s", quiet.String())
	}
}

func TestOpenTranscript(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("unset path", func(t *testing.T) {
		entries, updates, stop, err := openTranscript(config.Default(), logger)
		if err != nil {
			t.Fatalf("openTranscript: %v", err)
		}
		defer stop()
		if entries != nil || updates != nil {
			t.Errorf("expected no entries and no updates, got %v %v", entries, updates)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := config.Default()
		cfg.Transcript.Path = filepath.Join(t.TempDir(), "absent.jsonl")
		_, _, _, err := openTranscript(cfg, logger)
		var commandErr *commandError
		if !errors.As(err, &commandErr) || commandErr.ExitCode() != 3 {
			t.Fatalf("expected a not-found error, got %v", err)
		}
	})

	t.Run("read once", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "session.jsonl")
		content := `{"turn":"t1","role":"user","text":"hello"}` + "\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		cfg := config.Default()
		cfg.Transcript.Path = path
		cfg.Transcript.Watch = false

		entries, updates, stop, err := openTranscript(cfg, logger)
		if err != nil {
			t.Fatalf("openTranscript: %v", err)
		}
		defer stop()
		if len(entries) != 1 || entries[0].Text != "hello" {
			t.Errorf("entries = %+v", entries)
		}
		if updates != nil {
			t.Error("a read-once transcript should not produce updates")
		}
	})
}

func TestIsArchive(t *testing.T) {
	for path, want := range map[string]bool{
		"session.jsonl":      false,
		"session.jsonl.zst":  true,
		"session.jsonl.zstd": true,
		"session.jsonl.lz4":  true,
		"SESSION.JSONL.ZST":  true,
		"session.jsonl.Lz4":  true,
		"zst":                false,
	} {
		if got := isArchive(path); got != want {
			t.Errorf("isArchive(%q) = %v, want %v", path, got, want)
		}
	}
}
