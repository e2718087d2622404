// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if !cfg.Transcript.ScrollToEnd {
		t.Error("expected transcript.scroll_to_end=true")
	}
	if cfg.Transcript.GroupPaddingBefore != 1 {
		t.Errorf("expected group_padding_before=1, got %d", cfg.Transcript.GroupPaddingBefore)
	}
	if cfg.Sessions.Count != 10000 {
		t.Errorf("expected sessions.count=10000, got %d", cfg.Sessions.Count)
	}
	if len(cfg.Models) == 0 {
		t.Error("expected a default model catalog")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad_RequiresEnvironmentVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when BUREAU_LISTVIEW_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "BUREAU_LISTVIEW_CONFIG environment variable not set") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_WithEnvironmentVariable(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "listview.yaml")
	if err := os.WriteFile(configPath, []byte("sessions:\n  count: 250\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv(EnvironmentVariable, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Sessions.Count != 250 {
		t.Errorf("expected sessions.count=250, got %d", cfg.Sessions.Count)
	}
}

func TestLoadFile_YAMLMergesOverDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "listview.yaml")
	content := `
transcript:
  path: ${HOME}/transcripts/current.jsonl
  scroll_to_end: false
list:
  fixed_height: 12
models:
  - id: custom
    provider: local
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("HOME", "/home/tester")

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}

	if cfg.Transcript.Path != "/home/tester/transcripts/current.jsonl" {
		t.Errorf("expected expanded transcript path, got %s", cfg.Transcript.Path)
	}
	if cfg.Transcript.ScrollToEnd {
		t.Error("expected scroll_to_end=false from file")
	}
	if !cfg.Transcript.Watch {
		t.Error("expected watch default to survive the merge")
	}
	if cfg.List.FixedHeight != 12 {
		t.Errorf("expected fixed_height=12, got %d", cfg.List.FixedHeight)
	}
	if cfg.List.ReservedLines != 4 {
		t.Errorf("expected reserved_lines default 4, got %d", cfg.List.ReservedLines)
	}
	if len(cfg.Models) != 1 || cfg.Models[0].ID != "custom" {
		t.Errorf("expected models replaced by the file, got %+v", cfg.Models)
	}
}

func TestLoadFile_JSONC(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "listview.jsonc")
	content := `{
  // Keep transcripts short on small terminals.
  "list": {"reserved_lines": 2, "wrap_around": false,},
  "log": {"level": "debug", "output": "${LISTVIEW_TEST_LOGS:-/tmp}/listview.log"},
}`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.List.ReservedLines != 2 {
		t.Errorf("expected reserved_lines=2, got %d", cfg.List.ReservedLines)
	}
	if cfg.List.WrapAround {
		t.Error("expected wrap_around=false")
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log.level=debug, got %s", cfg.Log.Level)
	}
	if cfg.Log.Output != "/tmp/listview.log" {
		t.Errorf("expected default-expanded log output, got %s", cfg.Log.Output)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}

	badPath := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(badPath, []byte(`{"list": [}`), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadFile(badPath); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Transcript.GroupPaddingBefore = -1
	cfg.Sessions.PerDay = 0
	cfg.Models = append(cfg.Models, ModelEntry{ID: "opus"}, ModelEntry{})
	cfg.Log.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{
		"group_padding_before",
		"per_day",
		`"opus" is duplicated`,
		"id is required",
		"log.level",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("validation error missing %q: %v", want, err)
		}
	}
}
