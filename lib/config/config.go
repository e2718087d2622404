// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable Load reads the config path from.
const EnvironmentVariable = "BUREAU_LISTVIEW_CONFIG"

// Config is the list viewer's configuration.
type Config struct {
	// Transcript configures the conversation transcript surface.
	Transcript TranscriptConfig `yaml:"transcript" json:"transcript"`

	// List configures geometry and navigation shared by every list
	// surface.
	List ListConfig `yaml:"list" json:"list"`

	// Models is the catalog shown in the model picker.
	Models []ModelEntry `yaml:"models" json:"models"`

	// Sessions configures the lazily materialized session picker.
	Sessions SessionsConfig `yaml:"sessions" json:"sessions"`

	// Log configures diagnostic logging.
	Log LogConfig `yaml:"log" json:"log"`
}

// TranscriptConfig configures the transcript surface.
type TranscriptConfig struct {
	// Path is the JSONL transcript file. Empty shows an empty
	// transcript.
	Path string `yaml:"path" json:"path"`

	// Watch follows appends to Path.
	// Default: true
	Watch bool `yaml:"watch" json:"watch"`

	// ScrollToEnd keeps the transcript pinned to the newest line.
	// Default: true
	ScrollToEnd bool `yaml:"scroll_to_end" json:"scroll_to_end"`

	// GroupPaddingBefore is the number of separator rows revealed
	// above a selected turn.
	// Default: 1
	GroupPaddingBefore int `yaml:"group_padding_before" json:"group_padding_before"`
}

// ListConfig configures list geometry and navigation.
type ListConfig struct {
	// FixedHeight, when positive, pins every list to this many rows.
	FixedHeight int `yaml:"fixed_height" json:"fixed_height"`

	// HeightAdjustment is subtracted from measured container heights.
	HeightAdjustment int `yaml:"height_adjustment" json:"height_adjustment"`

	// ReservedLines is subtracted from the terminal height when no
	// container measurement exists.
	// Default: 4
	ReservedLines int `yaml:"reserved_lines" json:"reserved_lines"`

	// WrapAround wraps picker navigation past either end.
	// Default: true
	WrapAround bool `yaml:"wrap_around" json:"wrap_around"`

	// Scrollbar draws the scrollbar column.
	// Default: true
	Scrollbar bool `yaml:"scrollbar" json:"scrollbar"`
}

// ModelEntry is one selectable model.
type ModelEntry struct {
	ID          string `yaml:"id" json:"id"`
	Provider    string `yaml:"provider" json:"provider"`
	Description string `yaml:"description" json:"description"`
}

// SessionsConfig configures the session picker.
type SessionsConfig struct {
	// Count is the number of sessions available.
	// Default: 10000
	Count int `yaml:"count" json:"count"`

	// PerDay groups sessions into days of this many entries.
	// Default: 48
	PerDay int `yaml:"per_day" json:"per_day"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level" json:"level"`

	// Output is a file receiving JSON log records. Empty disables file
	// logging; records still reach the status bar.
	Output string `yaml:"output" json:"output"`
}

// Default returns the default configuration. Loaded files are merged
// over it, so a file only needs the fields it changes.
func Default() *Config {
	return &Config{
		Transcript: TranscriptConfig{
			Watch:              true,
			ScrollToEnd:        true,
			GroupPaddingBefore: 1,
		},
		List: ListConfig{
			ReservedLines: 4,
			WrapAround:    true,
			Scrollbar:     true,
		},
		Models: []ModelEntry{
			{ID: "opus", Provider: "anthropic", Description: "Most capable, slower"},
			{ID: "sonnet", Provider: "anthropic", Description: "Balanced default"},
			{ID: "haiku", Provider: "anthropic", Description: "Fast and inexpensive"},
			{ID: "local-llama", Provider: "ollama", Description: "Runs on this machine"},
		},
		Sessions: SessionsConfig{
			Count:  10000,
			PerDay: 48,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the file named by
// BUREAU_LISTVIEW_CONFIG. Unlike LoadFile it fails when the variable
// is unset, so callers choose explicitly between a file and Default.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your listview config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path, merged over Default. Files
// ending in .json or .jsonc are parsed as JSON with comments and
// trailing commas allowed; anything else is parsed as YAML. ${HOME}
// and ${VAR:-default} patterns in paths are expanded after loading.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Transcript.Path = expandVars(c.Transcript.Path, vars)
	c.Log.Output = expandVars(c.Log.Output, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Transcript.GroupPaddingBefore < 0 {
		errs = append(errs, fmt.Errorf("transcript.group_padding_before must be >= 0, got %d", c.Transcript.GroupPaddingBefore))
	}
	if c.List.FixedHeight < 0 {
		errs = append(errs, fmt.Errorf("list.fixed_height must be >= 0, got %d", c.List.FixedHeight))
	}
	if c.List.ReservedLines < 0 {
		errs = append(errs, fmt.Errorf("list.reserved_lines must be >= 0, got %d", c.List.ReservedLines))
	}
	if c.Sessions.Count < 0 {
		errs = append(errs, fmt.Errorf("sessions.count must be >= 0, got %d", c.Sessions.Count))
	}
	if c.Sessions.PerDay <= 0 {
		errs = append(errs, fmt.Errorf("sessions.per_day must be > 0, got %d", c.Sessions.PerDay))
	}

	seen := make(map[string]bool, len(c.Models))
	for index, model := range c.Models {
		if model.ID == "" {
			errs = append(errs, fmt.Errorf("models[%d].id is required", index))
			continue
		}
		if seen[model.ID] {
			errs = append(errs, fmt.Errorf("models[%d].id %q is duplicated", index, model.ID))
		}
		seen[model.ID] = true
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	return errors.Join(errs...)
}
