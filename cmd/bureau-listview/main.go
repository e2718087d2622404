// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// bureau-listview is a terminal viewer for conversation transcripts,
// built on Bureau's virtualized list engine. It follows a JSONL
// transcript as it grows, and hosts a model picker, a session browser,
// and a settings page on the same engine.
//
// Configuration comes from --config, else the file named by
// BUREAU_LISTVIEW_CONFIG, else built-in defaults. Flags override the
// loaded values.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/listview/lib/config"
	"github.com/bureau-foundation/listview/lib/listview"
	"github.com/bureau-foundation/listview/lib/transcript"
	"github.com/bureau-foundation/listview/lib/version"
	"github.com/bureau-foundation/listview/lib/viewerui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var commandErr *commandError
		if errors.As(err, &commandErr) && commandErr.Hint != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", commandErr.Hint)
		}
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

// flags holds the parsed command line.
type flags struct {
	configPath     string
	transcriptPath string
	logOutput      string
	noColor        bool
	sessions       int
	fixedHeight    int
	showVersion    bool
	set            *pflag.FlagSet
}

func parseFlags(args []string) (*flags, error) {
	parsed := &flags{}
	flagSet := pflag.NewFlagSet("bureau-listview", pflag.ContinueOnError)
	flagSet.StringVar(&parsed.configPath, "config", "", "path to a YAML or JSONC config file (default: $"+config.EnvironmentVariable+")")
	flagSet.StringVar(&parsed.transcriptPath, "transcript", "", "JSONL transcript to show and follow (.zst and .lz4 archives are read once)")
	flagSet.StringVar(&parsed.logOutput, "log-output", "", "write JSON log records to this file (in addition to the status bar)")
	flagSet.BoolVar(&parsed.noColor, "no-color", false, "disable colors")
	flagSet.IntVar(&parsed.sessions, "sessions", 0, "number of sessions in the session browser")
	flagSet.IntVar(&parsed.fixedHeight, "fixed-height", 0, "pin every list to this many rows")
	flagSet.BoolVar(&parsed.showVersion, "version", false, "print version information")
	flagSet.BoolP("help", "h", false, "show help")
	parsed.set = flagSet

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return parsed, err
		}
		return nil, validation("%w", err)
	}
	if args := flagSet.Args(); len(args) > 0 {
		return nil, validation("unexpected argument: %s", args[0]).
			WithHint("Pass the transcript with --transcript.")
	}
	return parsed, nil
}

func run(args []string) error {
	parsed, err := parseFlags(args)
	if errors.Is(err, pflag.ErrHelp) {
		printHelp(parsed.set)
		return nil
	}
	if err != nil {
		return err
	}
	if help, _ := parsed.set.GetBool("help"); help {
		printHelp(parsed.set)
		return nil
	}
	if parsed.showVersion {
		version.Fprint(os.Stdout, "bureau-listview")
		return nil
	}

	cfg, err := loadConfig(parsed.configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, parsed)
	if err := cfg.Validate(); err != nil {
		return validation("invalid configuration: %w", err)
	}

	level, err := parseLevel(cfg.Log.Level)
	if err != nil {
		return validation("%w", err)
	}
	newStartupLogger(level).Debug("configuration loaded",
		"transcript", cfg.Transcript.Path,
		"sessions", cfg.Sessions.Count,
	)

	profile := lipgloss.ColorProfile()
	if parsed.noColor {
		profile = termenv.Ascii
		lipgloss.SetColorProfile(profile)
	}

	// Background records go to the status bar, never stderr, which
	// would corrupt the alt-screen display.
	tuiHandler := viewerui.NewTUILogHandler(level)
	logger := slog.New(tuiHandler)
	if cfg.Log.Output != "" {
		fileHandler, closeFile, err := openFileLogHandler(cfg.Log.Output)
		if err != nil {
			return validation("cannot open log file %s: %w", cfg.Log.Output, err)
		}
		defer closeFile()
		logger = slog.New(fanoutHandler{tuiHandler, fileHandler})
	}

	entries, updates, stop, err := openTranscript(cfg, logger)
	if err != nil {
		return err
	}
	defer stop()

	model := viewerui.NewModel(viewerui.Options{
		Config:   cfg,
		Entries:  entries,
		Terminal: listview.StdoutTerminal(),
		Profile:  profile,
		Logger:   logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	tuiHandler.SetProgram(program)

	if updates != nil {
		go func() {
			for update := range updates {
				program.Send(viewerui.TranscriptUpdateMsg{Update: update})
			}
		}()
	}

	if _, err := program.Run(); err != nil {
		return internal("terminal UI: %w", err)
	}
	return nil
}

// loadConfig reads the config file named by path, else by the
// environment variable, else returns the defaults.
func loadConfig(path string) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case path != "":
		cfg, err = config.LoadFile(path)
	case os.Getenv(config.EnvironmentVariable) != "":
		path = os.Getenv(config.EnvironmentVariable)
		cfg, err = config.Load()
	default:
		return config.Default(), nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound("config file %s does not exist", path).
			WithHint("Check --config or " + config.EnvironmentVariable + ".")
	}
	if err != nil {
		return nil, validation("%w", err)
	}
	return cfg, nil
}

// applyFlags overrides configuration with explicitly set flags.
func applyFlags(cfg *config.Config, parsed *flags) {
	if parsed.transcriptPath != "" {
		cfg.Transcript.Path = parsed.transcriptPath
	}
	if parsed.logOutput != "" {
		cfg.Log.Output = parsed.logOutput
	}
	if parsed.set.Changed("sessions") {
		cfg.Sessions.Count = parsed.sessions
	}
	if parsed.set.Changed("fixed-height") {
		cfg.List.FixedHeight = parsed.fixedHeight
	}
}

// openTranscript loads the configured transcript. When watching, the
// returned channel carries later changes; it is buffered so updates
// arriving before the program starts are kept, not dropped.
func openTranscript(cfg *config.Config, logger *slog.Logger) ([]transcript.Entry, <-chan transcript.Update, func(), error) {
	path := cfg.Transcript.Path
	if path == "" {
		return nil, nil, func() {}, nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil, notFound("transcript %s does not exist", path)
	}

	if !cfg.Transcript.Watch || isArchive(path) {
		entries, err := transcript.Read(path)
		if err != nil {
			return nil, nil, nil, validation("cannot load transcript %s: %w", path, err).
				WithHint("Each line must be a JSON object with turn, role and text fields.")
		}
		return entries, nil, func() {}, nil
	}

	updates := make(chan transcript.Update, 64)
	entries, stop, err := transcript.Watch(path, func(update transcript.Update) {
		updates <- update
	}, transcript.WatchOptions{Logger: logger.With("transcript", path)})
	if err != nil {
		return nil, nil, nil, validation("cannot watch transcript %s: %w", path, err).
			WithHint("Each line must be a JSON object with turn, role and text fields.")
	}
	return entries, updates, stop, nil
}

// isArchive reports whether path names a compressed transcript, which
// is read once rather than followed.
func isArchive(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd", ".lz4":
		return true
	}
	return false
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Bureau list viewer: follow a conversation transcript in the terminal.

Usage:
  bureau-listview [flags]

Examples:
  # Follow a transcript as an agent writes it
  bureau-listview --transcript session.jsonl

  # Browse an archived transcript without colors
  bureau-listview --transcript archive/session.jsonl.zst --no-color

  # Use a config file and keep a debug log
  bureau-listview --config ~/.config/bureau/listview.yaml --log-output /tmp/listview.log

Keys:
  1-4 tabs  j/k move  PgUp/PgDn page  g/G ends  v select turns  f follow  / filter models  q quit

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
