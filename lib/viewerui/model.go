// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewerui

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/junegunn/fzf/src/util"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/listview/lib/clock"
	"github.com/bureau-foundation/listview/lib/config"
	"github.com/bureau-foundation/listview/lib/listview"
	"github.com/bureau-foundation/listview/lib/markdown"
	"github.com/bureau-foundation/listview/lib/transcript"
	"github.com/bureau-foundation/listview/lib/tui"
)

// Tab identifies which surface occupies the content area.
type Tab int

const (
	TabTranscript Tab = iota
	TabModels
	TabSessions
	TabSettings
)

// tabDefs defines the tab bar layout. Order matches the number keys.
var tabDefs = []struct {
	tab   Tab
	label string
}{
	{TabTranscript, "1:Transcript"},
	{TabModels, "2:Models"},
	{TabSessions, "3:Sessions"},
	{TabSettings, "4:Settings"},
}

// chromeLines is the number of rows outside the content area: the tab
// bar, the bottom separator, and the status line.
const chromeLines = 3

// labelWidth is the role column of the transcript.
const labelWidth = 11

// statusFadeDelay is how long a status line stays before the help
// line returns.
const statusFadeDelay = 5 * time.Second

// TranscriptUpdateMsg delivers a change from transcript.Watch.
type TranscriptUpdateMsg struct {
	Update transcript.Update
}

// modelSelectedMsg is emitted when the picker commits a model.
type modelSelectedMsg struct {
	ID string
}

// heatTickMsg redraws the change markers while any are fading.
type heatTickMsg struct{}

// turnFocusedMsg is emitted as turn selection moves.
type turnFocusedMsg struct {
	Turn string
}

// Options configures NewModel.
type Options struct {
	// Config supplies list geometry, the model catalog, and session
	// counts. Defaults to config.Default().
	Config *config.Config

	// Entries is the initial transcript.
	Entries []transcript.Entry

	Clock    clock.Clock
	Terminal listview.TerminalSizer
	Theme    *tui.Theme

	// Profile is the color profile used for markdown rendering.
	Profile termenv.Profile

	Logger *slog.Logger
}

// Model is the bubbletea model for the list viewer. Each tab is a
// listview.Model; only the active tab's list is focused.
type Model struct {
	config  *config.Config
	keys    KeyMap
	theme   tui.Theme
	profile termenv.Profile
	logger  *slog.Logger
	clock   clock.Clock

	activeTab Tab
	width     int
	height    int
	ready     bool

	// Transcript tab.
	entries     []transcript.Entry
	lines       []transcript.Line
	lastTurn    string
	renderWidth int
	focusedTurn string
	transcript  *listview.Model[transcript.Line]
	heat        *tui.HeatTracker
	heatTicking bool

	// Models tab.
	filter      textinput.Model
	filtering   bool
	slab        *util.Slab
	matches     []modelMatch
	picker      *listview.Model[modelMatch]
	pickerFocus *listview.SelectionHandle
	activeModel string

	// Sessions tab.
	sessions *listview.Model[Session]

	// Settings tab.
	settings *listview.Model[setting]

	status         statusMsg
	statusSequence int
}

// modelMatch is one row of the model picker: a catalog entry and the
// rune positions of its ID matched by the filter.
type modelMatch struct {
	Entry     config.ModelEntry
	Score     int
	Positions []int
}

// Session is one row of the session picker.
type Session struct {
	Index   int
	Started time.Time
	Title   string
}

// setting is one row of the settings tab. Value is read at render
// time so it reflects live state.
type setting struct {
	Label string
	Value func() string
}

// NewModel creates the viewer.
func NewModel(options Options) *Model {
	cfg := options.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := tui.DefaultTheme
	if options.Theme != nil {
		theme = *options.Theme
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	timeSource := options.Clock
	if timeSource == nil {
		timeSource = clock.Real()
	}

	model := &Model{
		config:      cfg,
		keys:        DefaultKeyMap,
		theme:       theme,
		profile:     options.Profile,
		logger:      logger,
		clock:       timeSource,
		heat:        tui.NewHeatTracker(),
		entries:     options.Entries,
		renderWidth: 80,
		slab:        util.MakeSlab(16*1024, 2048),
		pickerFocus: listview.NewSelectionHandle(),
	}
	if terminal := options.Terminal; terminal != nil {
		if width, _, ok := terminal.TerminalSize(); ok {
			model.renderWidth = width
		}
	}

	model.lines = transcript.Expand(model.formatEntries(model.entries))
	model.lastTurn = lastTurn(model.entries)
	model.transcript = listview.New(listview.Eager(model.lines), listview.Options[transcript.Line]{
		SelectionMode:      listview.ModeScroll,
		GroupBy:            transcript.Line.GroupKey,
		GroupPaddingBefore: cfg.Transcript.GroupPaddingBefore,
		ScrollToEnd:        cfg.Transcript.ScrollToEnd,
		FixedHeight:        cfg.List.FixedHeight,
		HeightAdjustment:   cfg.List.HeightAdjustment,
		ReservedLines:      cfg.List.ReservedLines,
		Focused:            true,
		Render:             model.renderLine,
		RenderEmpty:        model.emptyMessage("No transcript loaded."),
		OnSelect: func(line transcript.Line, _ int) tea.Cmd {
			return notice(fmt.Sprintf("selected turn %s", line.Turn))
		},
		OnFocus: func(line transcript.Line, _ int) tea.Cmd {
			return func() tea.Msg { return turnFocusedMsg{Turn: line.Turn} }
		},
		Clock:         timeSource,
		Terminal:      options.Terminal,
		Theme:         &model.theme,
		HideScrollbar: !cfg.List.Scrollbar,
		Logger:        logger.With("list", "transcript"),
	})

	model.filter = textinput.New()
	model.filter.Prompt = "/ "
	model.filter.Placeholder = "filter models"
	model.filter.CharLimit = 64
	model.matches = model.matchModels("")
	model.picker = listview.New(listview.Eager(model.matches), listview.Options[modelMatch]{
		SelectionMode:    listview.ModeItem,
		EnableWrapAround: cfg.List.WrapAround,
		FixedHeight:      cfg.List.FixedHeight,
		HeightAdjustment: cfg.List.HeightAdjustment,
		ReservedLines:    cfg.List.ReservedLines,
		Render:           model.renderModel,
		RenderEmpty:      model.emptyMessage("No models match the filter."),
		OnSelect: func(match modelMatch, _ int) tea.Cmd {
			return func() tea.Msg { return modelSelectedMsg{ID: match.Entry.ID} }
		},
		Handle:        model.pickerFocus,
		Clock:         timeSource,
		Terminal:      options.Terminal,
		Theme:         &model.theme,
		HideScrollbar: !cfg.List.Scrollbar,
		Logger:        logger.With("list", "models"),
	})

	perDay := max(cfg.Sessions.PerDay, 1)
	newest := timeSource.Now()
	model.sessions = listview.New(
		listview.Lazy(cfg.Sessions.Count, func(start, end int) []Session {
			return generateSessions(newest, perDay, start, end)
		}),
		listview.Options[Session]{
			SelectionMode: listview.ModeItem,
			GroupByIndex: func(index int) string {
				return strconv.Itoa(index / perDay)
			},
			FixedHeight:      cfg.List.FixedHeight,
			HeightAdjustment: cfg.List.HeightAdjustment,
			ReservedLines:    cfg.List.ReservedLines,
			Render:           model.renderSession,
			RenderEmpty:      model.emptyMessage("No sessions."),
			Clock:            timeSource,
			Terminal:         options.Terminal,
			Theme:            &model.theme,
			HideScrollbar:    !cfg.List.Scrollbar,
			Logger:           logger.With("list", "sessions"),
		})

	model.settings = listview.New(listview.Eager(model.settingRows()), listview.Options[setting]{
		SelectionMode:    listview.ModeItem,
		FixedHeight:      cfg.List.FixedHeight,
		HeightAdjustment: cfg.List.HeightAdjustment,
		ReservedLines:    cfg.List.ReservedLines,
		Render:           model.renderSetting,
		Clock:            timeSource,
		Terminal:         options.Terminal,
		Theme:            &model.theme,
		HideScrollbar:    !cfg.List.Scrollbar,
		Logger:           logger.With("list", "settings"),
	})

	model.switchTab(TabTranscript)
	return model
}

// Init implements tea.Model.
func (model *Model) Init() tea.Cmd {
	return tea.Batch(
		model.transcript.Init(),
		model.picker.Init(),
		model.sessions.Init(),
		model.settings.Init(),
	)
}

// Update implements tea.Model.
func (model *Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		return model, model.resize(message)

	case tea.KeyMsg:
		return model, model.handleKey(message)

	case tea.MouseMsg, listview.RawInputMsg:
		return model, model.updateActiveList(message)

	case TranscriptUpdateMsg:
		return model, model.applyTranscriptUpdate(message.Update)

	case heatTickMsg:
		if model.heat.HasHot(model.clock.Now()) {
			return model, scheduleHeatTick()
		}
		model.heatTicking = false

	case turnFocusedMsg:
		model.focusedTurn = message.Turn

	case modelSelectedMsg:
		model.activeModel = message.ID
		model.logger.Info("model selected", "model", message.ID)
		return model, notice(fmt.Sprintf("active model: %s", message.ID))

	case statusMsg:
		model.statusSequence++
		model.status = message
		sequence := model.statusSequence
		return model, tea.Tick(statusFadeDelay, func(time.Time) tea.Msg {
			return statusFadeMsg{sequence: sequence}
		})

	case statusFadeMsg:
		if message.sequence == model.statusSequence {
			model.status = statusMsg{}
		}
	}
	return model, nil
}

// notice returns a command that shows text in the status bar.
func notice(text string) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{Text: text, Level: slog.LevelInfo}
	}
}

func (model *Model) handleKey(message tea.KeyMsg) tea.Cmd {
	if model.filtering {
		return model.handleFilterKeys(message)
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		return tea.Quit

	case key.Matches(message, model.keys.TabTranscript):
		model.switchTab(TabTranscript)
	case key.Matches(message, model.keys.TabModels):
		model.switchTab(TabModels)
	case key.Matches(message, model.keys.TabSessions):
		model.switchTab(TabSessions)
	case key.Matches(message, model.keys.TabSettings):
		model.switchTab(TabSettings)
	case key.Matches(message, model.keys.NextTab):
		model.switchTab((model.activeTab + 1) % Tab(len(tabDefs)))

	case model.activeTab == TabTranscript && key.Matches(message, model.keys.ToggleMode):
		mode := listview.ModeItem
		if model.transcript.SelectionMode() == listview.ModeItem {
			mode = listview.ModeScroll
			model.focusedTurn = ""
		}
		return model.landOnTurn(-1, model.transcript.SetSelectionMode(mode))

	case model.activeTab == TabTranscript && key.Matches(message, model.keys.Follow):
		return model.transcript.JumpToEnd()

	case model.activeTab == TabModels && key.Matches(message, model.keys.FilterActivate):
		model.filtering = true
		return tea.Batch(append(model.layout(), model.filter.Focus())...)

	case model.activeTab == TabModels && key.Matches(message, model.keys.FilterClear):
		if model.filter.Value() != "" {
			model.filter.SetValue("")
			return model.applyFilter()
		}

	default:
		return model.updateActiveList(message)
	}
	return nil
}

// handleFilterKeys routes keystrokes while the model filter has
// focus. Arrow keys still move the picker; Enter leaves the filter and
// commits the highlighted model.
func (model *Model) handleFilterKeys(message tea.KeyMsg) tea.Cmd {
	switch message.Type {
	case tea.KeyCtrlC:
		return tea.Quit

	case tea.KeyEsc:
		if model.filter.Value() != "" {
			model.filter.SetValue("")
			return model.applyFilter()
		}
		model.filtering = false
		model.filter.Blur()
		return tea.Batch(model.layout()...)

	case tea.KeyEnter:
		model.filtering = false
		model.filter.Blur()
		return tea.Batch(append(model.layout(), model.picker.Update(message))...)

	case tea.KeyUp, tea.KeyDown:
		return model.picker.Update(message)
	}

	previous := model.filter.Value()
	var cmd tea.Cmd
	model.filter, cmd = model.filter.Update(message)
	if model.filter.Value() != previous {
		return tea.Batch(cmd, model.applyFilter())
	}
	return cmd
}

func (model *Model) switchTab(tab Tab) {
	model.activeTab = tab
	model.transcript.SetFocused(tab == TabTranscript)
	model.picker.SetFocused(tab == TabModels)
	model.sessions.SetFocused(tab == TabSessions)
	model.settings.SetFocused(tab == TabSettings)
}

func (model *Model) updateActiveList(message tea.Msg) tea.Cmd {
	switch model.activeTab {
	case TabModels:
		return model.picker.Update(message)
	case TabSessions:
		return model.sessions.Update(message)
	case TabSettings:
		return model.settings.Update(message)
	default:
		previous, _ := model.transcript.Selected()
		return model.landOnTurn(previous, model.transcript.Update(message))
	}
}

// landOnTurn keeps an item-mode transcript selection off separator
// rows. A selection that moved onto one continues to the adjacent turn
// in the direction it was moving, or turns back at either end. cmd is
// the list's result for the move; the separator's focus notice in it
// is dropped when the selection is corrected.
func (model *Model) landOnTurn(previous int, cmd tea.Cmd) tea.Cmd {
	selected, ok := model.transcript.Selected()
	if !ok || selected == previous {
		return cmd
	}
	if _, grouped := model.transcript.GroupIDOf(selected); grouped {
		return cmd
	}
	direction := 1
	if selected < previous {
		direction = -1
	}
	target := model.transcript.NextGroupIndex(selected, direction)
	if _, grouped := model.transcript.GroupIDOf(target); !grouped {
		target = model.transcript.NextGroupIndex(selected, -direction)
	}
	if _, grouped := model.transcript.GroupIDOf(target); !grouped {
		return cmd
	}
	return model.transcript.JumpTo(target)
}

// resize forwards the terminal size to every list and re-measures the
// content area. A width change re-renders the transcript's markdown.
func (model *Model) resize(message tea.WindowSizeMsg) tea.Cmd {
	model.width = message.Width
	model.height = message.Height
	model.ready = true

	cmds := []tea.Cmd{
		model.transcript.Update(message),
		model.picker.Update(message),
		model.sessions.Update(message),
		model.settings.Update(message),
	}
	cmds = append(cmds, model.layout()...)
	if message.Width != model.renderWidth {
		model.renderWidth = message.Width
		cmds = append(cmds, model.rebuildTranscript())
	}
	return tea.Batch(cmds...)
}

// layout delivers the content area's size to each list.
func (model *Model) layout() []tea.Cmd {
	if !model.ready {
		return nil
	}
	contentHeight := max(model.height-chromeLines, 1)
	pickerHeight := contentHeight
	if model.filterVisible() {
		pickerHeight = max(contentHeight-1, 1)
	}
	return []tea.Cmd{
		model.transcript.SetSize(model.width, contentHeight),
		model.picker.SetSize(model.width, pickerHeight),
		model.sessions.SetSize(model.width, contentHeight),
		model.settings.SetSize(model.width, contentHeight),
	}
}

func (model *Model) filterVisible() bool {
	return model.filtering || model.filter.Value() != ""
}

// --- Transcript ---

func (model *Model) applyTranscriptUpdate(update transcript.Update) tea.Cmd {
	if update.Reset {
		model.entries = update.Entries
		model.logger.Debug("transcript reset", "entries", len(update.Entries))
		model.heat.Clear()
		if turn := lastTurn(update.Entries); turn != "" {
			model.heat.Light(turn, tui.HeatRewritten, model.clock.Now())
		}
		return tea.Batch(model.rebuildTranscript(), model.startHeat())
	}
	if len(update.Entries) == 0 {
		return nil
	}
	model.entries = append(model.entries, update.Entries...)
	model.lines = append(model.lines, transcript.ExpandAppended(model.lastTurn, model.formatEntries(update.Entries))...)
	model.lastTurn = lastTurn(model.entries)
	model.logger.Debug("transcript appended", "entries", len(update.Entries), "lines", len(model.lines))
	now := model.clock.Now()
	for _, entry := range update.Entries {
		model.heat.Light(entry.Turn, tui.HeatAppended, now)
	}
	return tea.Batch(model.transcript.SetItems(model.lines), model.startHeat())
}

// startHeat starts the marker redraw tick unless it is already running.
func (model *Model) startHeat() tea.Cmd {
	if model.heatTicking {
		return nil
	}
	model.heatTicking = true
	return scheduleHeatTick()
}

func scheduleHeatTick() tea.Cmd {
	return tea.Tick(tui.HeatTickInterval, func(time.Time) tea.Msg {
		return heatTickMsg{}
	})
}

func (model *Model) rebuildTranscript() tea.Cmd {
	model.lines = transcript.Expand(model.formatEntries(model.entries))
	model.lastTurn = lastTurn(model.entries)
	return model.transcript.SetItems(model.lines)
}

// formatEntries renders assistant messages as markdown at the current
// width. Other roles are shown verbatim.
func (model *Model) formatEntries(entries []transcript.Entry) []transcript.Entry {
	formatted := make([]transcript.Entry, len(entries))
	width := max(model.renderWidth-labelWidth-2, 20)
	for index, entry := range entries {
		if entry.Role == "assistant" {
			if lines := markdown.Lines(entry.Text, markdown.Options{
				Theme:   model.theme,
				Width:   width,
				Profile: model.profile,
			}); lines != nil {
				entry.Text = strings.Join(lines, "\n")
			}
		}
		formatted[index] = entry
	}
	return formatted
}

func lastTurn(entries []transcript.Entry) string {
	if len(entries) == 0 {
		return ""
	}
	return entries[len(entries)-1].Turn
}

// --- Models ---

// matchModels filters the catalog by fuzzy match on the model ID,
// best score first. An empty pattern keeps catalog order.
func (model *Model) matchModels(pattern string) []modelMatch {
	var matches []modelMatch
	patternRunes := []rune(pattern)
	for _, entry := range model.config.Models {
		if pattern == "" {
			matches = append(matches, modelMatch{Entry: entry})
			continue
		}
		result := tui.FuzzyMatch(entry.ID, patternRunes, model.slab)
		if result.Score <= 0 {
			continue
		}
		matches = append(matches, modelMatch{Entry: entry, Score: result.Score, Positions: result.Positions})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func (model *Model) applyFilter() tea.Cmd {
	model.matches = model.matchModels(model.filter.Value())
	cmds := append(model.layout(), model.picker.SetItems(model.matches), model.picker.JumpTo(0))
	return tea.Batch(cmds...)
}

// highlightedModel reads the picker's selection through its handle.
func (model *Model) highlightedModel() string {
	index, ok := model.pickerFocus.Index()
	if !ok || index >= len(model.matches) {
		return "none"
	}
	return model.matches[index].Entry.ID
}

// --- Sessions ---

// generateSessions materializes sessions [start, end). Sessions are
// newest first, perDay to a calendar day, evenly spaced within it.
func generateSessions(newest time.Time, perDay, start, end int) []Session {
	today := time.Date(newest.Year(), newest.Month(), newest.Day(), 0, 0, 0, 0, newest.Location())
	spacing := 24 * time.Hour / time.Duration(perDay)
	sessions := make([]Session, 0, end-start)
	for index := start; index < end; index++ {
		day := index / perDay
		slot := perDay - 1 - index%perDay
		sessions = append(sessions, Session{
			Index:   index,
			Started: today.AddDate(0, 0, -day).Add(time.Duration(slot) * spacing),
			Title:   fmt.Sprintf("session %05d", index),
		})
	}
	return sessions
}

// --- Settings ---

func (model *Model) settingRows() []setting {
	cfg := model.config
	constant := func(value string) func() string {
		return func() string { return value }
	}
	transcriptPath := cfg.Transcript.Path
	if transcriptPath == "" {
		transcriptPath = "(none)"
	}
	return []setting{
		{"Transcript", constant(transcriptPath)},
		{"Watch transcript", constant(strconv.FormatBool(cfg.Transcript.Watch))},
		{"Scroll to end", constant(strconv.FormatBool(cfg.Transcript.ScrollToEnd))},
		{"Group padding", constant(strconv.Itoa(cfg.Transcript.GroupPaddingBefore))},
		{"Transcript mode", func() string { return model.transcript.SelectionMode().String() }},
		{"Fixed height", constant(strconv.Itoa(cfg.List.FixedHeight))},
		{"Wrap-around", constant(strconv.FormatBool(cfg.List.WrapAround))},
		{"Active model", func() string {
			if model.activeModel == "" {
				return "none"
			}
			return model.activeModel
		}},
		{"Highlighted model", model.highlightedModel},
		{"Sessions", constant(strconv.Itoa(cfg.Sessions.Count))},
		{"Log level", constant(cfg.Log.Level)},
	}
}

// --- Rendering ---

func (model *Model) style() lipgloss.Style {
	return lipgloss.NewStyle()
}

// gutter is the selection marker column shared by every list.
func (model *Model) gutter(isSelected bool) string {
	if isSelected {
		return model.style().Foreground(model.theme.ActiveTab).Render("▌")
	}
	return " "
}

func (model *Model) emptyMessage(text string) func() string {
	return func() string {
		return model.style().Foreground(model.theme.FaintText).Render("  " + text)
	}
}

// transcriptGutter is the gutter with a marker on recently changed
// turns. The selection marker wins.
func (model *Model) transcriptGutter(turn string, isSelected bool) string {
	if !isSelected {
		if heat := model.heat.Heat(turn, model.clock.Now()); heat > 0 {
			color := model.theme.HeatColor(model.heat.Kind(turn), heat)
			return model.style().Foreground(color).Render("▎")
		}
	}
	return model.gutter(isSelected)
}

func (model *Model) renderLine(line transcript.Line, _ int, isSelected bool, _ int) string {
	if line.Separator {
		return model.transcriptGutter(line.Turn, isSelected) + model.style().Foreground(model.theme.BorderColor).Render("── "+line.Turn)
	}
	label := ""
	if line.Lead {
		label = line.Role
	}
	roleStyle := model.style().Foreground(model.theme.RoleColor(line.Role))
	labelColumn := roleStyle.Bold(true).Width(labelWidth).Render(label)
	body := line.Text
	if line.Role != "assistant" {
		body = roleStyle.Render(body)
	}
	return model.transcriptGutter(line.Turn, isSelected) + labelColumn + body
}

func (model *Model) renderModel(match modelMatch, _ int, isSelected bool, _ int) string {
	marker := "  "
	if match.Entry.ID == model.activeModel {
		marker = model.style().Foreground(model.theme.ActiveTab).Render("●") + " "
	}
	textStyle := model.style().Foreground(model.theme.NormalText)
	if isSelected {
		textStyle = textStyle.Foreground(model.theme.SelectedForeground).Bold(true)
	}
	id := highlightPositions(match.Entry.ID, match.Positions, textStyle,
		model.style().Foreground(model.theme.MatchForeground).Bold(true))
	padding := strings.Repeat(" ", max(16-lipgloss.Width(match.Entry.ID), 1))
	detail := model.style().Foreground(model.theme.FaintText).
		Render(fmt.Sprintf("%-10s %s", match.Entry.Provider, match.Entry.Description))
	return model.gutter(isSelected) + marker + id + padding + detail
}

// highlightPositions renders text with the runes at positions in
// matchStyle and the rest in baseStyle.
func highlightPositions(text string, positions []int, baseStyle, matchStyle lipgloss.Style) string {
	if len(positions) == 0 {
		return baseStyle.Render(text)
	}
	matched := make(map[int]bool, len(positions))
	for _, position := range positions {
		matched[position] = true
	}
	var builder strings.Builder
	for index, character := range []rune(text) {
		if matched[index] {
			builder.WriteString(matchStyle.Render(string(character)))
		} else {
			builder.WriteString(baseStyle.Render(string(character)))
		}
	}
	return builder.String()
}

func (model *Model) renderSession(session Session, index int, isSelected bool, _ int) string {
	perDay := max(model.config.Sessions.PerDay, 1)
	day := ""
	if index%perDay == 0 {
		day = session.Started.Format("Mon Jan 02")
	}
	dayColumn := model.style().Foreground(model.theme.HeaderForeground).Bold(true).Width(12).Render(day)
	textStyle := model.style().Foreground(model.theme.NormalText)
	if isSelected {
		textStyle = textStyle.Foreground(model.theme.SelectedForeground)
	}
	return model.gutter(isSelected) + dayColumn +
		model.style().Foreground(model.theme.FaintText).Render(session.Started.Format("15:04")) + "  " +
		textStyle.Render(session.Title)
}

func (model *Model) renderSetting(row setting, _ int, isSelected bool, _ int) string {
	labelStyle := model.style().Foreground(model.theme.FaintText).Width(20)
	valueStyle := model.style().Foreground(model.theme.NormalText)
	if isSelected {
		valueStyle = valueStyle.Foreground(model.theme.SelectedForeground).Bold(true)
	}
	return model.gutter(isSelected) + labelStyle.Render(row.Label) + valueStyle.Render(row.Value())
}

// View implements tea.Model.
func (model *Model) View() string {
	if !model.ready {
		return "Loading..."
	}

	sections := []string{model.renderHeader()}
	switch model.activeTab {
	case TabModels:
		if model.filterVisible() {
			sections = append(sections, model.filter.View())
		}
		sections = append(sections, model.picker.View())
	case TabSessions:
		sections = append(sections, model.sessions.View())
	case TabSettings:
		sections = append(sections, model.settings.View())
	default:
		sections = append(sections, model.transcript.View())
	}

	sections = append(sections,
		model.style().Foreground(model.theme.BorderColor).Render(strings.Repeat("─", model.width)),
		model.renderStatus(),
	)
	return strings.Join(sections, "\n")
}

// renderHeader renders the tab labels embedded in a horizontal rule
// with per-tab stats on the right:
//
//	─── 1:Transcript ─── 2:Models ─── 3:Sessions ─── 4:Settings ─── 12 turns  80 lines ─
func (model *Model) renderHeader() string {
	separatorStyle := model.style().Foreground(model.theme.BorderColor)
	activeStyle := model.style().Bold(true).Foreground(model.theme.ActiveTab)
	inactiveStyle := model.style().Foreground(model.theme.FaintText)
	sep := separatorStyle.Render("─")

	var builder strings.Builder
	builder.WriteString(strings.Repeat(sep, 3))
	used := 3
	for index, definition := range tabDefs {
		style := inactiveStyle
		if definition.tab == model.activeTab {
			style = activeStyle
		}
		builder.WriteString(" " + style.Render(definition.label) + " ")
		used += lipgloss.Width(definition.label) + 2
		count := 3
		if index == len(tabDefs)-1 {
			count = 1
		}
		builder.WriteString(strings.Repeat(sep, count))
		used += count
	}

	stats := model.headerStats()
	right := " " + inactiveStyle.Render(stats) + " " + sep
	fill := max(model.width-used-lipgloss.Width(stats)-3, 1)
	builder.WriteString(strings.Repeat(sep, fill))
	builder.WriteString(right)
	return ansi.Truncate(builder.String(), model.width, "")
}

func (model *Model) headerStats() string {
	switch model.activeTab {
	case TabModels:
		return fmt.Sprintf("%d/%d models", len(model.matches), len(model.config.Models))
	case TabSessions:
		return fmt.Sprintf("%d sessions", model.sessions.Len())
	case TabSettings:
		return fmt.Sprintf("%d settings", model.settings.Len())
	}

	turns := map[string]bool{}
	for _, entry := range model.entries {
		turns[entry.Turn] = true
	}
	state := "following"
	switch {
	case model.transcript.SelectionMode() == listview.ModeItem:
		state = "turn " + model.focusedTurn
	case model.transcript.UserScrolledAway():
		state = "paused"
	}
	return fmt.Sprintf("%d turns  %d lines  %s", len(turns), model.transcript.Len(), state)
}

// renderStatus renders the status line: the latest log record or
// notice, else key hints and the active list's position.
func (model *Model) renderStatus() string {
	if model.status.Text != "" {
		color := model.theme.StatusInfo
		switch {
		case model.status.Level >= slog.LevelError:
			color = model.theme.StatusError
		case model.status.Level >= slog.LevelWarn:
			color = model.theme.StatusWarn
		}
		return ansi.Truncate(model.style().Foreground(color).Render(" "+model.status.Text), model.width, "…")
	}

	help := " q quit  1-4 tabs  ↑↓ move  PgUp/PgDn page  g/G ends"
	switch model.activeTab {
	case TabTranscript:
		help += "  v select turns  f follow"
	case TabModels:
		if model.filtering {
			help = " Esc clear  Enter choose  ↑↓ move"
		} else {
			help += "  / filter  Enter choose"
		}
	}
	return ansi.Truncate(model.style().Foreground(model.theme.HelpText).Render(help+model.position()), model.width, "…")
}

// position describes where the active list is scrolled.
func (model *Model) position() string {
	var offset, visible, total int
	var selected int
	var selecting bool
	switch model.activeTab {
	case TabModels:
		offset, visible, total = model.picker.Offset(), model.picker.VisibleHeight(), model.picker.Len()
		selected, selecting = model.picker.Selected()
	case TabSessions:
		offset, visible, total = model.sessions.Offset(), model.sessions.VisibleHeight(), model.sessions.Len()
		selected, selecting = model.sessions.Selected()
	case TabSettings:
		offset, visible, total = model.settings.Offset(), model.settings.VisibleHeight(), model.settings.Len()
		selected, selecting = model.settings.Selected()
	default:
		offset, visible, total = model.transcript.Offset(), model.transcript.VisibleHeight(), model.transcript.Len()
		selected, selecting = model.transcript.Selected()
	}
	if total == 0 {
		return ""
	}

	where := "all"
	if total > visible {
		switch {
		case offset == 0:
			where = "top"
		case offset+visible >= total:
			where = "bottom"
		default:
			where = fmt.Sprintf("%d%%", offset*100/(total-visible))
		}
	}
	if selecting {
		return fmt.Sprintf("  [%s] %d/%d", where, selected+1, total)
	}
	return fmt.Sprintf("  [%s] %d", where, total)
}
