// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package viewerui

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/listview/lib/clock"
	"github.com/bureau-foundation/listview/lib/config"
	"github.com/bureau-foundation/listview/lib/listview"
	"github.com/bureau-foundation/listview/lib/transcript"
	"github.com/bureau-foundation/listview/lib/tui"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

var epoch = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type fixedTerminal struct {
	width, height int
}

func (terminal fixedTerminal) TerminalSize() (int, int, bool) {
	return terminal.width, terminal.height, true
}

func keyRunes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

// conversation builds turns t0..t(n-1), each a user prompt and a
// one-line assistant reply.
func conversation(turns int) []transcript.Entry {
	var entries []transcript.Entry
	for turn := range turns {
		id := fmt.Sprintf("t%d", turn)
		entries = append(entries,
			transcript.Entry{Turn: id, Role: "user", Text: fmt.Sprintf("question %d", turn)},
			transcript.Entry{Turn: id, Role: "assistant", Text: fmt.Sprintf("answer %d", turn)},
		)
	}
	return entries
}

// newTestModel builds a viewer on a 100x24 terminal. The content area
// is 21 rows.
func newTestModel(t *testing.T, entries []transcript.Entry) *Model {
	t.Helper()
	model := NewModel(Options{
		Config:   config.Default(),
		Entries:  entries,
		Clock:    clock.Fake(epoch),
		Terminal: fixedTerminal{100, 24},
		Profile:  termenv.Ascii,
	})
	model.Update(tea.WindowSizeMsg{Width: 100, Height: 24})
	return model
}

// drain runs cmd and any commands it batches, returning the messages.
// Only use it on commands that do not tick.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	message := cmd()
	if batch, ok := message.(tea.BatchMsg); ok {
		var messages []tea.Msg
		for _, nested := range batch {
			messages = append(messages, drain(nested)...)
		}
		return messages
	}
	if message == nil {
		return nil
	}
	return []tea.Msg{message}
}

func viewLineContaining(view, needle string) string {
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, needle) {
			return line
		}
	}
	return ""
}

func TestViewBeforeResize(t *testing.T) {
	model := NewModel(Options{Terminal: fixedTerminal{80, 24}, Profile: termenv.Ascii})
	if view := model.View(); view != "Loading..." {
		t.Errorf("View() before resize = %q", view)
	}
}

func TestTranscriptStartsPinnedToEnd(t *testing.T) {
	model := newTestModel(t, conversation(12))

	// 12 turns of separator + prompt + reply.
	if model.transcript.Len() != 36 {
		t.Fatalf("transcript lines = %d, want 36", model.transcript.Len())
	}
	if model.transcript.VisibleHeight() != 21 {
		t.Fatalf("visible height = %d, want 21", model.transcript.VisibleHeight())
	}
	if model.transcript.Offset() != 15 || !model.transcript.AtBottom() {
		t.Errorf("offset = %d, at bottom = %v; want pinned at 15", model.transcript.Offset(), model.transcript.AtBottom())
	}

	view := model.View()
	if !strings.Contains(view, "answer 11") {
		t.Error("newest reply not visible")
	}
	if !strings.Contains(view, "12 turns  36 lines  following") {
		t.Errorf("header stats missing from view:\n%s", view)
	}
}

func TestTranscriptFollowsAppends(t *testing.T) {
	model := newTestModel(t, conversation(12))

	model.Update(TranscriptUpdateMsg{Update: transcript.Update{
		Entries: []transcript.Entry{{Turn: "t11", Role: "tool", Text: "ran tests\nall passed"}},
	}})
	// Continuing turn t11 adds no separator.
	if model.transcript.Len() != 38 {
		t.Fatalf("lines after continuing append = %d, want 38", model.transcript.Len())
	}

	model.Update(TranscriptUpdateMsg{Update: transcript.Update{
		Entries: []transcript.Entry{{Turn: "t12", Role: "user", Text: "next"}},
	}})
	if model.transcript.Len() != 40 {
		t.Fatalf("lines after new turn = %d, want 40", model.transcript.Len())
	}
	if model.transcript.Offset() != 19 || !model.transcript.AtBottom() {
		t.Errorf("offset = %d; want still pinned at 19", model.transcript.Offset())
	}
}

func TestTranscriptPausesWhenScrolledAway(t *testing.T) {
	model := newTestModel(t, conversation(12))

	model.Update(keyRunes("g"))
	if model.transcript.Offset() != 0 {
		t.Fatalf("offset after g = %d, want 0", model.transcript.Offset())
	}
	model.Update(TranscriptUpdateMsg{Update: transcript.Update{
		Entries: []transcript.Entry{{Turn: "t12", Role: "user", Text: "next"}},
	}})
	if model.transcript.Offset() != 0 {
		t.Errorf("offset after append while away = %d, want 0", model.transcript.Offset())
	}
	if !strings.Contains(model.View(), "paused") {
		t.Error("header should report the paused transcript")
	}

	model.Update(keyRunes("f"))
	if !model.transcript.AtBottom() {
		t.Error("f should re-pin the transcript to its end")
	}
}

func TestTranscriptReset(t *testing.T) {
	model := newTestModel(t, conversation(12))

	model.Update(TranscriptUpdateMsg{Update: transcript.Update{
		Reset:   true,
		Entries: []transcript.Entry{{Turn: "fresh", Role: "user", Text: "start over"}},
	}})
	if model.transcript.Len() != 2 {
		t.Fatalf("lines after reset = %d, want 2", model.transcript.Len())
	}
	if model.lastTurn != "fresh" {
		t.Errorf("last turn = %q, want fresh", model.lastTurn)
	}
}

func TestTranscriptRendersAssistantMarkdown(t *testing.T) {
	model := newTestModel(t, []transcript.Entry{
		{Turn: "t0", Role: "assistant", Text: "Steps:\n\n- build\n- test"},
	})

	var texts []string
	for _, line := range model.lines {
		if !line.Separator {
			texts = append(texts, line.Text)
		}
	}
	want := []string{"Steps:", "", "- build", "- test"}
	if strings.Join(texts, "|") != strings.Join(want, "|") {
		t.Errorf("rendered lines = %q, want %q", texts, want)
	}
}

func TestTurnSelection(t *testing.T) {
	model := newTestModel(t, conversation(12))

	_, cmd := model.Update(keyRunes("v"))
	if model.transcript.SelectionMode() != listview.ModeItem {
		t.Fatal("v should switch the transcript to item mode")
	}
	// Last turn t11: separator 33, prompt 34, reply 35.
	if selected, _ := model.transcript.Selected(); selected != 34 {
		t.Fatalf("selected = %d, want 34 (start of the last turn)", selected)
	}
	for _, message := range drain(cmd) {
		model.Update(message)
	}
	if model.focusedTurn != "t11" {
		t.Fatalf("focused turn = %q, want t11", model.focusedTurn)
	}
	if !strings.Contains(model.View(), "turn t11") {
		t.Error("header should name the selected turn")
	}

	_, cmd = model.Update(keyRunes("k"))
	for _, message := range drain(cmd) {
		model.Update(message)
	}
	if selected, _ := model.transcript.Selected(); selected != 31 {
		t.Errorf("selected after k = %d, want 31", selected)
	}
	if model.focusedTurn != "t10" {
		t.Errorf("focused turn = %q, want t10", model.focusedTurn)
	}

	model.Update(keyRunes("v"))
	if model.transcript.SelectionMode() != listview.ModeScroll {
		t.Error("second v should return to scroll mode")
	}
}

func TestTurnSelectionSkipsSeparators(t *testing.T) {
	model := newTestModel(t, conversation(12))
	model.Update(keyRunes("v"))

	// Turn tN: separator 3N, prompt 3N+1, reply 3N+2.
	steps := []struct {
		name string
		msg  tea.Msg
		want int
		turn string
	}{
		{"home", keyRunes("g"), 1, "t0"},
		{"down", keyRunes("j"), 4, "t1"},
		{"down again", keyRunes("j"), 7, "t2"},
		{"up", keyRunes("k"), 4, "t1"},
		{"end", keyRunes("G"), 34, "t11"},
		{"wheel up", tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress}, 31, "t10"},
	}
	for _, step := range steps {
		_, cmd := model.Update(step.msg)
		for _, message := range drain(cmd) {
			model.Update(message)
		}
		if selected, _ := model.transcript.Selected(); selected != step.want {
			t.Fatalf("%s: selected = %d, want %d", step.name, selected, step.want)
		}
		if model.focusedTurn != step.turn {
			t.Fatalf("%s: focused turn = %q, want %s", step.name, model.focusedTurn, step.turn)
		}
	}
}

func TestTabSwitching(t *testing.T) {
	model := newTestModel(t, nil)

	tests := []struct {
		key  tea.KeyMsg
		want Tab
	}{
		{keyRunes("2"), TabModels},
		{keyRunes("3"), TabSessions},
		{keyRunes("4"), TabSettings},
		{tea.KeyMsg{Type: tea.KeyTab}, TabTranscript},
		{keyRunes("1"), TabTranscript},
	}
	for _, test := range tests {
		model.Update(test.key)
		if model.activeTab != test.want {
			t.Fatalf("after %q active tab = %d, want %d", test.key.String(), model.activeTab, test.want)
		}
	}
	if !model.transcript.Focused() || model.picker.Focused() {
		t.Error("only the active tab's list should be focused")
	}
}

func TestEmptyTranscript(t *testing.T) {
	model := newTestModel(t, nil)
	if !strings.Contains(model.View(), "No transcript loaded.") {
		t.Error("empty transcript should render its empty state")
	}
}

func TestModelFilterAndSelect(t *testing.T) {
	model := newTestModel(t, nil)

	model.Update(keyRunes("2"))
	model.Update(keyRunes("/"))
	if !model.filtering {
		t.Fatal("/ should open the model filter")
	}
	model.Update(keyRunes("son"))
	if model.picker.Len() != 1 {
		t.Fatalf("matches for %q = %d, want 1", "son", model.picker.Len())
	}
	if item, _ := model.picker.SelectedItem(); item.Entry.ID != "sonnet" {
		t.Fatalf("highlighted = %q, want sonnet", item.Entry.ID)
	}

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if model.filtering {
		t.Error("Enter should close the filter")
	}
	messages := drain(cmd)
	if len(messages) != 1 {
		t.Fatalf("messages after Enter = %#v, want one selection", messages)
	}
	model.Update(messages[0])
	if model.activeModel != "sonnet" {
		t.Errorf("active model = %q, want sonnet", model.activeModel)
	}
	if line := viewLineContaining(model.View(), "sonnet"); !strings.Contains(line, "●") {
		t.Errorf("active model row should be marked: %q", line)
	}
}

func TestModelFilterNoMatches(t *testing.T) {
	model := newTestModel(t, nil)

	model.Update(keyRunes("2"))
	model.Update(keyRunes("/"))
	model.Update(keyRunes("zzz"))
	if model.picker.Len() != 0 {
		t.Fatalf("matches = %d, want 0", model.picker.Len())
	}
	if !strings.Contains(model.View(), "No models match the filter.") {
		t.Error("empty picker should render its empty state")
	}

	// Esc clears the text, a second Esc leaves the filter.
	model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.picker.Len() != len(model.config.Models) || !model.filtering {
		t.Fatalf("first Esc: len = %d, filtering = %v", model.picker.Len(), model.filtering)
	}
	model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.filtering {
		t.Error("second Esc should leave the filter")
	}
}

func TestModelPickerWrapsAround(t *testing.T) {
	model := newTestModel(t, nil)

	model.Update(keyRunes("2"))
	model.Update(keyRunes("k"))
	last := len(model.config.Models) - 1
	if selected, _ := model.picker.Selected(); selected != last {
		t.Errorf("selected after k from the top = %d, want %d", selected, last)
	}
}

func TestSettingsReadPickerHandle(t *testing.T) {
	model := newTestModel(t, nil)

	model.Update(keyRunes("2"))
	model.Update(keyRunes("j"))
	model.Update(keyRunes("4"))

	line := viewLineContaining(model.View(), "Highlighted model")
	if !strings.Contains(line, "sonnet") {
		t.Errorf("settings row = %q, want sonnet", line)
	}
	if line := viewLineContaining(model.View(), "Transcript mode"); !strings.Contains(line, "scroll") {
		t.Errorf("settings row = %q, want scroll", line)
	}
}

func TestSessionsAreLazyAndGroupedByDay(t *testing.T) {
	model := newTestModel(t, nil)

	model.Update(keyRunes("3"))
	if model.sessions.Len() != 10000 {
		t.Fatalf("sessions = %d, want 10000", model.sessions.Len())
	}
	view := model.View()
	if !strings.Contains(view, "session 00000") || strings.Contains(view, "session 00021") {
		t.Errorf("expected only the first window materialized:\n%s", view)
	}
	if !strings.Contains(view, "Sat Mar 14") {
		t.Errorf("first row should carry the day label:\n%s", view)
	}

	model.Update(keyRunes("G"))
	// 48 sessions per day: the last day starts at 208*48.
	if selected, _ := model.sessions.Selected(); selected != 9984 {
		t.Fatalf("selected after G = %d, want 9984", selected)
	}
	if !strings.Contains(model.View(), "session 09999") {
		t.Error("last session should be visible")
	}

	model.Update(keyRunes("k"))
	if selected, _ := model.sessions.Selected(); selected != 9936 {
		t.Errorf("selected after k = %d, want 9936", selected)
	}
}

func TestGenerateSessions(t *testing.T) {
	sessions := generateSessions(epoch, 4, 3, 6)
	if len(sessions) != 3 {
		t.Fatalf("sessions = %d, want 3", len(sessions))
	}
	// Index 3 is the earliest slot of day 0; index 4 the latest of day 1.
	if got := sessions[0].Started; !got.Equal(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("session 3 started %v", got)
	}
	if got := sessions[1].Started; !got.Equal(time.Date(2026, 3, 13, 18, 0, 0, 0, time.UTC)) {
		t.Errorf("session 4 started %v", got)
	}
}

func TestStatusLineFades(t *testing.T) {
	model := newTestModel(t, nil)

	model.Update(statusMsg{Text: "disk almost full", Level: slog.LevelWarn})
	if line := viewLineContaining(model.View(), "disk almost full"); line == "" {
		t.Fatal("status text not shown")
	}
	first := model.statusSequence

	model.Update(statusMsg{Text: "second notice", Level: slog.LevelInfo})
	model.Update(statusFadeMsg{sequence: first})
	if viewLineContaining(model.View(), "second notice") == "" {
		t.Fatal("a stale fade cleared the newer status")
	}

	model.Update(statusFadeMsg{sequence: model.statusSequence})
	if viewLineContaining(model.View(), "second notice") != "" {
		t.Error("status should fade")
	}
	if viewLineContaining(model.View(), "q quit") == "" {
		t.Error("help line should return after the fade")
	}
}

func TestQuit(t *testing.T) {
	model := newTestModel(t, nil)
	_, cmd := model.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestResizeRerendersMarkdown(t *testing.T) {
	long := strings.Repeat("word ", 20)
	model := newTestModel(t, []transcript.Entry{{Turn: "t0", Role: "assistant", Text: long}})
	wide := model.transcript.Len()

	model.Update(tea.WindowSizeMsg{Width: 40, Height: 24})
	if model.transcript.Len() <= wide {
		t.Errorf("lines at width 40 = %d, want more than %d at width 100", model.transcript.Len(), wide)
	}
}

func TestAppendedTurnsAreMarkedUntilTheyCool(t *testing.T) {
	fake := clock.Fake(epoch)
	model := NewModel(Options{
		Config:   config.Default(),
		Entries:  conversation(3),
		Clock:    fake,
		Terminal: fixedTerminal{100, 24},
		Profile:  termenv.Ascii,
	})
	model.Update(tea.WindowSizeMsg{Width: 100, Height: 24})

	_, cmd := model.Update(TranscriptUpdateMsg{Update: transcript.Update{
		Entries: []transcript.Entry{{Turn: "t3", Role: "user", Text: "fresh question"}},
	}})
	if cmd == nil || !model.heatTicking {
		t.Fatal("an append should start the marker tick")
	}
	if line := viewLineContaining(model.View(), "fresh question"); !strings.HasPrefix(line, "▎") {
		t.Errorf("appended line should carry the change marker: %q", line)
	}
	if line := viewLineContaining(model.View(), "question 0"); strings.HasPrefix(line, "▎") {
		t.Errorf("older line should not be marked: %q", line)
	}

	// A second append while ticking does not start another tick.
	if _, cmd := model.Update(TranscriptUpdateMsg{Update: transcript.Update{
		Entries: []transcript.Entry{{Turn: "t3", Role: "assistant", Text: "fresh answer"}},
	}}); cmd != nil {
		for _, message := range drain(cmd) {
			if _, ok := message.(heatTickMsg); ok {
				t.Error("a running tick should not be scheduled twice")
			}
		}
	}

	fake.Advance(tui.HeatDecayDuration)
	model.Update(heatTickMsg{})
	if model.heatTicking {
		t.Error("the tick should stop once every marker has cooled")
	}
	if line := viewLineContaining(model.View(), "fresh question"); strings.HasPrefix(line, "▎") {
		t.Errorf("cooled line still marked: %q", line)
	}
}

func TestResetMarksRewrittenTurn(t *testing.T) {
	model := newTestModel(t, conversation(3))
	model.Update(TranscriptUpdateMsg{Update: transcript.Update{
		Reset:   true,
		Entries: []transcript.Entry{{Turn: "fresh", Role: "user", Text: "start over"}},
	}})
	if model.heat.Kind("fresh") != tui.HeatRewritten {
		t.Error("reset should mark the last turn as rewritten")
	}
	if model.heat.Heat("fresh", epoch) != 1 {
		t.Errorf("heat = %v, want 1", model.heat.Heat("fresh", epoch))
	}
}
