package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/schedule"
	"github.com/javiermolinar/agenda/internal/tui/commands"
)

var testDate = time.Date(2014, 6, 25, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return testDate.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func testDay() *agenda.Day {
	return &agenda.Day{
		Date: testDate,
		Items: []schedule.Item{
			{ID: "b1", Title: "Free time", Type: schedule.TypeFree, Start: at(8, 0), End: at(9, 0)},
			{ID: "b2", Title: "Keynote", Subtitle: "Main hall", Type: schedule.TypeKeynote,
				Start: at(9, 0), End: at(10, 30), Flags: schedule.FlagNotRemovable | schedule.FlagConflictsWithNext},
			{ID: "s1", Title: "Clashing talk", Subtitle: "Room 5", Type: schedule.TypeSession,
				Start: at(9, 3), End: at(10, 0), Flags: schedule.FlagConflictsWithPrevious | schedule.FlagHasLivestream},
			{ID: "b3", Title: "Free time", Subtitle: "3 sessions available", Type: schedule.TypeFree,
				Start: at(10, 30), End: at(12, 0)},
			{ID: "b4", Title: "Lunch", Type: schedule.TypeBreak, Start: at(12, 0), End: at(13, 0), Flags: schedule.FlagNotRemovable},
		},
	}
}

type fakeLoader struct {
	err   error
	calls []time.Time
}

func (f *fakeLoader) Day(_ context.Context, day time.Time) (*agenda.Day, error) {
	f.calls = append(f.calls, day)
	if f.err != nil {
		return nil, f.err
	}
	if day.Equal(testDate) {
		return testDay(), nil
	}
	return &agenda.Day{Date: day}, nil
}

func asciiProfile(t *testing.T) {
	t.Helper()
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })
}

func newTestModel(t *testing.T, loader DayLoader) Model {
	t.Helper()
	m := New(loader, Options{
		Theme:     "mocha",
		Tolerance: schedule.DefaultAllowedOverlap,
		Location:  time.UTC,
		Date:      testDate,
	})
	m.nowFunc = func() time.Time { return at(9, 30) }
	m.width = 100
	m.height = 30
	return *m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	model, ok := updated.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", updated)
	}
	return model, cmd
}

func loadedModel(t *testing.T) Model {
	t.Helper()
	m, _ := update(t, newTestModel(t, &fakeLoader{}), commands.DayLoadedMsg{Date: testDate, Day: testDay()})
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = update(t, m, keyMsg(k))
	}
	return m, cmd
}

func TestNew_Defaults(t *testing.T) {
	m := New(&fakeLoader{}, Options{Theme: "unknown"})

	if m.opts.Location != time.Local {
		t.Errorf("Location = %v, want Local", m.opts.Location)
	}
	if m.theme.Name != "mocha" {
		t.Errorf("theme = %q, want mocha fallback", m.theme.Name)
	}
	if !m.date.Equal(m.today()) {
		t.Errorf("date = %v, want today", m.date)
	}
	if !m.loading {
		t.Error("expected loading until the first day arrives")
	}
}

func TestInit_LoadsConfiguredDay(t *testing.T) {
	loader := &fakeLoader{}
	m := newTestModel(t, loader)

	msg := m.Init()()

	loaded, ok := msg.(commands.DayLoadedMsg)
	if !ok {
		t.Fatalf("msg type = %T, want DayLoadedMsg", msg)
	}
	if !loaded.Date.Equal(testDate) || len(loader.calls) != 1 {
		t.Errorf("unexpected load %v (calls %v)", loaded.Date, loader.calls)
	}
}

func TestUpdate_DayLoadedFocusesCurrentItem(t *testing.T) {
	m := loadedModel(t)

	if m.loading {
		t.Error("expected loading cleared")
	}
	// At 09:30 the first free block is over and the keynote is running.
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestUpdate_DayLoadedOtherDayStartsAtTop(t *testing.T) {
	m := newTestModel(t, &fakeLoader{})
	m.nowFunc = func() time.Time { return at(24+9, 30) }

	m, _ = update(t, m, commands.DayLoadedMsg{Date: testDate, Day: testDay()})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestUpdate_IgnoresStaleDay(t *testing.T) {
	m := loadedModel(t)
	m, _ = press(t, m, "l")

	m, _ = update(t, m, commands.DayLoadedMsg{Date: testDate, Day: testDay()})
	if !m.loading {
		t.Error("expected the next day still loading")
	}
	if !m.date.Equal(testDate.AddDate(0, 0, 1)) {
		t.Errorf("date = %v, want next day", m.date)
	}
}

func TestUpdate_NilDay(t *testing.T) {
	m, _ := update(t, newTestModel(t, &fakeLoader{}), commands.DayLoadedMsg{Date: testDate})
	if m.day == nil || len(m.day.Items) != 0 {
		t.Errorf("expected an empty day, got %+v", m.day)
	}
}

func TestUpdate_ErrMsg(t *testing.T) {
	m, _ := update(t, newTestModel(t, &fakeLoader{}), commands.ErrMsg{Err: errors.New("boom")})

	if m.loading {
		t.Error("expected loading cleared")
	}
	if m.statusMsg != "Error: boom" || m.err == nil {
		t.Errorf("unexpected status %q (err %v)", m.statusMsg, m.err)
	}
}

func TestUpdate_StatusMessages(t *testing.T) {
	m, cmd := update(t, loadedModel(t), commands.StatusMsgCmd{Msg: "Copied"})
	if m.statusMsg != "Copied" || cmd == nil {
		t.Fatalf("expected status and clear tick, got %q", m.statusMsg)
	}

	// Not expired yet.
	m, _ = update(t, m, commands.ClearStatusMsg{})
	if m.statusMsg != "Copied" {
		t.Errorf("status cleared too early")
	}

	m.statusTime = time.Now().Add(-time.Second)
	m, _ = update(t, m, commands.ClearStatusMsg{})
	if m.statusMsg != "" {
		t.Errorf("status = %q, want cleared", m.statusMsg)
	}
}

func TestUpdate_WindowSize(t *testing.T) {
	m, _ := update(t, loadedModel(t), tea.WindowSizeMsg{Width: 80, Height: 12})
	if m.width != 80 || m.height != 12 || m.help.Width != 80 {
		t.Errorf("unexpected size %dx%d (help %d)", m.width, m.height, m.help.Width)
	}
}

func TestKeys_CursorMovement(t *testing.T) {
	tests := []struct {
		keys []string
		want int
	}{
		{[]string{"j"}, 2},
		{[]string{"k"}, 0},
		{[]string{"k", "k"}, 0},
		{[]string{"G"}, 4},
		{[]string{"G", "j"}, 4},
		{[]string{"g"}, 0},
	}

	for _, tc := range tests {
		t.Run(strings.Join(tc.keys, ","), func(t *testing.T) {
			m, _ := press(t, loadedModel(t), tc.keys...)
			if m.cursor != tc.want {
				t.Errorf("cursor = %d, want %d", m.cursor, tc.want)
			}
		})
	}
}

func TestKeys_ScrollKeepsCursorVisible(t *testing.T) {
	m := loadedModel(t)
	m.height = 10 // 10 - header - table chrome - footer = 2 rows

	m, _ = press(t, m, "G")
	if m.visibleRows() != 2 {
		t.Fatalf("visibleRows = %d, want 2", m.visibleRows())
	}
	if m.offset != 3 {
		t.Errorf("offset = %d, want 3", m.offset)
	}

	m, _ = press(t, m, "g")
	if m.offset != 0 {
		t.Errorf("offset = %d, want 0", m.offset)
	}
}

func TestKeys_ChangeDay(t *testing.T) {
	loader := &fakeLoader{}
	m, _ := update(t, newTestModel(t, loader), commands.DayLoadedMsg{Date: testDate, Day: testDay()})

	m, cmd := press(t, m, "l")
	if !m.date.Equal(testDate.AddDate(0, 0, 1)) || !m.loading || cmd == nil {
		t.Fatalf("expected next day loading, got %v (loading %v)", m.date, m.loading)
	}
	m, _ = update(t, m, cmd())
	if m.loading || len(m.day.Items) != 0 {
		t.Errorf("expected the empty next day, got %+v", m.day)
	}

	m, _ = press(t, m, "h", "h")
	if !m.date.Equal(testDate.AddDate(0, 0, -1)) {
		t.Errorf("date = %v, want previous day", m.date)
	}

	m, cmd = press(t, m, "t")
	if !m.date.Equal(testDate) {
		t.Errorf("date = %v, want today", m.date)
	}
	if msg, ok := cmd().(commands.DayLoadedMsg); !ok || !msg.Date.Equal(testDate) {
		t.Errorf("expected today to be loaded, got %T", msg)
	}
}

func TestKeys_Detail(t *testing.T) {
	asciiProfile(t)
	m := loadedModel(t)

	m, _ = press(t, m, "enter")
	if !m.showDetail {
		t.Fatal("expected detail panel open")
	}
	out := m.View()
	for _, want := range []string{"09:00-10:30 (1h30m)", "Main hall", "overlaps a later item, fixed", "esc to close"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in detail:\n%s", want, out)
		}
	}

	// Navigation keeps working behind the panel.
	m, _ = press(t, m, "j")
	if m.cursor != 2 || !m.showDetail {
		t.Errorf("cursor = %d (detail %v), want 2 with panel open", m.cursor, m.showDetail)
	}
	if !strings.Contains(m.View(), "overlaps an earlier item, livestreamed") {
		t.Error("expected the clashing talk notes")
	}

	m, _ = press(t, m, "esc")
	if m.showDetail {
		t.Error("expected detail panel closed")
	}
}

func TestKeys_DetailNeedsItem(t *testing.T) {
	m, _ := update(t, newTestModel(t, &fakeLoader{}), commands.DayLoadedMsg{Date: testDate, Day: &agenda.Day{Date: testDate}})
	m, _ = press(t, m, "enter")
	if m.showDetail {
		t.Error("expected no detail panel on an empty day")
	}
}

func TestKeys_HelpAndQuit(t *testing.T) {
	m := loadedModel(t)
	rows := m.visibleRows()

	m, _ = press(t, m, "?")
	if !m.help.ShowAll {
		t.Fatal("expected full help")
	}
	if m.visibleRows() >= rows {
		t.Errorf("expected fewer rows with the full help, got %d (was %d)", m.visibleRows(), rows)
	}

	for _, k := range []string{"q", "ctrl+c"} {
		_, cmd := press(t, m, k)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", k)
		}
	}
}

func TestKeys_CopyReturnsCommand(t *testing.T) {
	_, cmd := press(t, loadedModel(t), "y")
	if cmd == nil {
		t.Error("expected copy command")
	}
}
