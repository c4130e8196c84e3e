// Package tui provides the terminal user interface for agenda.
package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/dateutil"
	"github.com/javiermolinar/agenda/internal/schedule"
	"github.com/javiermolinar/agenda/internal/tui/commands"
	"github.com/javiermolinar/agenda/internal/tui/theme"
	"github.com/javiermolinar/agenda/internal/tui/view"
)

// DayLoader builds the merged schedule of one day.
type DayLoader = commands.DayLoader

// Options configures the day view.
type Options struct {
	Theme     string
	Tolerance time.Duration  // Items starting this close share a time header
	Location  *time.Location // Conference timezone, defaults to Local
	Date      time.Time      // First day shown, defaults to today
}

// Layout constants.
const (
	headerHeight = 1
	tableChrome  = 4 // top border, header row, header separator, bottom border
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	loader DayLoader
	opts   Options

	// Theme and styles
	theme  *theme.Theme
	styles *Styles
	keys   keyMap
	help   help.Model

	// State
	date       time.Time // Midnight of the day shown
	day        *agenda.Day
	cursor     int // Index into day.Items
	offset     int // First visible row
	loading    bool
	showDetail bool

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string    // Temporary status/error message
	statusTime time.Time // When to clear message

	// Error state
	err error

	nowFunc func() time.Time
}

// New creates a new TUI model.
func New(loader DayLoader, opts Options) *Model {
	if opts.Location == nil {
		opts.Location = time.Local
	}

	t, err := theme.Load(opts.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	h := help.New()
	h.Styles.ShortKey = styles.StatusStyle
	h.Styles.FullKey = styles.StatusStyle
	h.Styles.ShortDesc = styles.StatsStyle
	h.Styles.FullDesc = styles.StatsStyle

	m := &Model{
		loader:  loader,
		opts:    opts,
		theme:   t,
		styles:  styles,
		keys:    defaultKeyMap(),
		help:    h,
		loading: true,
		nowFunc: time.Now,
	}
	m.date = m.today()
	if !opts.Date.IsZero() {
		m.date = dateutil.TruncateToDay(opts.Date.In(opts.Location))
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return commands.LoadDay(m.loader, m.date)
}

// Run starts the TUI.
func Run(loader DayLoader, opts Options) error {
	model := New(loader, opts)
	slog.Debug("tui start", slog.String("date", model.date.Format(time.DateOnly)))

	p := tea.NewProgram(*model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) now() time.Time {
	return m.nowFunc().In(m.opts.Location)
}

func (m Model) today() time.Time {
	return dateutil.TruncateToDay(m.now())
}

func (m Model) itemCount() int {
	if m.day == nil {
		return 0
	}
	return len(m.day.Items)
}

// selected returns the item under the cursor.
func (m Model) selected() (schedule.Item, bool) {
	if m.cursor < 0 || m.cursor >= m.itemCount() {
		return schedule.Item{}, false
	}
	return m.day.Items[m.cursor], true
}

// changeDay switches to another day and starts loading it.
func (m Model) changeDay(day time.Time) (tea.Model, tea.Cmd) {
	m.date = dateutil.TruncateToDay(day)
	m.loading = true
	m.showDetail = false
	return m, commands.LoadDay(m.loader, m.date)
}

func (m *Model) moveCursor(delta int) {
	n := m.itemCount()
	if n == 0 {
		m.cursor, m.offset = 0, 0
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
	m.ensureCursorVisible()
}

// focusCursor puts the cursor on the first item that has not ended when
// showing today, on the first item otherwise.
func (m *Model) focusCursor() {
	m.cursor, m.offset = 0, 0
	if m.day == nil || !m.date.Equal(m.today()) {
		return
	}
	now := m.now()
	for i, it := range m.day.Items {
		if it.End.After(now) {
			m.cursor = i
			break
		}
	}
	m.ensureCursorVisible()
}

// visibleRows returns how many table rows fit on screen.
func (m Model) visibleRows() int {
	rows := m.height - headerHeight - tableChrome - view.FooterHeight(m.help.View(m.keys))
	return max(rows, 1)
}

func (m *Model) ensureCursorVisible() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	maxOffset := max(m.itemCount()-visible, 0)
	m.offset = min(max(m.offset, 0), maxOffset)
}

// rowState reports how an item relates to the cursor and the clock.
func (m Model) rowState(i int, it schedule.Item) rowState {
	now := m.now()
	return rowState{
		selected: i == m.cursor,
		past:     !it.End.After(now),
		current:  !it.Start.After(now) && it.End.After(now),
	}
}
