package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/agenda/internal/tui/commands"
)

// keyMap defines the key bindings of the day view.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	PrevDay key.Binding
	NextDay key.Binding
	Today   key.Binding
	Detail  key.Binding
	Close   key.Binding
	Copy    key.Binding
	Reload  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Top:     key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "first")),
		Bottom:  key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "last")),
		PrevDay: key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "prev day")),
		NextDay: key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "next day")),
		Today:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Detail:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy day")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevDay, k.NextDay, k.Today, k.Detail, k.Copy, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.PrevDay, k.NextDay, k.Today, k.Reload},
		{k.Detail, k.Close, k.Copy},
		{k.Help, k.Quit},
	}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	slog.Debug("key press", slog.String("key", msg.String()))

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.showDetail {
		return m.handleDetailKeys(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	// Navigation
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Top):
		m.moveCursor(-m.itemCount())
	case key.Matches(msg, m.keys.Bottom):
		m.moveCursor(m.itemCount())

	// Days
	case key.Matches(msg, m.keys.PrevDay):
		return m.changeDay(m.date.AddDate(0, 0, -1))
	case key.Matches(msg, m.keys.NextDay):
		return m.changeDay(m.date.AddDate(0, 0, 1))
	case key.Matches(msg, m.keys.Today):
		return m.changeDay(m.today())
	case key.Matches(msg, m.keys.Reload):
		return m.changeDay(m.date)

	// Actions
	case key.Matches(msg, m.keys.Detail):
		if _, ok := m.selected(); ok {
			m.showDetail = true
		}
	case key.Matches(msg, m.keys.Copy):
		return m, commands.CopyDay(m.day, m.opts.Tolerance)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.ensureCursorVisible()
	}

	return m, nil
}

// handleDetailKeys handles keys while the detail panel is open.
func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Detail):
		m.showDetail = false
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	}
	return m, nil
}
