package tui

import (
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureCursorVisible()
		return m, nil

	case commands.DayLoadedMsg:
		if !msg.Date.Equal(m.date) {
			// A faster key press already moved to another day.
			return m, nil
		}
		if msg.Day == nil {
			msg.Day = &agenda.Day{Date: m.date}
		}
		m.day = msg.Day
		m.loading = false
		m.err = nil
		m.focusCursor()
		slog.Debug("day loaded",
			slog.String("date", m.date.Format(time.DateOnly)),
			slog.Int("items", len(msg.Day.Items)),
			slog.Int("conflicts", msg.Day.Conflicts()),
		)
		return m, nil

	case commands.ErrMsg:
		slog.Warn("tui command failed", slog.Any("error", msg.Err))
		m.loading = false
		m.err = msg.Err
		m.statusMsg = fmt.Sprintf("Error: %v", msg.Err)
		m.statusTime = time.Now().Add(5 * time.Second)
		return m, nil

	case commands.StatusMsgCmd:
		m.err = nil
		m.statusMsg = msg.Msg
		m.statusTime = time.Now().Add(3 * time.Second)
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return commands.ClearStatusMsg{}
		})

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	return m, nil
}
