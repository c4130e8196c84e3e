// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/agenda/internal/agenda"
)

// DayLoader builds the merged schedule of one day.
type DayLoader interface {
	Day(ctx context.Context, day time.Time) (*agenda.Day, error)
}

// DayLoadedMsg is sent when a day has been merged.
type DayLoadedMsg struct {
	Date time.Time // requested day, used to drop stale loads
	Day  *agenda.Day
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// LoadDay merges the schedule of the given day.
func LoadDay(loader DayLoader, day time.Time) tea.Cmd {
	return func() tea.Msg {
		d, err := loader.Day(context.Background(), day)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return DayLoadedMsg{Date: day, Day: d}
	}
}

// CopyDay copies the plain text rendition of a day to the clipboard.
func CopyDay(d *agenda.Day, tolerance time.Duration) tea.Cmd {
	return func() tea.Msg {
		if d == nil {
			return ErrMsg{Err: fmt.Errorf("nothing to copy")}
		}
		text := agenda.PlainText(d, tolerance)
		if err := writeClipboard(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		lines := strings.Count(text, "\n")
		return StatusMsgCmd{Msg: fmt.Sprintf("Copied %s (%d lines)", d.Date.Format("Mon Jan 2"), lines)}
	}
}
