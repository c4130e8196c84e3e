package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/dateutil"
	"github.com/javiermolinar/agenda/internal/schedule"
)

// PrintOpts configures day printing behavior.
type PrintOpts struct {
	Tolerance     time.Duration // Items starting this close share a time header
	Verbose       bool          // Show full titles
	MaxTitleWidth int           // Maximum title width (0 = auto)
}

// CalcMaxTitleWidth calculates the maximum title width based on options.
func (o PrintOpts) CalcMaxTitleWidth(defaultWidth int) int {
	if o.MaxTitleWidth > 0 {
		return o.MaxTitleWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	// "  ! HH:MM-HH:MM  [K]  " = ~22 chars, duration suffix ~8
	available := termWidth() - 30
	if available > defaultWidth {
		return available
	}
	return defaultWidth
}

// PrintDay writes a colored rendition of the day.
func PrintDay(w io.Writer, d *agenda.Day, opts PrintOpts) {
	fmt.Fprintf(w, "=== %s ===\n", formatHeader(d.Date.Format("Monday, January 2, 2006")))
	if len(d.Items) == 0 {
		fmt.Fprintln(w, formatMuted("Nothing scheduled."))
		return
	}

	maxWidth := opts.CalcMaxTitleWidth(40)
	for i, it := range d.Items {
		if i == 0 || !schedule.SameStart(d.Items[i-1], it, opts.Tolerance) {
			fmt.Fprintf(w, "\n%s\n", formatHeader(it.Start.Format("15:04")))
		}
		PrintItemRow(w, it, maxWidth)
	}

	fmt.Fprintln(w)
	PrintStats(w, d.Stats())
}

// PrintItemRow prints a single schedule item.
func PrintItemRow(w io.Writer, it schedule.Item, maxTitleWidth int) {
	marker := " "
	if it.ConflictsWithPrevious() {
		marker = formatConflict("!")
	}

	title := ansi.Truncate(it.Title, maxTitleWidth, "...")
	switch {
	case it.ConflictsWithPrevious():
		title = formatConflict(title)
	case it.Type == schedule.TypeFree:
		title = formatMuted(title)
	}

	line := fmt.Sprintf("  %s %s-%s  %s  %s  %s",
		marker,
		it.Start.Format("15:04"),
		it.End.Format("15:04"),
		typeLabel(it.Type),
		title,
		formatMuted(dateutil.FormatDuration(it.Duration())),
	)
	if it.Subtitle != "" {
		line += "  " + formatMuted(it.Subtitle)
	}
	fmt.Fprintln(w, line)
}

// typeLabel returns the short colored label of an item type.
func typeLabel(t schedule.Type) string {
	switch t {
	case schedule.TypeFree:
		return formatMuted("[F]")
	case schedule.TypeBreak:
		return formatMuted("[B]")
	case schedule.TypeKeynote:
		return formatFixed("[K]")
	case schedule.TypeSession:
		return formatSession("[S]")
	case schedule.TypeCodelab:
		return formatSession("[C]")
	default:
		return formatFixed("[M]")
	}
}

// PrintStats prints the stats summary line.
func PrintStats(w io.Writer, s agenda.Stats) {
	fmt.Fprintf(w, "%s | %s | Sessions: %d",
		formatStats(fmt.Sprintf("Scheduled: %s", dateutil.FormatDuration(time.Duration(s.FixedMinutes)*time.Minute))),
		formatMuted(fmt.Sprintf("Free: %s", dateutil.FormatDuration(time.Duration(s.FreeMinutes)*time.Minute))),
		s.Sessions,
	)
	if s.Conflicts > 0 {
		fmt.Fprintf(w, " | %s", formatConflict(fmt.Sprintf("Conflicts: %d", s.Conflicts)))
	}
	fmt.Fprintln(w)
}
