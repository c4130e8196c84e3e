package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/dateutil"
	"github.com/javiermolinar/agenda/internal/schedule"
	"github.com/javiermolinar/agenda/internal/tui/view"
)

// Column widths of the day table, excluding cell padding.
const (
	markerWidth = 1
	timeWidth   = 11 // 09:00-10:30
	typeWidth   = 7  // keynote, session, codelab
	lengthWidth = 5  // 1h30m
	fixedWidth  = markerWidth + timeWidth + typeWidth + lengthWidth
	tableCols   = 6
	// Two padding cells per column plus one border per column and the outer one.
	tableOverhead = tableCols*2 + tableCols + 1
	minTextWidth  = 8
)

var tableHeaders = []string{" ", "Time", "Type", "Title", "Where", "Length"}

// View renders the TUI.
func (m Model) View() string {
	state := view.ViewState{
		Width:            m.width,
		Height:           m.height,
		Bg:               m.styles.palette.Bg,
		PanelBg:          m.styles.palette.BgHighlight,
		EmptyPlaceholder: "Loading...",
	}
	if m.width == 0 || m.height == 0 {
		return view.Render(state)
	}

	state.Header = m.renderHeader()
	state.Body = m.renderBody()
	state.Footer = m.renderFooter()
	if m.showDetail {
		state.PanelContent = m.renderDetail()
	}
	return view.Render(state)
}

func (m Model) renderHeader() string {
	header := m.styles.TitleStyle.Render("agenda") +
		m.styles.DateStyle.Render(m.date.Format("Monday, January 2, 2006"))
	if m.date.Equal(m.today()) {
		header += m.styles.LoadingStyle.Render("today")
	}
	if m.loading {
		header += m.styles.LoadingStyle.Render("loading...")
	}
	return view.PlaceBox(m.width, headerHeight, lipgloss.Top, header, m.styles.palette.Bg)
}

func (m Model) bodyHeight() int {
	return m.visibleRows() + tableChrome
}

func (m Model) renderBody() string {
	h := m.bodyHeight()
	switch {
	case m.day == nil && m.err != nil:
		return view.PlaceBox(m.width, h, lipgloss.Top, m.styles.EmptyStyle.Render("Could not load the day."), m.styles.palette.Bg)
	case m.day == nil:
		return view.PlaceBox(m.width, h, lipgloss.Top, m.styles.EmptyStyle.Render("Loading..."), m.styles.palette.Bg)
	case len(m.day.Items) == 0:
		return view.PlaceBox(m.width, h, lipgloss.Top, m.styles.EmptyStyle.Render("Nothing scheduled."), m.styles.palette.Bg)
	}

	titleW, whereW := m.textWidths()
	end := min(m.offset+m.visibleRows(), len(m.day.Items))

	rows := make([][]string, 0, end-m.offset)
	styles := make([]lipgloss.Style, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		it := m.day.Items[i]
		rows = append(rows, itemRow(it, titleW, whereW))
		styles = append(styles, m.styles.RowStyle(it, m.rowState(i, it)))
	}

	return view.RenderTable(view.TableViewState{
		Width:       m.width,
		Height:      h,
		Headers:     tableHeaders,
		HeaderStyle: m.styles.HeaderCellStyle,
		Rows:        rows,
		RowStyles:   styles,
		BorderStyle: m.styles.BorderStyle,
		Bg:          m.styles.palette.Bg,
	})
}

// textWidths splits the space left by the fixed columns between the
// title and the location, giving the title three fifths.
func (m Model) textWidths() (int, int) {
	free := max(m.width-fixedWidth-tableOverhead, 2*minTextWidth)
	titleW := free * 3 / 5
	return titleW, free - titleW
}

// itemRow builds the table cells of one item.
func itemRow(it schedule.Item, titleW, whereW int) []string {
	return []string{
		agenda.ConflictMarker(it),
		it.Start.Format("15:04") + "-" + it.End.Format("15:04"),
		string(it.Type),
		ansi.Truncate(it.Title, titleW, "…"),
		ansi.Truncate(it.Subtitle, whereW, "…"),
		dateutil.FormatDuration(it.Duration()),
	}
}

func (m Model) renderFooter() string {
	return view.RenderFooter(view.FooterViewState{
		Width:      m.width,
		StatsLine:  m.statsLine(),
		StatusLine: m.statusLine(),
		HelpView:   m.help.View(m.keys),
		Bg:         m.styles.palette.Bg,
	})
}

func (m Model) statsLine() string {
	if m.day == nil {
		return ""
	}
	s := m.day.Stats()
	line := m.styles.StatsStyle.Render(fmt.Sprintf("Scheduled %s · Free %s · Sessions %d",
		dateutil.FormatDuration(minutes(s.FixedMinutes)),
		dateutil.FormatDuration(minutes(s.FreeMinutes)),
		s.Sessions,
	))
	if s.Conflicts > 0 {
		line += m.styles.StatsStyle.Render(" · ") +
			m.styles.StatsConflictStyle.Render(fmt.Sprintf("Conflicts %d", s.Conflicts))
	}
	return line
}

func (m Model) statusLine() string {
	if m.statusMsg == "" {
		return ""
	}
	if m.err != nil {
		return m.styles.ErrorStyle.Render(m.statusMsg)
	}
	return m.styles.StatusStyle.Render(m.statusMsg)
}

// renderDetail renders the panel describing the selected item.
func (m Model) renderDetail() string {
	it, ok := m.selected()
	if !ok {
		return ""
	}

	label := m.styles.PanelLabelStyle
	text := m.styles.PanelTextStyle
	field := func(name, value string) string {
		return label.Render(fmt.Sprintf("%-8s", name)) + text.Render(value)
	}

	lines := []string{
		m.styles.PanelTitleStyle.Render(it.Title),
		"",
		field("When", fmt.Sprintf("%s-%s (%s)", it.Start.Format("15:04"), it.End.Format("15:04"), dateutil.FormatDuration(it.Duration()))),
		field("Type", string(it.Type)),
	}
	if it.Subtitle != "" {
		lines = append(lines, field("Where", it.Subtitle))
	}
	if notes := itemNotes(it); len(notes) > 0 {
		lines = append(lines, field("Notes", strings.Join(notes, ", ")))
	}
	lines = append(lines, "", label.Render("esc to close"))

	maxW := max(m.width-8, minTextWidth)
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, maxW, "…")
	}
	return m.styles.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// itemNotes lists the annotations of an item in reading order.
func itemNotes(it schedule.Item) []string {
	var notes []string
	if it.Flags.Has(schedule.FlagConflictsWithPrevious) {
		notes = append(notes, "overlaps an earlier item")
	}
	if it.Flags.Has(schedule.FlagConflictsWithNext) {
		notes = append(notes, "overlaps a later item")
	}
	if it.Flags.Has(schedule.FlagHasLivestream) {
		notes = append(notes, "livestreamed")
	}
	if it.Flags.Has(schedule.FlagNotRemovable) {
		notes = append(notes, "fixed")
	}
	return notes
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
