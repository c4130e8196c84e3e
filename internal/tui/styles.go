package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/agenda/internal/schedule"
	"github.com/javiermolinar/agenda/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	// Header bar
	TitleStyle   lipgloss.Style
	DateStyle    lipgloss.Style
	LoadingStyle lipgloss.Style

	// Table chrome
	HeaderCellStyle lipgloss.Style
	BorderStyle     lipgloss.Style
	EmptyStyle      lipgloss.Style

	// Rows
	FixedStyle    lipgloss.Style
	SessionStyle  lipgloss.Style
	FreeStyle     lipgloss.Style
	ConflictStyle lipgloss.Style
	PastStyle     lipgloss.Style
	CurrentStyle  lipgloss.Style
	SelectedStyle lipgloss.Style

	// Footer
	StatsStyle         lipgloss.Style
	StatsConflictStyle lipgloss.Style
	StatusStyle        lipgloss.Style
	ErrorStyle         lipgloss.Style

	// Detail panel
	PanelStyle      lipgloss.Style
	PanelTitleStyle lipgloss.Style
	PanelLabelStyle lipgloss.Style
	PanelTextStyle  lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	cell := lipgloss.NewStyle().Padding(0, 1).Background(p.Bg)

	return &Styles{
		palette: p,

		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.TextOnAccent).
			Background(p.Accent).
			Padding(0, 1),
		DateStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Fg).
			Background(p.BgHighlight).
			Padding(0, 1),
		LoadingStyle: lipgloss.NewStyle().
			Italic(true).
			Foreground(p.FgMuted).
			Background(p.Bg).
			Padding(0, 1),

		HeaderCellStyle: cell.Bold(true).Foreground(p.Accent),
		BorderStyle:     lipgloss.NewStyle().Foreground(p.FgMuted).Background(p.Bg),
		EmptyStyle:      lipgloss.NewStyle().Italic(true).Foreground(p.FgMuted).Background(p.Bg).Padding(1, 2),

		FixedStyle:    cell.Foreground(p.TextOnFixed).Background(p.FixedBg),
		SessionStyle:  cell.Foreground(p.TextOnSession).Background(p.SessionBg),
		FreeStyle:     cell.Foreground(p.FgMuted),
		ConflictStyle: cell.Bold(true).Foreground(p.TextOnWarning).Background(p.WarningBg),
		PastStyle:     cell.Foreground(p.FgMuted),
		CurrentStyle:  cell.Bold(true).Foreground(p.TextOnCurrent).Background(p.Current),
		SelectedStyle: cell.Bold(true).Foreground(p.Fg).Background(p.BgSelection),

		StatsStyle:         lipgloss.NewStyle().Foreground(p.Fg).Background(p.Bg),
		StatsConflictStyle: lipgloss.NewStyle().Bold(true).Foreground(p.Warning).Background(p.Bg),
		StatusStyle:        lipgloss.NewStyle().Foreground(p.Accent).Background(p.Bg),
		ErrorStyle:         lipgloss.NewStyle().Foreground(p.Warning).Background(p.Bg),

		PanelStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			BorderBackground(p.BgHighlight).
			Background(p.BgHighlight).
			Padding(1, 2),
		PanelTitleStyle: lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Background(p.BgHighlight),
		PanelLabelStyle: lipgloss.NewStyle().Foreground(p.FgMuted).Background(p.BgHighlight),
		PanelTextStyle:  lipgloss.NewStyle().Foreground(p.Fg).Background(p.BgHighlight),
	}
}

// rowState describes how a row relates to the cursor and the clock.
type rowState struct {
	selected bool
	past     bool // ended before now
	current  bool // running now
}

// RowStyle picks the style of a schedule row. The cursor wins over
// conflicts, conflicts win over the clock.
func (s *Styles) RowStyle(it schedule.Item, state rowState) lipgloss.Style {
	switch {
	case state.selected:
		return s.SelectedStyle
	case it.ConflictsWithPrevious():
		return s.ConflictStyle
	case state.current:
		return s.CurrentStyle
	case state.past:
		return s.PastStyle
	}
	switch it.Type {
	case schedule.TypeFree:
		return s.FreeStyle
	case schedule.TypeSession, schedule.TypeCodelab:
		return s.SessionStyle
	default:
		return s.FixedStyle
	}
}
