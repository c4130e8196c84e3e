package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableViewState holds data needed to render the day table.
type TableViewState struct {
	Width       int
	Height      int
	Headers     []string
	HeaderStyle lipgloss.Style
	Rows        [][]string
	RowStyles   []lipgloss.Style // One style per row, applied to every cell
	BorderStyle lipgloss.Style
	Bg          lipgloss.Color
}

// RenderTable renders the visible schedule rows using a lipgloss table.
func RenderTable(state TableViewState) string {
	if state.Height <= 0 || state.Width <= 0 {
		return ""
	}

	t := table.New().
		Headers(state.Headers...).
		Width(state.Width).
		Border(lipgloss.RoundedBorder()).
		BorderHeader(true).
		BorderColumn(true).
		BorderRow(false).
		BorderStyle(state.BorderStyle).
		Rows(state.Rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return state.HeaderStyle
			}
			if row < 0 || row >= len(state.RowStyles) {
				return lipgloss.NewStyle().Padding(0, 1)
			}
			return state.RowStyles[row]
		})

	return PlaceBox(state.Width, state.Height, lipgloss.Top, t.Render(), state.Bg)
}
