package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterViewState holds the strings needed to render the footer section.
type FooterViewState struct {
	Width      int
	StatsLine  string
	StatusLine string
	HelpView   string // May span several lines when the full help is open
	Bg         lipgloss.Color
}

// FooterHeight returns the number of lines RenderFooter will use.
func FooterHeight(helpView string) int {
	return 2 + lipgloss.Height(helpView)
}

// RenderFooter renders the stats, status and help lines.
func RenderFooter(state FooterViewState) string {
	s := strings.Join([]string{state.StatsLine, state.StatusLine, state.HelpView}, "\n")
	return PlaceBox(state.Width, FooterHeight(state.HelpView), lipgloss.Top, s, state.Bg)
}
