package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PlaceBox renders content in a lipgloss.Place box with background fill.
func PlaceBox(w, h int, vAlign lipgloss.Position, content string, bg lipgloss.Color) string {
	placed := lipgloss.Place(
		w,
		h,
		lipgloss.Left,
		vAlign,
		content,
		lipgloss.WithWhitespaceBackground(bg),
	)
	return PadLinesWithBackground(placed, w, h, bg)
}

// PadLinesWithBackground pads content to width/height with a background color.
func PadLinesWithBackground(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	paddingStyle := lipgloss.NewStyle().Background(bg)
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := 0; i < height; i++ {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		lineWidth := lipgloss.Width(line)
		if lineWidth > width {
			lines[i] = line
			continue
		}
		lines[i] = line + paddingStyle.Render(strings.Repeat(" ", width-lineWidth))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// RenderPanelOverlay centers panelContent and splices it over the base content.
func RenderPanelOverlay(baseContent, panelContent string, width, height int, panelBg lipgloss.Color) string {
	panelLines := strings.Split(panelContent, "\n")
	panelHeight := len(panelLines)
	if panelHeight == 0 {
		return baseContent
	}

	panelWidth := 0
	for _, line := range panelLines {
		if w := lipgloss.Width(line); w > panelWidth {
			panelWidth = w
		}
	}
	if panelWidth == 0 {
		return baseContent
	}
	if panelWidth > width {
		panelWidth = width
	}

	top := max((height-panelHeight)/2, 0)
	left := max((width-panelWidth)/2, 0)

	for i, line := range panelLines {
		lineWidth := lipgloss.Width(line)
		if lineWidth > panelWidth {
			line = ansi.Cut(line, 0, panelWidth)
		}
		if lineWidth < panelWidth {
			paddingStyle := lipgloss.NewStyle().Background(panelBg)
			line += paddingStyle.Render(strings.Repeat(" ", panelWidth-lineWidth))
		}
		line = ApplyPanelBackgroundResets(line, panelBg)
		panelLines[i] = line + ansi.ResetStyle
	}

	emptyBg := lipgloss.Color("")
	baseLines := strings.Split(PadLinesWithBackground(baseContent, width, height, emptyBg), "\n")
	for len(baseLines) < height {
		baseLines = append(baseLines, "")
	}

	lines := make([]string, 0, height)
	for row := 0; row < height; row++ {
		if row < top || row >= top+panelHeight {
			lines = append(lines, baseLines[row])
			continue
		}

		panelLine := panelLines[row-top]
		baseLine := baseLines[row]
		leftSlice := ansi.Cut(baseLine, 0, left)
		rightSlice := ansi.Cut(baseLine, left+panelWidth, width)
		lines = append(lines, leftSlice+panelLine+rightSlice)
	}

	return strings.Join(lines, "\n")
}

// ApplyPanelBackgroundResets reapplies the panel background after ANSI resets.
func ApplyPanelBackgroundResets(line string, panelBg lipgloss.Color) string {
	bgSeq := PanelBackgroundSeq(panelBg)
	if bgSeq == "" {
		return line
	}
	line = strings.ReplaceAll(line, ansi.ResetStyle, ansi.ResetStyle+bgSeq)
	line = strings.ReplaceAll(line, "\x1b[0m", "\x1b[0m"+bgSeq)
	line = strings.ReplaceAll(line, "\x1b[49m", "\x1b[49m"+bgSeq)
	return line
}

// PanelBackgroundSeq returns the background escape sequence for the panel color.
func PanelBackgroundSeq(panelBg lipgloss.Color) string {
	if panelBg == "" {
		return ""
	}
	return ansi.Style{}.BackgroundColor(ansi.HexColor(string(panelBg))).String()
}
