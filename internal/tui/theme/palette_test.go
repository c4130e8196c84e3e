package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNewPalette_RowShades(t *testing.T) {
	base := &Theme{
		Bg:      "#101010",
		Fg:      "#ffffff",
		FgMuted: "#aaaaaa",
		Accent:  "#ff0000",
		Fixed:   "#112233",
		Session: "#445566",
		Current: "#777777",
		Warning: "#888888",
	}

	palette := NewPalette(base)

	if palette.FixedBg != lipgloss.Color(scaleColor(base.Fixed, 0.50, 40)) {
		t.Fatalf("FixedBg = %q", palette.FixedBg)
	}
	if palette.SessionBg != lipgloss.Color(scaleColor(base.Session, 0.50, 40)) {
		t.Fatalf("SessionBg = %q", palette.SessionBg)
	}
	if palette.SessionPastBg != lipgloss.Color(scaleColor(base.Session, 0.30, 30)) {
		t.Fatalf("SessionPastBg = %q", palette.SessionPastBg)
	}
}

func TestNewPalette_LightThemeBlends(t *testing.T) {
	base := &Theme{
		Bg:      "#ffffff",
		Fg:      "#000000",
		Fixed:   "#0000ff",
		Session: "#00ff00",
		Warning: "#ff0000",
	}

	palette := NewPalette(base)
	if palette.FixedBg != lipgloss.Color(blendColors(base.Fixed, base.Bg, 0.75)) {
		t.Fatalf("FixedBg = %q, want blend towards bg", palette.FixedBg)
	}
	// Blended rows are light, so text must be dark.
	if palette.TextOnFixed != lipgloss.Color(base.Fg) {
		t.Errorf("TextOnFixed = %q, want %q", palette.TextOnFixed, base.Fg)
	}
}

func TestNewPalette_NilThemeUsesMocha(t *testing.T) {
	mocha, err := Load("mocha")
	if err != nil {
		t.Fatalf("Load(mocha) failed: %v", err)
	}
	if got := NewPalette(nil).Bg; got != lipgloss.Color(mocha.Bg) {
		t.Errorf("Bg = %q, want %q", got, mocha.Bg)
	}
}

func TestScaleColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#ffffff", "#7f7f7f"},
		{"#101010", "#282828"},
		{"invalid", "invalid"},
	}

	for _, tt := range tests {
		if got := scaleColor(tt.in, 0.50, 40); got != tt.want {
			t.Errorf("scaleColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestContrastRatio(t *testing.T) {
	if got := contrastRatio("#000000", "#ffffff"); got < 20.9 || got > 21.1 {
		t.Errorf("contrastRatio(black, white) = %v, want 21", got)
	}
	if got := contrastRatio("#777777", "#777777"); got != 1 {
		t.Errorf("contrastRatio(same) = %v, want 1", got)
	}
}
