package agenda

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/agenda/internal/schedule"
)

// ExportItem is the serialized form of a merged schedule item.
type ExportItem struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Subtitle    string    `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Room        string    `json:"room,omitempty" yaml:"room,omitempty"`
	Type        string    `json:"type" yaml:"type"`
	Start       time.Time `json:"start" yaml:"start"`
	End         time.Time `json:"end" yaml:"end"`
	StartMillis int64     `json:"start_ms" yaml:"start_ms"`
	EndMillis   int64     `json:"end_ms" yaml:"end_ms"`
	Conflict    bool      `json:"conflicts_with_previous" yaml:"conflicts_with_previous"`
	Livestream  bool      `json:"livestream,omitempty" yaml:"livestream,omitempty"`
}

// ExportDay is the serialized form of a merged day.
type ExportDay struct {
	Date      string       `json:"date" yaml:"date"`
	Conflicts int          `json:"conflicts" yaml:"conflicts"`
	Items     []ExportItem `json:"items" yaml:"items"`
}

// Export converts a day into its serialized form.
func Export(d *Day) ExportDay {
	out := ExportDay{
		Date:      d.Date.Format("2006-01-02"),
		Conflicts: d.Conflicts(),
		Items:     make([]ExportItem, 0, len(d.Items)),
	}
	for _, it := range d.Items {
		out.Items = append(out.Items, ExportItem{
			ID:          it.ID,
			Title:       it.Title,
			Subtitle:    it.Subtitle,
			Room:        it.Room,
			Type:        string(it.Type),
			Start:       it.Start,
			End:         it.End,
			StartMillis: it.Start.UnixMilli(),
			EndMillis:   it.End.UnixMilli(),
			Conflict:    it.ConflictsWithPrevious(),
			Livestream:  it.Flags.Has(schedule.FlagHasLivestream),
		})
	}
	return out
}

// Output formats understood by Encode.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Encode writes the day to w in the given format.
func Encode(w io.Writer, d *Day, format string, tolerance time.Duration) error {
	switch format {
	case FormatText, "":
		_, err := io.WriteString(w, PlainText(d, tolerance))
		return err
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(Export(d))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Export(d)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

// PlainText renders the day without colors. Items starting within
// tolerance of the previous item share its time header.
func PlainText(d *Day, tolerance time.Duration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s ===\n", d.Date.Format("Monday, January 2, 2006"))
	if len(d.Items) == 0 {
		b.WriteString("Nothing scheduled.\n")
		return b.String()
	}

	for i, it := range d.Items {
		if i == 0 || !schedule.SameStart(d.Items[i-1], it, tolerance) {
			fmt.Fprintf(&b, "\n%s\n", it.Start.Format("15:04"))
		}
		fmt.Fprintf(&b, "  %s %s-%s [%s] %s",
			ConflictMarker(it),
			it.Start.Format("15:04"),
			it.End.Format("15:04"),
			it.Type,
			it.Title,
		)
		if it.Subtitle != "" {
			fmt.Fprintf(&b, " (%s)", it.Subtitle)
		}
		b.WriteString("\n")
	}

	if n := d.Conflicts(); n > 0 {
		fmt.Fprintf(&b, "\n%d conflict(s)\n", n)
	}
	return b.String()
}

// ConflictMarker returns "!" for conflicting items and a space otherwise.
func ConflictMarker(it schedule.Item) string {
	if it.ConflictsWithPrevious() {
		return "!"
	}
	return " "
}
