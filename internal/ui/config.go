package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/config"
	"github.com/javiermolinar/agenda/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  agenda config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			return runConfigInteractive(path, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runConfigInteractive(configPath string, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	// Display current config
	printConfig(out, cfg)

	reader := bufio.NewReader(in)

	// Ask if user wants to edit
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	p := prompter{reader: reader, out: out}
	cfg.Merge.AllowedOverlapMinutes = p.int("Allowed overlap (minutes)", cfg.Merge.AllowedOverlapMinutes)
	cfg.Merge.MinFragmentMinutes = p.int("Minimum free fragment (minutes)", cfg.Merge.MinFragmentMinutes)
	cfg.Merge.CheckConflicts = p.bool("Flag conflicts", cfg.Merge.CheckConflicts)
	cfg.Venue.AtVenue = p.bool("Attending at the venue", cfg.Venue.AtVenue)
	cfg.Venue.HideEmptyFreeBlocks = p.bool("Hide free blocks without sessions", cfg.Venue.HideEmptyFreeBlocks)
	cfg.Venue.LivestreamOnly = p.bool("Count livestreamed sessions only", cfg.Venue.LivestreamOnly)
	cfg.Venue.Timezone = p.value("Timezone (IANA name or Local)", cfg.Venue.Timezone)
	cfg.Storage.DBPath = p.value("Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = p.theme(cfg.UI.Theme)
	cfg.Log.Level = p.value("Log level (debug, info, warn, error)", cfg.Log.Level)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[merge]")
	fmt.Fprintf(out, "  allowed_overlap_minutes = %d\n", cfg.Merge.AllowedOverlapMinutes)
	fmt.Fprintf(out, "  min_fragment_minutes    = %d\n", cfg.Merge.MinFragmentMinutes)
	fmt.Fprintf(out, "  check_conflicts         = %t\n", cfg.Merge.CheckConflicts)
	fmt.Fprintln(out, "\n[venue]")
	fmt.Fprintf(out, "  at_venue                = %t\n", cfg.Venue.AtVenue)
	fmt.Fprintf(out, "  hide_empty_free_blocks  = %t\n", cfg.Venue.HideEmptyFreeBlocks)
	fmt.Fprintf(out, "  livestream_only         = %t\n", cfg.Venue.LivestreamOnly)
	fmt.Fprintf(out, "  timezone                = %s\n", cfg.Venue.Timezone)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path                 = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme                   = %s\n", cfg.UI.Theme)
	fmt.Fprintln(out, "\n[log]")
	fmt.Fprintf(out, "  level                   = %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "  file                    = %s\n", cfg.Log.File)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

type prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func (p prompter) value(label, current string) string {
	if current == "" {
		fmt.Fprintf(p.out, "  %s: ", label)
	} else {
		fmt.Fprintf(p.out, "  %s [%s]: ", label, current)
	}
	input, _ := p.reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func (p prompter) int(label string, current int) int {
	for {
		v := p.value(label, strconv.Itoa(current))
		n, err := strconv.Atoi(v)
		if err == nil && n >= 0 {
			return n
		}
		fmt.Fprintf(p.out, "  Invalid number %q\n", v)
	}
}

func (p prompter) bool(label string, current bool) bool {
	for {
		v := strings.ToLower(p.value(label+" (y/n)", yesNo(current)))
		switch v {
		case "y", "yes", "true":
			return true
		case "n", "no", "false":
			return false
		}
		fmt.Fprintf(p.out, "  Invalid answer %q\n", v)
	}
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}

func (p prompter) theme(current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(p.value(label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(p.out, "  Invalid theme %q. Available: %s\n", value, options)
		if value == current {
			return theme.Available()[0]
		}
	}
}
