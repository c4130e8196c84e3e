package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/dateutil"
)

func (a *App) showCmd() *cobra.Command {
	var (
		date    string
		format  string
		verbose bool
		noColor bool
		copyOut bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the merged schedule of a day",
		Long: `Display the merged schedule of a conference day.

Free blocks are trimmed around keynotes, breaks and starred sessions.
Items marked with ! overlap an earlier fixed item.`,
		Example: `  agenda show
  agenda show --date=tomorrow
  agenda show --date=2014-06-25 --format=json
  agenda show --copy`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			loc := a.config.AgendaOptions().Location
			day, err := dateutil.ParseDay(date, time.Now().In(loc))
			if err != nil {
				return err
			}

			svc, err := a.service()
			if err != nil {
				return err
			}

			d, err := svc.Day(context.Background(), day)
			if err != nil {
				return fmt.Errorf("building schedule: %w", err)
			}

			tolerance := a.config.MergeOptions().AllowedOverlap
			if copyOut {
				if err := clipboard.WriteAll(agenda.PlainText(d, tolerance)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard.")
			}

			out := cmd.OutOrStdout()
			if format == agenda.FormatText {
				PrintDay(out, d, PrintOpts{Tolerance: tolerance, Verbose: verbose})
				return nil
			}
			return agenda.Encode(out, d, format, tolerance)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to show: today, tomorrow, yesterday, a weekday or YYYY-MM-DD")
	cmd.Flags().StringVar(&format, "format", agenda.FormatText, "Output format: text, json or yaml")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full titles")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the plain-text schedule to the clipboard")
	return cmd
}
