package ui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/dateutil"
)

func (a *App) overviewCmd() *cobra.Command {
	var (
		from    string
		to      string
		verbose bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:     "overview",
		Aliases: []string{"week"},
		Short:   "Show the merged schedule of several days",
		Long: `Display the merged schedule of every day in a range with totals.

Defaults to the next seven days starting today.`,
		Example: `  agenda overview
  agenda overview --from=2014-06-25 --to=2014-06-26`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			now := time.Now().In(a.config.AgendaOptions().Location)
			if to == "" {
				start, err := dateutil.ParseDay(from, now)
				if err != nil {
					return err
				}
				to = start.AddDate(0, 0, 6).Format("2006-01-02")
			}
			r, err := dateutil.NewDateRange(from, to, now)
			if err != nil {
				return err
			}

			svc, err := a.service()
			if err != nil {
				return err
			}

			o, err := svc.Overview(context.Background(), r.Start, r.End)
			if err != nil {
				return fmt.Errorf("building overview: %w", err)
			}

			PrintOverview(cmd.OutOrStdout(), o, PrintOpts{
				Tolerance: a.config.MergeOptions().AllowedOverlap,
				Verbose:   verbose,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day (default: today)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (default: six days after --from)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full titles")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// PrintOverview writes every non-empty day of the overview followed by totals.
func PrintOverview(w io.Writer, o *agenda.Overview, opts PrintOpts) {
	header := fmt.Sprintf("%s - %s", o.Start.Format("Mon Jan 2"), o.End.Format("Mon Jan 2, 2006"))
	fmt.Fprintf(w, "\n  %s\n", formatHeader(header))
	fmt.Fprintln(w, strings.Repeat("─", 74))

	maxWidth := opts.CalcMaxTitleWidth(40)
	printed := 0
	for _, d := range o.Days {
		if len(d.Items) == 0 {
			continue
		}
		if printed > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "  %s\n", formatHeader(d.Date.Format("Mon Jan 2")))
		for _, it := range d.Items {
			PrintItemRow(w, it, maxWidth)
		}
		printed++
	}

	if printed == 0 {
		fmt.Fprintln(w, formatMuted("Nothing scheduled."))
		return
	}

	fmt.Fprintln(w, strings.Repeat("─", 74))
	PrintStats(w, o.Stats)
}
