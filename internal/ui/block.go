package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/dateutil"
	"github.com/javiermolinar/agenda/internal/schedule"
)

func (a *App) blockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Manage venue blocks",
		Long: `Manage the venue-wide blocks of the conference: keynotes, breaks and
free slots. Free blocks are trimmed around everything else.`,
	}

	cmd.AddCommand(a.blockAddCmd())
	cmd.AddCommand(a.blockRmCmd())
	cmd.AddCommand(a.blockListCmd())
	return cmd
}

func typeNames() string {
	names := make([]string, 0, len(schedule.Types()))
	for _, t := range schedule.Types() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

func (a *App) blockAddCmd() *cobra.Command {
	var (
		date     string
		start    string
		end      string
		typ      string
		subtitle string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a block",
		Example: `  agenda block add "Keynote" --date=2014-06-25 --start=09:00 --end=10:30 --type=keynote
  agenda block add "Free time" --start=08:00 --end=18:00 --type=free`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := a.config.AgendaOptions().Location
			day, err := dateutil.ParseDay(date, time.Now().In(loc))
			if err != nil {
				return err
			}
			s, e, err := dateutil.Span(day, start, end)
			if err != nil {
				return err
			}

			b, err := agenda.NewBlock(args[0], subtitle, typ, s, e)
			if err != nil {
				return err
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}
			if err := a.repo.CreateBlock(context.Background(), b); err != nil {
				return fmt.Errorf("creating block: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created block #%d: %s [%s] %s %s-%s\n",
				b.ID,
				b.Title,
				b.Type,
				b.Start.Format("2006-01-02"),
				b.Start.Format("15:04"),
				b.End.Format("15:04"),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day of the block (default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM or 24:00, required)")
	cmd.Flags().StringVar(&typ, "type", string(schedule.TypeFree), "Block type: "+typeNames())
	cmd.Flags().StringVar(&subtitle, "subtitle", "", "Secondary text, e.g. the room")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (a *App) blockRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm [id]",
		Short: "Remove a block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid block id %q", args[0])
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}
			if err := a.repo.DeleteBlock(context.Background(), id); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed block #%d\n", id)
			return nil
		},
	}
}

func (a *App) blockListCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blocks in a date range",
		Long: `List all blocks within a date range.

If no dates are specified, lists today's blocks.
If only --start is specified, lists blocks for that single day.`,
		Example: `  agenda block list
  agenda block list --start=2014-06-25 --end=2014-06-26`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc := a.config.AgendaOptions().Location
			dateRange, err := dateutil.NewDateRange(startDate, endDate, time.Now().In(loc))
			if err != nil {
				return err
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}
			blocks, err := a.repo.ListBlocks(context.Background(), dateRange.Start, dateRange.End.AddDate(0, 0, 1))
			if err != nil {
				return fmt.Errorf("listing blocks: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(blocks) == 0 {
				fmt.Fprintln(out, "No blocks found in the specified date range.")
				return nil
			}

			// Print blocks grouped by date
			var currentDate string
			for _, b := range blocks {
				date := b.Start.Format("2006-01-02")
				if date != currentDate {
					if currentDate != "" {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "=== %s ===\n", date)
					currentDate = date
				}

				line := fmt.Sprintf("  #%d %s %s-%s %s",
					b.ID,
					typeLabel(b.Type),
					b.Start.Format("15:04"),
					b.End.Format("15:04"),
					b.Title,
				)
				if b.Source != "" {
					line += "  " + formatMuted("("+b.Source+")")
				}
				fmt.Fprintln(out, line)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (defaults to start date)")

	return cmd
}
