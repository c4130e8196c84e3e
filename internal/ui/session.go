package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/dateutil"
)

func (a *App) sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the session catalog",
		Long: `Manage the conference sessions. Starred sessions are fixed in your
schedule; the others are counted in the free blocks they start in.`,
	}

	cmd.AddCommand(a.sessionAddCmd())
	cmd.AddCommand(a.sessionStarCmd(true))
	cmd.AddCommand(a.sessionStarCmd(false))
	cmd.AddCommand(a.sessionListCmd())
	return cmd
}

func (a *App) sessionAddCmd() *cobra.Command {
	var (
		date       string
		start      string
		end        string
		room       string
		speakers   string
		tags       []string
		livestream string
		star       bool
	)

	cmd := &cobra.Command{
		Use:   "add [id] [title]",
		Short: "Add or update a session",
		Example: `  agenda session add io-101 "What's new in Android" --start=10:00 --end=10:45 --room="Room 5"
  agenda session add io-kn "Keynote" --start=09:00 --end=11:00 --tags=FLAG_KEYNOTE --star`,
		Args: cobra.ExactArgs(2),
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

			sess := &agenda.Session{
				ID:            strings.TrimSpace(args[0]),
				Title:         strings.TrimSpace(args[1]),
				Room:          room,
				Speakers:      speakers,
				Tags:          tags,
				LivestreamURL: livestream,
				Start:         s,
				End:           e,
			}
			if err := sess.Validate(); err != nil {
				return err
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := context.Background()
			if err := a.repo.UpsertSession(ctx, sess); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
			if star {
				if err := a.repo.SetInSchedule(ctx, sess.ID, true); err != nil {
					return fmt.Errorf("starring session: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved session %s: %s [%s] %s %s-%s\n",
				sess.ID,
				sess.Title,
				sess.Type(),
				sess.Start.Format("2006-01-02"),
				sess.Start.Format("15:04"),
				sess.End.Format("15:04"),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day of the session (default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")
	cmd.Flags().StringVar(&room, "room", "", "Room name")
	cmd.Flags().StringVar(&speakers, "speakers", "", "Speaker names")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Tags, e.g. FLAG_KEYNOTE or TYPE_CODELABS")
	cmd.Flags().StringVar(&livestream, "livestream", "", "Livestream URL")
	cmd.Flags().BoolVar(&star, "star", false, "Add the session to your schedule")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (a *App) sessionStarCmd(in bool) *cobra.Command {
	use, short, verb := "star [id]", "Add a session to your schedule", "Starred"
	if !in {
		use, short, verb = "unstar [id]", "Remove a session from your schedule", "Unstarred"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := context.Background()
			if err := a.repo.SetInSchedule(ctx, args[0], in); err != nil {
				return err
			}
			sess, err := a.repo.GetSession(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s %s-%s\n",
				verb,
				sess.ID,
				sess.Title,
				sess.Start.Format("15:04"),
				sess.End.Format("15:04"),
			)
			return nil
		},
	}
}

func (a *App) sessionListCmd() *cobra.Command {
	var (
		date       string
		starred    bool
		livestream bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the sessions of a day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc := a.config.AgendaOptions().Location
			day, err := dateutil.ParseDay(date, time.Now().In(loc))
			if err != nil {
				return err
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}
			sessions, err := a.repo.ListSessions(context.Background(), day, day.AddDate(0, 0, 1), agenda.SessionFilter{
				OnlyInSchedule: starred,
				LivestreamOnly: livestream,
			})
			if err != nil {
				return fmt.Errorf("listing sessions: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(sessions) == 0 {
				fmt.Fprintln(out, "No sessions found.")
				return nil
			}

			fmt.Fprintf(out, "=== %s ===\n", day.Format("2006-01-02"))
			for _, s := range sessions {
				mark := " "
				if s.InSchedule {
					mark = formatStats("★")
				}
				line := fmt.Sprintf("  %s %s-%s %s %s",
					mark,
					s.Start.Format("15:04"),
					s.End.Format("15:04"),
					typeLabel(s.Type()),
					s.Title,
				)
				if sub := s.Subtitle(); sub != "" {
					line += "  " + formatMuted(sub)
				}
				fmt.Fprintf(out, "%s  %s\n", line, formatMuted("#"+s.ID))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to list (default: today)")
	cmd.Flags().BoolVar(&starred, "starred", false, "Only sessions in your schedule")
	cmd.Flags().BoolVar(&livestream, "livestream", false, "Only livestreamed sessions")
	return cmd
}
