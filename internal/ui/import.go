package ui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/dateutil"
	"github.com/javiermolinar/agenda/internal/ics"
	"github.com/javiermolinar/agenda/internal/schedule"
)

// Import targets.
const (
	importBlocks   = "blocks"
	importSessions = "sessions"
)

type importOpts struct {
	As     string
	Type   schedule.Type
	Window ics.Window
}

func (a *App) importCmd() *cobra.Command {
	var (
		as       string
		typ      string
		fromDate string
		toDate   string
	)

	cmd := &cobra.Command{
		Use:   "import [file.ics]",
		Short: "Import blocks or sessions from an iCalendar file",
		Long: `Import the events of an iCalendar file as venue blocks or as sessions.

Recurring events are expanded inside the date range. Importing blocks
replaces every block previously imported from a file with the same name;
importing sessions updates them and keeps your stars.`,
		Example: `  agenda import venue.ics --as=blocks --from=2014-06-25 --to=2014-06-26
  agenda import talks.ics --as=sessions --from=2014-06-25 --to=2014-06-26`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := a.config.AgendaOptions().Location
			dateRange, err := dateutil.NewDateRange(fromDate, toDate, time.Now().In(loc))
			if err != nil {
				return err
			}

			opts := importOpts{
				As: as,
				Window: ics.Window{
					Start:    dateRange.Start,
					End:      dateRange.End.AddDate(0, 0, 1),
					Location: loc,
				},
			}
			if typ != "" {
				t, err := schedule.ParseType(typ)
				if err != nil {
					return err
				}
				opts.Type = t
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}

			count, err := importCalendar(context.Background(), a.repo, sourcePath, opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d %s from %s\n", count, as, sourcePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&as, "as", importBlocks, "Import events as blocks or sessions")
	cmd.Flags().StringVar(&typ, "type", "", "Block type for every event (default: from CATEGORIES, else misc)")
	cmd.Flags().StringVar(&fromDate, "from", "", "First day to import (default: today)")
	cmd.Flags().StringVar(&toDate, "to", "", "Last day to import (default: --from)")

	return cmd
}

func importCalendar(ctx context.Context, repo agenda.Repository, path string, opts importOpts) (int, error) {
	if opts.As != importBlocks && opts.As != importSessions {
		return 0, fmt.Errorf("unknown import target %q (want blocks or sessions)", opts.As)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("calendar file does not exist: %s", path)
		}
		return 0, fmt.Errorf("checking calendar file: %w", err)
	}
	if info.IsDir() {
		return 0, fmt.Errorf("calendar path is a directory: %s", path)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading calendar file: %w", err)
	}

	events, err := ics.Parse(body)
	if err != nil {
		return 0, err
	}
	occs, err := ics.Expand(events, opts.Window)
	if err != nil {
		return 0, err
	}

	source := filepath.Base(path)
	slog.Info("importing calendar",
		slog.String("source", source),
		slog.String("as", opts.As),
		slog.Int("occurrences", len(occs)),
	)

	if opts.As == importBlocks {
		blocks, err := ics.Blocks(occs, opts.Type)
		if err != nil {
			return 0, err
		}
		if err := repo.ReplaceBlocks(ctx, source, blocks); err != nil {
			return 0, fmt.Errorf("storing blocks: %w", err)
		}
		return len(blocks), nil
	}

	sessions, err := ics.Sessions(occs)
	if err != nil {
		return 0, err
	}
	for i, s := range sessions {
		if err := repo.UpsertSession(ctx, s); err != nil {
			return i, fmt.Errorf("storing session %q: %w", s.Title, err)
		}
	}
	return len(sessions), nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
