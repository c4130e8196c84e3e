package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/config"
	"github.com/javiermolinar/agenda/internal/db"
	"github.com/javiermolinar/agenda/internal/logging"
	"github.com/javiermolinar/agenda/internal/schedule"
	"github.com/javiermolinar/agenda/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo       agenda.Repository
	config     *config.Config
	root       *cobra.Command
	debug      bool   // Enable debug logging
	configPath string // Overrides the default config file
	closeLog   func() error
}

// NewApp creates a new CLI application with the given repository and config.
// A nil repository is opened from the configured database on first use.
func NewApp(repo agenda.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg}

	a.root = &cobra.Command{
		Use:   "agenda",
		Short: "A conference schedule planner",
		Long: `Agenda builds your day at a conference.

It merges the venue blocks (keynotes, breaks, free slots) with the sessions
you starred, trims free time around them and flags the talks that clash.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			return tui.Run(svc, a.tuiOptions())
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (JSON lines to the configured log file)")
	a.root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: ~/.config/agenda/config.toml)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.blockCmd())
	a.root.AddCommand(a.sessionCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.overviewCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "agenda %s (commit: %s)\n", Version, Commit)
		},
	}
}

// setup reloads the config named by --config and installs the logger.
func (a *App) setup() error {
	if a.configPath != "" {
		cfg, err := config.LoadFrom(a.configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		a.config = cfg
	}

	level, err := a.config.LogLevel()
	if err != nil {
		return err
	}
	closeLog, err := logging.Setup(logging.Options{
		Level: level,
		Debug: a.debug,
		File:  a.config.Log.File,
	})
	if err != nil {
		return err
	}
	a.closeLog = closeLog
	return nil
}

// ensureRepo opens the configured database if no repository was injected.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}

	path := a.config.Storage.DBPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	repo, err := db.New(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.repo = repo
	return nil
}

// service builds the day service from the current config.
func (a *App) service() (*agenda.Service, error) {
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	resolver, err := schedule.New(a.config.MergeOptions())
	if err != nil {
		return nil, fmt.Errorf("invalid merge options: %w", err)
	}
	return agenda.NewService(a.repo, resolver, a.config.AgendaOptions()), nil
}

func (a *App) tuiOptions() tui.Options {
	return tui.Options{
		Theme:     a.config.UI.Theme,
		Tolerance: a.config.MergeOptions().AllowedOverlap,
		Location:  a.config.AgendaOptions().Location,
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the repository and the debug log.
func (a *App) Close() error {
	var err error
	if a.repo != nil {
		err = a.repo.Close()
	}
	if a.closeLog != nil {
		if cerr := a.closeLog(); err == nil {
			err = cerr
		}
	}
	return err
}
