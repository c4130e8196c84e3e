// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/schedule"
)

// Config holds the application configuration.
type Config struct {
	Merge   MergeConfig   `toml:"merge"`
	Venue   VenueConfig   `toml:"venue"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// MergeConfig holds the conflict resolution tolerances.
type MergeConfig struct {
	AllowedOverlapMinutes int  `toml:"allowed_overlap_minutes"`
	MinFragmentMinutes    int  `toml:"min_fragment_minutes"`
	CheckConflicts        bool `toml:"check_conflicts"`
}

// VenueConfig holds attendee settings.
type VenueConfig struct {
	AtVenue             bool   `toml:"at_venue"`
	HideEmptyFreeBlocks bool   `toml:"hide_empty_free_blocks"`
	LivestreamOnly      bool   `toml:"livestream_only"`
	Timezone            string `toml:"timezone"` // IANA name or "Local"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "latte"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
	File  string `toml:"file"`  // debug log file, used with --debug
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Merge: MergeConfig{
			AllowedOverlapMinutes: int(schedule.DefaultAllowedOverlap / time.Minute),
			MinFragmentMinutes:    int(schedule.DefaultMinFragment / time.Minute),
			CheckConflicts:        true,
		},
		Venue: VenueConfig{
			AtVenue:  true,
			Timezone: "Local",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
		Log: LogConfig{
			Level: "warn",
			File:  defaultLogPath(),
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "agenda.db"
	}
	return filepath.Join(home, ".local", "share", "agenda", "agenda.db")
}

func defaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "agenda-debug.log"
	}
	return filepath.Join(home, ".local", "state", "agenda", "debug.log")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "agenda", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"AGENDA_ALLOWED_OVERLAP_MINUTES", &cfg.Merge.AllowedOverlapMinutes},
		{"AGENDA_MIN_FRAGMENT_MINUTES", &cfg.Merge.MinFragmentMinutes},
	}
	for _, e := range ints {
		if v := os.Getenv(e.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", e.key, err)
			}
			*e.dst = n
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"AGENDA_CHECK_CONFLICTS", &cfg.Merge.CheckConflicts},
		{"AGENDA_AT_VENUE", &cfg.Venue.AtVenue},
		{"AGENDA_HIDE_EMPTY_FREE_BLOCKS", &cfg.Venue.HideEmptyFreeBlocks},
		{"AGENDA_LIVESTREAM_ONLY", &cfg.Venue.LivestreamOnly},
	}
	for _, e := range bools {
		if v := os.Getenv(e.key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", e.key, err)
			}
			*e.dst = b
		}
	}

	if v := os.Getenv("AGENDA_TIMEZONE"); v != "" {
		cfg.Venue.Timezone = v
	}
	if v := os.Getenv("AGENDA_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("AGENDA_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("AGENDA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("AGENDA_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Merge.AllowedOverlapMinutes < 0 {
		return errors.New("allowed_overlap_minutes must not be negative")
	}
	if c.Merge.MinFragmentMinutes < 0 {
		return errors.New("min_fragment_minutes must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// MergeOptions returns the resolver options.
func (c *Config) MergeOptions() schedule.Options {
	return schedule.Options{
		AllowedOverlap: time.Duration(c.Merge.AllowedOverlapMinutes) * time.Minute,
		MinFragment:    time.Duration(c.Merge.MinFragmentMinutes) * time.Minute,
		CheckConflicts: c.Merge.CheckConflicts,
	}
}

// AgendaOptions returns the day assembly options. Validate must have
// accepted the timezone.
func (c *Config) AgendaOptions() agenda.Options {
	loc, err := c.Location()
	if err != nil {
		loc = time.Local
	}
	return agenda.Options{
		AtVenue:        c.Venue.AtVenue,
		HideEmptyFree:  c.Venue.HideEmptyFreeBlocks,
		LivestreamOnly: c.Venue.LivestreamOnly,
		Location:       loc,
	}
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Venue.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Venue.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Venue.Timezone, err)
	}
	return loc, nil
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	return level, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
