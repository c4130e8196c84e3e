// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Options configures Setup.
type Options struct {
	// Level is the minimum level written to Output.
	Level slog.Level
	// Output receives text logs. Defaults to os.Stderr.
	Output io.Writer
	// Debug writes JSON lines at debug level to File instead of Output.
	Debug bool
	File  string
}

// New builds a logger for opts. The returned close function releases the
// debug log file and is never nil.
func New(opts Options) (*slog.Logger, func() error, error) {
	if !opts.Debug {
		out := opts.Output
		if out == nil {
			out = os.Stderr
		}
		h := slog.NewTextHandler(out, &slog.HandlerOptions{Level: opts.Level})
		return slog.New(h), func() error { return nil }, nil
	}

	if opts.File == "" {
		return nil, nil, fmt.Errorf("creating debug log: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating debug log directory: %w", err)
	}
	f, err := os.Create(opts.File)
	if err != nil {
		return nil, nil, fmt.Errorf("creating debug log: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Debug("debug start", slog.String("log_file", opts.File))

	closeFn := func() error {
		logger.Debug("debug end", slog.Time("time", time.Now()))
		return f.Close()
	}
	return logger, closeFn, nil
}

// Setup installs the logger built from opts as the slog default.
func Setup(opts Options) (func() error, error) {
	logger, closeFn, err := New(opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closeFn, nil
}
