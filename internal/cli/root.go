// Package cli is the taskdeck command line. Without a subcommand it starts
// the terminal UI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"taskdeck/internal/app"
	"taskdeck/internal/config"
	"taskdeck/internal/logging"
	"taskdeck/internal/storage"
	"taskdeck/internal/ui"
)

type Options struct {
	ConfigPath string
	DBPath     string
	LogLevel   string
}

func NewRootCmd() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:           "taskdeck",
		Short:         "Keyboard-driven task tracker for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		Example: strings.TrimSpace(`
  # Start the interactive UI
  taskdeck

  # Scriptable commands
  taskdeck topics
  taskdeck topics add Work
  taskdeck add --topic Work "Ship release" "tag and publish"
  taskdeck tasks --topic Favourites
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", envOr(config.EnvConfig, ""), "Path to config.toml")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "Path to the SQLite database (overrides db_dir and db_filename)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(newTopicsCmd(opts))
	cmd.AddCommand(newTasksCmd(opts))
	cmd.AddCommand(newAddCmd(opts))
	return cmd
}

func runTUI(ctx context.Context, opts *Options) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	s.logger.Info("starting ui", "db", s.dbPath)
	return ui.Run(ctx, s.app, s.cfg)
}

// session is everything a command needs: config, logger, store and the
// loaded App.
type session struct {
	cfg     config.Config
	dbPath  string
	logger  *slog.Logger
	store   *storage.Store
	app     *app.App
	closers []io.Closer
}

func openSession(ctx context.Context, opts *Options) (*session, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	path, err := config.ResolveConfigPath(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger, logCloser, err := logging.New(cfg.LogFile, level)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, logger: logger, closers: []io.Closer{logCloser}}

	s.dbPath = cfg.DBPath()
	if opts.DBPath != "" {
		s.dbPath = opts.DBPath
	}
	store, err := storage.Open(s.dbPath)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	s.store = store
	s.closers = append([]io.Closer{store}, s.closers...)

	a, err := app.New(ctx, store, logger)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.app = a
	return s, nil
}

func (s *session) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
