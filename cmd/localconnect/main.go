package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pbaille/localconnect/internal/config"
	"github.com/pbaille/localconnect/internal/directory"
	"github.com/pbaille/localconnect/internal/i18n"
	"github.com/pbaille/localconnect/internal/logging"
	"github.com/pbaille/localconnect/internal/store"
)

var (
	configPath string
	dbPath     string
	logLevel   string
	noColor    bool
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "localconnect",
		Short:        "Community directory of local professionals",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./localconnect.yaml or ~/.localconnect/localconnect.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "sqlite directory database (enables the database provider)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(browseCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(callCmd())
	rootCmd.AddCommand(favoriteCmd())
	rootCmd.AddCommand(profileCmd())
	rootCmd.AddCommand(passCmd())
	rootCmd.AddCommand(eventsCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(serveCmd())

	return rootCmd
}

// app holds what every command needs once flags and config are resolved
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	tr     *i18n.Translator
	source directory.Source
	store  *store.Store
}

func setup(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	tr, err := i18n.New(cfg.I18n.Locale)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, tr: tr, source: directory.NewStatic()}

	if dbPath != "" {
		cfg.Database.Enabled = true
		cfg.Database.Path = dbPath
	}
	if cfg.Database.Enabled {
		s, err := openStore(ctx, cfg.Database.Path, logger)
		if err != nil {
			return nil, err
		}
		a.store = s
		a.source = s
	}

	return a, nil
}

func openStore(ctx context.Context, path string, logger *zap.Logger) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	s, err := store.New(path)
	if err != nil {
		return nil, err
	}
	seeded, err := s.Seed(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}
	if seeded {
		logger.Info("seeded directory database", zap.String("path", path))
	}
	return s, nil
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	_ = a.logger.Sync()
}
