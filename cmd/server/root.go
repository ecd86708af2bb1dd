package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"icare/internal/app"
	"icare/internal/config"
	internaldb "icare/internal/db"
)

// env bundles what every subcommand needs after startup.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
	pool   *internaldb.Pool
}

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "icare",
		Short:         "ICare clinic and storefront API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	cmd.AddCommand(newServeCmd(&envFile))
	cmd.AddCommand(newMigrateCmd(&envFile))
	cmd.AddCommand(newSeedCmd(&envFile))
	cmd.AddCommand(newTokenCmd(&envFile))
	cmd.AddCommand(newCommandsCmd())
	return cmd
}

// setup loads config, builds the logger and opens a migrated datastore.
func setup(ctx context.Context, envFile string, migrate bool) (*env, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}

	pool, err := internaldb.Open(ctx, cfg.DBPath, cfg.DBReadConns)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := internaldb.RunMigrations(ctx, pool.Write, logger); err != nil {
			_ = pool.Close()
			return nil, err
		}
	}
	return &env{cfg: cfg, logger: logger, pool: pool}, nil
}

func (e *env) app(ctx context.Context) (*app.App, error) {
	return app.New(ctx, app.Deps{Cfg: e.cfg, Pool: e.pool, Logger: e.logger})
}

func (e *env) close() {
	if err := e.pool.Close(); err != nil {
		e.logger.Warn("close datastore", "error", err)
	}
}
