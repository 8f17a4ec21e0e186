// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 skbp Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/techydad05/skbp/internal/auth"
	authpg "github.com/techydad05/skbp/internal/auth/postgres"
	"github.com/techydad05/skbp/internal/config"
	"github.com/techydad05/skbp/internal/logging"
	"github.com/techydad05/skbp/internal/observability"
	"github.com/techydad05/skbp/internal/store"
	"github.com/techydad05/skbp/internal/web"
	"github.com/techydad05/skbp/pkg/errutil"
)

// Default values for serve command flags.
const (
	defaultServerAddr    = ":8080"
	defaultMetricsAddr   = "127.0.0.1:9100"
	defaultLogFormat     = "json"
	defaultSweepInterval = time.Hour

	shutdownTimeout = 10 * time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the authentication API server",
		Long: `Start the HTTP server for the authentication API, the observability
endpoints, and the background session sweeper.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "config file path (YAML)")
	cmd.Flags().String("server.addr", defaultServerAddr, "API listen address")
	cmd.Flags().String("server.metrics_addr", defaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("database.url", "", "PostgreSQL connection string (or DATABASE_URL)")
	cmd.Flags().Bool("session.cookie_secure", false, "set the Secure attribute on session cookies")
	cmd.Flags().Duration("session.sweep_interval", defaultSweepInterval, "expired-session sweep interval (0 = disabled)")
	cmd.Flags().String("log.format", defaultLogFormat, "log format (json or text)")

	return cmd
}

// runServe starts the server processes and blocks until shutdown.
func runServe(ctx context.Context, cfg *config.Config) error {
	logging.SetDefault("skbp", version, cfg.Log.Format)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting server",
		"addr", cfg.Server.Addr,
		"metrics_addr", cfg.Server.MetricsAddr,
		"log_format", cfg.Log.Format,
	)

	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	users := authpg.NewUserRepository(pool)
	sessions := authpg.NewSessionRepository(pool)

	svc, err := auth.NewServiceWithLogger(users, sessions, auth.NewArgon2idHasher(), logger)
	if err != nil {
		return err
	}

	// Observability server is optional; readiness follows the pool.
	var metrics *observability.Metrics
	var obs *observability.Server
	var obsErrCh <-chan error
	if cfg.Server.MetricsAddr != "" {
		obs = observability.NewServer(cfg.Server.MetricsAddr, func() bool {
			return pool.Ping(ctx) == nil
		})
		obsErrCh, err = obs.Start()
		if err != nil {
			return err
		}
		metrics = obs.Metrics()
	}

	srv, err := web.NewServer(cfg.Server.Addr, svc, web.Options{
		CookieSecure: cfg.Session.CookieSecure,
		Metrics:      metrics,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	srvErrCh, err := srv.Start()
	if err != nil {
		return err
	}

	if cfg.Session.SweepInterval > 0 {
		var swept func(int64)
		if metrics != nil {
			swept = func(count int64) {
				metrics.SessionsSweptTotal.Add(float64(count))
			}
		}
		sweeper, err := auth.NewSweeper(sessions, cfg.Session.SweepInterval, logger, swept)
		if err != nil {
			return err
		}
		go sweeper.Run(ctx)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-srvErrCh:
		if err != nil {
			errutil.LogError(logger, "web server failed", err)
		}
	case err := <-obsErrCh:
		if err != nil {
			errutil.LogError(logger, "observability server failed", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		errutil.LogError(logger, "web server shutdown failed", err)
	}
	if obs != nil {
		if err := obs.Stop(shutdownCtx); err != nil {
			errutil.LogError(logger, "observability server shutdown failed", err)
		}
	}

	logger.Info("server stopped")
	return nil
}
