// Bookpath - Children's Reading Log and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookpath

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/bookpath/internal/api"
	"github.com/tomtom215/bookpath/internal/config"
	"github.com/tomtom215/bookpath/internal/database"
	"github.com/tomtom215/bookpath/internal/logging"
	"github.com/tomtom215/bookpath/internal/supervisor"
	"github.com/tomtom215/bookpath/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Bookpath stopped with an error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level})
	logger := logging.Logger()

	logger.Info().
		Str("driver", cfg.Storage.Driver).
		Bool("catalog_enabled", cfg.Catalog.Enabled()).
		Bool("llm_enabled", cfg.LLM.Enabled()).
		Msg("Starting Bookpath")

	db, err := database.New(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing database")
		}
	}()
	logger.Info().Str("driver", db.Driver()).Msg("Database initialized")

	components, err := buildComponents(cfg, db, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := components.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing catalog cache")
		}
	}()

	router := api.NewRouter(components.Handler, middlewareConfig(cfg))
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create supervisor tree: %w", err)
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddWorkerService(components.MemoWorker)
	logger.Info().Str("addr", server.Addr).Msg("HTTP server and memo worker added to supervisor tree")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	if pending := components.MemoWorker.Pending(); pending > 0 {
		logger.Warn().Int("pending", pending).Msg("Memo summaries not processed before shutdown")
	}

	logger.Info().Msg("Bookpath stopped gracefully")
	return nil
}
