// Marquee - Content-Based Movie and Book Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package main is the entry point for the Marquee recommendation server.
//
// Marquee answers "more like this" queries for movies and books from
// precomputed similarity matrices, and decorates movie results with poster
// URLs from OMDb.
//
// # Startup
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Artifacts: fetch missing remote artifacts, then load every enabled
//     domain; any LoadError aborts startup
//  3. Query path: ranking engine, poster enricher, query service
//  4. HTTP server and optional artifact reload, run under a suture tree
//
// # Configuration
//
//   - ARTIFACTS_DIR: directory holding the artifacts (default: ./data)
//   - OMDB_API_KEY: enables poster enrichment
//   - ARTIFACTS_RELOAD_INTERVAL: reload artifacts when they change (default: off)
//   - HTTP_PORT: listen port (default: 8080)
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server drains
// in-flight requests for up to SHUTDOWN_TIMEOUT before the process exits.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/marquee/internal/api"
	"github.com/tomtom215/marquee/internal/bootstrap"
	"github.com/tomtom215/marquee/internal/catalog"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/supervisor"
	"github.com/tomtom215/marquee/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logger := logging.Logger()
	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("artifacts_dir", cfg.Artifacts.Dir).
		Msg("Starting Marquee with supervisor tree")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Artifacts must be fully loaded before the server accepts traffic.
	store, err := bootstrap.LoadStore(ctx, cfg, logger)
	if err != nil {
		var le *catalog.LoadError
		if errors.As(err, &le) {
			logging.Fatal().
				Str("domain", le.Domain).
				Str("artifact", le.Artifact).
				Str("path", le.Path).
				Err(le.Err).
				Msg("Failed to load artifacts")
		}
		logging.Fatal().Err(err).Msg("Failed to load artifacts")
	}
	holder := catalog.NewHolder(store)

	components := initRecommend(cfg, holder, logger)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// === DATA LAYER ===
	if cfg.Artifacts.ReloadInterval > 0 {
		reload := services.NewReloadService(
			bootstrap.NewReloader(cfg, logger),
			holder,
			services.ReloadServiceConfig{Interval: cfg.Artifacts.ReloadInterval},
			logger,
		)
		tree.AddDataService(reload)
		logging.Info().Dur("interval", cfg.Artifacts.ReloadInterval).Msg("Artifact reload service added")
	}

	// === API LAYER ===
	handler := api.NewHandler(components.Query, holder)
	router := api.NewRouter(handler, middlewareConfig(cfg))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	stats := components.Engine.Stats()
	logging.Info().
		Int64("queries", stats.Queries).
		Int64("unresolved", stats.Unresolved).
		Msg("Application stopped gracefully")
}
