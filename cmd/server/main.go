// Kinoscope - Movie and TV Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinoscope

// Command server runs the recommendation HTTP service.
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

	"github.com/tomtom215/kinoscope/internal/api"
	"github.com/tomtom215/kinoscope/internal/config"
	"github.com/tomtom215/kinoscope/internal/logging"
	"github.com/tomtom215/kinoscope/internal/recommend"
	"github.com/tomtom215/kinoscope/internal/store"
	"github.com/tomtom215/kinoscope/internal/tmdb"
)

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A store load failure is logged once; the engine then runs permanently
	// in degraded mode and every query takes the external path.
	st, err := store.Load(cfg.Store.CatalogPath, cfg.Store.SimilarityPath)
	if err != nil {
		logging.Warn().Err(err).
			Str("catalog", cfg.Store.CatalogPath).
			Str("similarity", cfg.Store.SimilarityPath).
			Msg("similarity store unavailable, running in degraded mode")
		st = store.Empty()
	} else {
		logging.Info().Int("entries", st.Len()).Msg("similarity store loaded")
	}

	client := tmdb.NewBreakerClient(tmdb.NewClient(cfg.TMDB))
	if !client.Configured() {
		logging.Warn().Msg("no TMDB API key configured, external catalog disabled")
	}

	engine := recommend.NewEngine(st, client, cfg.Recommend)
	handler := api.NewHandler(engine, st, client, cfg.Server.RequestTimeout)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler, cfg.API),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.RequestTimeout,
		WriteTimeout:      cfg.Server.RequestTimeout,
		IdleTimeout:       2 * cfg.Server.RequestTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Str("environment", cfg.Server.Environment).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logging.Info().Msg("server stopped")
	return nil
}
