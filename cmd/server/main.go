// Hemat - Receipt Analytics and Purchase Recommendation Engine
// Copyright 2026 Hemat Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hematlabs/hemat

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hematlabs/hemat/internal/api"
	"github.com/hematlabs/hemat/internal/auth"
	"github.com/hematlabs/hemat/internal/cohort"
	"github.com/hematlabs/hemat/internal/config"
	"github.com/hematlabs/hemat/internal/extract"
	"github.com/hematlabs/hemat/internal/logging"
	"github.com/hematlabs/hemat/internal/pipeline"
	"github.com/hematlabs/hemat/internal/rfm"
	"github.com/hematlabs/hemat/internal/store"
	"github.com/hematlabs/hemat/internal/supervisor"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logger := logging.Logger()

	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("ledger", cfg.Ledger.Path).
		Int("port", cfg.Server.Port).
		Msg("starting hemat")

	manager, err := auth.NewManager(cfg.Security.JWTSecret, cfg.Security.SessionTimeout)
	if err != nil {
		return fmt.Errorf("auth manager: %w", err)
	}

	extractor := extract.NewHTTPClient(extract.Config{
		BaseURL:           cfg.Extract.URL,
		APIKey:            cfg.Extract.APIKey,
		Timeout:           cfg.Extract.Timeout,
		RequestsPerSecond: cfg.Extract.RequestsPerSecond,
		Burst:             cfg.Extract.Burst,
	}, logger)

	var archive *store.ReceiptArchive
	if cfg.Archive.Enabled {
		archive, err = store.Open(cfg.Archive.Path, logger)
		if err != nil {
			return fmt.Errorf("open receipt archive: %w", err)
		}
		defer func() {
			if err := archive.Close(); err != nil {
				logger.Error().Err(err).Msg("failed to close receipt archive")
			}
		}()
	}

	orchestrator := pipeline.New(pipeline.Config{
		DatasetPath:    cfg.Ledger.Path,
		ExtractRetries: cfg.Recommend.ExtractRetries,
		RFM:            rfm.DefaultConfig(),
		Recommend: cohort.Config{
			NumRecommendations: cfg.Recommend.NumRecommendations,
			TargetUID:          cfg.Recommend.TargetUID,
		},
	}, extractor, archive, logger)

	handler := api.NewHandler(api.HandlerConfig{
		LedgerPath:       cfg.Ledger.Path,
		DefaultLongitude: cfg.Server.DefaultLongitude,
		DefaultLatitude:  cfg.Server.DefaultLatitude,
	}, orchestrator, archiveOrNil(archive), logger)

	router := api.NewRouter(api.RouterConfig{
		CORSOrigins:     cfg.Server.CORSOrigins,
		RateLimitReqs:   cfg.Server.RateLimitReqs,
		RateLimitWindow: cfg.Server.RateLimitWindow,
	}, handler, auth.NewMiddleware(manager, logger))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(supervisor.NewHTTPServerService(server, cfg.Server.Timeout))
	if archive != nil {
		tree.AddStorageService(supervisor.NewArchiveGCService(archive, cfg.Archive.GCInterval, logger))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", server.Addr).Msg("hemat ready")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info().Msg("hemat stopped")
	return nil
}

// archiveOrNil keeps the handler's Archive interface nil when archiving
// is disabled; a typed nil pointer would defeat the handler's nil check.
func archiveOrNil(archive *store.ReceiptArchive) api.Archive {
	if archive == nil {
		return nil
	}
	return archive
}
