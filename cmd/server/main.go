// APWatch - Wireless Access Point Fleet Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/apwatch

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tomtom215/apwatch/internal/api"
	"github.com/tomtom215/apwatch/internal/config"
	"github.com/tomtom215/apwatch/internal/database"
	"github.com/tomtom215/apwatch/internal/gdms"
	"github.com/tomtom215/apwatch/internal/logging"
	"github.com/tomtom215/apwatch/internal/models"
	"github.com/tomtom215/apwatch/internal/stream"
	"github.com/tomtom215/apwatch/internal/supervisor"
	"github.com/tomtom215/apwatch/internal/supervisor/services"
	"github.com/tomtom215/apwatch/internal/sync"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("APWatch stopped with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("token_store", cfg.Database.TokenStore).
		Bool("gdms_configured", cfg.GDMS.Configured()).
		Bool("sync_enabled", cfg.Sync.Enabled).
		Msg("Starting APWatch")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  shutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	var tokenStore gdms.TokenStore = db
	if cfg.Database.TokenStore == "badger" {
		badgerStore, err := database.OpenBadgerTokenStore(cfg.Database.BadgerPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := badgerStore.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing badger token store")
			}
		}()
		tokenStore = badgerStore
		tree.AddDataService(services.NewBadgerGCService(badgerStore, services.DefaultBadgerGCInterval))
	}

	httpClient := &http.Client{Timeout: cfg.GDMS.Timeout}
	tokens := gdms.NewTokenCache(gdms.TokenCacheConfig{
		OAuthURL:     cfg.GDMS.OAuthURL,
		ClientID:     cfg.GDMS.ApplicationID(),
		ClientSecret: cfg.GDMS.SharedSecret(),
		Skew:         cfg.GDMS.TokenSkew,
	}, tokenStore, httpClient)
	client := gdms.NewClient(gdms.ClientConfig{
		BaseURL:   cfg.GDMS.BaseURL,
		AppID:     cfg.GDMS.ApplicationID(),
		Secret:    cfg.GDMS.SharedSecret(),
		PageSize:  cfg.GDMS.PageSize,
		Show:      cfg.GDMS.Show,
		Timeout:   cfg.GDMS.Timeout,
		RateLimit: cfg.GDMS.RateLimit,
		RateBurst: cfg.GDMS.RateBurst,
	}, tokens, httpClient)

	hub := stream.NewHub(cfg.Stream.HeartbeatInterval)
	engine := sync.NewEngine(db, client, hub)

	mode, err := models.ParseSyncMode(cfg.Sync.Mode)
	if err != nil {
		return err
	}
	scheduler := sync.NewScheduler(engine, sync.SchedulerConfig{
		Mode:     mode,
		Interval: cfg.Sync.Interval,
		OnStart:  cfg.Sync.OnStart,
	})

	tree.AddMessagingService(services.NewStreamHubService(hub))
	switch {
	case !cfg.Sync.Enabled:
		logging.Info().Msg("Periodic sync disabled")
	case !cfg.GDMS.Configured():
		logging.Warn().Msg("GDMS credentials not configured, periodic sync not started")
	default:
		tree.AddMessagingService(services.NewSyncSchedulerService(scheduler))
	}

	handler := api.NewHandler(db, engine, scheduler, tokens, hub, cfg)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))

	// No WriteTimeout: /events and /ws are long-lived.
	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Supervisor tree starting")
	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}
	logging.Info().Msg("APWatch stopped")
	return nil
}
