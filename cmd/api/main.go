package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/scoutdeskhq/scoutdesk-backend/api/routes"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/audit"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/deletion"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/moderation"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/notify"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/owners"
	"github.com/scoutdeskhq/scoutdesk-backend/internal/sources"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/config"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/db"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/docstore"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/logger"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/metrics"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/migrate"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/pubsub"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/redis"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/sms"
	"github.com/scoutdeskhq/scoutdesk-backend/pkg/storage/supabase"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	storageClient, err := supabase.NewClient(ctx, cfg.Storage, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap object storage", err)
		os.Exit(1)
	}

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}()

	var sender sms.Sender
	if smsClient, smsErr := sms.NewClient(cfg.SMS); smsErr != nil {
		logg.Warn(ctx, "sms gateway not configured, notifications fall back to chat links: "+smsErr.Error())
		sender = (*sms.Client)(nil)
	} else {
		sender = smsClient
	}

	moderationMetrics := metrics.NewModerationMetrics(prometheus.DefaultRegisterer)
	documents := docstore.NewGormStore(dbClient.DB())

	adapters := []sources.Adapter{
		sources.NewDocumentAdapter(documents, cfg.Moderation.OwnerCollections, cfg.Moderation.StorageURLMarkers, logg),
		sources.NewVideoStorageAdapter(storageClient, cfg.Storage.VideoBucket, logg),
		sources.NewImageStorageAdapter(storageClient, cfg.Storage.ImageBuckets, logg),
	}

	session := moderation.NewSession(adapters, moderationMetrics, logg)
	defer session.Close()
	if err := session.RefreshAll(ctx); err != nil {
		logg.Warn(ctx, "initial aggregation pass degraded: "+err.Error())
	}

	auditService := audit.NewService(audit.NewRepo(dbClient.DB()), logg)
	moderationService := moderation.NewService(session, documents, auditService, moderationMetrics, logg, cfg.Moderation.PageSize)
	notifier := notify.NewDispatcher(sender, auditService, moderationMetrics, logg)
	deletionService := deletion.NewService(session, documents, storageClient, auditService, notifier, moderationMetrics, logg)

	watcher := owners.NewWatcher(
		session,
		storageClient,
		cfg.Moderation.WatchCollections,
		cfg.Storage.VideoBucket,
		cfg.Storage.ImageBuckets,
		logg,
	)
	watchCtx, stopWatcher := context.WithCancel(ctx)
	session.OnClose(stopWatcher)
	go func() {
		if err := watcher.Run(watchCtx, pubsubClient.OwnerEventsSubscription()); err != nil && watchCtx.Err() == nil {
			logg.Error(watchCtx, "owner events watcher stopped unexpectedly", err)
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			storageClient,
			pubsubClient,
			moderationService,
			deletionService,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(startCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(startCtx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(startCtx, "graceful shutdown failed", err)
		}
	}
}
