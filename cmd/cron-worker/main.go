package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/synergyrm/rm-copilot/internal/alerts"
	"github.com/synergyrm/rm-copilot/internal/collector"
	"github.com/synergyrm/rm-copilot/internal/cron"
	"github.com/synergyrm/rm-copilot/internal/listings"
	"github.com/synergyrm/rm-copilot/internal/performance"
	"github.com/synergyrm/rm-copilot/pkg/config"
	"github.com/synergyrm/rm-copilot/pkg/db"
	"github.com/synergyrm/rm-copilot/pkg/instance"
	"github.com/synergyrm/rm-copilot/pkg/logger"
	"github.com/synergyrm/rm-copilot/pkg/metrics"
	"github.com/synergyrm/rm-copilot/pkg/migrate"
	"github.com/synergyrm/rm-copilot/pkg/pubsub"
	"github.com/synergyrm/rm-copilot/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	listingsRepo := listings.NewRepository(dbClient.DB())
	listingsService, err := listings.NewService(listings.ParamsFromConfig(listingsRepo, cfg))
	if err != nil {
		logg.Error(context.Background(), "failed to create listings service", err)
		os.Exit(1)
	}

	collectorParams := collector.ParamsFromConfig(cfg.Collection)
	collectorParams.Store = listingsRepo
	collectorParams.Metrics = metrics.NewCollectionMetrics(prometheus.DefaultRegisterer)
	collectorParams.Logger = logg
	dataCollector, err := collector.New(collectorParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create collector", err)
		os.Exit(1)
	}

	alertParams := alerts.ServiceParams{
		Bundles:  listingsService,
		Engine:   performance.NewEngine(performance.ThresholdsFromConfig(cfg.Alerts), nil),
		Cache:    redisClient,
		CacheTTL: cfg.Alerts.CacheTTL,
		Metrics:  metrics.NewAlertMetrics(prometheus.DefaultRegisterer),
		Logger:   logg,
	}
	if cfg.PubSub.Enabled(cfg.GCP) {
		psClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := psClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		if publisher := alerts.NewPubSubPublisher(psClient.AlertsPublisher()); publisher != nil {
			alertParams.Publisher = publisher
		}
	}
	alertsService, err := alerts.NewService(alertParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create alerts service", err)
		os.Exit(1)
	}

	collectionJob, err := cron.NewCollectionJob(cron.CollectionJobParams{
		Logger:    logg,
		Collector: dataCollector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create collection job", err)
		os.Exit(1)
	}
	alertScanJob, err := cron.NewAlertScanJob(cron.AlertScanJobParams{
		Logger:  logg,
		Scanner: alertsService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create alert scan job", err)
		os.Exit(1)
	}
	retentionJob, err := cron.NewRetentionJob(cron.RetentionJobParams{
		Logger:     logg,
		Repository: listingsRepo,
		Retention:  cfg.Collection.RetentionDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create retention job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey(cron.LockName), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create cron lock", err)
		os.Exit(1)
	}

	// Collection first so the scan sees fresh stats.
	registry, err := cron.NewRegistry(collectionJob, alertScanJob, retentionJob)
	if err != nil {
		logg.Error(context.Background(), "failed to register cron jobs", err)
		os.Exit(1)
	}
	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Schedule: cfg.Collection.Schedule,
		Timezone: cfg.Collection.Timezone,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"instance":    instance.GetID(),
	})
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
}
