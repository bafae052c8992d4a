package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/synergyrm/rm-copilot/api/routes"
	"github.com/synergyrm/rm-copilot/internal/actions"
	"github.com/synergyrm/rm-copilot/internal/alerts"
	"github.com/synergyrm/rm-copilot/internal/collector"
	"github.com/synergyrm/rm-copilot/internal/listings"
	"github.com/synergyrm/rm-copilot/internal/performance"
	"github.com/synergyrm/rm-copilot/internal/recommendations"
	"github.com/synergyrm/rm-copilot/pkg/config"
	"github.com/synergyrm/rm-copilot/pkg/db"
	"github.com/synergyrm/rm-copilot/pkg/instance"
	"github.com/synergyrm/rm-copilot/pkg/logger"
	"github.com/synergyrm/rm-copilot/pkg/metrics"
	"github.com/synergyrm/rm-copilot/pkg/migrate"
	"github.com/synergyrm/rm-copilot/pkg/pubsub"
	"github.com/synergyrm/rm-copilot/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	actionsRepo := actions.NewRepository(dbClient.DB())
	actionsService, err := actions.NewService(actionsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create actions service", err)
		os.Exit(1)
	}

	recParams := recommendations.ServiceParams{
		Policy:  recommendations.PolicyFromConfig(cfg),
		Logger:  logg,
		Metrics: metrics.NewRecommendationMetrics(prometheus.DefaultRegisterer),
		Timeout: cfg.Recommendations.AdvisorTimeout,
	}
	if advisor := recommendations.NewOpenAIAdvisor(cfg.OpenAI); advisor != nil {
		recParams.Advisor = advisor
	} else {
		logg.Warn(context.Background(), "openai api key not set; recommendations use the rule-based scorer")
	}
	recService, err := recommendations.NewService(recParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create recommendations service", err)
		os.Exit(1)
	}

	workflow, err := recommendations.NewWorkflow(recommendations.WorkflowParams{
		Listings:    listingsService,
		Generator:   recService,
		Repo:        recommendations.NewRepository(dbClient.DB()),
		ActionsRepo: actionsRepo,
		Tx:          dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create recommendations workflow", err)
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

	collectorParams := collector.ParamsFromConfig(cfg.Collection)
	collectorParams.Store = listingsRepo
	collectorParams.Metrics = metrics.NewCollectionMetrics(prometheus.DefaultRegisterer)
	collectorParams.Logger = logg
	dataCollector, err := collector.New(collectorParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create collector", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			prometheus.DefaultGatherer,
			listingsService,
			alertsService,
			workflow,
			actionsService,
			dataCollector,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}
