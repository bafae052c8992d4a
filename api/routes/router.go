package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/synergyrm/rm-copilot/api/controllers"
	"github.com/synergyrm/rm-copilot/api/middleware"
	"github.com/synergyrm/rm-copilot/internal/actions"
	"github.com/synergyrm/rm-copilot/internal/alerts"
	"github.com/synergyrm/rm-copilot/internal/collector"
	"github.com/synergyrm/rm-copilot/internal/listings"
	"github.com/synergyrm/rm-copilot/internal/recommendations"
	"github.com/synergyrm/rm-copilot/pkg/config"
	"github.com/synergyrm/rm-copilot/pkg/db"
	"github.com/synergyrm/rm-copilot/pkg/logger"
)

// redisDeps is the slice of the Redis client the HTTP surface needs.
type redisDeps interface {
	Ping(ctx context.Context) error
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

type adminCollector interface {
	Run(ctx context.Context) (collector.Result, error)
	SyncListings(ctx context.Context) (collector.SyncResult, error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient redisDeps,
	gatherer prometheus.Gatherer,
	listingsService listings.Service,
	alertsService alerts.Service,
	workflow recommendations.Workflow,
	actionsService actions.Service,
	dataCollector adminCollector,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	adminPolicy := middleware.NewRateLimitPolicy(
		"admin",
		cfg.AdminRateLimit.Window,
		cfg.AdminRateLimit.Limit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", controllers.Dashboard(listingsService, logg))
		r.Get("/alerts", controllers.Alerts(alertsService, logg))
		r.Post("/actions", controllers.ActionCreate(actionsService, logg))

		r.Route("/listings", func(r chi.Router) {
			r.Post("/", controllers.ListingCreate(listingsService, logg))
			r.Get("/{listingId}", controllers.ListingDetail(listingsService, logg))
			r.Get("/{listingId}/actions", controllers.ListingActions(actionsService, logg))
		})

		r.Route("/ai", func(r chi.Router) {
			r.Post("/suggest", controllers.AISuggest(workflow, logg))
			r.Post("/apply/{recId}", controllers.AIApply(workflow, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RateLimit(adminPolicy, redisClient, logg))
			r.Post("/syncListings", controllers.AdminSyncListings(dataCollector, logg))
			r.Post("/refreshNow", controllers.AdminRefreshNow(dataCollector, cfg.Collection.ManualRefreshTimeout, logg))
		})
	})

	return r
}
