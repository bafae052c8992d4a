package alerts

import (
	"context"
	"time"

	"github.com/synergyrm/rm-copilot/internal/performance"
	pkgerrors "github.com/synergyrm/rm-copilot/pkg/errors"
	"github.com/synergyrm/rm-copilot/pkg/logger"
	"github.com/synergyrm/rm-copilot/pkg/metrics"
	"github.com/synergyrm/rm-copilot/pkg/redis"
)

const cacheScope = "alerts"

type bundleSource interface {
	Bundles(ctx context.Context) ([]performance.ListingBundle, error)
}

// Service runs performance scans over every active listing.
type Service interface {
	// Current returns the cached scan when fresh, otherwise scans.
	Current(ctx context.Context) ([]performance.Alert, error)
	// Scan evaluates all listings, refreshes the cache and fans out urgent
	// alerts when a publisher is configured.
	Scan(ctx context.Context) ([]performance.Alert, error)
}

type ServiceParams struct {
	Bundles   bundleSource
	Engine    *performance.Engine
	Cache     redis.Cache
	CacheTTL  time.Duration
	Publisher Publisher
	Metrics   *metrics.AlertMetrics
	Logger    *logger.Logger
}

type service struct {
	bundles   bundleSource
	engine    *performance.Engine
	cache     redis.Cache
	ttl       time.Duration
	publisher Publisher
	metrics   *metrics.AlertMetrics
	logg      *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Bundles == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "alerts bundle source required")
	case params.Engine == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "alerts engine required")
	case params.Logger == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "alerts logger required")
	}
	return &service{
		bundles:   params.Bundles,
		engine:    params.Engine,
		cache:     params.Cache,
		ttl:       params.CacheTTL,
		publisher: params.Publisher,
		metrics:   params.Metrics,
		logg:      params.Logger,
	}, nil
}

func (s *service) Current(ctx context.Context) ([]performance.Alert, error) {
	if s.cache != nil && s.ttl > 0 {
		var cached []performance.Alert
		hit, err := s.cache.GetJSON(ctx, s.cacheKey(), &cached)
		if err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "alerts cache read failed")
		}
		if hit {
			return cached, nil
		}
	}
	return s.evaluate(ctx)
}

func (s *service) Scan(ctx context.Context) ([]performance.Alert, error) {
	alerts, err := s.evaluate(ctx)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, alerts)
	return alerts, nil
}

func (s *service) evaluate(ctx context.Context) ([]performance.Alert, error) {
	bundles, err := s.bundles.Bundles(ctx)
	if err != nil {
		return nil, err
	}
	alerts, err := s.engine.CheckPerformanceAlerts(bundles)
	if err != nil {
		return nil, err
	}
	for _, a := range alerts {
		s.metrics.IncGenerated(string(a.AlertType), string(a.Severity))
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.SetJSON(ctx, s.cacheKey(), alerts, s.ttl); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "alerts cache write failed")
		}
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"listings": len(bundles),
		"alerts":   len(alerts),
	}), "performance scan complete")
	return alerts, nil
}

func (s *service) publish(ctx context.Context, alerts []performance.Alert) {
	if s.publisher == nil || len(alerts) == 0 {
		return
	}
	published, err := s.publisher.Publish(ctx, alerts)
	for i := 0; i < published; i++ {
		s.metrics.IncPublished(true)
	}
	if err != nil {
		s.metrics.IncPublished(false)
		s.logg.Error(ctx, "alert fan-out incomplete", err)
	}
}

func (s *service) cacheKey() string {
	return s.cache.CacheKey(cacheScope, "current")
}
