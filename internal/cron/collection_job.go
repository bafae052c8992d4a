package cron

import (
	"context"
	"errors"
	"fmt"

	"github.com/synergyrm/rm-copilot/internal/collector"
	"github.com/synergyrm/rm-copilot/pkg/logger"
)

type collectionRunner interface {
	Run(ctx context.Context) (collector.Result, error)
}

type CollectionJobParams struct {
	Logger    *logger.Logger
	Collector collectionRunner
}

// NewCollectionJob wraps one collector pass. Partial source failures are
// logged; the job only fails when nothing at all was stored.
func NewCollectionJob(params CollectionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Collector == nil {
		return nil, errors.New("collector required")
	}
	return &collectionJob{logg: params.Logger, collector: params.Collector}, nil
}

type collectionJob struct {
	logg      *logger.Logger
	collector collectionRunner
}

func (j *collectionJob) Name() string { return "data-collection" }

func (j *collectionJob) Run(ctx context.Context) error {
	result, err := j.collector.Run(ctx)
	if err == nil {
		return nil
	}
	if result.NightlyRows+result.MarketRows == 0 {
		return fmt.Errorf("data collection: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"failures":     result.Failures,
		"nightly_rows": result.NightlyRows,
		"market_rows":  result.MarketRows,
		"error":        err.Error(),
	})
	j.logg.Warn(logCtx, "data collection finished with source failures")
	return nil
}
