package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/synergyrm/rm-copilot/pkg/logger"
)

const defaultRetentionDays = 365

type RetentionJobParams struct {
	Logger     *logger.Logger
	Repository statsPruner
	Retention  int
}

type statsPruner interface {
	DeleteStatsBefore(ctx context.Context, cutoff time.Time) (int64, int64, error)
}

// NewRetentionJob prunes nightly and market stats older than the retention
// window.
func NewRetentionJob(params RetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Repository == nil {
		return nil, errors.New("stats repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultRetentionDays
	}
	return &retentionJob{
		logg:      params.Logger,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type retentionJob struct {
	logg      *logger.Logger
	repo      statsPruner
	retention int
	now       func() time.Time
}

func (j *retentionJob) Name() string { return "stats-retention" }

func (j *retentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().AddDate(0, 0, -j.retention)
	nightly, market, err := j.repo.DeleteStatsBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("stats retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"nightly_pruned": nightly,
		"market_pruned":  market,
	})
	j.logg.Info(logCtx, "stats retention complete")
	return nil
}
