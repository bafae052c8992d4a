package cron

import (
	"context"
	"errors"
	"fmt"

	"github.com/synergyrm/rm-copilot/internal/performance"
	"github.com/synergyrm/rm-copilot/pkg/enums"
	"github.com/synergyrm/rm-copilot/pkg/logger"
)

type alertScanner interface {
	Scan(ctx context.Context) ([]performance.Alert, error)
}

type AlertScanJobParams struct {
	Logger  *logger.Logger
	Scanner alertScanner
}

// NewAlertScanJob re-evaluates the portfolio after fresh stats land so the
// cached alert list and any subscribers see the new data.
func NewAlertScanJob(params AlertScanJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	if params.Scanner == nil {
		return nil, errors.New("alert scanner required")
	}
	return &alertScanJob{logg: params.Logger, scanner: params.Scanner}, nil
}

type alertScanJob struct {
	logg    *logger.Logger
	scanner alertScanner
}

func (j *alertScanJob) Name() string { return "alert-scan" }

func (j *alertScanJob) Run(ctx context.Context) error {
	found, err := j.scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("alert scan: %w", err)
	}
	urgent := 0
	for _, a := range found {
		if a.Severity.AtLeast(enums.SeverityHigh) {
			urgent++
		}
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"alerts":        len(found),
		"urgent_alerts": urgent,
	}), "alert scan complete")
	return nil
}
