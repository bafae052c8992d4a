package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/synergyrm/rm-copilot/api/responses"
	"github.com/synergyrm/rm-copilot/internal/collector"
	pkgerrors "github.com/synergyrm/rm-copilot/pkg/errors"
	"github.com/synergyrm/rm-copilot/pkg/logger"
)

const defaultRefreshTimeout = 5 * time.Minute

type listingSyncer interface {
	SyncListings(ctx context.Context) (collector.SyncResult, error)
}

type collectionRunner interface {
	Run(ctx context.Context) (collector.Result, error)
}

type refreshResponse struct {
	collector.Result
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// AdminSyncListings imports the listings feed, upserting by Wheelhouse id.
func AdminSyncListings(syncer listingSyncer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if syncer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "collector unavailable"))
			return
		}
		result, err := syncer.SyncListings(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync listings"))
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminRefreshNow runs one collection pass synchronously. Source failures
// that still left rows stored are reported as a partial refresh.
func AdminRefreshNow(runner collectionRunner, timeout time.Duration, logg *logger.Logger) http.HandlerFunc {
	if timeout <= 0 {
		timeout = defaultRefreshTimeout
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if runner == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "collector unavailable"))
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		result, err := runner.Run(ctx)
		resp := refreshResponse{Result: result, Status: "completed"}
		if err != nil {
			if result.NightlyRows+result.MarketRows == 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "manual refresh"))
				return
			}
			resp.Status = "partial"
			resp.Error = err.Error()
			if logg != nil {
				logg.Warn(logg.WithField(r.Context(), "failures", result.Failures), "manual refresh finished with source failures")
			}
		}
		responses.WriteSuccess(w, resp)
	}
}
