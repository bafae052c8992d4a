package controllers

import (
	"net/http"

	"github.com/synergyrm/rm-copilot/api/responses"
	"github.com/synergyrm/rm-copilot/internal/alerts"
	"github.com/synergyrm/rm-copilot/internal/performance"
	pkgerrors "github.com/synergyrm/rm-copilot/pkg/errors"
	"github.com/synergyrm/rm-copilot/pkg/logger"
)

// Alerts returns the current portfolio alerts, most urgent first.
func Alerts(svc alerts.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "alerts service unavailable"))
			return
		}
		found, err := svc.Current(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if found == nil {
			found = []performance.Alert{}
		}
		responses.WriteSuccess(w, found)
	}
}
