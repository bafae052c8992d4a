package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/synergyrm/rm-copilot/api/responses"
	"github.com/synergyrm/rm-copilot/api/validators"
	"github.com/synergyrm/rm-copilot/internal/recommendations"
	pkgerrors "github.com/synergyrm/rm-copilot/pkg/errors"
	"github.com/synergyrm/rm-copilot/pkg/logger"
)

const recommendationIDParam = "recId"

type suggestRequest struct {
	ListingID int64 `json:"listingId"`
}

// AISuggest generates and stores recommendations for one listing. A missing
// listingId (including an empty body) is an invalid request.
func AISuggest(workflow recommendations.Workflow, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if workflow == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recommendations unavailable"))
			return
		}
		var req suggestRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil && req.ListingID > 0 {
			ctx = logg.WithListingID(ctx, req.ListingID)
		}
		result, err := workflow.Suggest(ctx, req.ListingID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// AIApply marks a stored recommendation applied and records the action.
func AIApply(workflow recommendations.Workflow, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if workflow == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "recommendations unavailable"))
			return
		}
		id, err := validators.ParsePathID(r, recommendationIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rec, err := workflow.Apply(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toRecommendationResponse(*rec))
	}
}
