package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/synergyrm/rm-copilot/api/responses"
	"github.com/synergyrm/rm-copilot/api/validators"
	"github.com/synergyrm/rm-copilot/internal/actions"
	pkgerrors "github.com/synergyrm/rm-copilot/pkg/errors"
	"github.com/synergyrm/rm-copilot/pkg/logger"
)

type createActionRequest struct {
	ListingID  int64           `json:"listingId" validate:"required,gt=0"`
	ActionType string          `json:"actionType" validate:"required"`
	ActionData json.RawMessage `json:"actionData"`
	Result     string          `json:"result"`
}

func ActionCreate(svc actions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "actions service unavailable"))
			return
		}
		var req createActionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		action, err := svc.Log(r.Context(), actions.LogInput{
			ListingID:  req.ListingID,
			ActionType: req.ActionType,
			Data:       req.ActionData,
			Result:     req.Result,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toActionResponse(*action))
	}
}

// ListingActions returns the newest actions recorded against a listing.
func ListingActions(svc actions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "actions service unavailable"))
			return
		}
		id, err := validators.ParsePathID(r, listingIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.List(r.Context(), id, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		out := make([]actionResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, toActionResponse(row))
		}
		responses.WriteSuccess(w, out)
	}
}
