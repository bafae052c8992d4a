package controllers

import (
	"net/http"

	"github.com/synergyrm/rm-copilot/api/responses"
	"github.com/synergyrm/rm-copilot/api/validators"
	"github.com/synergyrm/rm-copilot/internal/listings"
	pkgerrors "github.com/synergyrm/rm-copilot/pkg/errors"
	"github.com/synergyrm/rm-copilot/pkg/logger"
)

const listingIDParam = "listingId"

type createListingRequest struct {
	Name         string   `json:"name" validate:"required,max=200"`
	Location     string   `json:"location" validate:"required,max=200"`
	Bedrooms     int      `json:"bedrooms" validate:"gte=0,max=50"`
	Bathrooms    int      `json:"bathrooms" validate:"gte=0,max=50"`
	MaxGuests    int      `json:"maxGuests" validate:"gte=1,max=100"`
	CurrentPrice *float64 `json:"currentPrice" validate:"omitempty,gt=0"`
	ImageURL     *string  `json:"imageUrl" validate:"omitempty,url"`
	WheelhouseID *string  `json:"wheelhouseId" validate:"omitempty,max=100"`
	GuestyID     *string  `json:"guestyId" validate:"omitempty,max=100"`
}

// Dashboard returns portfolio totals and one summary row per active listing.
func Dashboard(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}
		dashboard, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toDashboardResponse(dashboard))
	}
}

// ListingDetail returns one listing with its recent stats, market rows and
// latest stored recommendations.
func ListingDetail(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}
		id, err := validators.ParsePathID(r, listingIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithListingID(ctx, id)
		}
		detail, err := svc.Detail(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, toDetailResponse(detail))
	}
}

func ListingCreate(svc listings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listings service unavailable"))
			return
		}
		var req createListingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listing, err := svc.Create(r.Context(), listings.CreateInput{
			Name:         validators.SanitizeString(req.Name, 200),
			Location:     validators.SanitizeString(req.Location, 200),
			Bedrooms:     req.Bedrooms,
			Bathrooms:    req.Bathrooms,
			MaxGuests:    req.MaxGuests,
			CurrentPrice: req.CurrentPrice,
			ImageURL:     req.ImageURL,
			WheelhouseID: req.WheelhouseID,
			GuestyID:     req.GuestyID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, toListingResponse(*listing))
	}
}
