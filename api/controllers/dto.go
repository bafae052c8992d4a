package controllers

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/synergyrm/rm-copilot/internal/listings"
	"github.com/synergyrm/rm-copilot/internal/performance"
	"github.com/synergyrm/rm-copilot/pkg/db/models"
	"github.com/synergyrm/rm-copilot/pkg/enums"
)

type listingResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Location     string    `json:"location"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	MaxGuests    int       `json:"maxGuests"`
	ImageURL     *string   `json:"imageUrl,omitempty"`
	WheelhouseID *string   `json:"wheelhouseId,omitempty"`
	GuestyID     *string   `json:"guestyId,omitempty"`
	CurrentPrice *float64  `json:"currentPrice"`
	IsActive     bool      `json:"isActive"`
	City         *string   `json:"city,omitempty"`
	BedroomCount *int      `json:"bedroomCount,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toListingResponse(l models.Listing) listingResponse {
	return listingResponse{
		ID:           l.ID,
		Name:         l.Name,
		Location:     l.Location,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		MaxGuests:    l.MaxGuests,
		ImageURL:     l.ImageURL,
		WheelhouseID: l.WheelhouseID,
		GuestyID:     l.GuestyID,
		CurrentPrice: floatOrNil(l.CurrentPrice),
		IsActive:     l.IsActive,
		City:         l.City,
		BedroomCount: l.BedroomCount,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

type recommendationResponse struct {
	ID                 int64                      `json:"id"`
	ListingID          int64                      `json:"listingId"`
	RecommendationType enums.RecommendationType   `json:"recommendationType"`
	Recommendation     json.RawMessage            `json:"recommendation"`
	Confidence         *float64                   `json:"confidence"`
	PotentialImpact    *float64                   `json:"potentialImpact"`
	Status             enums.RecommendationStatus `json:"status"`
	AIScore            *int                       `json:"aiScore"`
	CreatedAt          time.Time                  `json:"createdAt"`
	AppliedAt          *time.Time                 `json:"appliedAt,omitempty"`
}

func toRecommendationResponse(r models.AIRecommendation) recommendationResponse {
	return recommendationResponse{
		ID:                 r.ID,
		ListingID:          r.ListingID,
		RecommendationType: r.RecommendationType,
		Recommendation:     r.Recommendation,
		Confidence:         floatOrNil(r.Confidence),
		PotentialImpact:    floatOrNil(r.PotentialImpact),
		Status:             r.Status,
		AIScore:            r.AIScore,
		CreatedAt:          r.CreatedAt,
		AppliedAt:          r.AppliedAt,
	}
}

type actionResponse struct {
	ID         int64               `json:"id"`
	ListingID  int64               `json:"listingId"`
	ActionType enums.ActionType    `json:"actionType"`
	ActionData json.RawMessage     `json:"actionData,omitempty"`
	Result     *enums.ActionResult `json:"result,omitempty"`
	CreatedAt  time.Time           `json:"createdAt"`
}

func toActionResponse(a models.UserAction) actionResponse {
	return actionResponse{
		ID:         a.ID,
		ListingID:  a.ListingID,
		ActionType: a.ActionType,
		ActionData: a.ActionData,
		Result:     a.Result,
		CreatedAt:  a.CreatedAt,
	}
}

type dashboardRowResponse struct {
	Listing         listingResponse `json:"listing"`
	RevPAR          float64         `json:"revpar"`
	ADR             float64         `json:"adr"`
	Occupancy       float64         `json:"occupancy"`
	RevPARChangePct float64         `json:"revparChangePct"`
	AIScore         int             `json:"aiScore"`
	Status          string          `json:"status"`
	Trend           string          `json:"trend"`
}

type dashboardResponse struct {
	Portfolio listings.PortfolioStats `json:"portfolio"`
	Listings  []dashboardRowResponse  `json:"listings"`
}

func toDashboardResponse(d *listings.Dashboard) dashboardResponse {
	resp := dashboardResponse{
		Portfolio: d.Portfolio,
		Listings:  make([]dashboardRowResponse, 0, len(d.Listings)),
	}
	for _, row := range d.Listings {
		resp.Listings = append(resp.Listings, dashboardRowResponse{
			Listing:         toListingResponse(row.Listing),
			RevPAR:          row.RevPAR,
			ADR:             row.ADR,
			Occupancy:       row.Occupancy,
			RevPARChangePct: row.RevPARChangePct,
			AIScore:         row.AIScore,
			Status:          row.Status,
			Trend:           row.Trend,
		})
	}
	return resp
}

type detailResponse struct {
	Listing         listingResponse             `json:"listing"`
	Stats           []performance.NightlyRecord `json:"stats"`
	MarketStats     []performance.MarketRecord  `json:"marketStats"`
	Recommendations []recommendationResponse    `json:"recommendations"`
}

func toDetailResponse(d *listings.Detail) detailResponse {
	resp := detailResponse{
		Listing:         toListingResponse(d.Listing),
		Stats:           d.Stats,
		MarketStats:     d.Market,
		Recommendations: make([]recommendationResponse, 0, len(d.Recommendations)),
	}
	if resp.Stats == nil {
		resp.Stats = []performance.NightlyRecord{}
	}
	if resp.MarketStats == nil {
		resp.MarketStats = []performance.MarketRecord{}
	}
	for _, rec := range d.Recommendations {
		resp.Recommendations = append(resp.Recommendations, toRecommendationResponse(rec))
	}
	return resp
}

func floatOrNil(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}
