package recommendations

import (
	"encoding/json"
	"fmt"

	"github.com/synergyrm/rm-copilot/pkg/enums"
)

// Details is the type-specific payload of a recommendation. Each
// recommendation type has exactly one concrete Details struct.
type Details interface {
	Kind() enums.RecommendationType
}

type PricingDetails struct {
	AdjustmentPct float64  `json:"adjustmentPct"`
	Days          []string `json:"days,omitempty"`
}

type OccupancyDetails struct {
	CurrentOccupancy float64 `json:"currentOccupancy"`
	MinStayNights    int     `json:"minStayNights,omitempty"`
	WeekdayRatePct   float64 `json:"weekdayRatePct,omitempty"`
}

type RevenueDetails struct {
	Levers []string `json:"levers,omitempty"`
}

type MarketPositionDetails struct {
	MarketADR       float64 `json:"marketAdr"`
	PricingPosition float64 `json:"pricingPosition"`
}

type SeasonalDetails struct {
	Season        string  `json:"season"`
	AdjustmentPct float64 `json:"adjustmentPct"`
}

type CompetitiveDetails struct {
	Focus string `json:"focus,omitempty"`
}

type EventDetails struct {
	Event         string  `json:"event,omitempty"`
	AdjustmentPct float64 `json:"adjustmentPct"`
}

func (PricingDetails) Kind() enums.RecommendationType {
	return enums.RecommendationTypePricingOptimization
}
func (OccupancyDetails) Kind() enums.RecommendationType {
	return enums.RecommendationTypeOccupancyStrategy
}
func (RevenueDetails) Kind() enums.RecommendationType {
	return enums.RecommendationTypeRevenueEnhancement
}
func (MarketPositionDetails) Kind() enums.RecommendationType {
	return enums.RecommendationTypeMarketPositioning
}
func (SeasonalDetails) Kind() enums.RecommendationType {
	return enums.RecommendationTypeSeasonalStrategy
}
func (CompetitiveDetails) Kind() enums.RecommendationType {
	return enums.RecommendationTypeCompetitiveIntelligence
}
func (EventDetails) Kind() enums.RecommendationType {
	return enums.RecommendationTypeEventBasedPricing
}

func emptyDetails(kind enums.RecommendationType) (Details, error) {
	switch kind {
	case enums.RecommendationTypePricingOptimization:
		return &PricingDetails{}, nil
	case enums.RecommendationTypeOccupancyStrategy:
		return &OccupancyDetails{}, nil
	case enums.RecommendationTypeRevenueEnhancement:
		return &RevenueDetails{}, nil
	case enums.RecommendationTypeMarketPositioning:
		return &MarketPositionDetails{}, nil
	case enums.RecommendationTypeSeasonalStrategy:
		return &SeasonalDetails{}, nil
	case enums.RecommendationTypeCompetitiveIntelligence:
		return &CompetitiveDetails{}, nil
	case enums.RecommendationTypeEventBasedPricing:
		return &EventDetails{}, nil
	default:
		return nil, fmt.Errorf("unknown recommendation type %q", kind)
	}
}

// marshalDetails renders d as a JSON object carrying a "kind" discriminator.
func marshalDetails(d Details) (json.RawMessage, error) {
	if d == nil {
		return nil, nil
	}
	body, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	kind, _ := json.Marshal(d.Kind())
	fields["kind"] = kind
	return json.Marshal(fields)
}

// unmarshalDetails decodes raw into the variant for kind. The discriminator,
// when present, must agree with kind.
func unmarshalDetails(kind enums.RecommendationType, raw json.RawMessage) (Details, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var tag struct {
		Kind enums.RecommendationType `json:"kind"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("decode details: %w", err)
	}
	if tag.Kind != "" && tag.Kind != kind {
		return nil, fmt.Errorf("details kind %q does not match recommendation type %q", tag.Kind, kind)
	}
	target, err := emptyDetails(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode %s details: %w", kind, err)
	}
	return deref(target), nil
}

func deref(d Details) Details {
	switch v := d.(type) {
	case *PricingDetails:
		return *v
	case *OccupancyDetails:
		return *v
	case *RevenueDetails:
		return *v
	case *MarketPositionDetails:
		return *v
	case *SeasonalDetails:
		return *v
	case *CompetitiveDetails:
		return *v
	case *EventDetails:
		return *v
	}
	return d
}
