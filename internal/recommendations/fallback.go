package recommendations

import (
	"fmt"
	"math"

	"github.com/synergyrm/rm-copilot/pkg/enums"
)

const (
	highOccupancy = 85.0
	lowOccupancy  = 65.0
)

// Fallback runs the rule-based scorer. Rules are independent and evaluated in
// order; when none fires a generic review is returned, so the result is never
// empty.
func Fallback(summary ListingSummary, policy Policy) []Recommendation {
	price := summary.CurrentPrice
	occupancy := policy.DefaultOccupancy
	if summary.AvgOccupancy != nil {
		occupancy = *summary.AvgOccupancy
	}
	capPct := policy.WeightCapPct * 100

	var recs []Recommendation
	if occupancy > highOccupancy {
		recs = append(recs, Recommendation{
			Title: "Increase Weekend Rates",
			Description: fmt.Sprintf(
				"High occupancy (%.1f%%) suggests pricing power. Consider increasing Friday-Sunday rates by 8-12%% within the %.0f%% weight cap.",
				occupancy, capPct),
			PotentialImpact:    math.Floor(price * 0.1 * 8),
			Confidence:         82,
			RecommendationType: enums.RecommendationTypePricingOptimization,
			Timeframe:          timeframePtr(enums.TimeframeImmediate),
			Priority:           priorityPtr(enums.PriorityHigh),
			Details: PricingDetails{
				AdjustmentPct: capPct,
				Days:          []string{"friday", "saturday", "sunday"},
			},
		})
	}

	if occupancy < lowOccupancy {
		recs = append(recs, Recommendation{
			Title: "Optimize Minimum Stay",
			Description: fmt.Sprintf(
				"Lower occupancy (%.1f%%) indicates rate resistance. Reduce minimum stay requirements and consider 5-8%% rate adjustment for weekdays.",
				occupancy),
			PotentialImpact:    math.Floor(price * 0.15 * 6),
			Confidence:         78,
			RecommendationType: enums.RecommendationTypeOccupancyStrategy,
			Timeframe:          timeframePtr(enums.TimeframeShortTerm),
			Priority:           priorityPtr(enums.PriorityMedium),
			Details: OccupancyDetails{
				CurrentOccupancy: occupancy,
				MinStayNights:    1,
				WeekdayRatePct:   -5,
			},
		})
	}

	if summary.MarketADR != nil && *summary.MarketADR > 0 {
		position := price / *summary.MarketADR
		if position > policy.PricingPositionCutoff {
			recs = append(recs, Recommendation{
				Title: "Market Position Analysis",
				Description: fmt.Sprintf(
					"Currently priced %.1f%% above market average. Consider value-add amenities or strategic rate adjustment.",
					(position-1)*100),
				PotentialImpact:    math.Floor(price * 0.08 * 10),
				Confidence:         75,
				RecommendationType: enums.RecommendationTypeMarketPositioning,
				Timeframe:          timeframePtr(enums.TimeframeShortTerm),
				Priority:           priorityPtr(enums.PriorityMedium),
				Details: MarketPositionDetails{
					MarketADR:       *summary.MarketADR,
					PricingPosition: position,
				},
			})
		}
	}

	if len(recs) == 0 {
		recs = append(recs, Recommendation{
			Title:              "Revenue Optimization Review",
			Description:        "Monitor performance trends and consider seasonal pricing adjustments based on demand patterns.",
			PotentialImpact:    math.Floor(price * 0.06 * 5),
			Confidence:         70,
			RecommendationType: enums.RecommendationTypeRevenueEnhancement,
			Timeframe:          timeframePtr(enums.TimeframeLongTerm),
			Priority:           priorityPtr(enums.PriorityLow),
			Details: RevenueDetails{
				Levers: []string{"seasonal_pricing", "demand_monitoring"},
			},
		})
	}

	return policy.Finalize(recs)
}
