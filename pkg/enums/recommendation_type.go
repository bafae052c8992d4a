package enums

import "fmt"

// RecommendationType enumerates the kinds of advisory recommendation the copilot emits.
type RecommendationType string

const (
	RecommendationTypePricingOptimization     RecommendationType = "pricing_optimization"
	RecommendationTypeOccupancyStrategy       RecommendationType = "occupancy_strategy"
	RecommendationTypeRevenueEnhancement      RecommendationType = "revenue_enhancement"
	RecommendationTypeMarketPositioning       RecommendationType = "market_positioning"
	RecommendationTypeSeasonalStrategy        RecommendationType = "seasonal_strategy"
	RecommendationTypeCompetitiveIntelligence RecommendationType = "competitive_intelligence"
	RecommendationTypeEventBasedPricing       RecommendationType = "event_based_pricing"
)

var validRecommendationTypes = []RecommendationType{
	RecommendationTypePricingOptimization,
	RecommendationTypeOccupancyStrategy,
	RecommendationTypeRevenueEnhancement,
	RecommendationTypeMarketPositioning,
	RecommendationTypeSeasonalStrategy,
	RecommendationTypeCompetitiveIntelligence,
	RecommendationTypeEventBasedPricing,
}

// IsValid checks whether the given value matches the canonical enum.
func (r RecommendationType) IsValid() bool {
	for _, candidate := range validRecommendationTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRecommendationType converts raw strings into RecommendationType.
func ParseRecommendationType(value string) (RecommendationType, error) {
	for _, candidate := range validRecommendationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid recommendation type %q", value)
}
