package enums

import "fmt"

type RecommendationSource string

const (
	RecommendationSourceAI       RecommendationSource = "ai"
	RecommendationSourceFallback RecommendationSource = "fallback"
)

var validRecommendationSources = []RecommendationSource{
	RecommendationSourceAI,
	RecommendationSourceFallback,
}

// IsValid checks whether the given value matches the canonical enum.
func (r RecommendationSource) IsValid() bool {
	for _, candidate := range validRecommendationSources {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRecommendationSource converts raw strings into RecommendationSource.
func ParseRecommendationSource(value string) (RecommendationSource, error) {
	for _, candidate := range validRecommendationSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid recommendation source %q", value)
}
