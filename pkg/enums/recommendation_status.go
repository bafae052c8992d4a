package enums

import "fmt"

// RecommendationStatus enumerates lifecycle of a stored recommendation (ai_recs.status).
type RecommendationStatus string

const (
	RecommendationStatusPending  RecommendationStatus = "pending"
	RecommendationStatusApplied  RecommendationStatus = "applied"
	RecommendationStatusRejected RecommendationStatus = "rejected"
)

var validRecommendationStatuses = []RecommendationStatus{
	RecommendationStatusPending,
	RecommendationStatusApplied,
	RecommendationStatusRejected,
}

// IsValid checks whether the given value matches the canonical enum.
func (r RecommendationStatus) IsValid() bool {
	for _, candidate := range validRecommendationStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRecommendationStatus converts raw strings into RecommendationStatus.
func ParseRecommendationStatus(value string) (RecommendationStatus, error) {
	for _, candidate := range validRecommendationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid recommendation status %q", value)
}
