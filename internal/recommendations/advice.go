package recommendations

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/synergyrm/rm-copilot/pkg/enums"
)

const (
	defaultAdvisedImpact     = 200
	defaultAdvisedConfidence = 75
	defaultAdvisedTitle      = "Revenue Optimization"
	defaultAdvisedDesc       = "Optimize pricing strategy"
)

// Fallback reasons reported to metrics and logs.
const (
	ReasonDisabled     = "disabled"
	ReasonControlGroup = "ab_control"
	ReasonAdvisorError = "advisor_error"
	ReasonInvalidJSON  = "invalid_json"
	ReasonInvalidEnum  = "invalid_enum"
	ReasonEmpty        = "empty"
)

// AdviceError explains why advisor output was discarded.
type AdviceError struct {
	Reason string
	Err    error
}

func (e *AdviceError) Error() string {
	return fmt.Sprintf("advice rejected (%s): %v", e.Reason, e.Err)
}

func (e *AdviceError) Unwrap() error { return e.Err }

func rejectAdvice(reason string, err error) error {
	return &AdviceError{Reason: reason, Err: err}
}

// ReasonOf extracts the fallback reason from err.
func ReasonOf(err error) string {
	var adviceErr *AdviceError
	if errors.As(err, &adviceErr) {
		return adviceErr.Reason
	}
	return ReasonAdvisorError
}

type advisedRecommendation struct {
	Title              *string  `json:"title"`
	Description        *string  `json:"description"`
	PotentialImpact    *float64 `json:"potentialImpact"`
	Confidence         *float64 `json:"confidence"`
	RecommendationType *string  `json:"recommendationType"`
	Timeframe          *string  `json:"timeframe"`
	Priority           *string  `json:"priority"`
}

type advisedPayload struct {
	Recommendations []advisedRecommendation `json:"recommendations"`
}

// ParseAdvice treats raw advisor output as untrusted. Malformed JSON, a
// missing or unknown recommendation type, or an unknown timeframe or priority
// rejects the whole response. Missing numbers take defaults, present numbers
// are clamped to the policy, and the list is truncated to MaxCount.
func ParseAdvice(raw string, summary ListingSummary, policy Policy, season string) ([]Recommendation, error) {
	var payload advisedPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &payload); err != nil {
		return nil, rejectAdvice(ReasonInvalidJSON, err)
	}
	if len(payload.Recommendations) == 0 {
		return nil, rejectAdvice(ReasonEmpty, errors.New("no recommendations in response"))
	}

	recs := make([]Recommendation, 0, len(payload.Recommendations))
	for i, adv := range payload.Recommendations {
		rec, err := adv.toRecommendation(summary, policy, season)
		if err != nil {
			return nil, rejectAdvice(ReasonInvalidEnum, fmt.Errorf("recommendation %d: %w", i, err))
		}
		recs = append(recs, rec)
	}
	return policy.Finalize(recs), nil
}

func (a advisedRecommendation) toRecommendation(summary ListingSummary, policy Policy, season string) (Recommendation, error) {
	if a.RecommendationType == nil {
		return Recommendation{}, errors.New("recommendationType is required")
	}
	recType, err := enums.ParseRecommendationType(strings.TrimSpace(*a.RecommendationType))
	if err != nil {
		return Recommendation{}, err
	}

	timeframe := enums.TimeframeShortTerm
	if a.Timeframe != nil {
		if timeframe, err = enums.ParseTimeframe(strings.TrimSpace(*a.Timeframe)); err != nil {
			return Recommendation{}, err
		}
	}
	priority := enums.PriorityMedium
	if a.Priority != nil {
		if priority, err = enums.ParsePriority(strings.TrimSpace(*a.Priority)); err != nil {
			return Recommendation{}, err
		}
	}

	rec := Recommendation{
		Title:              textOr(a.Title, defaultAdvisedTitle),
		Description:        textOr(a.Description, defaultAdvisedDesc),
		PotentialImpact:    numberOr(a.PotentialImpact, defaultAdvisedImpact),
		Confidence:         numberOr(a.Confidence, defaultAdvisedConfidence),
		RecommendationType: recType,
		Timeframe:          timeframePtr(timeframe),
		Priority:           priorityPtr(priority),
		Details:            defaultDetails(recType, summary, policy, season),
	}
	return rec, nil
}

// defaultDetails derives the typed payload for an advised recommendation from
// what is known about the listing.
func defaultDetails(kind enums.RecommendationType, summary ListingSummary, policy Policy, season string) Details {
	capPct := policy.WeightCapPct * 100
	switch kind {
	case enums.RecommendationTypePricingOptimization:
		return PricingDetails{AdjustmentPct: capPct}
	case enums.RecommendationTypeOccupancyStrategy:
		occ := policy.DefaultOccupancy
		if summary.AvgOccupancy != nil {
			occ = *summary.AvgOccupancy
		}
		return OccupancyDetails{CurrentOccupancy: occ}
	case enums.RecommendationTypeMarketPositioning:
		d := MarketPositionDetails{}
		if summary.MarketADR != nil && *summary.MarketADR > 0 {
			d.MarketADR = *summary.MarketADR
			d.PricingPosition = summary.CurrentPrice / *summary.MarketADR
		}
		return d
	case enums.RecommendationTypeSeasonalStrategy:
		return SeasonalDetails{Season: season, AdjustmentPct: capPct}
	case enums.RecommendationTypeCompetitiveIntelligence:
		return CompetitiveDetails{Focus: summary.Location}
	case enums.RecommendationTypeEventBasedPricing:
		return EventDetails{AdjustmentPct: capPct}
	default:
		return RevenueDetails{}
	}
}

func textOr(v *string, fallback string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return fallback
	}
	return strings.TrimSpace(*v)
}

func numberOr(v *float64, fallback float64) float64 {
	if v == nil || *v == 0 {
		return fallback
	}
	return *v
}

func quotedTypes() string {
	types := []enums.RecommendationType{
		enums.RecommendationTypePricingOptimization,
		enums.RecommendationTypeOccupancyStrategy,
		enums.RecommendationTypeRevenueEnhancement,
		enums.RecommendationTypeMarketPositioning,
		enums.RecommendationTypeSeasonalStrategy,
		enums.RecommendationTypeCompetitiveIntelligence,
		enums.RecommendationTypeEventBasedPricing,
	}
	quoted := make([]string, len(types))
	for i, t := range types {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	return strings.Join(quoted, "|")
}
