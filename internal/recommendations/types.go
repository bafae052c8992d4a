package recommendations

import (
	"encoding/json"
	"fmt"

	"github.com/synergyrm/rm-copilot/pkg/enums"
)

// Recommendation is an advisory action for one listing. Impact is monthly
// revenue in dollars; confidence is 0-100.
type Recommendation struct {
	Title              string
	Description        string
	PotentialImpact    float64
	Confidence         float64
	RecommendationType enums.RecommendationType
	Timeframe          *enums.Timeframe
	Priority           *enums.Priority
	Details            Details
	AutoApply          bool
}

type recommendationJSON struct {
	Title              string                   `json:"title"`
	Description        string                   `json:"description"`
	PotentialImpact    float64                  `json:"potentialImpact"`
	Confidence         float64                  `json:"confidence"`
	RecommendationType enums.RecommendationType `json:"recommendationType"`
	Timeframe          *enums.Timeframe         `json:"timeframe,omitempty"`
	Priority           *enums.Priority          `json:"priority,omitempty"`
	Details            json.RawMessage          `json:"details,omitempty"`
	AutoApply          bool                     `json:"autoApply"`
}

func (r Recommendation) MarshalJSON() ([]byte, error) {
	if r.Details != nil && r.Details.Kind() != r.RecommendationType {
		return nil, fmt.Errorf("details kind %q does not match recommendation type %q", r.Details.Kind(), r.RecommendationType)
	}
	details, err := marshalDetails(r.Details)
	if err != nil {
		return nil, err
	}
	return json.Marshal(recommendationJSON{
		Title:              r.Title,
		Description:        r.Description,
		PotentialImpact:    r.PotentialImpact,
		Confidence:         r.Confidence,
		RecommendationType: r.RecommendationType,
		Timeframe:          r.Timeframe,
		Priority:           r.Priority,
		Details:            details,
		AutoApply:          r.AutoApply,
	})
}

func (r *Recommendation) UnmarshalJSON(data []byte) error {
	var raw recommendationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.RecommendationType.IsValid() {
		return fmt.Errorf("invalid recommendation type %q", raw.RecommendationType)
	}
	details, err := unmarshalDetails(raw.RecommendationType, raw.Details)
	if err != nil {
		return err
	}
	*r = Recommendation{
		Title:              raw.Title,
		Description:        raw.Description,
		PotentialImpact:    raw.PotentialImpact,
		Confidence:         raw.Confidence,
		RecommendationType: raw.RecommendationType,
		Timeframe:          raw.Timeframe,
		Priority:           raw.Priority,
		Details:            details,
		AutoApply:          raw.AutoApply,
	}
	return nil
}

// ListingSummary is the input to rule-based scoring. AvgOccupancy is nil when
// the listing has no stats; MarketADR is nil without market coverage.
type ListingSummary struct {
	ListingID    int64
	Name         string
	Location     string
	CurrentPrice float64
	AvgOccupancy *float64
	MarketADR    *float64
}

func timeframePtr(t enums.Timeframe) *enums.Timeframe { return &t }

func priorityPtr(p enums.Priority) *enums.Priority { return &p }
