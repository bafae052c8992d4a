package recommendations

import (
	"math"

	"github.com/synergyrm/rm-copilot/pkg/config"
)

// Policy carries the bounds every recommendation must satisfy before it
// leaves this package.
type Policy struct {
	ImpactMax             float64
	ConfidenceMin         float64
	ConfidenceMax         float64
	MaxCount              int
	WeightCapPct          float64
	AutoApplyThreshold    float64
	ABMode                string
	DefaultOccupancy      float64
	PricingPositionCutoff float64
}

func DefaultPolicy() Policy {
	return Policy{
		ImpactMax:             5000,
		ConfidenceMin:         config.MinRecommendationConfidence,
		ConfidenceMax:         config.MaxRecommendationConfidence,
		MaxCount:              3,
		WeightCapPct:          0.10,
		AutoApplyThreshold:    0.85,
		ABMode:                config.ABModeAll,
		DefaultOccupancy:      70,
		PricingPositionCutoff: 1.15,
	}
}

// PolicyFromConfig maps validated configuration onto a Policy.
func PolicyFromConfig(cfg *config.Config) Policy {
	p := DefaultPolicy()
	if cfg == nil {
		return p
	}
	if cfg.Recommendations.ImpactMax > 0 {
		p.ImpactMax = cfg.Recommendations.ImpactMax
	}
	if lo := cfg.Recommendations.ConfidenceMin; lo >= config.MinRecommendationConfidence && lo <= config.MaxRecommendationConfidence {
		p.ConfidenceMin = lo
	}
	if hi := cfg.Recommendations.ConfidenceMax; hi >= p.ConfidenceMin && hi <= config.MaxRecommendationConfidence {
		p.ConfidenceMax = hi
	}
	if cfg.Recommendations.MaxCount > 0 {
		p.MaxCount = cfg.Recommendations.MaxCount
	}
	if cfg.RM.WeightCapPct > 0 {
		p.WeightCapPct = cfg.RM.WeightCapPct
	}
	if cfg.RM.AIConfidenceThreshold > 0 {
		p.AutoApplyThreshold = cfg.RM.AIConfidenceThreshold
	}
	if mode := config.NormalizeABMode(cfg.RM.ABMode); mode != "" {
		p.ABMode = mode
	}
	return p
}

// Clamp forces impact, confidence and any rate adjustment inside the policy
// bounds. It never rejects.
func (p Policy) Clamp(rec Recommendation) Recommendation {
	rec.PotentialImpact = clamp(rec.PotentialImpact, 0, p.ImpactMax)
	rec.Confidence = clamp(rec.Confidence, p.ConfidenceMin, p.ConfidenceMax)
	rec.Details = p.capDetails(rec.Details)
	rec.AutoApply = p.AutoApplyThreshold > 0 && rec.Confidence/100 >= p.AutoApplyThreshold
	return rec
}

// Finalize clamps every recommendation and truncates to MaxCount, keeping
// order.
func (p Policy) Finalize(recs []Recommendation) []Recommendation {
	limit := p.MaxCount
	if limit <= 0 || limit > len(recs) {
		limit = len(recs)
	}
	out := make([]Recommendation, 0, limit)
	for _, rec := range recs[:limit] {
		out = append(out, p.Clamp(rec))
	}
	return out
}

// capDetails limits rate adjustments to the weight cap, expressed in percent.
func (p Policy) capDetails(d Details) Details {
	capPct := p.WeightCapPct * 100
	if capPct <= 0 {
		return d
	}
	switch v := d.(type) {
	case PricingDetails:
		v.AdjustmentPct = clamp(v.AdjustmentPct, -capPct, capPct)
		return v
	case OccupancyDetails:
		v.WeekdayRatePct = clamp(v.WeekdayRatePct, -capPct, capPct)
		return v
	case SeasonalDetails:
		v.AdjustmentPct = clamp(v.AdjustmentPct, -capPct, capPct)
		return v
	case EventDetails:
		v.AdjustmentPct = clamp(v.AdjustmentPct, -capPct, capPct)
		return v
	}
	return d
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
