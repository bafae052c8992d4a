package recommendations

import (
	"fmt"
	"strings"
	"time"

	"github.com/synergyrm/rm-copilot/internal/performance"
)

// AdvisorInput is what the advisor sees about one listing. Recent is
// most-recent-first.
type AdvisorInput struct {
	Summary ListingSummary
	Recent  []performance.NightlyRecord
	Market  *performance.MarketSummary
	Now     time.Time
}

// Season names the meteorological season (northern hemisphere) for t.
func Season(t time.Time) string {
	switch t.Month() {
	case time.March, time.April, time.May:
		return "Spring"
	case time.June, time.July, time.August:
		return "Summer"
	case time.September, time.October, time.November:
		return "Fall"
	default:
		return "Winter"
	}
}

// OccupancyTrend compares the mean of the first half of occupancies with the
// second half and labels moves beyond five percent.
func OccupancyTrend(occupancies []float64) string {
	if len(occupancies) < 2 {
		return "Insufficient data"
	}
	mid := len(occupancies) / 2
	first := mean(occupancies[:mid])
	second := mean(occupancies[mid:])
	if first == 0 {
		return "Stable"
	}
	change := (second - first) / first * 100
	switch {
	case change > 5:
		return fmt.Sprintf("Improving (+%.1f%%)", change)
	case change < -5:
		return fmt.Sprintf("Declining (%.1f%%)", change)
	default:
		return "Stable"
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

const systemPrompt = "You are an expert revenue management AI for vacation rentals. Provide specific, actionable recommendations with quantified impacts."

// BuildPrompt renders the user prompt sent to the advisor.
func BuildPrompt(in AdvisorInput, policy Policy) string {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}
	season := Season(now)
	agg := performance.Aggregate(in.Recent, 0)

	occupancies := make([]float64, 0, len(in.Recent))
	for i := len(in.Recent) - 1; i >= 0; i-- {
		occupancies = append(occupancies, in.Recent[i].Occupancy)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this property data and provide 3-4 specific, actionable revenue optimization recommendations.\n\n")
	fmt.Fprintf(&b, "PROPERTY DETAILS:\n- Name: %s\n- Location: %s\n- Current Base Price: $%.2f/night\n- Current Month: %s (%s season)\n\n",
		in.Summary.Name, in.Summary.Location, in.Summary.CurrentPrice, now.Month(), season)

	fmt.Fprintf(&b, "RECENT PERFORMANCE (last %d days):\n", len(in.Recent))
	for i, r := range in.Recent {
		fmt.Fprintf(&b, "Day %d: ADR $%.2f, Occupancy %.1f%%, RevPAR $%.2f\n", i+1, r.ADR, r.Occupancy, r.RevPAR)
	}
	fmt.Fprintf(&b, "\nPERFORMANCE SUMMARY:\n- Average Occupancy: %.1f%%\n- Average RevPAR: $%.2f\n- Occupancy Trend: %s\n",
		agg.AvgOccupancy, agg.AvgRevPAR, OccupancyTrend(occupancies))

	if m := in.Market; m != nil && m.AvgADR > 0 {
		fmt.Fprintf(&b, "\nMARKET BENCHMARKS:\n- Market ADR: $%.2f (You: %.1f%% difference)\n", m.AvgADR, (in.Summary.CurrentPrice/m.AvgADR-1)*100)
		fmt.Fprintf(&b, "- Market Occupancy: %.1f%% (You: %.1f%% difference)\n", m.AvgOccupancy, agg.AvgOccupancy-m.AvgOccupancy)
		if m.AvgRevPAR > 0 {
			fmt.Fprintf(&b, "- Market RevPAR: $%.2f (You: %.1f%% difference)\n", m.AvgRevPAR, (agg.AvgRevPAR/m.AvgRevPAR-1)*100)
		}
	}

	capPct := policy.WeightCapPct * 100
	fmt.Fprintf(&b, "\nCONSTRAINTS:\n- Weight Cap: ±%.0f%% vs native recommendations\n- Confidence Threshold: %.0f%% for auto-apply\n\n", capPct, policy.AutoApplyThreshold*100)
	fmt.Fprintf(&b, `Respond with JSON:
{"recommendations": [{"title": string, "description": string, "potentialImpact": number, "confidence": number (50-100),
"recommendationType": %s, "timeframe": "immediate"|"short_term"|"long_term", "priority": "high"|"medium"|"low"}]}
`, quotedTypes())
	fmt.Fprintf(&b, "Focus on %s season demand, day-of-week pricing, lead time and length-of-stay. Keep every rate change within ±%.0f%%.\n", season, capPct)
	return b.String()
}
