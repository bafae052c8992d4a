package performance

import (
	"fmt"

	"github.com/synergyrm/rm-copilot/pkg/enums"
)

// DefaultDispersion is the assumed coefficient of variation of market
// comparables. It is a placeholder, not a measured figure.
const DefaultDispersion = 0.15

// Deviation is the standardized gap between one listing metric and its
// market benchmark.
type Deviation struct {
	Metric    string
	Current   float64
	Benchmark float64
	Score     float64
}

// DeviationScore returns (current-benchmark)/(benchmark*dispersion). It
// reports false for a non-positive benchmark or dispersion so callers skip
// the metric instead of dividing by zero.
func DeviationScore(current, benchmark, dispersion float64) (float64, bool) {
	if benchmark <= 0 || dispersion <= 0 {
		return 0, false
	}
	return (current - benchmark) / (benchmark * dispersion), true
}

// CompareToMarket scores ADR, occupancy and RevPAR against the market in that
// order, omitting any metric whose benchmark is missing.
func CompareToMarket(current AggregatedMetrics, market MarketSummary, dispersion float64) []Deviation {
	pairs := []Deviation{
		{Metric: MetricADR, Current: current.AvgADR, Benchmark: market.AvgADR},
		{Metric: MetricOccupancy, Current: current.AvgOccupancy, Benchmark: market.AvgOccupancy},
		{Metric: MetricRevPAR, Current: current.AvgRevPAR, Benchmark: market.AvgRevPAR},
	}
	out := make([]Deviation, 0, len(pairs))
	for _, p := range pairs {
		score, ok := DeviationScore(p.Current, p.Benchmark, dispersion)
		if !ok {
			continue
		}
		p.Score = score
		out = append(out, p)
	}
	return out
}

type marketRule struct {
	alertType enums.AlertType
	message   func(current, benchmark float64) string
	action    string
}

var marketRules = map[string]marketRule{
	MetricADR: {
		alertType: enums.AlertTypeMarketLag,
		message: func(current, benchmark float64) string {
			return fmt.Sprintf("ADR significantly below market average ($%.0f vs $%.0f)", current, benchmark)
		},
		action: "Consider competitive rate analysis and pricing optimization",
	},
	MetricOccupancy: {
		alertType: enums.AlertTypeOccupancyConcern,
		message: func(current, benchmark float64) string {
			return fmt.Sprintf("Occupancy significantly below market (%.1f%% vs %.1f%%)", current, benchmark)
		},
		action: "Review minimum stay requirements and pricing strategy",
	},
	MetricRevPAR: {
		alertType: enums.AlertTypeUnderperformance,
		message: func(current, benchmark float64) string {
			return fmt.Sprintf("RevPAR significantly below market ($%.0f vs $%.0f)", current, benchmark)
		},
		action: "Immediate revenue optimization review recommended",
	},
}

func (e *Engine) marketAlerts(bundle ListingBundle, current AggregatedMetrics) []Alert {
	if bundle.Market == nil {
		return nil
	}
	var alerts []Alert
	for _, dev := range CompareToMarket(current, *bundle.Market, e.thresholds.Dispersion) {
		severity, fire := SeverityForScore(dev.Score, e.thresholds.ZScoreThreshold)
		if !fire {
			continue
		}
		rule := marketRules[dev.Metric]
		alerts = append(alerts, Alert{
			ListingID:       bundle.ListingID,
			AlertType:       rule.alertType,
			Severity:        severity,
			Message:         rule.message(dev.Current, dev.Benchmark),
			Metric:          dev.Metric,
			CurrentValue:    dev.Current,
			BenchmarkValue:  dev.Benchmark,
			DeviationScore:  dev.Score,
			SuggestedAction: rule.action,
			Timestamp:       e.now(),
		})
	}
	return alerts
}
