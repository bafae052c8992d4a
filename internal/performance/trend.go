package performance

import (
	"fmt"

	"github.com/synergyrm/rm-copilot/pkg/enums"
)

// TrendResult compares the recent RevPAR window with the one before it.
type TrendResult struct {
	RecentAvg   float64
	PreviousAvg float64
	Change      float64
}

// AnalyzeRevPARTrend splits most-recent-first records into records[0:window]
// and records[window:2*window]. Both windows must be full and the previous
// average non-zero, otherwise there is no signal.
func AnalyzeRevPARTrend(records []NightlyRecord, window int) (TrendResult, bool) {
	if window <= 0 || len(records) < 2*window {
		return TrendResult{}, false
	}
	recent := meanRevPAR(records[:window])
	previous := meanRevPAR(records[window : 2*window])
	if previous == 0 {
		return TrendResult{}, false
	}
	return TrendResult{
		RecentAvg:   recent,
		PreviousAvg: previous,
		Change:      (recent - previous) / previous,
	}, true
}

func (e *Engine) trendAlerts(bundle ListingBundle) []Alert {
	trend, ok := AnalyzeRevPARTrend(bundle.RecentStats, e.thresholds.TrendWindow)
	if !ok || trend.Change >= e.thresholds.TrendDropChange {
		return nil
	}

	severity := enums.SeverityHigh
	if trend.Change < e.thresholds.TrendCriticalChange {
		severity = enums.SeverityCritical
	}
	return []Alert{{
		ListingID:       bundle.ListingID,
		AlertType:       enums.AlertTypeCriticalDrop,
		Severity:        severity,
		Message:         fmt.Sprintf("Significant RevPAR decline: %.1f%% drop over past week", trend.Change*100),
		Metric:          MetricRevPARTrend,
		CurrentValue:    trend.RecentAvg,
		BenchmarkValue:  trend.PreviousAvg,
		DeviationScore:  trend.Change / trendScoreUnit,
		SuggestedAction: "Urgent review of pricing and market conditions needed",
		Timestamp:       e.now(),
	}}
}

// trendScoreUnit scales a fractional change onto the deviation-score axis.
const trendScoreUnit = 0.1
