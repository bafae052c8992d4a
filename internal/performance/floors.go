package performance

import (
	"fmt"

	"github.com/synergyrm/rm-copilot/pkg/enums"
)

// Absolute floors apply whether or not market data exists.
const (
	occupancyFloor     = 30.0
	occupancyBaseline  = 70.0
	occupancyScoreUnit = 15.0

	adrFloor     = 50.0
	adrBaseline  = 150.0
	adrScoreUnit = 30.0
)

func (e *Engine) floorAlerts(bundle ListingBundle, current AggregatedMetrics) []Alert {
	var alerts []Alert
	if current.AvgOccupancy < occupancyFloor {
		alerts = append(alerts, Alert{
			ListingID:       bundle.ListingID,
			AlertType:       enums.AlertTypeOccupancyConcern,
			Severity:        enums.SeverityCritical,
			Message:         fmt.Sprintf("Critically low occupancy: %.1f%%", current.AvgOccupancy),
			Metric:          MetricOccupancy,
			CurrentValue:    current.AvgOccupancy,
			BenchmarkValue:  occupancyBaseline,
			DeviationScore:  (current.AvgOccupancy - occupancyBaseline) / occupancyScoreUnit,
			SuggestedAction: "Immediate pricing and marketing review required",
			Timestamp:       e.now(),
		})
	}
	if current.AvgADR < adrFloor {
		alerts = append(alerts, Alert{
			ListingID:       bundle.ListingID,
			AlertType:       enums.AlertTypeUnderperformance,
			Severity:        enums.SeverityHigh,
			Message:         fmt.Sprintf("Very low ADR: $%.0f", current.AvgADR),
			Metric:          MetricADR,
			CurrentValue:    current.AvgADR,
			BenchmarkValue:  adrBaseline,
			DeviationScore:  (current.AvgADR - adrBaseline) / adrScoreUnit,
			SuggestedAction: "Review property positioning and value proposition",
			Timestamp:       e.now(),
		})
	}
	return alerts
}
