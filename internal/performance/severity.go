package performance

import (
	"math"

	"github.com/synergyrm/rm-copilot/pkg/enums"
)

const (
	criticalScore = -2.5
	highScore     = -2.0
)

// SeverityForScore maps a deviation score onto an alert severity. Scores at
// or above threshold, and NaN scores, do not alert.
func SeverityForScore(score, threshold float64) (enums.Severity, bool) {
	if math.IsNaN(score) || score >= threshold {
		return "", false
	}
	switch {
	case score < criticalScore:
		return enums.SeverityCritical, true
	case score < highScore:
		return enums.SeverityHigh, true
	default:
		return enums.SeverityMedium, true
	}
}
