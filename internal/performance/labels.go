package performance

const (
	TrendCritical  = "critical"
	TrendDeclining = "declining"
	TrendStable    = "stable"
	TrendImproving = "improving"
)

const improvingPct = 5.0

// WeekOverWeekPct is the RevPAR change between the last two weeks, in percent.
func WeekOverWeekPct(records []NightlyRecord) (float64, bool) {
	trend, ok := AnalyzeRevPARTrend(records, DefaultWindow)
	if !ok {
		return 0, false
	}
	return trend.Change * 100, true
}

// TrendLabel buckets a percentage change using the configured decline
// thresholds.
func TrendLabel(changePct float64, t Thresholds) string {
	switch {
	case changePct <= t.CriticalDeclinePct:
		return TrendCritical
	case changePct <= t.DeclinePct:
		return TrendDeclining
	case changePct >= improvingPct:
		return TrendImproving
	default:
		return TrendStable
	}
}
