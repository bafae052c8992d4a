package performance

// DefaultWindow is the number of most recent nights the engine evaluates.
const DefaultWindow = 7

// Aggregate averages the first window records, which callers supply
// most-recent-first. A non-positive window uses every record. An empty window
// yields all zeros.
func Aggregate(records []NightlyRecord, window int) AggregatedMetrics {
	recent := head(records, window)
	if len(recent) == 0 {
		return AggregatedMetrics{}
	}

	var adr, occ, revpar, revenue float64
	for _, r := range recent {
		adr += finiteOrZero(r.ADR)
		occ += finiteOrZero(r.Occupancy)
		revpar += finiteOrZero(r.RevPAR)
		revenue += finiteOrZero(r.Revenue)
	}
	n := float64(len(recent))
	return AggregatedMetrics{
		AvgADR:       adr / n,
		AvgOccupancy: occ / n,
		AvgRevPAR:    revpar / n,
		TotalRevenue: revenue,
	}
}

func head(records []NightlyRecord, n int) []NightlyRecord {
	if n <= 0 || n >= len(records) {
		return records
	}
	return records[:n]
}

func meanRevPAR(records []NightlyRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += finiteOrZero(r.RevPAR)
	}
	return sum / float64(len(records))
}
