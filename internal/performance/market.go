package performance

import (
	"sort"
	"time"
)

// ReconcileMarket collapses multi-source market rows into one summary. Only
// rows for the most recent calendar day (UTC) are used. Each field is the
// mean across sources that reported a positive value for it, so a source
// missing a field does not drag the benchmark to zero.
func ReconcileMarket(records []MarketRecord) *MarketSummary {
	if len(records) == 0 {
		return nil
	}

	latest := dayOf(records[0].Date)
	for _, r := range records[1:] {
		if d := dayOf(r.Date); d.After(latest) {
			latest = d
		}
	}

	var adr, occ, revpar, top meanAcc
	sources := map[string]struct{}{}
	summary := &MarketSummary{Location: records[0].Location, Date: latest}
	for _, r := range records {
		if !dayOf(r.Date).Equal(latest) {
			continue
		}
		adr.add(r.AvgADR)
		occ.add(r.AvgOccupancy)
		revpar.add(r.AvgRevPAR)
		top.add(r.TopPercentileRevPAR)
		if r.Source != "" {
			sources[r.Source] = struct{}{}
		}
	}

	summary.AvgADR = adr.mean()
	summary.AvgOccupancy = occ.mean()
	summary.AvgRevPAR = revpar.mean()
	summary.TopPercentileRevPAR = top.mean()
	summary.Sources = make([]string, 0, len(sources))
	for s := range sources {
		summary.Sources = append(summary.Sources, s)
	}
	sort.Strings(summary.Sources)
	return summary
}

type meanAcc struct {
	sum float64
	n   int
}

func (m *meanAcc) add(v float64) {
	v = finiteOrZero(v)
	if v <= 0 {
		return
	}
	m.sum += v
	m.n++
}

func (m meanAcc) mean() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

func dayOf(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
