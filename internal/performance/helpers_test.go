package performance

import (
	"time"

	"github.com/synergyrm/rm-copilot/pkg/config"
)

var fixedNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// nights builds most-recent-first records for a listing with constant values.
func nights(listingID int64, n int, adr, occ, revpar float64) []NightlyRecord {
	out := make([]NightlyRecord, n)
	for i := range out {
		out[i] = NightlyRecord{
			ListingID: listingID,
			Date:      fixedNow.AddDate(0, 0, -(i + 1)),
			ADR:       adr,
			Occupancy: occ,
			RevPAR:    revpar,
			Revenue:   revpar,
			Source:    "wheelhouse",
		}
	}
	return out
}

// twoWeeks builds 14 most-recent-first records: seven at recentRevPAR then
// seven at previousRevPAR.
func twoWeeks(listingID int64, recentRevPAR, previousRevPAR float64) []NightlyRecord {
	recent := nights(listingID, 7, 200, 70, recentRevPAR)
	previous := nights(listingID, 7, 200, 70, previousRevPAR)
	for i := range previous {
		previous[i].Date = fixedNow.AddDate(0, 0, -(i + 8))
	}
	return append(recent, previous...)
}

func configAlerts(z, dispersion float64) config.AlertsConfig {
	return config.AlertsConfig{ZScoreThreshold: z, AssumedDispersion: dispersion}
}
