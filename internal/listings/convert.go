package listings

import (
	"github.com/shopspring/decimal"

	"github.com/synergyrm/rm-copilot/internal/performance"
	"github.com/synergyrm/rm-copilot/pkg/db/models"
)

// NightlyRecords converts stored rows to core records, keeping order.
// NULL numeric columns become 0.
func NightlyRecords(rows []models.NightlyStat) []performance.NightlyRecord {
	out := make([]performance.NightlyRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, performance.NightlyRecord{
			ListingID:     row.ListingID,
			Date:          row.Date,
			ADR:           toFloat(row.ADR),
			Occupancy:     toFloat(row.Occupancy),
			RevPAR:        toFloat(row.RevPAR),
			Revenue:       toFloat(row.Revenue),
			BookingsCount: row.Bookings,
			Source:        strOrEmpty(row.Source),
		})
	}
	return out
}

// MarketRecords converts stored market rows to core records, keeping order.
func MarketRecords(rows []models.MarketStat) []performance.MarketRecord {
	out := make([]performance.MarketRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, performance.MarketRecord{
			Location:            row.Location,
			Date:                row.Date,
			AvgADR:              toFloat(row.AvgADR),
			AvgOccupancy:        toFloat(row.AvgOccupancy),
			AvgRevPAR:           toFloat(row.AvgRevPAR),
			TopPercentileRevPAR: toFloat(row.TopPercentileRevPAR),
			Source:              strOrEmpty(row.Source),
		})
	}
	return out
}

// NullDecimal wraps a float for a nullable numeric column.
func NullDecimal(v float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(v).Round(2))
}

func toFloat(d decimal.NullDecimal) float64 {
	if !d.Valid {
		return 0
	}
	return performance.ParseNumeric(d.Decimal.String())
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
