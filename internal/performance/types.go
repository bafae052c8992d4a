package performance

import (
	"time"

	"github.com/synergyrm/rm-copilot/pkg/enums"
)

// NightlyRecord is one day of listing performance. Occupancy is on a 0-100
// scale.
type NightlyRecord struct {
	ListingID     int64     `json:"listingId"`
	Date          time.Time `json:"date"`
	ADR           float64   `json:"adr"`
	Occupancy     float64   `json:"occupancy"`
	RevPAR        float64   `json:"revpar"`
	Revenue       float64   `json:"revenue"`
	BookingsCount int       `json:"bookingsCount"`
	Source        string    `json:"source"`
}

// MarketRecord is a location benchmark snapshot from a single source.
type MarketRecord struct {
	Location            string    `json:"location"`
	Date                time.Time `json:"date"`
	AvgADR              float64   `json:"avgAdr"`
	AvgOccupancy        float64   `json:"avgOccupancy"`
	AvgRevPAR           float64   `json:"avgRevpar"`
	TopPercentileRevPAR float64   `json:"topPercentileRevpar"`
	Source              string    `json:"source"`
}

// AggregatedMetrics summarises a window of nightly records.
type AggregatedMetrics struct {
	AvgADR       float64 `json:"avgAdr"`
	AvgOccupancy float64 `json:"avgOccupancy"`
	AvgRevPAR    float64 `json:"avgRevpar"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// MarketSummary is the benchmark a listing is compared against.
type MarketSummary struct {
	Location            string    `json:"location"`
	Date                time.Time `json:"date"`
	AvgADR              float64   `json:"avgAdr"`
	AvgOccupancy        float64   `json:"avgOccupancy"`
	AvgRevPAR           float64   `json:"avgRevpar"`
	TopPercentileRevPAR float64   `json:"topPercentileRevpar"`
	Sources             []string  `json:"sources"`
}

// ListingBundle carries everything the engine needs for one listing.
// RecentStats are most-recent-first.
type ListingBundle struct {
	ListingID   int64
	Name        string
	RecentStats []NightlyRecord
	Market      *MarketSummary
}

type Alert struct {
	ListingID       int64           `json:"listingId"`
	AlertType       enums.AlertType `json:"alertType"`
	Severity        enums.Severity  `json:"severity"`
	Message         string          `json:"message"`
	Metric          string          `json:"metric"`
	CurrentValue    float64         `json:"currentValue"`
	BenchmarkValue  float64         `json:"benchmarkValue"`
	DeviationScore  float64         `json:"deviationScore"`
	SuggestedAction string          `json:"suggestedAction"`
	Timestamp       time.Time       `json:"timestamp"`
}

const (
	MetricADR         = "adr"
	MetricOccupancy   = "occupancy"
	MetricRevPAR      = "revpar"
	MetricRevPARTrend = "revpar_trend"
)
