package performance

import (
	"fmt"
	"sort"
	"time"

	"github.com/synergyrm/rm-copilot/pkg/errors"
)

// Engine turns listing bundles into severity-sorted alerts. It holds only
// immutable configuration and is safe for concurrent use.
type Engine struct {
	thresholds Thresholds
	now        func() time.Time
}

// NewEngine builds an engine. A nil clock falls back to time.Now.
func NewEngine(thresholds Thresholds, clock func() time.Time) *Engine {
	if clock == nil {
		clock = time.Now
	}
	if thresholds.Window <= 0 {
		thresholds.Window = DefaultWindow
	}
	if thresholds.TrendWindow <= 0 {
		thresholds.TrendWindow = DefaultWindow
	}
	if thresholds.MinSamples <= 0 {
		thresholds.MinSamples = DefaultThresholds().MinSamples
	}
	if thresholds.Dispersion <= 0 {
		thresholds.Dispersion = DefaultDispersion
	}
	return &Engine{thresholds: thresholds, now: clock}
}

func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// CheckPerformanceAlerts evaluates every bundle and returns the combined
// alerts sorted by severity, most urgent first. Alerts of equal severity keep
// bundle order, then check order (market, trend, floors).
func (e *Engine) CheckPerformanceAlerts(bundles []ListingBundle) ([]Alert, error) {
	alerts := make([]Alert, 0)
	for i, bundle := range bundles {
		listingAlerts, err := e.CheckListing(bundle)
		if err != nil {
			return nil, fmt.Errorf("bundle %d: %w", i, err)
		}
		alerts = append(alerts, listingAlerts...)
	}
	SortBySeverity(alerts)
	return alerts, nil
}

// CheckListing evaluates a single bundle. Listings with fewer than the
// minimum sample count produce no alerts.
func (e *Engine) CheckListing(bundle ListingBundle) ([]Alert, error) {
	if bundle.ListingID <= 0 {
		return nil, errors.New(errors.CodeInvalidRequest, "listing id is required").
			WithDetails(map[string]any{"listingId": bundle.ListingID, "name": bundle.Name})
	}
	if len(bundle.RecentStats) < e.thresholds.MinSamples {
		return nil, nil
	}

	current := Aggregate(bundle.RecentStats, e.thresholds.Window)

	var alerts []Alert
	alerts = append(alerts, e.marketAlerts(bundle, current)...)
	alerts = append(alerts, e.trendAlerts(bundle)...)
	alerts = append(alerts, e.floorAlerts(bundle, current)...)
	return alerts, nil
}

// SortBySeverity orders alerts critical > high > medium > low in place,
// preserving the relative order of equal severities.
func SortBySeverity(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.Rank() > alerts[j].Severity.Rank()
	})
}
