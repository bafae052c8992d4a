package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/synergyrm/rm-copilot/pkg/enums"
)

// Wheelhouse serves demand data and the listings feed. Requests share one
// limiter sized to the API's per-minute quota.
type Wheelhouse struct {
	sim     *simulator
	limiter *rate.Limiter
}

// NewWheelhouse builds a client limited to rpm requests per minute. A
// non-positive rpm disables limiting.
func NewWheelhouse(rpm int, opts Options) *Wheelhouse {
	var interval time.Duration
	if rpm > 0 {
		interval = time.Minute / time.Duration(rpm)
	}
	return &Wheelhouse{sim: newSimulator(opts), limiter: limiterEvery(interval)}
}

func (w *Wheelhouse) Source() enums.DataSource { return enums.DataSourceWheelhouse }

func (w *Wheelhouse) FetchNightly(ctx context.Context, listing ListingRef) (NightlySnapshot, error) {
	if strings.TrimSpace(listing.WheelhouseID) == "" {
		return NightlySnapshot{}, ErrNoData
	}
	if err := w.limiter.Wait(ctx); err != nil {
		return NightlySnapshot{}, fmt.Errorf("wheelhouse rate limit: %w", err)
	}
	adr := w.sim.between(200, 100)
	occ := w.sim.between(0.6, 0.3)
	return NightlySnapshot{
		Date:      w.sim.today(),
		ADR:       adr,
		Occupancy: occ,
		RevPAR:    adr * occ,
	}, nil
}

var sampleListings = []ListingSnapshot{
	{ID: "wh_1001", Name: "Downtown Loft", City: "Austin", BedroomCount: 1, BathroomCount: 1, MaxGuests: 2},
	{ID: "wh_1002", Name: "Lakeside Cabin", City: "Lake Tahoe", BedroomCount: 3, BathroomCount: 2, MaxGuests: 8},
	{ID: "wh_1003", Name: "Beach Bungalow", City: "San Diego", BedroomCount: 2, MaxGuests: 0},
}

func (w *Wheelhouse) FetchListings(ctx context.Context) ([]ListingSnapshot, error) {
	if err := w.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wheelhouse rate limit: %w", err)
	}
	out := make([]ListingSnapshot, len(sampleListings))
	copy(out, sampleListings)
	return out, nil
}
