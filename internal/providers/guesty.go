package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/synergyrm/rm-copilot/pkg/enums"
)

// Guesty serves booking data. The integration is off unless enabled, and
// calls are spaced by a minimum interval.
type Guesty struct {
	enabled bool
	sim     *simulator
	limiter *rate.Limiter
}

func NewGuesty(enabled bool, minInterval time.Duration, opts Options) *Guesty {
	return &Guesty{enabled: enabled, sim: newSimulator(opts), limiter: limiterEvery(minInterval)}
}

func (g *Guesty) Source() enums.DataSource { return enums.DataSourceGuesty }

func (g *Guesty) FetchNightly(ctx context.Context, listing ListingRef) (NightlySnapshot, error) {
	if !g.enabled {
		return NightlySnapshot{}, ErrDisabled
	}
	if strings.TrimSpace(listing.GuestyID) == "" {
		return NightlySnapshot{}, ErrNoData
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return NightlySnapshot{}, fmt.Errorf("guesty rate limit: %w", err)
	}
	bookings := 1 + g.sim.intn(3)
	adr := g.sim.between(180, 120)
	occ := g.sim.between(0.55, 0.35)
	return NightlySnapshot{
		Date:      g.sim.today(),
		ADR:       adr,
		Occupancy: occ,
		RevPAR:    adr * occ,
		Revenue:   adr * float64(bookings),
		Bookings:  bookings,
	}, nil
}
