// Package providers holds the read-only upstream data feeds. The clients are
// simulated: they produce plausible figures under the same rate limits the
// real APIs impose, so the collection pipeline can run end to end without
// credentials.
package providers

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/synergyrm/rm-copilot/pkg/enums"
)

var (
	// ErrNoData means the feed has nothing for this listing or location.
	ErrNoData = errors.New("no data from provider")
	// ErrDisabled means the feed is switched off by configuration.
	ErrDisabled = errors.New("provider disabled")
)

// ListingRef identifies a listing to the feeds.
type ListingRef struct {
	ID           int64
	WheelhouseID string
	GuestyID     string
	Location     string
}

// NightlySnapshot is one day of listing performance. Occupancy is a 0-1
// fraction as the upstream APIs report it.
type NightlySnapshot struct {
	Date      time.Time
	ADR       float64
	Occupancy float64
	RevPAR    float64
	Revenue   float64
	Bookings  int
}

// MarketSnapshot is one day of location benchmarks. Zero fields were not
// reported by the source. Occupancy is a 0-1 fraction.
type MarketSnapshot struct {
	Date      time.Time
	ADR       float64
	Occupancy float64
	RevPAR    float64
}

// ListingSnapshot is a listing as described by the Wheelhouse listings feed.
type ListingSnapshot struct {
	ID            string
	Name          string
	City          string
	BedroomCount  int
	BathroomCount int
	MaxGuests     int
}

// NightlyFeed yields listing-level performance.
type NightlyFeed interface {
	Source() enums.DataSource
	FetchNightly(ctx context.Context, listing ListingRef) (NightlySnapshot, error)
}

// MarketFeed yields location-level benchmarks.
type MarketFeed interface {
	Source() enums.DataSource
	FetchMarket(ctx context.Context, location string) (MarketSnapshot, error)
}

// ListingFeed lists the properties managed upstream.
type ListingFeed interface {
	FetchListings(ctx context.Context) ([]ListingSnapshot, error)
}

// Options tune the simulated clients. A zero Seed seeds from the clock.
type Options struct {
	Seed  int64
	Clock func() time.Time
}

type simulator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

func newSimulator(opts Options) *simulator {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	seed := opts.Seed
	if seed == 0 {
		seed = clock().UnixNano()
	}
	return &simulator{rnd: rand.New(rand.NewSource(seed)), now: clock}
}

// between returns a value in [lo, lo+span).
func (s *simulator) between(lo, span float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rnd.Float64()*span
}

func (s *simulator) intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}

func (s *simulator) today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

// limiterEvery allows one request per interval. A non-positive interval
// disables limiting.
func limiterEvery(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
