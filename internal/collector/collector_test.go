package collector

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synergyrm/rm-copilot/internal/providers"
	"github.com/synergyrm/rm-copilot/pkg/db/models"
	"github.com/synergyrm/rm-copilot/pkg/enums"
	"github.com/synergyrm/rm-copilot/pkg/logger"
)

var collectDay = time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC)

type fakeStore struct {
	mu       sync.Mutex
	listings []models.Listing
	nightly  []models.NightlyStat
	market   []models.MarketStat
	upserted map[string]bool
}

func (f *fakeStore) List(ctx context.Context, activeOnly bool) ([]models.Listing, error) {
	return f.listings, nil
}

func (f *fakeStore) UpsertByWheelhouseID(ctx context.Context, l *models.Listing) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upserted == nil {
		f.upserted = map[string]bool{}
	}
	_, existed := f.upserted[*l.WheelhouseID]
	f.upserted[*l.WheelhouseID] = true
	return !existed, nil
}

func (f *fakeStore) CreateNightlyStats(ctx context.Context, rows []models.NightlyStat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nightly = append(f.nightly, rows...)
	return nil
}

func (f *fakeStore) CreateMarketStats(ctx context.Context, rows []models.MarketStat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.market = append(f.market, rows...)
	return nil
}

type stubNightly struct {
	source enums.DataSource
	err    error
}

func (s stubNightly) Source() enums.DataSource { return s.source }

func (s stubNightly) FetchNightly(ctx context.Context, ref providers.ListingRef) (providers.NightlySnapshot, error) {
	if s.err != nil {
		return providers.NightlySnapshot{}, s.err
	}
	if ref.WheelhouseID == "" {
		return providers.NightlySnapshot{}, providers.ErrNoData
	}
	return providers.NightlySnapshot{Date: collectDay, ADR: 200, Occupancy: 0.75, RevPAR: 150}, nil
}

type stubMarket struct {
	source enums.DataSource
	snap   providers.MarketSnapshot
	err    error
	mu     sync.Mutex
	seen   []string
}

func (s *stubMarket) Source() enums.DataSource { return s.source }

func (s *stubMarket) FetchMarket(ctx context.Context, location string) (providers.MarketSnapshot, error) {
	s.mu.Lock()
	s.seen = append(s.seen, location)
	s.mu.Unlock()
	return s.snap, s.err
}

func strPtr(s string) *string { return &s }

func newTestCollector(t *testing.T, store *fakeStore, nightly []providers.NightlyFeed, market []providers.MarketFeed) (*Collector, *[]time.Duration) {
	t.Helper()
	c, err := New(Params{
		Store:      store,
		Nightly:    nightly,
		Market:     market,
		Listings:   providers.NewWheelhouse(0, providers.Options{Seed: 1}),
		BatchSize:  2,
		BatchDelay: 3 * time.Second,
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	var sleeps []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return ctx.Err()
	}
	return c, &sleeps
}

func TestRunStoresDerivedRows(t *testing.T) {
	store := &fakeStore{listings: []models.Listing{
		{ID: 1, Location: "Austin, TX", City: strPtr("Austin"), WheelhouseID: strPtr("wh_1")},
		{ID: 2, Location: "Austin", WheelhouseID: strPtr("wh_2")},
		{ID: 3, Location: "Denver"},
	}}
	airdna := &stubMarket{source: enums.DataSourceAirDNA, snap: providers.MarketSnapshot{Date: collectDay, ADR: 180, Occupancy: 0.7, RevPAR: 126}}
	rabbu := &stubMarket{source: enums.DataSourceRabbu, snap: providers.MarketSnapshot{Date: collectDay, ADR: 230}}
	c, sleeps := newTestCollector(t, store,
		[]providers.NightlyFeed{stubNightly{source: enums.DataSourceWheelhouse}},
		[]providers.MarketFeed{airdna, rabbu},
	)

	res, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Listings: 3, NightlyRows: 2, MarketRows: 4}, res)

	require.Len(t, store.nightly, 2)
	row := store.nightly[0]
	assert.Equal(t, "75", row.Occupancy.Decimal.String())
	assert.Equal(t, "180", row.Revenue.Decimal.String())
	assert.Equal(t, 1, row.Bookings)
	assert.Equal(t, "wheelhouse", *row.Source)

	assert.ElementsMatch(t, []string{"Austin", "Denver"}, airdna.seen)
	for _, m := range store.market {
		if *m.Source == "rabbu" {
			assert.False(t, m.AvgOccupancy.Valid)
			assert.False(t, m.TopPercentileRevPAR.Valid)
		} else {
			assert.Equal(t, "176.4", m.TopPercentileRevPAR.Decimal.String())
		}
	}

	// two listing batches and one location batch
	assert.Equal(t, []time.Duration{3 * time.Second}, *sleeps)
}

func TestRunContinuesPastFailingSource(t *testing.T) {
	store := &fakeStore{listings: []models.Listing{
		{ID: 1, Location: "Austin", WheelhouseID: strPtr("wh_1")},
	}}
	broken := &stubMarket{source: enums.DataSourceRabbu, err: errors.New("503")}
	healthy := &stubMarket{source: enums.DataSourceAirDNA, snap: providers.MarketSnapshot{Date: collectDay, ADR: 180}}
	c, _ := newTestCollector(t, store,
		[]providers.NightlyFeed{
			stubNightly{source: enums.DataSourceWheelhouse},
			stubNightly{source: enums.DataSourceGuesty, err: providers.ErrDisabled},
		},
		[]providers.MarketFeed{broken, healthy},
	)

	res, err := c.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rabbu market for Austin")
	assert.Equal(t, 1, res.Failures)
	assert.Equal(t, 1, res.NightlyRows)
	assert.Equal(t, 1, res.MarketRows)
}

func TestRunStopsOnCancel(t *testing.T) {
	store := &fakeStore{listings: []models.Listing{
		{ID: 1, Location: "A", WheelhouseID: strPtr("1")},
		{ID: 2, Location: "B", WheelhouseID: strPtr("2")},
		{ID: 3, Location: "C", WheelhouseID: strPtr("3")},
	}}
	c, _ := newTestCollector(t, store, []providers.NightlyFeed{stubNightly{source: enums.DataSourceWheelhouse}}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	c.sleep = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	_, err := c.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, store.nightly, 2)
}

func TestSyncListingsUpsertsFeed(t *testing.T) {
	store := &fakeStore{}
	c, _ := newTestCollector(t, store, nil, nil)

	res, err := c.SyncListings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res.Total, res.Synced)
	assert.Equal(t, res.Total, res.Created)

	res, err = c.SyncListings(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Created)
}

func TestListingFromFeedDefaults(t *testing.T) {
	l := listingFromFeed(providers.ListingSnapshot{ID: "wh_9", Name: "Tiny", City: "Boise", BedroomCount: 1})
	assert.Equal(t, 1, l.Bathrooms)
	assert.Equal(t, 4, l.MaxGuests)
	assert.Equal(t, "Boise", l.Location)
	assert.Equal(t, "wh_9", *l.WheelhouseID)
	assert.True(t, l.IsActive)
}
