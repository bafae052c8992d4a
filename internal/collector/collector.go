package collector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/synergyrm/rm-copilot/internal/listings"
	"github.com/synergyrm/rm-copilot/internal/providers"
	"github.com/synergyrm/rm-copilot/pkg/config"
	"github.com/synergyrm/rm-copilot/pkg/db/models"
	"github.com/synergyrm/rm-copilot/pkg/logger"
	"github.com/synergyrm/rm-copilot/pkg/metrics"
)

const (
	defaultBatchSize = 5

	kindNightly = "nightly"
	kindMarket  = "market"

	// Derived figures stored alongside the raw feed values.
	revenuePerRevPAR       = 1.2
	topPercentilePerRevPAR = 1.4
)

// Store is the persistence the collector writes through.
type Store interface {
	List(ctx context.Context, activeOnly bool) ([]models.Listing, error)
	UpsertByWheelhouseID(ctx context.Context, listing *models.Listing) (bool, error)
	CreateNightlyStats(ctx context.Context, rows []models.NightlyStat) error
	CreateMarketStats(ctx context.Context, rows []models.MarketStat) error
}

type Params struct {
	Store      Store
	Nightly    []providers.NightlyFeed
	Market     []providers.MarketFeed
	Listings   providers.ListingFeed
	BatchSize  int
	BatchDelay time.Duration
	Metrics    *metrics.CollectionMetrics
	Logger     *logger.Logger
}

// Collector pulls every feed for every active listing in fixed-size
// concurrent batches, pausing between batches. A failing source never aborts
// the others.
type Collector struct {
	store      Store
	nightly    []providers.NightlyFeed
	market     []providers.MarketFeed
	listings   providers.ListingFeed
	batchSize  int
	batchDelay time.Duration
	metrics    *metrics.CollectionMetrics
	logg       *logger.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

// Result summarises one collection pass.
type Result struct {
	Listings    int `json:"listingsSynced"`
	NightlyRows int `json:"wheelhouseRows"`
	MarketRows  int `json:"marketRows"`
	Failures    int `json:"failures"`
}

// SyncResult summarises a listings feed import.
type SyncResult struct {
	Synced  int `json:"syncedCount"`
	Created int `json:"createdCount"`
	Total   int `json:"totalListings"`
}

func New(params Params) (*Collector, error) {
	if params.Store == nil {
		return nil, errors.New("collector store required")
	}
	if params.Logger == nil {
		return nil, errors.New("collector logger required")
	}
	size := params.BatchSize
	if size <= 0 {
		size = defaultBatchSize
	}
	return &Collector{
		store:      params.Store,
		nightly:    params.Nightly,
		market:     params.Market,
		listings:   params.Listings,
		batchSize:  size,
		batchDelay: params.BatchDelay,
		metrics:    params.Metrics,
		logg:       params.Logger,
		sleep:      sleepCtx,
	}, nil
}

// ParamsFromConfig fills batch settings and the configured feeds. Wheelhouse
// serves both the nightly stats and the listings import.
func ParamsFromConfig(cfg config.CollectionConfig) Params {
	opts := providers.Options{Seed: time.Now().UnixNano()}
	wheelhouse := providers.NewWheelhouse(cfg.WheelhouseRPM, opts)
	return Params{
		Nightly: []providers.NightlyFeed{
			wheelhouse,
			providers.NewGuesty(cfg.GuestyEnabled, cfg.GuestyMinInterval, opts),
		},
		Market: []providers.MarketFeed{
			providers.NewAirDNA(opts),
			providers.NewRabbu(opts),
		},
		Listings:   wheelhouse,
		BatchSize:  cfg.BatchSize,
		BatchDelay: cfg.BatchDelay,
	}
}

// Run collects nightly stats per listing, then market stats per distinct
// location. Source failures are counted and returned combined; rows from
// healthy sources are still stored.
func (c *Collector) Run(ctx context.Context) (Result, error) {
	active, err := c.store.List(ctx, true)
	if err != nil {
		return Result{}, fmt.Errorf("list listings: %w", err)
	}

	var (
		mu     sync.Mutex
		result = Result{Listings: len(active)}
		errs   error
	)
	record := func(kind string, rows int, err error) {
		mu.Lock()
		defer mu.Unlock()
		if kind == kindNightly {
			result.NightlyRows += rows
		} else {
			result.MarketRows += rows
		}
		if err != nil {
			result.Failures++
			errs = multierr.Append(errs, err)
		}
	}

	err = runBatches(ctx, c, active, func(ctx context.Context, l models.Listing) {
		for _, feed := range c.nightly {
			rows, err := c.collectNightly(ctx, feed, l)
			record(kindNightly, rows, err)
		}
	})
	if err != nil {
		return result, err
	}

	err = runBatches(ctx, c, locations(active), func(ctx context.Context, location string) {
		for _, feed := range c.market {
			rows, err := c.collectMarket(ctx, feed, location)
			record(kindMarket, rows, err)
		}
	})
	if err != nil {
		return result, err
	}

	c.logg.Info(c.logg.WithFields(ctx, map[string]any{
		"listings":     result.Listings,
		"nightly_rows": result.NightlyRows,
		"market_rows":  result.MarketRows,
		"failures":     result.Failures,
	}), "data collection complete")
	return result, errs
}

func (c *Collector) collectNightly(ctx context.Context, feed providers.NightlyFeed, l models.Listing) (int, error) {
	source := feed.Source()
	snap, err := feed.FetchNightly(ctx, listingRef(l))
	if errors.Is(err, providers.ErrNoData) || errors.Is(err, providers.ErrDisabled) {
		return 0, nil
	}
	if err != nil {
		c.metrics.IncError(string(source))
		return 0, fmt.Errorf("%s nightly for listing %d: %w", source, l.ID, err)
	}

	bookings := snap.Bookings
	if bookings <= 0 {
		bookings = 1
	}
	revenue := snap.Revenue
	if revenue <= 0 {
		revenue = snap.RevPAR * revenuePerRevPAR
	}
	src := string(source)
	row := models.NightlyStat{
		ListingID: l.ID,
		Date:      snap.Date,
		ADR:       listings.NullDecimal(snap.ADR),
		Occupancy: listings.NullDecimal(snap.Occupancy * 100),
		RevPAR:    listings.NullDecimal(snap.RevPAR),
		Bookings:  bookings,
		Revenue:   listings.NullDecimal(revenue),
		Source:    &src,
	}
	if err := c.store.CreateNightlyStats(ctx, []models.NightlyStat{row}); err != nil {
		c.metrics.IncError(src)
		return 0, fmt.Errorf("store %s nightly for listing %d: %w", source, l.ID, err)
	}
	c.metrics.AddRows(src, kindNightly, 1)
	return 1, nil
}

func (c *Collector) collectMarket(ctx context.Context, feed providers.MarketFeed, location string) (int, error) {
	source := feed.Source()
	snap, err := feed.FetchMarket(ctx, location)
	if errors.Is(err, providers.ErrNoData) || errors.Is(err, providers.ErrDisabled) {
		return 0, nil
	}
	if err != nil {
		c.metrics.IncError(string(source))
		return 0, fmt.Errorf("%s market for %s: %w", source, location, err)
	}

	src := string(source)
	row := models.MarketStat{
		Location:            location,
		Date:                snap.Date,
		AvgADR:              optionalDecimal(snap.ADR),
		AvgOccupancy:        optionalDecimal(snap.Occupancy * 100),
		AvgRevPAR:           optionalDecimal(snap.RevPAR),
		TopPercentileRevPAR: optionalDecimal(snap.RevPAR * topPercentilePerRevPAR),
		Source:              &src,
	}
	if err := c.store.CreateMarketStats(ctx, []models.MarketStat{row}); err != nil {
		c.metrics.IncError(src)
		return 0, fmt.Errorf("store %s market for %s: %w", source, location, err)
	}
	c.metrics.AddRows(src, kindMarket, 1)
	return 1, nil
}

// SyncListings imports the upstream listings feed, matching on wheelhouse id.
func (c *Collector) SyncListings(ctx context.Context) (SyncResult, error) {
	if c.listings == nil {
		return SyncResult{}, errors.New("listings feed not configured")
	}
	feed, err := c.listings.FetchListings(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch listings feed: %w", err)
	}

	result := SyncResult{Total: len(feed)}
	for _, item := range feed {
		created, err := c.store.UpsertByWheelhouseID(ctx, listingFromFeed(item))
		if err != nil {
			return result, fmt.Errorf("upsert listing %s: %w", item.ID, err)
		}
		result.Synced++
		if created {
			result.Created++
		}
	}
	c.logg.Info(c.logg.WithFields(ctx, map[string]any{
		"synced":  result.Synced,
		"created": result.Created,
	}), "listings sync complete")
	return result, nil
}

func listingFromFeed(item providers.ListingSnapshot) *models.Listing {
	id := item.ID
	city := item.City
	bedrooms := item.BedroomCount
	bathrooms := item.BathroomCount
	if bathrooms <= 0 {
		bathrooms = 1
	}
	guests := item.MaxGuests
	if guests <= 0 {
		guests = 4
	}
	return &models.Listing{
		Name:         item.Name,
		Location:     item.City,
		Bedrooms:     bedrooms,
		Bathrooms:    bathrooms,
		MaxGuests:    guests,
		WheelhouseID: &id,
		City:         &city,
		BedroomCount: &bedrooms,
		IsActive:     true,
	}
}

func listingRef(l models.Listing) providers.ListingRef {
	ref := providers.ListingRef{ID: l.ID, Location: listings.MarketLocation(l)}
	if l.WheelhouseID != nil {
		ref.WheelhouseID = *l.WheelhouseID
	}
	if l.GuestyID != nil {
		ref.GuestyID = *l.GuestyID
	}
	return ref
}

func locations(ls []models.Listing) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		loc := listings.MarketLocation(l)
		if loc == "" {
			continue
		}
		if _, ok := seen[loc]; ok {
			continue
		}
		seen[loc] = struct{}{}
		out = append(out, loc)
	}
	return out
}

// runBatches calls fn for every item, batchSize at a time concurrently, and
// sleeps batchDelay between batches. Items report their own failures, so only
// cancellation stops it early.
func runBatches[T any](ctx context.Context, c *Collector, items []T, fn func(context.Context, T)) error {
	for start := 0; start < len(items); start += c.batchSize {
		end := start + c.batchSize
		if end > len(items) {
			end = len(items)
		}

		var wg sync.WaitGroup
		for _, item := range items[start:end] {
			wg.Add(1)
			go func(item T) {
				defer wg.Done()
				fn(ctx, item)
			}(item)
		}
		wg.Wait()

		if err := ctx.Err(); err != nil {
			return err
		}
		if end < len(items) {
			if err := c.sleep(ctx, c.batchDelay); err != nil {
				return err
			}
		}
	}
	return nil
}

func optionalDecimal(v float64) decimal.NullDecimal {
	if v <= 0 {
		return decimal.NullDecimal{}
	}
	return listings.NullDecimal(v)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
