package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/synergyrm/rm-copilot/internal/performance"
	"github.com/synergyrm/rm-copilot/pkg/config"
	"github.com/synergyrm/rm-copilot/pkg/db"
	"github.com/synergyrm/rm-copilot/pkg/db/models"
	pkgerrors "github.com/synergyrm/rm-copilot/pkg/errors"
)

const (
	StatusExcellent = "Excellent"
	StatusOptimized = "Optimized"
	StatusAlert     = "Alert"

	detailRecommendationLimit = 5
	bundleLoadConcurrency     = 4
)

// Service exposes listing reads used by the dashboard, the alert scan and the
// recommendation workflow.
type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	Detail(ctx context.Context, id int64) (*Detail, error)
	Create(ctx context.Context, input CreateInput) (*models.Listing, error)
	PerformanceContext(ctx context.Context, id int64) (*PerformanceContext, error)
	Bundles(ctx context.Context) ([]performance.ListingBundle, error)
}

// ServiceParams configures the listings service.
type ServiceParams struct {
	Repo           Repository
	Thresholds     performance.Thresholds
	LookbackDays   int
	ExcellentScore int
	OptimizedScore int
	Clock          func() time.Time
}

type service struct {
	repo           Repository
	thresholds     performance.Thresholds
	lookback       time.Duration
	excellentScore int
	optimizedScore int
	now            func() time.Time
}

// Dashboard is the portfolio overview.
type Dashboard struct {
	Portfolio PortfolioStats `json:"portfolio"`
	Listings  []DashboardRow `json:"listings"`
}

// DashboardRow summarises one listing over the last week.
type DashboardRow struct {
	Listing         models.Listing `json:"listing"`
	RevPAR          float64        `json:"revpar"`
	ADR             float64        `json:"adr"`
	Occupancy       float64        `json:"occupancy"`
	RevPARChangePct float64        `json:"revparChangePct"`
	AIScore         int            `json:"aiScore"`
	Status          string         `json:"status"`
	Trend           string         `json:"trend"`
}

// Detail is a single listing with its recent history.
type Detail struct {
	Listing         models.Listing              `json:"listing"`
	Stats           []performance.NightlyRecord `json:"stats"`
	Market          []performance.MarketRecord  `json:"marketStats"`
	Recommendations []models.AIRecommendation   `json:"recommendations"`
}

// PerformanceContext is what scoring needs for one listing.
type PerformanceContext struct {
	Listing models.Listing
	Recent  []performance.NightlyRecord
	Market  *performance.MarketSummary
}

// CreateInput is a validated new listing.
type CreateInput struct {
	Name         string
	Location     string
	Bedrooms     int
	Bathrooms    int
	MaxGuests    int
	CurrentPrice *float64
	ImageURL     *string
	WheelhouseID *string
	GuestyID     *string
}

// NewService wires listings dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "listings repository required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	lookback := params.LookbackDays
	if lookback <= 0 {
		lookback = 30
	}
	excellent, optimized := params.ExcellentScore, params.OptimizedScore
	if excellent <= 0 {
		excellent = 90
	}
	if optimized <= 0 {
		optimized = 80
	}
	return &service{
		repo:           params.Repo,
		thresholds:     params.Thresholds,
		lookback:       time.Duration(lookback) * 24 * time.Hour,
		excellentScore: excellent,
		optimizedScore: optimized,
		now:            clock,
	}, nil
}

// ParamsFromConfig fills the config-driven parts of ServiceParams.
func ParamsFromConfig(repo Repository, cfg *config.Config) ServiceParams {
	return ServiceParams{
		Repo:           repo,
		Thresholds:     performance.ThresholdsFromConfig(cfg.Alerts),
		LookbackDays:   cfg.Alerts.LookbackDays,
		ExcellentScore: cfg.RM.ExcellentScore,
		OptimizedScore: cfg.RM.OptimizedScore,
	}
}

func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	rng := s.window()

	portfolio, err := s.repo.PortfolioStats(ctx, rng)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load portfolio stats")
	}

	listings, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list listings")
	}

	ids := make([]int64, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}
	scores, err := s.repo.LatestAIScores(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ai scores")
	}

	rows := make([]DashboardRow, 0, len(listings))
	for _, l := range listings {
		stats, err := s.repo.ListNightlyRecords(ctx, l.ID, rng)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load nightly stats")
		}
		records := NightlyRecords(stats)
		week := performance.Aggregate(records, performance.DefaultWindow)
		change, _ := performance.WeekOverWeekPct(records)
		score := scores[l.ID]

		rows = append(rows, DashboardRow{
			Listing:         l,
			RevPAR:          week.AvgRevPAR,
			ADR:             week.AvgADR,
			Occupancy:       week.AvgOccupancy,
			RevPARChangePct: change,
			AIScore:         score,
			Status:          s.status(score),
			Trend:           performance.TrendLabel(change, s.thresholds),
		})
	}

	return &Dashboard{Portfolio: portfolio, Listings: rows}, nil
}

func (s *service) status(score int) string {
	switch {
	case score >= s.excellentScore:
		return StatusExcellent
	case score >= s.optimizedScore:
		return StatusOptimized
	default:
		return StatusAlert
	}
}

func (s *service) Detail(ctx context.Context, id int64) (*Detail, error) {
	listing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	rng := s.window()

	stats, err := s.repo.ListNightlyRecords(ctx, id, rng)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load nightly stats")
	}
	market, err := s.repo.ListMarketRecords(ctx, MarketLocation(*listing), rng)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load market stats")
	}
	recs, err := s.repo.LatestRecommendations(ctx, id, detailRecommendationLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recommendations")
	}

	return &Detail{
		Listing:         *listing,
		Stats:           NightlyRecords(stats),
		Market:          MarketRecords(market),
		Recommendations: recs,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Listing, error) {
	name := strings.TrimSpace(input.Name)
	location := strings.TrimSpace(input.Location)
	if name == "" || location == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and location are required")
	}
	if input.Bedrooms < 0 || input.Bathrooms < 0 || input.MaxGuests < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "room counts must not be negative")
	}

	listing := &models.Listing{
		Name:         name,
		Location:     location,
		Bedrooms:     input.Bedrooms,
		Bathrooms:    input.Bathrooms,
		MaxGuests:    input.MaxGuests,
		ImageURL:     input.ImageURL,
		WheelhouseID: input.WheelhouseID,
		GuestyID:     input.GuestyID,
		IsActive:     true,
	}
	if input.CurrentPrice != nil {
		if *input.CurrentPrice < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "current price must not be negative")
		}
		listing.CurrentPrice = NullDecimal(*input.CurrentPrice)
	}

	if err := s.repo.Create(ctx, listing); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "a listing with this wheelhouse id already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create listing")
	}
	return listing, nil
}

func (s *service) PerformanceContext(ctx context.Context, id int64) (*PerformanceContext, error) {
	listing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.performanceContext(ctx, *listing)
}

// Bundles builds engine input for every active listing. Nightly stats load
// concurrently; the first failure cancels the rest.
func (s *service) Bundles(ctx context.Context) ([]performance.ListingBundle, error) {
	listings, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list listings")
	}

	markets := map[string]*performance.MarketSummary{}
	for _, l := range listings {
		loc := MarketLocation(l)
		if _, seen := markets[loc]; seen {
			continue
		}
		if markets[loc], err = s.marketSummary(ctx, loc); err != nil {
			return nil, err
		}
	}

	rng := s.window()
	bundles := make([]performance.ListingBundle, len(listings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bundleLoadConcurrency)
	for i, l := range listings {
		i, l := i, l
		g.Go(func() error {
			stats, err := s.repo.ListNightlyRecords(gctx, l.ID, rng)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load nightly stats")
			}
			bundles[i] = performance.ListingBundle{
				ListingID:   l.ID,
				Name:        l.Name,
				RecentStats: NightlyRecords(stats),
				Market:      markets[MarketLocation(l)],
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundles, nil
}

func (s *service) performanceContext(ctx context.Context, listing models.Listing) (*PerformanceContext, error) {
	stats, err := s.repo.ListNightlyRecords(ctx, listing.ID, s.window())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load nightly stats")
	}
	market, err := s.marketSummary(ctx, MarketLocation(listing))
	if err != nil {
		return nil, err
	}
	return &PerformanceContext{Listing: listing, Recent: NightlyRecords(stats), Market: market}, nil
}

func (s *service) marketSummary(ctx context.Context, location string) (*performance.MarketSummary, error) {
	rows, err := s.repo.ListMarketRecords(ctx, location, s.window())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load market stats")
	}
	return performance.ReconcileMarket(MarketRecords(rows)), nil
}

// MarketLocation is the key market stats are stored and read under: the
// synced city when present, otherwise the free-form location.
func MarketLocation(l models.Listing) string {
	if l.City != nil && strings.TrimSpace(*l.City) != "" {
		return strings.TrimSpace(*l.City)
	}
	return strings.TrimSpace(l.Location)
}

func (s *service) find(ctx context.Context, id int64) (*models.Listing, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidRequest, "listing id must be positive")
	}
	listing, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load listing")
	}
	return listing, nil
}

func (s *service) window() *DateRange {
	return &DateRange{Start: s.now().UTC().Add(-s.lookback)}
}
