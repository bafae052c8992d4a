package listings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/synergyrm/rm-copilot/internal/performance"
	"github.com/synergyrm/rm-copilot/pkg/db/models"
	pkgerrors "github.com/synergyrm/rm-copilot/pkg/errors"
)

type fakeRepository struct {
	listings   []models.Listing
	nightly    map[int64][]models.NightlyStat
	market     map[string][]models.MarketStat
	scores     map[int64]int
	marketHit  int
	nightlyErr error
	createFn   func(ctx context.Context, listing *models.Listing) error
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) List(ctx context.Context, activeOnly bool) ([]models.Listing, error) {
	return f.listings, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id int64) (*models.Listing, error) {
	for _, l := range f.listings {
		if l.ID == id {
			l := l
			return &l, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeRepository) Create(ctx context.Context, listing *models.Listing) error {
	if f.createFn != nil {
		return f.createFn(ctx, listing)
	}
	listing.ID = int64(len(f.listings) + 1)
	f.listings = append(f.listings, *listing)
	return nil
}

func (f *fakeRepository) UpsertByWheelhouseID(ctx context.Context, listing *models.Listing) (bool, error) {
	return true, f.Create(ctx, listing)
}

func (f *fakeRepository) ListNightlyRecords(ctx context.Context, listingID int64, rng *DateRange) ([]models.NightlyStat, error) {
	if f.nightlyErr != nil {
		return nil, f.nightlyErr
	}
	return f.nightly[listingID], nil
}

func (f *fakeRepository) ListMarketRecords(ctx context.Context, location string, rng *DateRange) ([]models.MarketStat, error) {
	f.marketHit++
	return f.market[location], nil
}

func (f *fakeRepository) CreateNightlyStats(ctx context.Context, rows []models.NightlyStat) error {
	return nil
}

func (f *fakeRepository) CreateMarketStats(ctx context.Context, rows []models.MarketStat) error {
	return nil
}

func (f *fakeRepository) PortfolioStats(ctx context.Context, rng *DateRange) (PortfolioStats, error) {
	return PortfolioStats{AvgRevPAR: 100}, nil
}

func (f *fakeRepository) LatestAIScores(ctx context.Context, ids []int64) (map[int64]int, error) {
	return f.scores, nil
}

func (f *fakeRepository) LatestRecommendations(ctx context.Context, listingID int64, limit int) ([]models.AIRecommendation, error) {
	return nil, nil
}

func (f *fakeRepository) DeleteStatsBefore(ctx context.Context, cutoff time.Time) (int64, int64, error) {
	return 0, 0, nil
}

// fortnight builds 14 most-recent-first rows: the latest week at recent
// RevPAR, the week before at prior RevPAR.
func fortnight(listingID int64, recent, prior float64) []models.NightlyStat {
	rows := make([]models.NightlyStat, 0, 14)
	for i := 0; i < 14; i++ {
		revpar := recent
		if i >= 7 {
			revpar = prior
		}
		rows = append(rows, models.NightlyStat{
			ListingID: listingID,
			Date:      repoNow.AddDate(0, 0, -i),
			ADR:       NullDecimal(150),
			Occupancy: NullDecimal(70),
			RevPAR:    NullDecimal(revpar),
			Revenue:   NullDecimal(150),
		})
	}
	return rows
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:       repo,
		Thresholds: performance.DefaultThresholds(),
		Clock:      func() time.Time { return repoNow },
	})
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestDashboardStatusAndTrend(t *testing.T) {
	repo := &fakeRepository{
		listings: []models.Listing{
			{ID: 1, Name: "Excellent", Location: "Austin"},
			{ID: 2, Name: "Optimized", Location: "Austin"},
			{ID: 3, Name: "Alert", Location: "Austin"},
		},
		nightly: map[int64][]models.NightlyStat{
			1: fortnight(1, 110, 100),
			2: fortnight(2, 80, 100),
			3: fortnight(3, 70, 100),
		},
		scores: map[int64]int{1: 95, 2: 85},
	}
	dash, err := newTestService(t, repo).Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, dash.Listings, 3)

	assert.Equal(t, StatusExcellent, dash.Listings[0].Status)
	assert.Equal(t, performance.TrendImproving, dash.Listings[0].Trend)
	assert.InDelta(t, 10, dash.Listings[0].RevPARChangePct, 0.001)

	assert.Equal(t, StatusOptimized, dash.Listings[1].Status)
	assert.Equal(t, performance.TrendDeclining, dash.Listings[1].Trend)

	assert.Equal(t, StatusAlert, dash.Listings[2].Status)
	assert.Equal(t, performance.TrendCritical, dash.Listings[2].Trend)
	assert.Equal(t, 0, dash.Listings[2].AIScore)

	assert.Equal(t, 100.0, dash.Portfolio.AvgRevPAR)
}

func TestDetailErrors(t *testing.T) {
	svc := newTestService(t, &fakeRepository{})

	_, err := svc.Detail(context.Background(), 0)
	assert.Equal(t, pkgerrors.CodeInvalidRequest, pkgerrors.As(err).Code())

	_, err = svc.Detail(context.Background(), 42)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateValidatesAndPersists(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(t, repo)

	_, err := svc.Create(context.Background(), CreateInput{Name: " ", Location: "Austin"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	price := 180.0
	listing, err := svc.Create(context.Background(), CreateInput{Name: "Cabin", Location: "Tahoe", Bedrooms: 2, CurrentPrice: &price})
	require.NoError(t, err)
	assert.Equal(t, int64(1), listing.ID)
	assert.True(t, listing.IsActive)
	assert.Equal(t, "180", listing.CurrentPrice.Decimal.String())

	repo.createFn = func(context.Context, *models.Listing) error { return errors.New("db down") }
	_, err = svc.Create(context.Background(), CreateInput{Name: "Cabin", Location: "Tahoe"})
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())

	repo.createFn = func(context.Context, *models.Listing) error {
		return errors.New("UNIQUE constraint failed: listings.wheelhouse_id")
	}
	_, err = svc.Create(context.Background(), CreateInput{Name: "Cabin", Location: "Tahoe"})
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestBundlesReconcileMarketOncePerLocation(t *testing.T) {
	src := "airdna"
	repo := &fakeRepository{
		listings: []models.Listing{
			{ID: 1, Name: "A", Location: "Austin"},
			{ID: 2, Name: "B", Location: "Austin"},
		},
		nightly: map[int64][]models.NightlyStat{1: fortnight(1, 100, 100)},
		market: map[string][]models.MarketStat{
			"Austin": {{Location: "Austin", Date: repoNow, AvgADR: NullDecimal(160), Source: &src}},
		},
	}
	bundles, err := newTestService(t, repo).Bundles(context.Background())
	require.NoError(t, err)
	require.Len(t, bundles, 2)
	assert.Equal(t, 1, repo.marketHit)
	require.NotNil(t, bundles[0].Market)
	assert.Equal(t, 160.0, bundles[0].Market.AvgADR)
	assert.Len(t, bundles[0].RecentStats, 14)
	assert.Empty(t, bundles[1].RecentStats)
}

func TestPerformanceContext(t *testing.T) {
	repo := &fakeRepository{
		listings: []models.Listing{{ID: 7, Name: "A", Location: "Austin"}},
		nightly:  map[int64][]models.NightlyStat{7: fortnight(7, 100, 100)},
	}
	pc, err := newTestService(t, repo).PerformanceContext(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), pc.Listing.ID)
	assert.Len(t, pc.Recent, 14)
	assert.Nil(t, pc.Market)
}

func TestBundlesReadMarketUnderCityKey(t *testing.T) {
	src := "airdna"
	city := "Austin"
	repo := &fakeRepository{
		listings: []models.Listing{
			{ID: 1, Name: "A", Location: "Austin, TX", City: &city},
			{ID: 2, Name: "B", Location: "Austin"},
		},
		market: map[string][]models.MarketStat{
			"Austin": {{Location: "Austin", Date: repoNow, AvgADR: NullDecimal(160), Source: &src}},
		},
	}
	bundles, err := newTestService(t, repo).Bundles(context.Background())
	require.NoError(t, err)
	require.Len(t, bundles, 2)
	assert.Equal(t, 1, repo.marketHit)
	for _, b := range bundles {
		require.NotNil(t, b.Market, "listing %d", b.ListingID)
		assert.Equal(t, 160.0, b.Market.AvgADR)
	}
	assert.Equal(t, []int64{1, 2}, []int64{bundles[0].ListingID, bundles[1].ListingID})
}

func TestBundlesNightlyFailure(t *testing.T) {
	repo := &fakeRepository{
		listings:   []models.Listing{{ID: 1, Location: "Austin"}, {ID: 2, Location: "Austin"}},
		nightlyErr: errors.New("db down"),
	}
	_, err := newTestService(t, repo).Bundles(context.Background())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}

func TestMarketLocation(t *testing.T) {
	city := " Denver "
	blank := "  "
	assert.Equal(t, "Denver", MarketLocation(models.Listing{Location: "Denver, CO", City: &city}))
	assert.Equal(t, "Boise", MarketLocation(models.Listing{Location: " Boise", City: &blank}))
	assert.Equal(t, "Reno", MarketLocation(models.Listing{Location: "Reno"}))
}
