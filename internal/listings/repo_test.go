package listings

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/synergyrm/rm-copilot/pkg/db/models"
	"github.com/synergyrm/rm-copilot/pkg/enums"
)

var repoNow = time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, conn.AutoMigrate(
		&models.Listing{},
		&models.NightlyStat{},
		&models.MarketStat{},
		&models.AIRecommendation{},
	))
	return conn
}

func seedListing(t *testing.T, repo Repository, name, location string) *models.Listing {
	t.Helper()
	l := &models.Listing{Name: name, Location: location, Bedrooms: 2, Bathrooms: 1, MaxGuests: 4, IsActive: true, CurrentPrice: NullDecimal(200)}
	require.NoError(t, repo.Create(context.Background(), l))
	return l
}

func TestRepositoryNightlyRecordsDescending(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	l := seedListing(t, repo, "Ocean View", "Austin")

	var rows []models.NightlyStat
	for i := 0; i < 5; i++ {
		rows = append(rows, models.NightlyStat{
			ListingID: l.ID,
			Date:      repoNow.AddDate(0, 0, -i),
			ADR:       NullDecimal(float64(100 + i)),
			Occupancy: NullDecimal(70),
			RevPAR:    NullDecimal(float64(70 + i)),
			Revenue:   NullDecimal(float64(100 + i)),
		})
	}
	// insert oldest first so ordering comes from the query
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	require.NoError(t, repo.CreateNightlyStats(ctx, rows))

	got, err := repo.ListNightlyRecords(ctx, l.ID, &DateRange{Start: repoNow.AddDate(0, 0, -2)})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, got[0].Date.After(got[1].Date))
	assert.True(t, got[1].Date.After(got[2].Date))

	records := NightlyRecords(got)
	assert.Equal(t, 100.0, records[0].ADR)
	assert.Equal(t, 71.0, records[1].RevPAR)
}

func TestRepositoryNullColumnsReadAsZero(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	l := seedListing(t, repo, "Loft", "Denver")

	require.NoError(t, repo.CreateNightlyStats(ctx, []models.NightlyStat{{ListingID: l.ID, Date: repoNow}}))

	got, err := repo.ListNightlyRecords(ctx, l.ID, nil)
	require.NoError(t, err)
	records := NightlyRecords(got)
	require.Len(t, records, 1)
	assert.Zero(t, records[0].ADR)
	assert.Zero(t, records[0].Occupancy)
}

func TestRepositoryUpsertByWheelhouseID(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	whID := "wh_1"
	city := "Austin"

	created, err := repo.UpsertByWheelhouseID(ctx, &models.Listing{Name: "First", Location: "Austin, TX", WheelhouseID: &whID, City: &city, IsActive: true})
	require.NoError(t, err)
	assert.True(t, created)

	renamed := &models.Listing{Name: "Renamed", Location: "Austin, TX", WheelhouseID: &whID, City: &city, IsActive: true}
	created, err = repo.UpsertByWheelhouseID(ctx, renamed)
	require.NoError(t, err)
	assert.False(t, created)

	all, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Renamed", all[0].Name)
	assert.Equal(t, all[0].ID, renamed.ID)
}

func TestRepositoryFindByIDMissing(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	_, err := repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepositoryLatestAIScores(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()
	a := seedListing(t, repo, "A", "Austin")
	b := seedListing(t, repo, "B", "Austin")

	older, newer := 70, 92
	payload := json.RawMessage(`{"title":"x"}`)
	require.NoError(t, conn.Create(&models.AIRecommendation{ListingID: a.ID, RecommendationType: enums.RecommendationTypePricingOptimization, Recommendation: payload, Status: enums.RecommendationStatusPending, AIScore: &older, CreatedAt: repoNow.Add(-time.Hour)}).Error)
	require.NoError(t, conn.Create(&models.AIRecommendation{ListingID: a.ID, RecommendationType: enums.RecommendationTypePricingOptimization, Recommendation: payload, Status: enums.RecommendationStatusPending, AIScore: &newer, CreatedAt: repoNow}).Error)

	scores, err := repo.LatestAIScores(ctx, []int64{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, 92, scores[a.ID])
	_, ok := scores[b.ID]
	assert.False(t, ok)

	recs, err := repo.LatestRecommendations(ctx, a.ID, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 92, *recs[0].AIScore)
}

func TestRepositoryPortfolioStatsAndRetention(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	l := seedListing(t, repo, "A", "Austin")

	require.NoError(t, repo.CreateNightlyStats(ctx, []models.NightlyStat{
		{ListingID: l.ID, Date: repoNow, ADR: NullDecimal(100), Occupancy: NullDecimal(80), RevPAR: NullDecimal(80), Revenue: NullDecimal(100)},
		{ListingID: l.ID, Date: repoNow.AddDate(0, 0, -1), ADR: NullDecimal(200), Occupancy: NullDecimal(60), RevPAR: NullDecimal(120), Revenue: NullDecimal(200)},
		{ListingID: l.ID, Date: repoNow.AddDate(-2, 0, 0), ADR: NullDecimal(999), Occupancy: NullDecimal(1), RevPAR: NullDecimal(9), Revenue: NullDecimal(999)},
	}))
	require.NoError(t, repo.CreateMarketStats(ctx, []models.MarketStat{
		{Location: "Austin", Date: repoNow.AddDate(-2, 0, 0), AvgADR: NullDecimal(150)},
	}))

	stats, err := repo.PortfolioStats(ctx, &DateRange{Start: repoNow.AddDate(0, 0, -30)})
	require.NoError(t, err)
	assert.InDelta(t, 150, stats.AvgADR, 0.001)
	assert.InDelta(t, 70, stats.AvgOccupancy, 0.001)
	assert.InDelta(t, 100, stats.AvgRevPAR, 0.001)
	assert.InDelta(t, 300, stats.TotalRevenue, 0.001)

	nightly, market, err := repo.DeleteStatsBefore(ctx, repoNow.AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), nightly)
	assert.Equal(t, int64(1), market)
}
