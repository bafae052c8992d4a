package listings

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/synergyrm/rm-copilot/pkg/db/models"
)

// DateRange bounds a stats query. A zero End means open-ended.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// PortfolioStats aggregates every nightly row in a range.
type PortfolioStats struct {
	AvgRevPAR    float64 `json:"avgRevpar"`
	AvgADR       float64 `json:"avgAdr"`
	AvgOccupancy float64 `json:"avgOccupancy"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// Repository is the storage collaborator for listings and their stats.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, activeOnly bool) ([]models.Listing, error)
	FindByID(ctx context.Context, id int64) (*models.Listing, error)
	Create(ctx context.Context, listing *models.Listing) error
	UpsertByWheelhouseID(ctx context.Context, listing *models.Listing) (bool, error)
	ListNightlyRecords(ctx context.Context, listingID int64, rng *DateRange) ([]models.NightlyStat, error)
	ListMarketRecords(ctx context.Context, location string, rng *DateRange) ([]models.MarketStat, error)
	CreateNightlyStats(ctx context.Context, rows []models.NightlyStat) error
	CreateMarketStats(ctx context.Context, rows []models.MarketStat) error
	PortfolioStats(ctx context.Context, rng *DateRange) (PortfolioStats, error)
	LatestAIScores(ctx context.Context, listingIDs []int64) (map[int64]int, error)
	LatestRecommendations(ctx context.Context, listingID int64, limit int) ([]models.AIRecommendation, error)
	DeleteStatsBefore(ctx context.Context, cutoff time.Time) (int64, int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// ErrNotFound is returned when a listing id does not exist.
var ErrNotFound = errors.New("listing not found")

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) List(ctx context.Context, activeOnly bool) ([]models.Listing, error) {
	query := r.db.WithContext(ctx).Model(&models.Listing{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []models.Listing
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) FindByID(ctx context.Context, id int64) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *repositoryImpl) Create(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

// UpsertByWheelhouseID inserts a listing or, when one with the same
// wheelhouse id exists, refreshes its name, city and bedroom count. It
// reports whether a new row was created.
func (r *repositoryImpl) UpsertByWheelhouseID(ctx context.Context, listing *models.Listing) (bool, error) {
	if listing.WheelhouseID == nil || *listing.WheelhouseID == "" {
		return true, r.Create(ctx, listing)
	}

	var existing models.Listing
	err := r.db.WithContext(ctx).Where("wheelhouse_id = ?", *listing.WheelhouseID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, r.Create(ctx, listing)
	}
	if err != nil {
		return false, err
	}

	updates := map[string]any{
		"name":          listing.Name,
		"city":          listing.City,
		"bedroom_count": listing.BedroomCount,
		"updated_at":    time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Model(&models.Listing{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
		return false, err
	}
	listing.ID = existing.ID
	return false, nil
}

// ListNightlyRecords returns rows most-recent-first.
func (r *repositoryImpl) ListNightlyRecords(ctx context.Context, listingID int64, rng *DateRange) ([]models.NightlyStat, error) {
	query := applyRange(r.db.WithContext(ctx).Model(&models.NightlyStat{}).Where("listing_id = ?", listingID), rng)
	var rows []models.NightlyStat
	if err := query.Order("date DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListMarketRecords returns rows most-recent-first.
func (r *repositoryImpl) ListMarketRecords(ctx context.Context, location string, rng *DateRange) ([]models.MarketStat, error) {
	query := applyRange(r.db.WithContext(ctx).Model(&models.MarketStat{}).Where("location = ?", location), rng)
	var rows []models.MarketStat
	if err := query.Order("date DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) CreateNightlyStats(ctx context.Context, rows []models.NightlyStat) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repositoryImpl) CreateMarketStats(ctx context.Context, rows []models.MarketStat) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repositoryImpl) PortfolioStats(ctx context.Context, rng *DateRange) (PortfolioStats, error) {
	var row struct {
		AvgRevPAR    *float64 `gorm:"column:avg_revpar"`
		AvgADR       *float64 `gorm:"column:avg_adr"`
		AvgOccupancy *float64 `gorm:"column:avg_occupancy"`
		TotalRevenue *float64 `gorm:"column:total_revenue"`
	}
	query := applyRange(r.db.WithContext(ctx).Model(&models.NightlyStat{}), rng)
	err := query.Select(
		"AVG(revpar) AS avg_revpar, AVG(adr) AS avg_adr, AVG(occupancy) AS avg_occupancy, SUM(revenue) AS total_revenue",
	).Scan(&row).Error
	if err != nil {
		return PortfolioStats{}, err
	}
	return PortfolioStats{
		AvgRevPAR:    deref(row.AvgRevPAR),
		AvgADR:       deref(row.AvgADR),
		AvgOccupancy: deref(row.AvgOccupancy),
		TotalRevenue: deref(row.TotalRevenue),
	}, nil
}

// LatestAIScores returns the ai_score of the newest stored recommendation per
// listing. Listings without one are absent from the map.
func (r *repositoryImpl) LatestAIScores(ctx context.Context, listingIDs []int64) (map[int64]int, error) {
	scores := make(map[int64]int, len(listingIDs))
	if len(listingIDs) == 0 {
		return scores, nil
	}
	var rows []models.AIRecommendation
	err := r.db.WithContext(ctx).
		Model(&models.AIRecommendation{}).
		Where("listing_id IN ?", listingIDs).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if _, seen := scores[row.ListingID]; seen {
			continue
		}
		if row.AIScore != nil {
			scores[row.ListingID] = *row.AIScore
		} else {
			scores[row.ListingID] = 0
		}
	}
	return scores, nil
}

func (r *repositoryImpl) LatestRecommendations(ctx context.Context, listingID int64, limit int) ([]models.AIRecommendation, error) {
	query := r.db.WithContext(ctx).
		Model(&models.AIRecommendation{}).
		Where("listing_id = ?", listingID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []models.AIRecommendation
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteStatsBefore prunes nightly and market rows older than cutoff.
func (r *repositoryImpl) DeleteStatsBefore(ctx context.Context, cutoff time.Time) (int64, int64, error) {
	var nightly, market int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("date < ?", cutoff).Delete(&models.NightlyStat{})
		if res.Error != nil {
			return res.Error
		}
		nightly = res.RowsAffected
		res = tx.Where("date < ?", cutoff).Delete(&models.MarketStat{})
		if res.Error != nil {
			return res.Error
		}
		market = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return nightly, market, nil
}

func applyRange(query *gorm.DB, rng *DateRange) *gorm.DB {
	if rng == nil {
		return query
	}
	if !rng.Start.IsZero() {
		query = query.Where("date >= ?", rng.Start)
	}
	if !rng.End.IsZero() {
		query = query.Where("date <= ?", rng.End)
	}
	return query
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
