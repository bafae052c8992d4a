package recommendations

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/synergyrm/rm-copilot/pkg/db/models"
	"github.com/synergyrm/rm-copilot/pkg/enums"
)

// ErrNotFound is returned when a stored recommendation does not exist.
var ErrNotFound = errors.New("recommendation not found")

// Repository persists generated recommendations in ai_recs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateBatch(ctx context.Context, rows []models.AIRecommendation) error
	FindByID(ctx context.Context, id int64) (*models.AIRecommendation, error)
	MarkApplied(ctx context.Context, id int64, at time.Time) error
}

type repositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) CreateBatch(ctx context.Context, rows []models.AIRecommendation) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id int64) (*models.AIRecommendation, error) {
	var row models.AIRecommendation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repositoryImpl) MarkApplied(ctx context.Context, id int64, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.AIRecommendation{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     enums.RecommendationStatusApplied,
			"applied_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
