package actions

import (
	"context"

	"gorm.io/gorm"

	"github.com/synergyrm/rm-copilot/pkg/db/models"
)

// Repository persists user actions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, action *models.UserAction) error
	ListByListing(ctx context.Context, listingID int64, limit int) ([]models.UserAction, error)
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

func (r *repositoryImpl) Create(ctx context.Context, action *models.UserAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}

func (r *repositoryImpl) ListByListing(ctx context.Context, listingID int64, limit int) ([]models.UserAction, error) {
	query := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []models.UserAction
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
