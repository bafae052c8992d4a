package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/synergyrm/rm-copilot/pkg/enums"
)

// AIRecommendation persists a generated recommendation. Recommendation holds
// the tagged details payload as JSON.
type AIRecommendation struct {
	ID                 int64                      `gorm:"column:id;primaryKey;autoIncrement"`
	ListingID          int64                      `gorm:"column:listing_id;not null;index"`
	RecommendationType enums.RecommendationType   `gorm:"column:recommendation_type;not null"`
	Recommendation     json.RawMessage            `gorm:"column:recommendation;type:jsonb;not null"`
	Confidence         decimal.NullDecimal        `gorm:"column:confidence;type:numeric(5,2)"`
	PotentialImpact    decimal.NullDecimal        `gorm:"column:potential_impact;type:numeric(10,2)"`
	Status             enums.RecommendationStatus `gorm:"column:status;not null;default:pending"`
	AIScore            *int                       `gorm:"column:ai_score"`
	CreatedAt          time.Time                  `gorm:"column:created_at;autoCreateTime"`
	AppliedAt          *time.Time                 `gorm:"column:applied_at"`
}

func (AIRecommendation) TableName() string { return "ai_recs" }
