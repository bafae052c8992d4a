package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Listing is a short-term rental unit under revenue management.
type Listing struct {
	ID           int64               `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string              `gorm:"column:name;not null"`
	Location     string              `gorm:"column:location;not null"`
	Bedrooms     int                 `gorm:"column:bedrooms;not null"`
	Bathrooms    int                 `gorm:"column:bathrooms;not null"`
	MaxGuests    int                 `gorm:"column:max_guests;not null"`
	ImageURL     *string             `gorm:"column:image_url"`
	WheelhouseID *string             `gorm:"column:wheelhouse_id;uniqueIndex"`
	GuestyID     *string             `gorm:"column:guesty_id"`
	CurrentPrice decimal.NullDecimal `gorm:"column:current_price;type:numeric(10,2)"`
	IsActive     bool                `gorm:"column:is_active;not null;default:true"`
	PMSID        *string             `gorm:"column:pms_id"`
	City         *string             `gorm:"column:city"`
	BedroomCount *int                `gorm:"column:bedroom_count"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Listing) TableName() string { return "listings" }
