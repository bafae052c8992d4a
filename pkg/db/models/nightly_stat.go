package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NightlyStat is one day of performance for a listing from one source.
// Numeric columns are nullable; readers treat NULL as zero.
type NightlyStat struct {
	ID        int64               `gorm:"column:id;primaryKey;autoIncrement"`
	ListingID int64               `gorm:"column:listing_id;not null;index:idx_nightly_stats_listing_date,priority:1"`
	Date      time.Time           `gorm:"column:date;not null;index:idx_nightly_stats_listing_date,priority:2"`
	ADR       decimal.NullDecimal `gorm:"column:adr;type:numeric(10,2)"`
	Occupancy decimal.NullDecimal `gorm:"column:occupancy;type:numeric(5,2)"`
	RevPAR    decimal.NullDecimal `gorm:"column:revpar;type:numeric(10,2)"`
	Bookings  int                 `gorm:"column:bookings;not null;default:0"`
	Revenue   decimal.NullDecimal `gorm:"column:revenue;type:numeric(10,2)"`
	Source    *string             `gorm:"column:source"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (NightlyStat) TableName() string { return "nightly_stats" }
