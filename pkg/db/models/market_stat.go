package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketStat is a location-level benchmark snapshot reported by one source.
type MarketStat struct {
	ID                  int64               `gorm:"column:id;primaryKey;autoIncrement"`
	Location            string              `gorm:"column:location;not null;index:idx_market_stats_location_date,priority:1"`
	Date                time.Time           `gorm:"column:date;not null;index:idx_market_stats_location_date,priority:2"`
	AvgADR              decimal.NullDecimal `gorm:"column:avg_adr;type:numeric(10,2)"`
	AvgOccupancy        decimal.NullDecimal `gorm:"column:avg_occupancy;type:numeric(5,2)"`
	AvgRevPAR           decimal.NullDecimal `gorm:"column:avg_revpar;type:numeric(10,2)"`
	TopPercentileRevPAR decimal.NullDecimal `gorm:"column:top_percentile_revpar;type:numeric(10,2)"`
	Source              *string             `gorm:"column:source"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (MarketStat) TableName() string { return "market_stats" }
