package models

import (
	"encoding/json"
	"time"

	"github.com/synergyrm/rm-copilot/pkg/enums"
)

// UserAction records an operator interaction with a listing.
type UserAction struct {
	ID         int64               `gorm:"column:id;primaryKey;autoIncrement"`
	ListingID  int64               `gorm:"column:listing_id;not null;index"`
	ActionType enums.ActionType    `gorm:"column:action_type;not null"`
	ActionData json.RawMessage     `gorm:"column:action_data;type:jsonb"`
	Result     *enums.ActionResult `gorm:"column:result"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (UserAction) TableName() string { return "user_actions" }
