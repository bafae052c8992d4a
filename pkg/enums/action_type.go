package enums

import "fmt"

// ActionType enumerates user interactions recorded in user_actions.
type ActionType string

const (
	ActionTypeApplyRecommendation  ActionType = "apply_recommendation"
	ActionTypeRejectRecommendation ActionType = "reject_recommendation"
	ActionTypeManualPriceChange    ActionType = "manual_price_change"
)

var validActionTypes = []ActionType{
	ActionTypeApplyRecommendation,
	ActionTypeRejectRecommendation,
	ActionTypeManualPriceChange,
}

// IsValid checks whether the given value matches the canonical enum.
func (a ActionType) IsValid() bool {
	for _, candidate := range validActionTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActionType converts raw strings into ActionType.
func ParseActionType(value string) (ActionType, error) {
	for _, candidate := range validActionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid action type %q", value)
}
