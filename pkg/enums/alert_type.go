package enums

import "fmt"

// AlertType enumerates alert classes raised by the performance engine.
type AlertType string

const (
	AlertTypeUnderperformance AlertType = "underperformance"
	AlertTypeCriticalDrop     AlertType = "critical_drop"
	AlertTypeMarketLag        AlertType = "market_lag"
	AlertTypeOccupancyConcern AlertType = "occupancy_concern"
)

var validAlertTypes = []AlertType{
	AlertTypeUnderperformance,
	AlertTypeCriticalDrop,
	AlertTypeMarketLag,
	AlertTypeOccupancyConcern,
}

// IsValid checks whether the given value matches the canonical enum.
func (a AlertType) IsValid() bool {
	for _, candidate := range validAlertTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAlertType converts raw strings into AlertType.
func ParseAlertType(value string) (AlertType, error) {
	for _, candidate := range validAlertTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid alert type %q", value)
}
