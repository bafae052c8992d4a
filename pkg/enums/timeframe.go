package enums

import "fmt"

type Timeframe string

const (
	TimeframeImmediate Timeframe = "immediate"
	TimeframeShortTerm Timeframe = "short_term"
	TimeframeLongTerm  Timeframe = "long_term"
)

var validTimeframes = []Timeframe{
	TimeframeImmediate,
	TimeframeShortTerm,
	TimeframeLongTerm,
}

// IsValid checks whether the given value matches the canonical enum.
func (t Timeframe) IsValid() bool {
	for _, candidate := range validTimeframes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTimeframe converts raw strings into Timeframe.
func ParseTimeframe(value string) (Timeframe, error) {
	for _, candidate := range validTimeframes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid timeframe %q", value)
}
