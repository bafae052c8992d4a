package performance

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumeric converts a stored numeric-as-text value. Empty, unparsable and
// non-finite inputs become 0.
func ParseNumeric(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(v)
}

// ParseNumericPtr is ParseNumeric for optional columns.
func ParseNumericPtr(raw *string) float64 {
	if raw == nil {
		return 0
	}
	return ParseNumeric(*raw)
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
