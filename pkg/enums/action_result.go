package enums

import "fmt"

type ActionResult string

const (
	ActionResultSuccess ActionResult = "success"
	ActionResultFailed  ActionResult = "failed"
	ActionResultPartial ActionResult = "partial"
)

var validActionResults = []ActionResult{
	ActionResultSuccess,
	ActionResultFailed,
	ActionResultPartial,
}

// IsValid checks whether the given value matches the canonical enum.
func (a ActionResult) IsValid() bool {
	for _, candidate := range validActionResults {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActionResult converts raw strings into ActionResult.
func ParseActionResult(value string) (ActionResult, error) {
	for _, candidate := range validActionResults {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid action result %q", value)
}
