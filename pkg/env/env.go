package env

import (
	"os"
	"strings"
)

// First returns the first of keys set to a non-blank value, trimmed, or
// fallback when none is.
func First(fallback string, keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return fallback
}

// Get reads a single variable with a fallback.
func Get(key, fallback string) string {
	return First(fallback, key)
}
