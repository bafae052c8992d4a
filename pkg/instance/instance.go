package instance

import (
	"os"

	"github.com/synergyrm/rm-copilot/pkg/env"
)

const fallbackID = "local"

// GetID identifies the running process in logs and lock values. RM_INSTANCE_ID
// wins, then the platform dyno name, then the hostname.
func GetID() string {
	if id := env.First("", "RM_INSTANCE_ID", "DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}
