package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstPrefersEarlierKeys(t *testing.T) {
	t.Setenv("RM_TEST_PRIMARY", "  ")
	t.Setenv("RM_TEST_SECONDARY", " web.1 ")

	assert.Equal(t, "web.1", First("local", "RM_TEST_PRIMARY", "RM_TEST_SECONDARY"))
	assert.Equal(t, "local", First("local", "RM_TEST_UNSET"))
	assert.Equal(t, "json", Get("RM_TEST_UNSET", "json"))
}
