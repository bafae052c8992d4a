package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityRankOrder(t *testing.T) {
	assert.Greater(t, SeverityCritical.Rank(), SeverityHigh.Rank())
	assert.Greater(t, SeverityHigh.Rank(), SeverityMedium.Rank())
	assert.Greater(t, SeverityMedium.Rank(), SeverityLow.Rank())
	assert.Greater(t, SeverityLow.Rank(), Severity("bogus").Rank())
	assert.True(t, SeverityHigh.AtLeast(SeverityHigh))
	assert.False(t, SeverityMedium.AtLeast(SeverityHigh))
}

func TestParseRecommendationType(t *testing.T) {
	got, err := ParseRecommendationType("event_based_pricing")
	require.NoError(t, err)
	assert.Equal(t, RecommendationTypeEventBasedPricing, got)

	_, err = ParseRecommendationType("price_optimization")
	require.Error(t, err)
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, AlertTypeCriticalDrop.IsValid())
	assert.False(t, AlertType("critical").IsValid())
	assert.True(t, TimeframeShortTerm.IsValid())
	assert.False(t, Timeframe("next_week").IsValid())
	assert.True(t, PriorityLow.IsValid())
	assert.True(t, RecommendationStatusApplied.IsValid())
	assert.True(t, ActionTypeManualPriceChange.IsValid())
	assert.True(t, ActionResultPartial.IsValid())
	assert.True(t, DataSourceAirDNA.IsValid())
	assert.True(t, RecommendationSourceFallback.IsValid())

	_, err := ParseSeverity("urgent")
	assert.Error(t, err)
}
