package recommendations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synergyrm/rm-copilot/pkg/enums"
)

var adviceSummary = ListingSummary{ListingID: 2, Name: "Loft", Location: "Austin", CurrentPrice: 180, AvgOccupancy: floatPtr(72), MarketADR: floatPtr(160)}

func TestParseAdviceAppliesDefaults(t *testing.T) {
	recs, err := ParseAdvice(`{"recommendations":[{"recommendationType":"pricing_optimization"}]}`, adviceSummary, DefaultPolicy(), "Summer")
	require.NoError(t, err)
	require.Len(t, recs, 1)

	rec := recs[0]
	assert.Equal(t, "Revenue Optimization", rec.Title)
	assert.Equal(t, "Optimize pricing strategy", rec.Description)
	assert.Equal(t, 200.0, rec.PotentialImpact)
	assert.Equal(t, 75.0, rec.Confidence)
	assert.Equal(t, enums.TimeframeShortTerm, *rec.Timeframe)
	assert.Equal(t, enums.PriorityMedium, *rec.Priority)
	assert.Equal(t, PricingDetails{AdjustmentPct: 10}, rec.Details)
}

func TestParseAdviceClampsAdversarialNumbers(t *testing.T) {
	raw := `{"recommendations":[
		{"title":"Huge","recommendationType":"seasonal_strategy","potentialImpact":999999,"confidence":150},
		{"title":"Negative","recommendationType":"occupancy_strategy","potentialImpact":-50,"confidence":10},
		{"title":"Fine","recommendationType":"market_positioning","potentialImpact":420,"confidence":88,"timeframe":"long_term","priority":"high","extra":"ignored"}
	]}`
	recs, err := ParseAdvice(raw, adviceSummary, DefaultPolicy(), "Summer")
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, 5000.0, recs[0].PotentialImpact)
	assert.Equal(t, 100.0, recs[0].Confidence)
	assert.True(t, recs[0].AutoApply)
	assert.Equal(t, SeasonalDetails{Season: "Summer", AdjustmentPct: 10}, recs[0].Details)

	assert.Equal(t, 0.0, recs[1].PotentialImpact)
	assert.Equal(t, 50.0, recs[1].Confidence)
	assert.False(t, recs[1].AutoApply)

	assert.Equal(t, 420.0, recs[2].PotentialImpact)
	assert.Equal(t, enums.TimeframeLongTerm, *recs[2].Timeframe)
	assert.Equal(t, enums.PriorityHigh, *recs[2].Priority)
	assert.True(t, recs[2].AutoApply)
}

func TestParseAdviceTruncatesToMaxCount(t *testing.T) {
	raw := `{"recommendations":[
		{"recommendationType":"pricing_optimization"},
		{"recommendationType":"occupancy_strategy"},
		{"recommendationType":"revenue_enhancement"},
		{"recommendationType":"event_based_pricing"},
		{"recommendationType":"competitive_intelligence"}
	]}`
	recs, err := ParseAdvice(raw, adviceSummary, DefaultPolicy(), "Fall")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, enums.RecommendationTypeRevenueEnhancement, recs[2].RecommendationType)
}

func TestParseAdviceRejects(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		reason string
	}{
		{"not json", `Here are my thoughts...`, ReasonInvalidJSON},
		{"empty", `{"recommendations":[]}`, ReasonEmpty},
		{"missing type", `{"recommendations":[{"title":"x"}]}`, ReasonInvalidEnum},
		{"unknown type", `{"recommendations":[{"recommendationType":"magic"}]}`, ReasonInvalidEnum},
		{"bad timeframe", `{"recommendations":[{"recommendationType":"pricing_optimization","timeframe":"someday"}]}`, ReasonInvalidEnum},
		{"bad priority", `{"recommendations":[{"recommendationType":"pricing_optimization","priority":"urgent"}]}`, ReasonInvalidEnum},
		{"one bad entry", `{"recommendations":[{"recommendationType":"pricing_optimization"},{"recommendationType":"nope"}]}`, ReasonInvalidEnum},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recs, err := ParseAdvice(tc.raw, adviceSummary, DefaultPolicy(), "Winter")
			require.Error(t, err)
			assert.Nil(t, recs)
			assert.Equal(t, tc.reason, ReasonOf(err))
		})
	}
}
