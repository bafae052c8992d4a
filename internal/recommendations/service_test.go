package recommendations

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synergyrm/rm-copilot/pkg/config"
	"github.com/synergyrm/rm-copilot/pkg/enums"
	"github.com/synergyrm/rm-copilot/pkg/logger"
	"github.com/synergyrm/rm-copilot/pkg/metrics"
)

type fakeAdvisor struct {
	calls  int
	prompt string
	fn     func(ctx context.Context) (string, error)
}

func (f *fakeAdvisor) Advise(ctx context.Context, system, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	if f.fn != nil {
		return f.fn(ctx)
	}
	return `{"recommendations":[{"title":"Raise Friday","recommendationType":"pricing_optimization","potentialImpact":300,"confidence":90}]}`, nil
}

var serviceNow = time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, advisor Advisor, mode string) (*Service, *bytes.Buffer, *prometheus.Registry) {
	t.Helper()
	buf := &bytes.Buffer{}
	reg := prometheus.NewRegistry()
	policy := DefaultPolicy()
	policy.ABMode = mode
	svc, err := NewService(ServiceParams{
		Advisor: advisor,
		Policy:  policy,
		Logger:  logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: buf}),
		Metrics: metrics.NewRecommendationMetrics(reg),
		Timeout: 50 * time.Millisecond,
		Clock:   func() time.Time { return serviceNow },
	})
	require.NoError(t, err)
	return svc, buf, reg
}

func serviceInput(listingID int64) AdvisorInput {
	return AdvisorInput{Summary: ListingSummary{ListingID: listingID, Name: "Loft", Location: "Austin", CurrentPrice: 200, AvgOccupancy: floatPtr(90)}}
}

func TestGenerateUsesAdvisor(t *testing.T) {
	advisor := &fakeAdvisor{}
	svc, _, _ := newTestService(t, advisor, config.ABModeAll)

	recs, source := svc.Generate(context.Background(), serviceInput(2))
	assert.Equal(t, enums.RecommendationSourceAI, source)
	require.Len(t, recs, 1)
	assert.Equal(t, "Raise Friday", recs[0].Title)
	assert.True(t, recs[0].AutoApply)
	assert.Contains(t, advisor.prompt, "Summer season")
}

func TestGenerateFallsBackOnAdvisorError(t *testing.T) {
	advisor := &fakeAdvisor{fn: func(context.Context) (string, error) { return "", errors.New("rate limited") }}
	svc, logs, reg := newTestService(t, advisor, config.ABModeAll)

	recs, source := svc.Generate(context.Background(), serviceInput(2))
	assert.Equal(t, enums.RecommendationSourceFallback, source)
	require.NotEmpty(t, recs)
	assert.Equal(t, enums.RecommendationTypePricingOptimization, recs[0].RecommendationType)
	assert.Contains(t, logs.String(), "rule-based")
	count, err := testutil.GatherAndCount(reg, "rm_copilot_recommendation_fallbacks_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGenerateFallsBackOnInvalidJSON(t *testing.T) {
	advisor := &fakeAdvisor{fn: func(context.Context) (string, error) { return "sure! here you go", nil }}
	svc, logs, _ := newTestService(t, advisor, config.ABModeAll)

	_, source := svc.Generate(context.Background(), serviceInput(2))
	assert.Equal(t, enums.RecommendationSourceFallback, source)
	assert.Contains(t, logs.String(), ReasonInvalidJSON)
}

func TestGenerateFallsBackOnTimeout(t *testing.T) {
	advisor := &fakeAdvisor{fn: func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	svc, _, _ := newTestService(t, advisor, config.ABModeAll)

	recs, source := svc.Generate(context.Background(), serviceInput(2))
	assert.Equal(t, enums.RecommendationSourceFallback, source)
	assert.NotEmpty(t, recs)
}

func TestGenerateRolloutModes(t *testing.T) {
	cases := []struct {
		name      string
		mode      string
		listingID int64
		wantCalls int
		want      enums.RecommendationSource
	}{
		{"control skips advisor", config.ABModeControl, 2, 0, enums.RecommendationSourceFallback},
		{"partial odd id uses rules", config.ABModePartial, 3, 0, enums.RecommendationSourceFallback},
		{"partial even id uses advisor", config.ABModePartial, 4, 1, enums.RecommendationSourceAI},
		{"all uses advisor", config.ABModeAll, 3, 1, enums.RecommendationSourceAI},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			advisor := &fakeAdvisor{}
			svc, _, _ := newTestService(t, advisor, tc.mode)
			_, source := svc.Generate(context.Background(), serviceInput(tc.listingID))
			assert.Equal(t, tc.want, source)
			assert.Equal(t, tc.wantCalls, advisor.calls)
		})
	}
}

func TestGenerateRolloutModeFromMixedCaseConfig(t *testing.T) {
	for _, mode := range []string{"PARTIAL", " Control "} {
		t.Run(mode, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.RM.ABMode = mode

			advisor := &fakeAdvisor{}
			svc, err := NewService(ServiceParams{
				Advisor: advisor,
				Policy:  PolicyFromConfig(cfg),
				Logger:  logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}}),
				Metrics: metrics.NewRecommendationMetrics(prometheus.NewRegistry()),
				Timeout: 50 * time.Millisecond,
				Clock:   func() time.Time { return serviceNow },
			})
			require.NoError(t, err)

			recs, source := svc.Generate(context.Background(), serviceInput(3))
			assert.Equal(t, enums.RecommendationSourceFallback, source)
			assert.NotEmpty(t, recs)
			assert.Zero(t, advisor.calls)
		})
	}
}

func TestGenerateWithoutAdvisor(t *testing.T) {
	svc, logs, _ := newTestService(t, nil, config.ABModeAll)
	recs, source := svc.Generate(context.Background(), serviceInput(2))
	assert.Equal(t, enums.RecommendationSourceFallback, source)
	assert.NotEmpty(t, recs)
	assert.Empty(t, logs.String())
}

func TestNewServiceRequiresLogger(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}
