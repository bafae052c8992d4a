package recommendations

import (
	"context"
	"time"

	"github.com/synergyrm/rm-copilot/pkg/config"
	"github.com/synergyrm/rm-copilot/pkg/enums"
	pkgerrors "github.com/synergyrm/rm-copilot/pkg/errors"
	"github.com/synergyrm/rm-copilot/pkg/logger"
	"github.com/synergyrm/rm-copilot/pkg/metrics"
)

// ServiceParams wires the recommendation generator.
type ServiceParams struct {
	Advisor Advisor
	Policy  Policy
	Logger  *logger.Logger
	Metrics *metrics.RecommendationMetrics
	Timeout time.Duration
	Clock   func() time.Time
}

// Service produces recommendations, preferring the advisor and falling back
// to the rule-based scorer on any advisor problem.
type Service struct {
	advisor Advisor
	policy  Policy
	logg    *logger.Logger
	metrics *metrics.RecommendationMetrics
	timeout time.Duration
	now     func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "recommendations logger required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		advisor: params.Advisor,
		policy:  params.Policy,
		logg:    params.Logger,
		metrics: params.Metrics,
		timeout: params.Timeout,
		now:     clock,
	}, nil
}

func (s *Service) Policy() Policy {
	return s.policy
}

// Generate returns at most MaxCount bounded recommendations and the source
// that produced them. It does not fail.
func (s *Service) Generate(ctx context.Context, in AdvisorInput) ([]Recommendation, enums.RecommendationSource) {
	if in.Now.IsZero() {
		in.Now = s.now()
	}
	ctx = s.logg.WithListingID(ctx, in.Summary.ListingID)

	if reason, skip := s.skipAdvisor(in.Summary.ListingID); skip {
		return s.fallback(ctx, in, reason, nil)
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.advisor.Advise(callCtx, systemPrompt, BuildPrompt(in, s.policy))
	if err != nil {
		return s.fallback(ctx, in, ReasonAdvisorError, err)
	}
	recs, err := ParseAdvice(raw, in.Summary, s.policy, Season(in.Now))
	if err != nil {
		return s.fallback(ctx, in, ReasonOf(err), err)
	}

	s.metrics.AddGenerated(string(enums.RecommendationSourceAI), len(recs))
	s.logg.Info(s.logg.WithField(ctx, "count", len(recs)), "advisor recommendations generated")
	return recs, enums.RecommendationSourceAI
}

// skipAdvisor applies the rollout mode. In partial mode even listing ids use
// the advisor and odd ids stay on the rule-based scorer.
func (s *Service) skipAdvisor(listingID int64) (string, bool) {
	if s.advisor == nil {
		return ReasonDisabled, true
	}
	switch config.NormalizeABMode(s.policy.ABMode) {
	case config.ABModeControl:
		return ReasonControlGroup, true
	case config.ABModePartial:
		if listingID%2 != 0 {
			return ReasonControlGroup, true
		}
	}
	return "", false
}

func (s *Service) fallback(ctx context.Context, in AdvisorInput, reason string, err error) ([]Recommendation, enums.RecommendationSource) {
	recs := Fallback(in.Summary, s.policy)
	s.metrics.IncFallback(reason)
	s.metrics.AddGenerated(string(enums.RecommendationSourceFallback), len(recs))
	if err != nil {
		ctx = s.logg.WithField(ctx, "reason", reason)
		ctx = s.logg.WithField(ctx, "error", err.Error())
		s.logg.Warn(ctx, "advisor unavailable; using rule-based recommendations")
	}
	return recs, enums.RecommendationSourceFallback
}
