package recommendations

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/synergyrm/rm-copilot/internal/actions"
	"github.com/synergyrm/rm-copilot/internal/listings"
	"github.com/synergyrm/rm-copilot/internal/performance"
	"github.com/synergyrm/rm-copilot/pkg/db/models"
	"github.com/synergyrm/rm-copilot/pkg/enums"
	pkgerrors "github.com/synergyrm/rm-copilot/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type contextLoader interface {
	PerformanceContext(ctx context.Context, id int64) (*listings.PerformanceContext, error)
}

type generator interface {
	Generate(ctx context.Context, in AdvisorInput) ([]Recommendation, enums.RecommendationSource)
}

// Workflow is the suggest/apply surface behind the AI endpoints.
type Workflow interface {
	Suggest(ctx context.Context, listingID int64) (*SuggestResult, error)
	Apply(ctx context.Context, recommendationID int64) (*models.AIRecommendation, error)
}

// WorkflowParams wires the suggest/apply workflow.
type WorkflowParams struct {
	Listings    contextLoader
	Generator   generator
	Repo        Repository
	ActionsRepo actions.Repository
	Tx          txRunner
	Clock       func() time.Time
}

type workflow struct {
	listings  contextLoader
	generator generator
	repo      Repository
	actions   actions.Repository
	tx        txRunner
	now       func() time.Time
}

// SuggestResult lists the recommendations persisted for a listing.
type SuggestResult struct {
	ListingID       int64                      `json:"listingId"`
	Source          enums.RecommendationSource `json:"source"`
	Recommendations []StoredRecommendation     `json:"recommendations"`
}

// StoredRecommendation pairs a persisted row id with its payload.
type StoredRecommendation struct {
	ID             int64                      `json:"id"`
	Status         enums.RecommendationStatus `json:"status"`
	AIScore        int                        `json:"aiScore"`
	Recommendation Recommendation             `json:"recommendation"`
}

// NewWorkflow validates workflow dependencies.
func NewWorkflow(params WorkflowParams) (Workflow, error) {
	switch {
	case params.Listings == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "listings service required")
	case params.Generator == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "recommendation generator required")
	case params.Repo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "recommendations repository required")
	case params.ActionsRepo == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "actions repository required")
	case params.Tx == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &workflow{
		listings:  params.Listings,
		generator: params.Generator,
		repo:      params.Repo,
		actions:   params.ActionsRepo,
		tx:        params.Tx,
		now:       clock,
	}, nil
}

func (w *workflow) Suggest(ctx context.Context, listingID int64) (*SuggestResult, error) {
	if listingID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidRequest, "listingId is required")
	}
	pc, err := w.listings.PerformanceContext(ctx, listingID)
	if err != nil {
		return nil, err
	}

	recs, source := w.generator.Generate(ctx, AdvisorInput{
		Summary: SummaryFor(pc),
		Recent:  pc.Recent,
		Market:  pc.Market,
		Now:     w.now(),
	})

	rows := make([]models.AIRecommendation, 0, len(recs))
	for _, rec := range recs {
		row, err := toModel(listingID, rec)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode recommendation")
		}
		rows = append(rows, row)
	}
	if err := w.repo.CreateBatch(ctx, rows); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store recommendations")
	}

	result := &SuggestResult{ListingID: listingID, Source: source, Recommendations: make([]StoredRecommendation, 0, len(rows))}
	for i, row := range rows {
		result.Recommendations = append(result.Recommendations, StoredRecommendation{
			ID:             row.ID,
			Status:         row.Status,
			AIScore:        *row.AIScore,
			Recommendation: recs[i],
		})
	}
	return result, nil
}

// Apply marks a recommendation applied and logs the operator action in the
// same transaction. Applying twice is a no-op; applying a rejected
// recommendation is a state conflict.
func (w *workflow) Apply(ctx context.Context, recommendationID int64) (*models.AIRecommendation, error) {
	if recommendationID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidRequest, "recommendation id must be positive")
	}

	var applied *models.AIRecommendation
	err := w.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := w.repo.WithTx(tx)
		row, err := repo.FindByID(ctx, recommendationID)
		if errors.Is(err, ErrNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "recommendation not found")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recommendation")
		}
		switch row.Status {
		case enums.RecommendationStatusApplied:
			applied = row
			return nil
		case enums.RecommendationStatusRejected:
			return pkgerrors.New(pkgerrors.CodeStateConflict, "rejected recommendation cannot be applied")
		}

		at := w.now().UTC()
		if err := repo.MarkApplied(ctx, row.ID, at); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark recommendation applied")
		}
		row.Status = enums.RecommendationStatusApplied
		row.AppliedAt = &at

		data, err := json.Marshal(map[string]any{
			"recommendationId":   row.ID,
			"recommendationType": row.RecommendationType,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode action data")
		}
		action, err := actions.Build(actions.LogInput{
			ListingID:  row.ListingID,
			ActionType: string(enums.ActionTypeApplyRecommendation),
			Data:       data,
			Result:     string(enums.ActionResultSuccess),
		})
		if err != nil {
			return err
		}
		if err := w.actions.WithTx(tx).Create(ctx, action); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record apply action")
		}
		applied = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}

// SummaryFor derives scorer input from a listing's recent performance.
func SummaryFor(pc *listings.PerformanceContext) ListingSummary {
	summary := ListingSummary{
		ListingID: pc.Listing.ID,
		Name:      pc.Listing.Name,
		Location:  pc.Listing.Location,
	}
	if pc.Listing.CurrentPrice.Valid {
		summary.CurrentPrice = pc.Listing.CurrentPrice.Decimal.InexactFloat64()
	}
	if len(pc.Recent) > 0 {
		occ := performance.Aggregate(pc.Recent, len(pc.Recent)).AvgOccupancy
		summary.AvgOccupancy = &occ
	}
	if pc.Market != nil && pc.Market.AvgADR > 0 {
		adr := pc.Market.AvgADR
		summary.MarketADR = &adr
	}
	return summary
}

func toModel(listingID int64, rec Recommendation) (models.AIRecommendation, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return models.AIRecommendation{}, err
	}
	score := int(math.Round(rec.Confidence))
	return models.AIRecommendation{
		ListingID:          listingID,
		RecommendationType: rec.RecommendationType,
		Recommendation:     payload,
		Confidence:         decimal.NewNullDecimal(decimal.NewFromFloat(rec.Confidence).Round(2)),
		PotentialImpact:    decimal.NewNullDecimal(decimal.NewFromFloat(rec.PotentialImpact).Round(2)),
		Status:             enums.RecommendationStatusPending,
		AIScore:            &score,
	}, nil
}
