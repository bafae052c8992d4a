package actions

import (
	"context"
	"encoding/json"

	"github.com/synergyrm/rm-copilot/pkg/db/models"
	"github.com/synergyrm/rm-copilot/pkg/enums"
	pkgerrors "github.com/synergyrm/rm-copilot/pkg/errors"
)

const defaultListLimit = 50

// Service records and lists operator actions.
type Service interface {
	Log(ctx context.Context, input LogInput) (*models.UserAction, error)
	List(ctx context.Context, listingID int64, limit int) ([]models.UserAction, error)
}

// LogInput is one action to record. Data is stored verbatim and must be a
// JSON document when present.
type LogInput struct {
	ListingID  int64
	ActionType string
	Data       json.RawMessage
	Result     string
}

type service struct {
	repo Repository
}

// NewService wires action dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "actions repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Log(ctx context.Context, input LogInput) (*models.UserAction, error) {
	action, err := Build(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, action); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record user action")
	}
	return action, nil
}

func (s *service) List(ctx context.Context, listingID int64, limit int) ([]models.UserAction, error) {
	if listingID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidRequest, "listing id must be positive")
	}
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	rows, err := s.repo.ListByListing(ctx, listingID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user actions")
	}
	return rows, nil
}

// Build validates input and returns the row to insert. Callers that write
// inside their own transaction use it with Repository.WithTx.
func Build(input LogInput) (*models.UserAction, error) {
	if input.ListingID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidRequest, "listing id must be positive")
	}
	actionType, err := enums.ParseActionType(input.ActionType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action type")
	}
	if len(input.Data) > 0 && !json.Valid(input.Data) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action data must be valid json")
	}

	action := &models.UserAction{
		ListingID:  input.ListingID,
		ActionType: actionType,
		ActionData: input.Data,
	}
	if input.Result != "" {
		result, err := enums.ParseActionResult(input.Result)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action result")
		}
		action.Result = &result
	}
	return action, nil
}
