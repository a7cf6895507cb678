package quote

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/backend-repair/internal/common"
	"github.com/noah-isme/backend-repair/internal/obs"
	"github.com/noah-isme/backend-repair/internal/pricing"
)

type snapshotProvider interface {
	Snapshot(ctx context.Context, modelSlug string) (*pricing.Snapshot, error)
}

// SelectionInput is one desired service selection in client order.
type SelectionInput struct {
	ServiceID string  `json:"serviceId" validate:"required,uuid"`
	OptionID  *string `json:"optionId,omitempty" validate:"omitempty,uuid"`
}

// Input is the quote request payload.
type Input struct {
	Model      string           `json:"model" validate:"required"`
	Selections []SelectionInput `json:"selections" validate:"dive"`
}

// Output is the quote response payload.
type Output struct {
	pricing.Result
	Currency string `json:"currency"`
}

// Service computes price quotes against the current catalog snapshot.
type Service struct {
	Catalog  snapshotProvider
	Validate *validator.Validate
	Currency string
}

// Quote validates the input, replays the selection against the model's
// snapshot, and prices it. The computation itself never touches storage.
func (s *Service) Quote(ctx context.Context, in Input) (Output, error) {
	if s == nil || s.Catalog == nil {
		return Output{}, errors.New("quote service not configured")
	}
	if s.Validate != nil {
		if err := s.Validate.Struct(in); err != nil {
			countQuote("invalid")
			return Output{}, badRequest(err)
		}
	}
	snap, err := s.Catalog.Snapshot(ctx, in.Model)
	if err != nil {
		countQuote("unknown_model")
		return Output{}, err
	}
	return s.QuoteSnapshot(snap, in.Selections)
}

// QuoteSnapshot prices selections against a snapshot the caller already
// holds. Flows that quote and then persist use this so every read in the
// computation comes from the same catalog view, even if the cache refreshes
// midway.
func (s *Service) QuoteSnapshot(snap *pricing.Snapshot, selections []SelectionInput) (Output, error) {
	if s == nil || snap == nil {
		return Output{}, errors.New("quote service not configured")
	}
	sel, err := replaySelections(snap, selections)
	if err != nil {
		countQuote("invalid")
		return Output{}, err
	}

	result, err := pricing.Compute(snap, sel)
	if err != nil {
		countQuote("error")
		return Output{}, mapPricingError(err)
	}
	countQuote("ok")
	if result.AppliedCombo != nil && obs.ComboAppliedTotal != nil {
		obs.ComboAppliedTotal.WithLabelValues(result.AppliedCombo.Name).Inc()
	}
	return Output{Result: result, Currency: s.Currency}, nil
}

// replaySelections drives the selection state machine in client order so the
// same default-option and orphan-cleanup rules apply as in an interactive flow.
func replaySelections(snap *pricing.Snapshot, inputs []SelectionInput) (*pricing.Selection, error) {
	sel := pricing.NewSelection()
	for _, item := range inputs {
		serviceID, err := uuid.Parse(item.ServiceID)
		if err != nil {
			return nil, invalidSelection(fmt.Errorf("parse service id %q: %w", item.ServiceID, pricing.ErrInvalidSelection))
		}
		if sel.Selected(serviceID) {
			return nil, invalidSelection(fmt.Errorf("service %s listed twice: %w", serviceID, pricing.ErrInvalidSelection))
		}
		if err := sel.ToggleService(snap, serviceID); err != nil {
			return nil, mapPricingError(err)
		}
		if item.OptionID == nil {
			continue
		}
		optionID, err := uuid.Parse(*item.OptionID)
		if err != nil {
			return nil, invalidSelection(fmt.Errorf("parse option id %q: %w", *item.OptionID, pricing.ErrInvalidSelection))
		}
		if err := sel.SelectOption(snap, serviceID, optionID); err != nil {
			return nil, mapPricingError(err)
		}
	}
	return sel, nil
}

func mapPricingError(err error) error {
	switch {
	case errors.Is(err, pricing.ErrUnknownModel):
		return &common.AppError{
			Code:       "UNKNOWN_MODEL",
			Message:    "controller model not found",
			HTTPStatus: http.StatusNotFound,
			Err:        err,
		}
	case errors.Is(err, pricing.ErrUnknownCatalogReference):
		return &common.AppError{
			Code:       "CATALOG_STALE",
			Message:    "selection references a service or option that no longer exists",
			HTTPStatus: http.StatusConflict,
			Err:        err,
		}
	case errors.Is(err, pricing.ErrInvalidSelection):
		return invalidSelection(err)
	default:
		return err
	}
}

func invalidSelection(err error) *common.AppError {
	return &common.AppError{
		Code:       "INVALID_SELECTION",
		Message:    "selection is not valid for this catalog",
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        err,
	}
}

func badRequest(err error) *common.AppError {
	details := map[string]any{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, f := range verrs {
			details[f.Field()] = f.Tag()
		}
	}
	return &common.AppError{
		Code:       "BAD_REQUEST",
		Message:    "invalid payload",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
		Details:    details,
	}
}

func countQuote(result string) {
	if obs.QuoteTotal != nil {
		obs.QuoteTotal.WithLabelValues(result).Inc()
	}
}
