package intake

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/backend-repair/internal/common"
	"github.com/noah-isme/backend-repair/internal/db"
	"github.com/noah-isme/backend-repair/internal/events"
	"github.com/noah-isme/backend-repair/internal/obs"
	"github.com/noah-isme/backend-repair/internal/pricing"
	"github.com/noah-isme/backend-repair/internal/quote"
)

// StatusReceived is the initial status of every new repair request.
const StatusReceived = "RECEIVED"

type snapshotProvider interface {
	Snapshot(ctx context.Context, modelSlug string) (*pricing.Snapshot, error)
}

type store interface {
	CreateRepairRequest(ctx context.Context, arg db.CreateRepairRequestParams) (db.RepairRequest, error)
	CreateRequestItem(ctx context.Context, arg db.CreateRequestItemParams) error
	GetRepairRequest(ctx context.Context, id pgtype.UUID) (db.RepairRequest, error)
	ListRequestItems(ctx context.Context, requestID pgtype.UUID) ([]db.RepairRequestItem, error)
}

// Customer identifies who filed the repair request.
type Customer struct {
	Name  string  `json:"name" validate:"required"`
	Phone *string `json:"phone,omitempty"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
}

// Input is the intake request payload. The quote section is recomputed
// server-side; client-supplied totals are never trusted.
type Input struct {
	Model      string                 `json:"model" validate:"required"`
	Selections []quote.SelectionInput `json:"selections" validate:"min=1,dive"`
	Customer   Customer               `json:"customer"`
	Notes      *string                `json:"notes,omitempty"`
}

// Item is one priced line of a stored repair request.
type Item struct {
	ServiceID   string  `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	OptionID    *string `json:"optionId,omitempty"`
	OptionName  *string `json:"optionName,omitempty"`
	UnitPrice   int64   `json:"unitPrice"`
	OptionPrice int64   `json:"optionPrice"`
}

// Output describes a stored repair request.
type Output struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	Currency     string    `json:"currency"`
	CustomerName string    `json:"customerName"`
	Items        []Item    `json:"items"`
	Subtotal     int64     `json:"subtotal"`
	Discount     int64     `json:"discount"`
	Total        int64     `json:"total"`
	AppliedCombo *string   `json:"appliedCombo,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Service persists repair requests with a server-side recomputed quote.
type Service struct {
	Store    store
	Pool     *pgxpool.Pool
	Quote    *quote.Service
	Catalog  snapshotProvider
	Events   *events.Bus
	Validate *validator.Validate
}

// Create prices the selection, stores the request and its line items in one
// transaction, and emits a request.created event after commit.
func (s *Service) Create(ctx context.Context, in Input) (Output, error) {
	if s == nil || s.Store == nil || s.Quote == nil || s.Catalog == nil {
		return Output{}, errors.New("intake service not configured")
	}
	if s.Validate != nil {
		if err := s.Validate.Struct(in); err != nil {
			return Output{}, badRequest(err)
		}
	}
	// One snapshot serves both the price computation and the line-item
	// names; fetching twice could mix pre- and post-refresh catalog rows.
	snap, err := s.Catalog.Snapshot(ctx, in.Model)
	if err != nil {
		return Output{}, err
	}
	priced, err := s.Quote.QuoteSnapshot(snap, in.Selections)
	if err != nil {
		return Output{}, err
	}

	params := db.CreateRepairRequestParams{
		ModelID:       toUUID(priced.ModelID),
		Status:        StatusReceived,
		Currency:      priced.Currency,
		CustomerName:  in.Customer.Name,
		CustomerPhone: toText(in.Customer.Phone),
		CustomerEmail: toText(in.Customer.Email),
		Notes:         toText(in.Notes),
		Subtotal:      priced.Subtotal,
		Discount:      priced.Discount,
		Total:         priced.Total,
	}
	if priced.AppliedCombo != nil {
		params.AppliedComboName = pgtype.Text{String: priced.AppliedCombo.Name, Valid: true}
	}

	var request db.RepairRequest
	persist := func(q store) error {
		var perr error
		request, perr = q.CreateRepairRequest(ctx, params)
		if perr != nil {
			return fmt.Errorf("create repair request: %w", perr)
		}
		for i, line := range priced.LineItems {
			itemParams, perr := lineItemParams(snap, request.ID, line, int32(i))
			if perr != nil {
				return perr
			}
			if perr := q.CreateRequestItem(ctx, itemParams); perr != nil {
				return fmt.Errorf("create request item: %w", perr)
			}
		}
		return nil
	}

	if s.Pool != nil {
		tx, err := s.Pool.Begin(ctx)
		if err != nil {
			return Output{}, err
		}
		defer func() {
			_ = tx.Rollback(ctx)
		}()
		if err := persist(db.New(tx)); err != nil {
			return Output{}, err
		}
		if err := tx.Commit(ctx); err != nil {
			return Output{}, err
		}
	} else if err := persist(s.Store); err != nil {
		return Output{}, err
	}

	if obs.RequestCreatedTotal != nil {
		obs.RequestCreatedTotal.Inc()
	}
	if s.Events != nil {
		payload := map[string]any{
			"requestId": uuidString(request.ID),
			"model":     snap.Model.Slug,
			"total":     request.Total,
		}
		if in.Customer.Email != nil && *in.Customer.Email != "" {
			payload["customerEmail"] = *in.Customer.Email
		}
		_, _ = s.Events.Emit(ctx, events.TopicRequestCreated, request.ID, payload)
	}
	return s.output(request, itemsFromResult(snap, priced.LineItems)), nil
}

// Get returns one stored repair request with its line items.
func (s *Service) Get(ctx context.Context, id string) (Output, error) {
	if s == nil || s.Store == nil {
		return Output{}, errors.New("intake service not configured")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Output{}, &common.AppError{
			Code:       "BAD_REQUEST",
			Message:    "invalid request id",
			HTTPStatus: http.StatusBadRequest,
			Err:        err,
		}
	}
	request, err := s.Store.GetRepairRequest(ctx, toUUID(parsed))
	if err != nil {
		if errors.Is(err, db.ErrNoRows) {
			return Output{}, &common.AppError{
				Code:       "NOT_FOUND",
				Message:    "repair request not found",
				HTTPStatus: http.StatusNotFound,
				Err:        err,
			}
		}
		return Output{}, fmt.Errorf("get repair request: %w", err)
	}
	rows, err := s.Store.ListRequestItems(ctx, request.ID)
	if err != nil {
		return Output{}, fmt.Errorf("list request items: %w", err)
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		item := Item{
			ServiceID:   uuidString(row.ServiceID),
			ServiceName: row.ServiceName,
			UnitPrice:   row.UnitPrice,
			OptionPrice: row.OptionPrice,
		}
		if row.OptionID.Valid {
			optionID := uuidString(row.OptionID)
			item.OptionID = &optionID
		}
		if row.OptionName.Valid {
			optionName := row.OptionName.String
			item.OptionName = &optionName
		}
		items = append(items, item)
	}
	return s.output(request, items), nil
}

func (s *Service) output(request db.RepairRequest, items []Item) Output {
	out := Output{
		ID:           uuidString(request.ID),
		Status:       request.Status,
		Currency:     request.Currency,
		CustomerName: request.CustomerName,
		Items:        items,
		Subtotal:     request.Subtotal,
		Discount:     request.Discount,
		Total:        request.Total,
		CreatedAt:    request.CreatedAt.Time,
	}
	if request.AppliedComboName.Valid {
		name := request.AppliedComboName.String
		out.AppliedCombo = &name
	}
	if request.Notes.Valid {
		notes := request.Notes.String
		out.Notes = &notes
	}
	return out
}

func lineItemParams(snap *pricing.Snapshot, requestID pgtype.UUID, line pricing.LineItem, sortOrder int32) (db.CreateRequestItemParams, error) {
	svc, ok := snap.ServiceByID(line.ServiceID)
	if !ok {
		return db.CreateRequestItemParams{}, fmt.Errorf("line item service %s: %w", line.ServiceID, pricing.ErrUnknownCatalogReference)
	}
	params := db.CreateRequestItemParams{
		RequestID:   requestID,
		ServiceID:   toUUID(line.ServiceID),
		ServiceName: svc.Name,
		UnitPrice:   line.UnitPrice,
		OptionPrice: line.OptionPrice,
		SortOrder:   sortOrder,
	}
	if line.OptionID != nil {
		opt, ok := snap.OptionByID(*line.OptionID)
		if !ok {
			return db.CreateRequestItemParams{}, fmt.Errorf("line item option %s: %w", *line.OptionID, pricing.ErrUnknownCatalogReference)
		}
		params.OptionID = toUUID(*line.OptionID)
		params.OptionName = pgtype.Text{String: opt.Name, Valid: true}
	}
	return params, nil
}

func itemsFromResult(snap *pricing.Snapshot, lines []pricing.LineItem) []Item {
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		item := Item{
			ServiceID:   line.ServiceID.String(),
			UnitPrice:   line.UnitPrice,
			OptionPrice: line.OptionPrice,
		}
		if svc, ok := snap.ServiceByID(line.ServiceID); ok {
			item.ServiceName = svc.Name
		}
		if line.OptionID != nil {
			optionID := line.OptionID.String()
			item.OptionID = &optionID
			if opt, ok := snap.OptionByID(*line.OptionID); ok {
				name := opt.Name
				item.OptionName = &name
			}
		}
		items = append(items, item)
	}
	return items
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

func toUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}

func toText(v *string) pgtype.Text {
	if v == nil || *v == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *v, Valid: true}
}
