package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// CreateRepairRequestParams carries the columns of a new repair request.
type CreateRepairRequestParams struct {
	ModelID          pgtype.UUID
	Status           string
	Currency         string
	CustomerName     string
	CustomerPhone    pgtype.Text
	CustomerEmail    pgtype.Text
	Notes            pgtype.Text
	Subtotal         int64
	Discount         int64
	Total            int64
	AppliedComboName pgtype.Text
}

const createRepairRequest = `
INSERT INTO repair_requests (
    model_id, status, currency, customer_name, customer_phone, customer_email,
    notes, subtotal, discount, total, applied_combo_name
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id, model_id, status, currency, customer_name, customer_phone, customer_email,
    notes, subtotal, discount, total, applied_combo_name, created_at
`

// CreateRepairRequest inserts a repair request and returns the stored row.
func (q *Queries) CreateRepairRequest(ctx context.Context, arg CreateRepairRequestParams) (RepairRequest, error) {
	var r RepairRequest
	err := q.db.QueryRow(ctx, createRepairRequest,
		arg.ModelID, arg.Status, arg.Currency, arg.CustomerName, arg.CustomerPhone, arg.CustomerEmail,
		arg.Notes, arg.Subtotal, arg.Discount, arg.Total, arg.AppliedComboName,
	).Scan(&r.ID, &r.ModelID, &r.Status, &r.Currency, &r.CustomerName, &r.CustomerPhone, &r.CustomerEmail,
		&r.Notes, &r.Subtotal, &r.Discount, &r.Total, &r.AppliedComboName, &r.CreatedAt)
	return r, err
}

// CreateRequestItemParams carries the columns of one request line item.
type CreateRequestItemParams struct {
	RequestID   pgtype.UUID
	ServiceID   pgtype.UUID
	OptionID    pgtype.UUID
	ServiceName string
	OptionName  pgtype.Text
	UnitPrice   int64
	OptionPrice int64
	SortOrder   int32
}

const createRequestItem = `
INSERT INTO repair_request_items (
    request_id, service_id, option_id, service_name, option_name, unit_price, option_price, sort_order
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// CreateRequestItem inserts one line item for a repair request.
func (q *Queries) CreateRequestItem(ctx context.Context, arg CreateRequestItemParams) error {
	_, err := q.db.Exec(ctx, createRequestItem,
		arg.RequestID, arg.ServiceID, arg.OptionID, arg.ServiceName, arg.OptionName,
		arg.UnitPrice, arg.OptionPrice, arg.SortOrder)
	return err
}

const getRepairRequest = `
SELECT id, model_id, status, currency, customer_name, customer_phone, customer_email,
    notes, subtotal, discount, total, applied_combo_name, created_at
FROM repair_requests
WHERE id = $1
`

// GetRepairRequest returns one repair request; pgx.ErrNoRows when absent.
func (q *Queries) GetRepairRequest(ctx context.Context, id pgtype.UUID) (RepairRequest, error) {
	var r RepairRequest
	err := q.db.QueryRow(ctx, getRepairRequest, id).
		Scan(&r.ID, &r.ModelID, &r.Status, &r.Currency, &r.CustomerName, &r.CustomerPhone, &r.CustomerEmail,
			&r.Notes, &r.Subtotal, &r.Discount, &r.Total, &r.AppliedComboName, &r.CreatedAt)
	return r, err
}

const listRequestItems = `
SELECT id, request_id, service_id, option_id, service_name, option_name, unit_price, option_price, sort_order
FROM repair_request_items
WHERE request_id = $1
ORDER BY sort_order
`

// ListRequestItems returns the line items of one repair request in the order
// the customer selected them.
func (q *Queries) ListRequestItems(ctx context.Context, requestID pgtype.UUID) ([]RepairRequestItem, error) {
	rows, err := q.db.Query(ctx, listRequestItems, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RepairRequestItem
	for rows.Next() {
		var it RepairRequestItem
		if err := rows.Scan(&it.ID, &it.RequestID, &it.ServiceID, &it.OptionID,
			&it.ServiceName, &it.OptionName, &it.UnitPrice, &it.OptionPrice, &it.SortOrder); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
