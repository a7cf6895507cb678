package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const listActiveModels = `
SELECT id, slug, name, active, display_order
FROM controller_models
WHERE active = TRUE
ORDER BY display_order, slug
`

// ListActiveModels returns all active controller models in display order.
func (q *Queries) ListActiveModels(ctx context.Context) ([]ControllerModel, error) {
	rows, err := q.db.Query(ctx, listActiveModels)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ControllerModel
	for rows.Next() {
		var m ControllerModel
		if err := rows.Scan(&m.ID, &m.Slug, &m.Name, &m.Active, &m.DisplayOrder); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const getModelBySlug = `
SELECT id, slug, name, active, display_order
FROM controller_models
WHERE slug = $1 AND active = TRUE
`

// GetModelBySlug returns one active model; pgx.ErrNoRows when absent.
func (q *Queries) GetModelBySlug(ctx context.Context, slug string) (ControllerModel, error) {
	var m ControllerModel
	err := q.db.QueryRow(ctx, getModelBySlug, slug).
		Scan(&m.ID, &m.Slug, &m.Name, &m.Active, &m.DisplayOrder)
	return m, err
}

const listActiveServices = `
SELECT id, slug, name, base_price, active, display_order
FROM repair_services
WHERE active = TRUE
ORDER BY display_order, slug
`

// ListActiveServices returns the active service catalog in display order.
func (q *Queries) ListActiveServices(ctx context.Context) ([]RepairService, error) {
	rows, err := q.db.Query(ctx, listActiveServices)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RepairService
	for rows.Next() {
		var s RepairService
		if err := rows.Scan(&s.ID, &s.Slug, &s.Name, &s.BasePrice, &s.Active, &s.DisplayOrder); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const listActiveServiceOptions = `
SELECT id, service_id, name, additional_price, active, display_order
FROM service_options
WHERE active = TRUE
ORDER BY service_id, display_order, id
`

// ListActiveServiceOptions returns all active options; the ordering inside one
// service determines the default option for that service.
func (q *Queries) ListActiveServiceOptions(ctx context.Context) ([]ServiceOption, error) {
	rows, err := q.db.Query(ctx, listActiveServiceOptions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ServiceOption
	for rows.Next() {
		var o ServiceOption
		if err := rows.Scan(&o.ID, &o.ServiceID, &o.Name, &o.AdditionalPrice, &o.Active, &o.DisplayOrder); err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

const listOverridesByModel = `
SELECT model_id, target_type, target_id, price
FROM price_overrides
WHERE model_id = $1
`

// ListOverridesByModel returns price overrides for one model.
func (q *Queries) ListOverridesByModel(ctx context.Context, modelID pgtype.UUID) ([]PriceOverride, error) {
	rows, err := q.db.Query(ctx, listOverridesByModel, modelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PriceOverride
	for rows.Next() {
		var o PriceOverride
		if err := rows.Scan(&o.ModelID, &o.TargetType, &o.TargetID, &o.Price); err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

const listActiveComboRules = `
SELECT id, name, description, match_kind, required_service_ids, min_count, discount_type, discount_value, active, display_order
FROM combo_rules
WHERE active = TRUE
ORDER BY display_order, id
`

// ListActiveComboRules returns active combo rules in declaration order, which
// the discount selector relies on for tie-breaking.
func (q *Queries) ListActiveComboRules(ctx context.Context) ([]ComboRule, error) {
	rows, err := q.db.Query(ctx, listActiveComboRules)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ComboRule
	for rows.Next() {
		var c ComboRule
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.MatchKind, &c.RequiredServiceIDs,
			&c.MinCount, &c.DiscountType, &c.DiscountValue, &c.Active, &c.DisplayOrder); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// ErrNoRows re-exports pgx.ErrNoRows so callers outside the db package do not
// need a direct pgx import for the common not-found check.
var ErrNoRows = pgx.ErrNoRows
