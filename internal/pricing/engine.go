package pricing

import (
	"fmt"

	"github.com/google/uuid"
)

// ComboApplication is the applied-combo section of a pricing result.
type ComboApplication struct {
	RuleID         uuid.UUID `json:"ruleId"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	DiscountAmount Money     `json:"discountAmount"`
}

// Result is the full pricing breakdown for one selection. It is produced fresh
// on every computation and never mutated afterwards.
type Result struct {
	ModelID      uuid.UUID         `json:"modelId"`
	LineItems    []LineItem        `json:"lineItems"`
	Subtotal     Money             `json:"subtotal"`
	AppliedCombo *ComboApplication `json:"appliedCombo,omitempty"`
	Discount     Money             `json:"discount"`
	Total        Money             `json:"total"`
}

// Compute prices the selection against the snapshot: resolve effective prices,
// accumulate the subtotal, match combo rules, apply the single best discount.
// It is pure and deterministic; identical inputs always produce an identical
// result. Invalid input is reported, never coerced.
func Compute(snap *Snapshot, sel *Selection) (Result, error) {
	if snap == nil || snap.Model.ID == uuid.Nil {
		return Result{}, ErrUnknownModel
	}
	items, subtotal, err := Accumulate(snap, sel)
	if err != nil {
		return Result{}, fmt.Errorf("accumulate: %w", err)
	}
	result := Result{
		ModelID:   snap.Model.ID,
		LineItems: items,
		Subtotal:  subtotal,
		Total:     subtotal,
	}
	applicable := ApplicableCombos(snap.Combos, sel.ServiceIDs())
	if applied := PickDiscount(applicable, subtotal); applied != nil && applied.Amount > 0 {
		result.AppliedCombo = &ComboApplication{
			RuleID:         applied.Rule.ID,
			Name:           applied.Rule.Name,
			Description:    applied.Rule.Description,
			DiscountAmount: applied.Amount,
		}
		result.Discount = applied.Amount
		result.Total = subtotal - applied.Amount
	}
	return result, nil
}
