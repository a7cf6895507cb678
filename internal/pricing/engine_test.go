package pricing_test

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-repair/internal/pricing"
)

var (
	modelDualsense = uuidMust("11111111-1111-1111-1111-111111111111")
	modelJoycon    = uuidMust("11111111-1111-1111-1111-222222222222")

	svcHallEffect = uuidMust("22222222-2222-2222-2222-111111111111")
	svcClicky     = uuidMust("22222222-2222-2222-2222-222222222222")
	svcBackBtn    = uuidMust("22222222-2222-2222-2222-333333333333")

	optBasic   = uuidMust("33333333-3333-3333-3333-111111111111")
	optPremium = uuidMust("33333333-3333-3333-3333-222222222222")

	comboPair      = uuidMust("44444444-4444-4444-4444-111111111111")
	comboThreshold = uuidMust("44444444-4444-4444-4444-222222222222")
)

// testSnapshot mirrors the shop's demo catalog: hall-effect sticks 25000 with a
// free basic and a +15000 premium option, clicky buttons 25000 overridden to
// 20000 for the dualsense, back buttons 20000, a 10% combo for the stick+button
// pair and a fixed 5000 combo from three services up.
func testSnapshot() *pricing.Snapshot {
	services := []pricing.Service{
		{
			ID: svcHallEffect, Slug: "hall-effect", Name: "Hall effect sticks", BasePrice: 25000, DisplayOrder: 1,
			Options: []pricing.Option{
				{ID: optBasic, ServiceID: svcHallEffect, Name: "Basic", AdditionalPrice: 0},
				{ID: optPremium, ServiceID: svcHallEffect, Name: "Premium", AdditionalPrice: 15000},
			},
		},
		{ID: svcClicky, Slug: "clicky-buttons", Name: "Clicky buttons", BasePrice: 25000, DisplayOrder: 2},
		{ID: svcBackBtn, Slug: "back-buttons", Name: "Back buttons", BasePrice: 20000, DisplayOrder: 3},
	}
	overrides := []pricing.Override{
		{TargetType: pricing.TargetService, TargetID: svcClicky, Price: 20000},
	}
	combos := []pricing.ComboRule{
		{
			ID: comboPair, Name: "Stick + button pair", MatchKind: pricing.MatchExact,
			RequiredServiceIDs: []uuid.UUID{svcHallEffect, svcClicky},
			DiscountType:       pricing.DiscountPercentage, DiscountValue: 10, Active: true,
		},
		{
			ID: comboThreshold, Name: "Full refresh", MatchKind: pricing.MatchCountThreshold,
			MinCount:     3,
			DiscountType: pricing.DiscountFixed, DiscountValue: 5000, Active: true,
		},
	}
	model := pricing.Model{ID: modelDualsense, Slug: "dualsense", Name: "DualSense"}
	return pricing.NewSnapshot(model, services, overrides, combos)
}

func uuidMust(value string) uuid.UUID {
	id, err := uuid.Parse(value)
	if err != nil {
		panic(err)
	}
	return id
}

func TestComputePairComboWithOverride(t *testing.T) {
	snap := testSnapshot()
	sel := pricing.NewSelection()
	mustToggle(t, sel, snap, svcHallEffect)
	mustToggle(t, sel, snap, svcClicky)
	// drop the default option so only the service base prices count
	if err := sel.SelectOption(snap, svcHallEffect, optBasic); err != nil {
		t.Fatalf("select basic option: %v", err)
	}

	result, err := pricing.Compute(snap, sel)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if result.Subtotal != 45000 {
		t.Fatalf("expected subtotal 45000, got %d", result.Subtotal)
	}
	if result.Discount != 4500 {
		t.Fatalf("expected discount 4500, got %d", result.Discount)
	}
	if result.Total != 40500 {
		t.Fatalf("expected total 40500, got %d", result.Total)
	}
	if result.AppliedCombo == nil || result.AppliedCombo.RuleID != comboPair {
		t.Fatalf("expected pair combo applied, got %+v", result.AppliedCombo)
	}
}

func TestComputePicksLargestDiscount(t *testing.T) {
	snap := testSnapshot()
	sel := pricing.NewSelection()
	mustToggle(t, sel, snap, svcHallEffect)
	mustToggle(t, sel, snap, svcClicky)
	mustToggle(t, sel, snap, svcBackBtn)
	if err := sel.SelectOption(snap, svcHallEffect, optBasic); err != nil {
		t.Fatalf("select basic option: %v", err)
	}

	result, err := pricing.Compute(snap, sel)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if result.Subtotal != 65000 {
		t.Fatalf("expected subtotal 65000, got %d", result.Subtotal)
	}
	// pair combo yields floor(65000*10/100)=6500, beating the fixed 5000
	if result.Discount != 6500 {
		t.Fatalf("expected discount 6500, got %d", result.Discount)
	}
	if result.Total != 58500 {
		t.Fatalf("expected total 58500, got %d", result.Total)
	}
	if result.AppliedCombo == nil || result.AppliedCombo.RuleID != comboPair {
		t.Fatalf("expected pair combo to win, got %+v", result.AppliedCombo)
	}
}

func TestComputeNoComboApplies(t *testing.T) {
	snap := testSnapshot()
	sel := pricing.NewSelection()
	mustToggle(t, sel, snap, svcBackBtn)

	result, err := pricing.Compute(snap, sel)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if result.AppliedCombo != nil {
		t.Fatalf("expected no combo, got %+v", result.AppliedCombo)
	}
	if result.Discount != 0 || result.Total != 20000 {
		t.Fatalf("expected discount 0 total 20000, got %d / %d", result.Discount, result.Total)
	}
}

func TestComputeDefaultAndPremiumOption(t *testing.T) {
	snap := testSnapshot()
	sel := pricing.NewSelection()
	mustToggle(t, sel, snap, svcHallEffect)

	entries := sel.Entries()
	if len(entries) != 1 || entries[0].OptionID != optBasic {
		t.Fatalf("expected default option %s, got %+v", optBasic, entries)
	}

	if err := sel.SelectOption(snap, svcHallEffect, optPremium); err != nil {
		t.Fatalf("select premium: %v", err)
	}
	result, err := pricing.Compute(snap, sel)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(result.LineItems) != 1 {
		t.Fatalf("expected one line item, got %d", len(result.LineItems))
	}
	item := result.LineItems[0]
	if item.UnitPrice != 25000 || item.OptionPrice != 15000 {
		t.Fatalf("expected 25000/15000, got %d/%d", item.UnitPrice, item.OptionPrice)
	}
	if result.Subtotal != 40000 {
		t.Fatalf("expected subtotal 40000, got %d", result.Subtotal)
	}
}

func TestComputeEmptySelection(t *testing.T) {
	snap := testSnapshot()
	result, err := pricing.Compute(snap, pricing.NewSelection())
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if result.Subtotal != 0 || result.Discount != 0 || result.Total != 0 {
		t.Fatalf("expected all-zero result, got %+v", result)
	}
	if len(result.LineItems) != 0 {
		t.Fatalf("expected no line items, got %d", len(result.LineItems))
	}
}

func TestComputeIdempotent(t *testing.T) {
	snap := testSnapshot()
	sel := pricing.NewSelection()
	mustToggle(t, sel, snap, svcHallEffect)
	mustToggle(t, sel, snap, svcClicky)

	first, err := pricing.Compute(snap, sel)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	second, err := pricing.Compute(snap, sel)
	if err != nil {
		t.Fatalf("compute again: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results:\n%+v\n%+v", first, second)
	}
}

func TestOverridesAreScopedPerModel(t *testing.T) {
	// same services, no overrides: the joycon snapshot must keep base prices
	services := []pricing.Service{
		{ID: svcClicky, Slug: "clicky-buttons", Name: "Clicky buttons", BasePrice: 25000},
	}
	joycon := pricing.NewSnapshot(pricing.Model{ID: modelJoycon, Slug: "joycon"}, services, nil, nil)

	sel := pricing.NewSelection()
	mustToggle(t, sel, joycon, svcClicky)
	result, err := pricing.Compute(joycon, sel)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if result.Subtotal != 25000 {
		t.Fatalf("expected base price 25000 without override, got %d", result.Subtotal)
	}

	dualsense := testSnapshot()
	sel2 := pricing.NewSelection()
	mustToggle(t, sel2, dualsense, svcClicky)
	result2, err := pricing.Compute(dualsense, sel2)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if result2.Subtotal != 20000 {
		t.Fatalf("expected override price 20000, got %d", result2.Subtotal)
	}
}

func TestComputeUnknownModel(t *testing.T) {
	if _, err := pricing.Compute(nil, pricing.NewSelection()); err != pricing.ErrUnknownModel {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
	empty := pricing.NewSnapshot(pricing.Model{}, nil, nil, nil)
	if _, err := pricing.Compute(empty, pricing.NewSelection()); err != pricing.ErrUnknownModel {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
}

func mustToggle(t *testing.T, sel *pricing.Selection, snap *pricing.Snapshot, serviceID uuid.UUID) {
	t.Helper()
	if err := sel.ToggleService(snap, serviceID); err != nil {
		t.Fatalf("toggle %s: %v", serviceID, err)
	}
}
