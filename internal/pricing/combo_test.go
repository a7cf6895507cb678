package pricing_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-repair/internal/pricing"
)

func TestApplicableCombosSubsetMatch(t *testing.T) {
	rule := pricing.ComboRule{
		ID: comboPair, MatchKind: pricing.MatchExact,
		RequiredServiceIDs: []uuid.UUID{svcHallEffect, svcClicky},
		Active:             true,
	}

	// superset selection still matches
	got := pricing.ApplicableCombos([]pricing.ComboRule{rule}, []uuid.UUID{svcHallEffect, svcClicky, svcBackBtn})
	if len(got) != 1 {
		t.Fatalf("expected superset match, got %d rules", len(got))
	}

	// missing one required service disqualifies
	got = pricing.ApplicableCombos([]pricing.ComboRule{rule}, []uuid.UUID{svcHallEffect, svcBackBtn})
	if len(got) != 0 {
		t.Fatalf("expected no match, got %d rules", len(got))
	}
}

func TestApplicableCombosCountThreshold(t *testing.T) {
	rule := pricing.ComboRule{ID: comboThreshold, MatchKind: pricing.MatchCountThreshold, MinCount: 3, Active: true}

	got := pricing.ApplicableCombos([]pricing.ComboRule{rule}, []uuid.UUID{svcHallEffect, svcClicky})
	if len(got) != 0 {
		t.Fatalf("expected below-threshold selection to miss, got %d rules", len(got))
	}

	got = pricing.ApplicableCombos([]pricing.ComboRule{rule}, []uuid.UUID{svcHallEffect, svcClicky, svcBackBtn})
	if len(got) != 1 {
		t.Fatalf("expected threshold match, got %d rules", len(got))
	}
}

func TestApplicableCombosSkipsInactive(t *testing.T) {
	rule := pricing.ComboRule{ID: comboThreshold, MatchKind: pricing.MatchCountThreshold, MinCount: 1, Active: false}
	got := pricing.ApplicableCombos([]pricing.ComboRule{rule}, []uuid.UUID{svcHallEffect})
	if len(got) != 0 {
		t.Fatalf("expected inactive rule to be skipped, got %d rules", len(got))
	}
}

func TestApplicableCombosPreservesDeclarationOrder(t *testing.T) {
	rules := []pricing.ComboRule{
		{ID: comboThreshold, MatchKind: pricing.MatchCountThreshold, MinCount: 1, Active: true},
		{ID: comboPair, MatchKind: pricing.MatchExact, RequiredServiceIDs: []uuid.UUID{svcHallEffect}, Active: true},
	}
	got := pricing.ApplicableCombos(rules, []uuid.UUID{svcHallEffect})
	if len(got) != 2 || got[0].ID != comboThreshold || got[1].ID != comboPair {
		t.Fatalf("expected declaration order preserved, got %+v", got)
	}
}

func TestApplicableCombosNonPositiveMinCount(t *testing.T) {
	// A threshold rule without a positive min count is misconfigured and
	// must never fire, not fire for every selection.
	for _, minCount := range []int{0, -1} {
		rule := pricing.ComboRule{ID: comboThreshold, MatchKind: pricing.MatchCountThreshold, MinCount: minCount, Active: true}
		got := pricing.ApplicableCombos([]pricing.ComboRule{rule}, []uuid.UUID{svcHallEffect, svcClicky})
		if len(got) != 0 {
			t.Fatalf("minCount=%d: expected no match, got %d rules", minCount, len(got))
		}
	}
}

func TestApplicableCombosEmptyExactRule(t *testing.T) {
	rule := pricing.ComboRule{ID: comboPair, MatchKind: pricing.MatchExact, Active: true}
	got := pricing.ApplicableCombos([]pricing.ComboRule{rule}, []uuid.UUID{svcHallEffect})
	if len(got) != 0 {
		t.Fatalf("expected exact rule without requirements to never match, got %d", len(got))
	}
}
