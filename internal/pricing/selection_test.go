package pricing_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/noah-isme/backend-repair/internal/pricing"
)

func TestToggleRemovesOptionEntry(t *testing.T) {
	snap := testSnapshot()
	sel := pricing.NewSelection()
	mustToggle(t, sel, snap, svcHallEffect)
	if err := sel.SelectOption(snap, svcHallEffect, optPremium); err != nil {
		t.Fatalf("select premium: %v", err)
	}

	mustToggle(t, sel, snap, svcHallEffect)
	if sel.Len() != 0 {
		t.Fatalf("expected empty selection after toggle off, got %d entries", sel.Len())
	}
	if sel.Selected(svcHallEffect) {
		t.Fatal("service still reported as selected")
	}

	// selecting an option for the now-deselected service must be rejected
	err := sel.SelectOption(snap, svcHallEffect, optPremium)
	if !errors.Is(err, pricing.ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection, got %v", err)
	}
}

func TestToggleKeepsInsertionOrder(t *testing.T) {
	snap := testSnapshot()
	sel := pricing.NewSelection()
	mustToggle(t, sel, snap, svcBackBtn)
	mustToggle(t, sel, snap, svcHallEffect)
	mustToggle(t, sel, snap, svcClicky)
	mustToggle(t, sel, snap, svcHallEffect) // deselect the middle entry

	got := sel.ServiceIDs()
	want := []uuid.UUID{svcBackBtn, svcClicky}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order mismatch at %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestToggleServiceWithoutOptions(t *testing.T) {
	snap := testSnapshot()
	sel := pricing.NewSelection()
	mustToggle(t, sel, snap, svcClicky)

	entries := sel.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].OptionID != uuid.Nil {
		t.Fatalf("expected no default option, got %s", entries[0].OptionID)
	}
}

func TestToggleUnknownService(t *testing.T) {
	snap := testSnapshot()
	sel := pricing.NewSelection()
	err := sel.ToggleService(snap, uuidMust("99999999-9999-9999-9999-999999999999"))
	if !errors.Is(err, pricing.ErrUnknownCatalogReference) {
		t.Fatalf("expected ErrUnknownCatalogReference, got %v", err)
	}
}

func TestSelectOptionOfOtherService(t *testing.T) {
	snap := testSnapshot()
	sel := pricing.NewSelection()
	mustToggle(t, sel, snap, svcClicky)

	err := sel.SelectOption(snap, svcClicky, optPremium)
	if !errors.Is(err, pricing.ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection for foreign option, got %v", err)
	}

	err = sel.SelectOption(snap, svcClicky, uuidMust("88888888-8888-8888-8888-888888888888"))
	if !errors.Is(err, pricing.ErrUnknownCatalogReference) {
		t.Fatalf("expected ErrUnknownCatalogReference, got %v", err)
	}
}
