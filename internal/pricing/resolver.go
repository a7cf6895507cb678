package pricing

import (
	"fmt"

	"github.com/google/uuid"
)

// EffectivePrice resolves the price actually charged for a catalog item: a
// per-model override when one exists, the catalog base price otherwise.
func (s *Snapshot) EffectivePrice(target TargetType, id uuid.UUID) (Money, error) {
	if price, ok := s.overrides[overrideKey{targetType: target, targetID: id}]; ok {
		return price, nil
	}
	switch target {
	case TargetService:
		svc, ok := s.servicesByID[id]
		if !ok {
			return 0, fmt.Errorf("service %s: %w", id, ErrUnknownCatalogReference)
		}
		return svc.BasePrice, nil
	case TargetOption:
		opt, ok := s.optionsByID[id]
		if !ok {
			return 0, fmt.Errorf("option %s: %w", id, ErrUnknownCatalogReference)
		}
		return opt.AdditionalPrice, nil
	default:
		return 0, fmt.Errorf("target type %q: %w", target, ErrUnknownCatalogReference)
	}
}
