package pricing

import "github.com/google/uuid"

// LineItem is the priced form of one selection entry.
type LineItem struct {
	ServiceID   uuid.UUID  `json:"serviceId"`
	OptionID    *uuid.UUID `json:"optionId,omitempty"`
	UnitPrice   Money      `json:"unitPrice"`
	OptionPrice Money      `json:"optionPrice"`
}

// Accumulate resolves every selection entry into a line item and sums the
// subtotal in minor units. An empty selection yields an empty item list and a
// zero subtotal, which is a valid result.
func Accumulate(snap *Snapshot, sel *Selection) ([]LineItem, Money, error) {
	entries := sel.Entries()
	items := make([]LineItem, 0, len(entries))
	var subtotal Money
	for _, entry := range entries {
		unitPrice, err := snap.EffectivePrice(TargetService, entry.ServiceID)
		if err != nil {
			return nil, 0, err
		}
		item := LineItem{ServiceID: entry.ServiceID, UnitPrice: unitPrice}
		if entry.OptionID != uuid.Nil {
			optionPrice, err := snap.EffectivePrice(TargetOption, entry.OptionID)
			if err != nil {
				return nil, 0, err
			}
			optionID := entry.OptionID
			item.OptionID = &optionID
			item.OptionPrice = optionPrice
		}
		subtotal += item.UnitPrice + item.OptionPrice
		items = append(items, item)
	}
	return items, subtotal, nil
}
