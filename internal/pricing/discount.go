package pricing

// AppliedCombo names the single winning rule and its monetary effect.
type AppliedCombo struct {
	Rule   ComboRule
	Amount Money
}

// PickDiscount selects the rule yielding the largest discount for the given
// subtotal, or nil when no rule applies. Amounts tie-break on declaration
// order: the scan keeps the first rule seen and only a strictly larger amount
// replaces it. Discounts never combine; at most one rule wins.
func PickDiscount(applicable []ComboRule, subtotal Money) *AppliedCombo {
	var best *AppliedCombo
	for _, rule := range applicable {
		amount := discountAmount(rule, subtotal)
		if best == nil || amount > best.Amount {
			best = &AppliedCombo{Rule: rule, Amount: amount}
		}
	}
	return best
}

// discountAmount computes the rule's discount clamped to [0, subtotal] so a
// large fixed discount can never push the total negative.
func discountAmount(rule ComboRule, subtotal Money) Money {
	var amount Money
	switch rule.DiscountType {
	case DiscountPercentage:
		amount = subtotal * rule.DiscountValue / 100
	case DiscountFixed:
		amount = rule.DiscountValue
	}
	if amount > subtotal {
		amount = subtotal
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}
