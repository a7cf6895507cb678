package pricing

import "github.com/google/uuid"

// ApplicableCombos returns the active rules satisfied by the selected service
// ids, preserving catalog declaration order. Exact rules match as subsets:
// extra selected services never disqualify a rule.
func ApplicableCombos(rules []ComboRule, selected []uuid.UUID) []ComboRule {
	selectedSet := make(map[uuid.UUID]struct{}, len(selected))
	for _, id := range selected {
		selectedSet[id] = struct{}{}
	}
	var applicable []ComboRule
	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		if ruleSatisfied(rule, selectedSet, len(selected)) {
			applicable = append(applicable, rule)
		}
	}
	return applicable
}

func ruleSatisfied(rule ComboRule, selected map[uuid.UUID]struct{}, count int) bool {
	switch rule.MatchKind {
	case MatchExact:
		if len(rule.RequiredServiceIDs) == 0 {
			return false
		}
		for _, required := range rule.RequiredServiceIDs {
			if _, ok := selected[required]; !ok {
				return false
			}
		}
		return true
	case MatchCountThreshold:
		return rule.MinCount > 0 && count >= rule.MinCount
	default:
		return false
	}
}
